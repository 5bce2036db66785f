package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/erp-backend-go/internal/domain/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleUserInfoURL is the default profile endpoint.
const GoogleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type ProviderService interface {
	// GenerateState generates a random state string for OAuth2 flows.
	GenerateState() (string, error)
	// RedirectURL generates the OAuth2 redirect URL with a state.
	RedirectURL(state string) string
	// VerifyToken exchanges the code for an OAuth2 token.
	VerifyToken(ctx context.Context, code string) (*oauth2.Token, error)
	// VerifyUser fetches the profile of the token owner.
	VerifyUser(ctx context.Context, token *oauth2.Token) (auth.ProviderProfile, error)
}

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	AuthURL      string // empty uses Google
	TokenURL     string // empty uses Google
	UserInfoURL  string // empty uses Google
}

type providerServiceImpl struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewProviderService(cfg Config) ProviderService {
	endpoint := google.Endpoint
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	userInfoURL := cfg.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = GoogleUserInfoURL
	}

	return &providerServiceImpl{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     endpoint,
		},
		userInfoURL: userInfoURL,
	}
}

// GenerateState generates a random state string for OAuth2 flows.
func (p *providerServiceImpl) GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func (p *providerServiceImpl) RedirectURL(state string) string {
	return p.config.AuthCodeURL(state)
}

func (p *providerServiceImpl) VerifyToken(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	return token, nil
}

func (p *providerServiceImpl) VerifyUser(ctx context.Context, token *oauth2.Token) (auth.ProviderProfile, error) {
	client := p.config.Client(ctx, token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return auth.ProviderProfile{}, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return auth.ProviderProfile{}, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return auth.ProviderProfile{}, fmt.Errorf("user info endpoint returned %d", resp.StatusCode)
	}

	var profile auth.ProviderProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return auth.ProviderProfile{}, fmt.Errorf("failed to decode user info: %w", err)
	}

	if profile.ProviderID == "" || profile.Email == "" {
		return auth.ProviderProfile{}, auth.ErrProviderProfileInvalid
	}

	return profile, nil
}
