package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/erp-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/erp-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/erp-backend-go/internal/pkg/oauth"
)

const (
	stateCookieName = "oauth_state"
	callbackPath    = "/api/v1/auth/callback"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Callback(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService     auth.AuthService
	providerService oauth.ProviderService
	secureCookies   bool
}

func NewAuthHandler(authService auth.AuthService, providerService oauth.ProviderService, secureCookies bool) AuthHandler {
	return &AuthHandlerImpl{
		authService:     authService,
		providerService: providerService,
		secureCookies:   secureCookies,
	}
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	state, err := a.providerService.GenerateState()
	if err != nil {
		slog.Error("Failed to generate state", "error", err)
		response.InternalServerError(w, "Failed to start login")
		return
	}

	cookie := &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     callbackPath,
		Expires:  time.Now().Add(5 * time.Minute),
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)
	http.Redirect(w, r, a.providerService.RedirectURL(state), http.StatusTemporaryRedirect)
}

// Callback implements AuthHandler.
func (a *AuthHandlerImpl) Callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if errorValue := query.Get("error"); errorValue != "" {
		slog.Error("Error in OAuth callback", "error", errorValue)
		if errorValue == "access_denied" {
			response.HandleError(w, auth.ErrAccessDeniedByUser)
			return
		}
		response.BadRequest(w, errorValue, nil)
		return
	}

	stateReq, err := r.Cookie(stateCookieName)
	if err != nil || stateReq.Value == "" {
		slog.Error("State cookie is empty", "error", auth.ErrStateCookieEmpty)
		response.HandleError(w, auth.ErrStateCookieEmpty)
		return
	}

	stateParam := query.Get("state")
	if stateParam == "" {
		slog.Error("State parameter is empty", "error", auth.ErrStateParamEmpty)
		response.HandleError(w, auth.ErrStateParamEmpty)
		return
	}

	if stateParam != stateReq.Value {
		slog.Error("State mismatch", "error", auth.ErrStateMismatch)
		response.HandleError(w, auth.ErrStateMismatch)
		return
	}

	code := query.Get("code")
	if code == "" {
		slog.Error("Code value is empty", "error", auth.ErrCodeValueEmpty)
		response.HandleError(w, auth.ErrCodeValueEmpty)
		return
	}

	// The state is single use
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     callbackPath,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	token, err := a.providerService.VerifyToken(r.Context(), code)
	if err != nil {
		slog.Error("Failed to verify token", "error", err)
		response.Unauthorized(w, "Token verification failed")
		return
	}

	profile, err := a.providerService.VerifyUser(r.Context(), token)
	if err != nil {
		slog.Error("Failed to verify user", "error", err)
		response.HandleError(w, auth.ErrProviderProfileInvalid)
		return
	}

	tokenResponse, err := a.authService.LoginWithProvider(r.Context(), profile)
	if err != nil {
		slog.Error("Failed to login with provider", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("User logged in successfully via OAuth", "user_id", tokenResponse.User.ID)
	response.SuccessWithMessage(w, "Login successful", tokenResponse)
}

// Me implements AuthHandler.
func (a *AuthHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	me, err := a.authService.Me(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, me)
}
