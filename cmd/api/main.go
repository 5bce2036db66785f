package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/erp-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/erp-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/erp-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/erp-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/erp-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/erp-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/erp-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/erp-backend-go/internal/service/auth"
	departmentService "github.com/cmlabs-hris/erp-backend-go/internal/service/department"
	employeeService "github.com/cmlabs-hris/erp-backend-go/internal/service/employee"
	payrollService "github.com/cmlabs-hris/erp-backend-go/internal/service/payroll"
	"github.com/go-chi/httplog/v3"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(!cfg.App.IsProduction())
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.App.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	transactor := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	providerService := oauth.NewProviderService(oauth.Config{
		ClientID:     cfg.OAuth2.ClientID,
		ClientSecret: cfg.OAuth2.ClientSecret,
		RedirectURL:  cfg.OAuth2.RedirectURL,
		Scopes:       cfg.OAuth2.Scopes,
		AuthURL:      cfg.OAuth2.AuthURL,
		TokenURL:     cfg.OAuth2.TokenURL,
		UserInfoURL:  cfg.OAuth2.UserInfoURL,
	})

	authService := serviceAuth.NewAuthService(transactor, userRepo, JWTService)
	attendanceSvc := attendanceService.NewAttendanceService(transactor, attendanceRepo, userRepo, cfg.Attendance.Policy())
	payrollSvc := payrollService.NewPayrollService(transactor, payrollRepo, userRepo)
	employeeSvc := employeeService.NewEmployeeService(transactor, employeeRepo, departmentRepo, userRepo)
	departmentSvc := departmentService.NewDepartmentService(transactor, departmentRepo, userRepo)

	authHandler := appHTTP.NewAuthHandler(authService, providerService, cfg.App.IsProduction())
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)
	departmentHandler := appHTTP.NewDepartmentHandler(departmentSvc)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			AppName:        cfg.App.Name,
			Version:        cfg.App.Version,
			Env:            cfg.App.Env,
			AllowedOrigins: cfg.App.AllowedOrigins,
			LogLevel:       cfg.App.SlogLevel(),
		},
		JWTService,
		authHandler,
		attendanceHandler,
		payrollHandler,
		employeeHandler,
		departmentHandler,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
