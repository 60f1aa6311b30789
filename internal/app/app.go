package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/arashpm/user-service/internal/config"
	"github.com/arashpm/user-service/internal/handler"
	"github.com/arashpm/user-service/internal/repository"
	"github.com/arashpm/user-service/internal/service"
	"github.com/arashpm/user-service/internal/token"
	"github.com/arashpm/user-service/pkg/observability"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const (
	shutdownTimeout      = 5 * time.Second
	tokenCleanupInterval = time.Hour
)

type App struct {
	infra  Infrastructure
	config *config.Config
	router *gin.Engine
	server *http.Server
	repos  *repository.Repositories
}

// NewApp wires the application. Key resolution happens here and is the
// single startup step allowed to be fatal: without a complete key pair
// no authentication endpoint may be served.
func NewApp(infra Infrastructure, cfg *config.Config) (*App, error) {
	keys, err := token.ResolveKeys(
		cfg.JWT.ProdPrivateKey,
		cfg.JWT.ProdPublicKey,
		cfg.JWT.DevPrivateKey,
		cfg.JWT.DevPublicKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve signing keys: %w", err)
	}

	infra.Logger().Info("Signing keys resolved",
		zap.String("source", string(keys.Source())),
	)

	codec := token.NewCodec(keys, cfg.JWT.Issuer, cfg.JWT.Audience)
	issuer := token.NewIssuer(codec,
		cfg.JWT.AccessTokenExpiry.Duration,
		cfg.JWT.RefreshTokenExpiry.Duration,
	)

	repos := repository.NewRepositories(infra.Postgres())
	revocations := service.NewRedisRevocationRegistry(infra.Redis())
	rateLimiter := service.NewRateLimiter(infra.Redis())
	healthChecker := NewHealthChecker(infra)

	authService := service.NewAuthService(
		repos.User,
		repos.Token,
		codec,
		issuer,
		revocations,
		cfg.Security.BCryptCost,
		cfg.JWT.RotateRefresh,
	)
	userService := service.NewUserService(repos.User, cfg.Security.BCryptCost)

	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService)

	router := gin.Default()
	router.Use(otelgin.Middleware("user-service"))
	router.Use(handler.LoggerMiddleware(infra.Logger()))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	setupRoutes(router, cfg, authHandler, userHandler, authService, userService, rateLimiter, healthChecker, infra.MetricsHandler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:  infra,
		config: cfg,
		router: router,
		server: srv,
		repos:  repos,
	}, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	authService service.AuthService,
	userService service.UserService,
	rateLimiter *service.RateLimiter,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)

	authenticated := handler.AuthMiddleware(authService)
	staffOnly := handler.StaffMiddleware(userService)

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register",
				handler.RateLimitMiddleware(rateLimiter, cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow.Duration, handler.IPBasedKey),
				authHandler.Register,
			)
			auth.POST("/login",
				handler.RateLimitMiddleware(rateLimiter, cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow.Duration, handler.IPBasedKey),
				authHandler.Login,
			)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", authenticated, authHandler.Logout)
			auth.POST("/decode", authHandler.Decode)
			auth.GET("/me", authenticated, authHandler.GetMe)
		}

		users := api.Group("/users")
		{
			users.GET("/me", authenticated, userHandler.GetProfile)
			users.PATCH("/me", authenticated, userHandler.UpdateProfile)
			users.POST("/me/password", authenticated, userHandler.ChangePassword)

			users.GET("", authenticated, staffOnly, userHandler.ListUsers)
			users.GET("/:id", authenticated, staffOnly, userHandler.GetUser)
			users.PATCH("/:id", authenticated, staffOnly, userHandler.UpdateUser)
			users.DELETE("/:id", authenticated, staffOnly, userHandler.DeleteUser)
		}
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go a.cleanupExpiredTokens(ctx)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

// cleanupExpiredTokens periodically deletes refresh token records whose
// tokens have expired. Expired tokens already fail verification; this
// only keeps the table from growing unbounded.
func (a *App) cleanupExpiredTokens(ctx context.Context) {
	ticker := time.NewTicker(tokenCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := a.repos.Token.DeleteExpired(ctx); err != nil {
				a.infra.Logger().Error("Failed to delete expired refresh tokens", zap.Error(err))
			}
		}
	}
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := make(chan error, 2)

	go func() {
		errs <- a.server.Shutdown(ctx)
	}()

	go func() {
		errs <- a.infra.Shutdown(ctx)
	}()

	err := errors.Join(<-errs, <-errs)
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
