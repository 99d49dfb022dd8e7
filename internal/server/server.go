package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"example.com/syncscript/backend/internal/auth"
	"example.com/syncscript/backend/internal/config"
	"example.com/syncscript/backend/internal/events"
	"example.com/syncscript/backend/internal/handlers"
	"example.com/syncscript/backend/internal/metrics"
	"example.com/syncscript/backend/internal/notifications"
	"example.com/syncscript/backend/internal/providers"
	"example.com/syncscript/backend/internal/repository"
)

// New собирает HTTP-сервер Echo с роутами и зависимостями.
func New(cfg config.Config, logger *slog.Logger, db *pgxpool.Pool, publisher *events.Publisher, m *metrics.Metrics) *echo.Echo {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	e.Use(m.Middleware())

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	energyRepo := repository.NewEnergyRepository(db)
	bandRepo := repository.NewBandRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	notificationHub := notifications.NewHub()

	weather := providers.NewSimulatedWeather(cfg.Providers.Seed, cfg.Providers.Latency)
	travel := providers.NewSimulatedTravel(cfg.Providers.Seed, cfg.Providers.Latency)

	authHandler := handlers.NewAuthHandler(userRepo, tokenRepo, tokenManager)
	taskHandler := handlers.NewTaskHandler(taskRepo, templateRepo, notificationHub, publisher, m)
	projectHandler := handlers.NewProjectHandler(projectRepo, taskRepo)
	energyHandler := handlers.NewEnergyHandler(energyRepo, notificationHub, publisher, m)
	bandHandler := handlers.NewBandHandler(bandRepo)
	goalHandler := handlers.NewGoalHandler(goalRepo, notificationHub, publisher)
	templateHandler := handlers.NewTemplateHandler(templateRepo)
	suggestionHandler := handlers.NewSuggestionHandler(taskRepo, energyRepo, bandRepo, weather, travel, m)
	briefingHandler := handlers.NewBriefingHandler(taskRepo, energyRepo, goalRepo, weather)
	notificationHandler := handlers.NewNotificationHandler(notificationHub, m)

	registerRoutes(
		e,
		authHandler,
		taskHandler,
		projectHandler,
		energyHandler,
		bandHandler,
		goalHandler,
		templateHandler,
		suggestionHandler,
		briefingHandler,
		notificationHandler,
		m,
		auth.JWTMiddleware(tokenManager),
		rateLimiter(cfg.Auth.RateLimitPerMinute, cfg.Auth.RateLimitBurst),
		rateLimiter(cfg.Providers.RateLimitPerMinute, cfg.Providers.RateLimitBurst),
	)

	return e
}

// NewHTTPServer создает net/http сервер с заданными таймаутами.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote_ip", v.RemoteIP),
				slog.Duration("latency", v.Latency),
			}

			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}

			msg := "request completed"
			if v.Status >= http.StatusInternalServerError {
				logger.LogAttrs(c.Request().Context(), slog.LevelError, msg, attrs...)
				return nil
			}

			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, msg, attrs...)
			return nil
		},
	})
}

func rateLimiter(perMinute, burst int) echo.MiddlewareFunc {
	limit := rate.Limit(float64(perMinute) / 60.0)
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      limit,
		Burst:     burst,
		ExpiresIn: time.Minute,
	})

	return middleware.RateLimiter(store)
}
