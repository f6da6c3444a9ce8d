package api

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/feedbackhub/portal/docs"
	"github.com/feedbackhub/portal/internal/api/handler"
	"github.com/feedbackhub/portal/internal/api/middleware"
	"github.com/feedbackhub/portal/internal/api/session"
	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/ports"
)

// Dependencies is everything the router wires into handlers.
type Dependencies struct {
	Log         zerolog.Logger
	Tokens      ports.TokenService
	Auth        ports.AuthService
	Feedback    ports.FeedbackService
	Suggestions ports.SuggestionService

	// Readiness checks run by GET /health/ready, keyed by dependency name.
	Readiness map[string]handler.Check

	// Renderer and Assets serve the browser pages. Pages are not registered
	// when Renderer is nil.
	Renderer echo.Renderer
	Assets   fs.FS

	// UploadDir is served at UploadURLPrefix when images are stored locally.
	UploadDir       string
	UploadURLPrefix string

	SecureCookies bool
	LoginRate     float64
	LoginBurst    int

	// Metrics replaces the default Prometheus registry when set.
	Metrics *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)
	if deps.Renderer != nil {
		e.Renderer = deps.Renderer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Metrics != nil {
		registerer, gatherer = deps.Metrics, deps.Metrics
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "feedback_portal",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// The gate sees every request, including ones that match no route, and
	// skips its own bypass prefixes.
	e.Use(middleware.Gate(deps.SecureCookies, deps.Log))

	// --- Operational endpoints (no auth required) ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(deps.Readiness).Readiness)

	if deps.Assets != nil {
		e.StaticFS("/static", deps.Assets)
	}
	if deps.UploadDir != "" {
		prefix := deps.UploadURLPrefix
		if prefix == "" {
			prefix = "/uploads"
		}
		e.Static(prefix, deps.UploadDir)
	}

	// --- API ---
	cookies := session.NewCookies(deps.SecureCookies)
	requireSession := middleware.RequireSession(deps.Tokens)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	apiGroup := e.Group("/api", echomiddleware.BodyLimit("6M"))

	authHandler := handler.NewAuthHandler(deps.Auth, cookies)
	auth := apiGroup.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login, loginLimiter(deps.LoginRate, deps.LoginBurst))
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me, requireSession)

	feedbackHandler := handler.NewFeedbackHandler(deps.Feedback)
	feedback := apiGroup.Group("/feedback", requireSession)
	feedback.GET("", feedbackHandler.ListOwn)
	feedback.POST("", feedbackHandler.Create)
	feedback.GET("/all", feedbackHandler.ListAll, adminOnly)
	feedback.POST("/:id/respond", feedbackHandler.Respond, adminOnly)

	suggestionHandler := handler.NewSuggestionHandler(deps.Suggestions)
	apiGroup.POST("/ai/suggestion", suggestionHandler.Suggest, requireSession, adminOnly)

	// --- Pages ---
	if deps.Renderer != nil {
		pages := handler.NewPageHandler()
		e.GET("/", pages.Home)
		e.GET("/login", pages.Login)
		e.GET("/signup", pages.Signup)
		e.GET("/dashboard", pages.Dashboard)
		e.GET("/admin", pages.Admin)
	}

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

// loginLimiter throttles login attempts per client IP.
func loginLimiter(perSecond float64, burst int) echo.MiddlewareFunc {
	if perSecond <= 0 {
		perSecond = 1
	}
	if burst <= 0 {
		burst = 5
	}
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "unable to identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts, try again later")
		},
	})
}
