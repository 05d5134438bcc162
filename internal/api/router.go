package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/homecare/nursing-api/docs"
	"github.com/homecare/nursing-api/internal/api/handler"
	"github.com/homecare/nursing-api/internal/api/middleware"
	"github.com/homecare/nursing-api/internal/core/domain"
	"github.com/homecare/nursing-api/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer is built from.
// Mongo and Redis are only used by the readiness probe and may be nil.
type Dependencies struct {
	Auth      ports.AuthService
	Tokens    ports.TokenVerifier
	Lifecycle ports.LifecycleService
	Patients  ports.PatientService

	Mongo *mongo.Database
	Redis *redis.Client

	Logger     zerolog.Logger
	LoginRate  float64
	LoginBurst int

	// Registerer and Gatherer default to the prometheus globals.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: deps.Registerer,
		Skipper:    skipInfraPaths,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	patientHandler := handler.NewPatientHandler(deps.Patients)
	requestHandler := handler.NewServiceRequestHandler(deps.Lifecycle)
	requireAuth := middleware.Auth(deps.Tokens)
	clientOnly := middleware.RequireRole(domain.RoleClient)
	nurseOnly := middleware.RequireRole(domain.RoleNurse)

	// --- Auth routes ---
	auth := e.Group("/auth", middleware.LoginRateLimit(deps.LoginRate, deps.LoginBurst))
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// --- Versioned API ---
	v1 := e.Group("/v1", requireAuth)

	patients := v1.Group("/patients", clientOnly)
	patients.POST("", patientHandler.Create)
	patients.GET("", patientHandler.List)

	requests := v1.Group("/service-requests")
	requests.POST("", requestHandler.Create, clientOnly)
	requests.GET("", requestHandler.List)
	requests.GET("/:id", requestHandler.Get)
	requests.GET("/:id/history", requestHandler.History)
	requests.PATCH("/:id/status", requestHandler.UpdateStatus, nurseOnly)
	requests.POST("/:id/payment", requestHandler.CollectPayment, clientOnly)
	requests.POST("/:id/complete", requestHandler.Complete, nurseOnly)
	requests.PUT("/:id/report", requestHandler.FileReport, nurseOnly)

	// --- Health probes (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	if deps.Mongo != nil && deps.Redis != nil {
		e.GET("/health/ready", handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis).Readiness)
	}

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func skipInfraPaths(c echo.Context) bool {
	p := c.Path()
	return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
}

// requestLogger emits one structured line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		Skipper:      skipInfraPaths,
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
