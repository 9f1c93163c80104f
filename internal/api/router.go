package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/meetgate/meetgate/internal/api/handler"
	"github.com/meetgate/meetgate/internal/api/middleware"
	"github.com/meetgate/meetgate/internal/core/ports"
)

// Dependencies carries everything the router needs. Services are wired in
// main so tests can assemble routers around stubs.
type Dependencies struct {
	Auth      ports.AuthService
	Signup    ports.SignupService
	Accounts  ports.AccountService
	Meetings  ports.MeetingService
	Roles     ports.RoleResolver
	Mongo     *mongo.Database
	Redis     *redis.Client
	JWTSecret string
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("meetgate"))

	authMiddleware := middleware.Auth(deps.JWTSecret, deps.Roles)
	adminLike := middleware.AdminLike()
	registered := middleware.Registered()

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	signupHandler := handler.NewSignupHandler(deps.Signup)
	accountHandler := handler.NewAccountHandler(deps.Accounts)
	meetingHandler := handler.NewMeetingHandler(deps.Meetings)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, authMiddleware)

	// --- Signup requests ---
	e.POST("/v1/signup-requests", signupHandler.Submit) // public application form
	requests := e.Group("/v1/signup-requests", authMiddleware, adminLike)
	requests.GET("", signupHandler.List)
	requests.GET("/:id", signupHandler.Get)
	requests.POST("/:id/approve", signupHandler.Approve)
	requests.POST("/:id/reject", signupHandler.Reject)
	requests.POST("/:id/reset", signupHandler.Reset)

	// --- Account administration ---
	accounts := e.Group("/v1/accounts", authMiddleware, adminLike)
	accounts.GET("", accountHandler.List)
	accounts.GET("/roles", accountHandler.AvailableRoles)
	accounts.PUT("/:id/role", accountHandler.ChangeRole)
	accounts.POST("/:id/toggle", accountHandler.ToggleActive)
	accounts.DELETE("/:id", accountHandler.Delete)

	// --- Meetings ---
	e.POST("/v1/meetings", meetingHandler.Create, authMiddleware, registered)
	e.GET("/v1/meetings", meetingHandler.List, authMiddleware)
	e.GET("/v1/meetings/:id", meetingHandler.Get, authMiddleware)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness) // checks mongo and redis

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
