package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	redisclient "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"

	_ "github.com/grievance-redressal/student-portal/docs"
	"github.com/grievance-redressal/student-portal/internal/api/handler"
	"github.com/grievance-redressal/student-portal/internal/api/middleware"
	"github.com/grievance-redressal/student-portal/internal/core/ports"
	"github.com/grievance-redressal/student-portal/internal/core/service"
	"github.com/grievance-redressal/student-portal/internal/gateway"
	"github.com/grievance-redressal/student-portal/internal/infrastructure/cache"
	"github.com/grievance-redressal/student-portal/internal/infrastructure/db/redis"
	"github.com/grievance-redressal/student-portal/internal/infrastructure/queue"
)

// Options carries the dependencies NewRouter wires together.
type Options struct {
	Redis      *redisclient.Client
	BackendURL string
	SessionTTL time.Duration
	Logger     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all portal routes
// registered, plus the background refresher it wires up (the caller starts
// and owns its lifecycle).
func NewRouter(opts Options) (*echo.Echo, *queue.Refresher, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("grievance_portal"))

	// --- Dependencies ---
	sessionRepo := redis.NewSessionRepository(opts.Redis, opts.SessionTTL)
	sessionService := service.NewSessionService(sessionRepo, opts.Logger)

	backend, err := gateway.New(opts.BackendURL, sessionRepo, opts.Logger)
	if err != nil {
		return nil, nil, err
	}

	snapshots := cache.NewSnapshotStore(0)
	searchService := service.NewSearchService(backend, snapshots, opts.Logger)
	refresher := queue.NewRefresher(0, searchService, opts.Logger)

	authService := service.NewAuthService(backend, sessionService, opts.Logger)
	grievanceService := service.NewGrievanceService(backend, searchService, opts.Logger)

	authHandler := handler.NewAuthHandler(authService, sessionService, refresher)
	grievanceHandler := handler.NewGrievanceHandler(grievanceService, refresher)
	profileHandler := handler.NewProfileHandler(authService, sessionService)
	searchHandler := handler.NewSearchHandler(searchService)

	// Session hydration covers the portal routes only; health probes, the
	// metrics scrape, and swagger never touch session storage.
	withSession := middleware.WithSession(sessionService)

	// --- Public portal routes ---
	e.GET("/login", authHandler.LoginView, withSession)
	e.POST("/login", authHandler.Login, withSession)
	e.POST("/logout", authHandler.Logout, withSession)

	// --- Guarded routes ---
	g := e.Group("", withSession, middleware.Guard())
	g.GET("/dashboard", grievanceHandler.Dashboard)
	g.GET("/my-grievances", grievanceHandler.List)
	g.GET("/add-grievance", grievanceHandler.CreateView)
	g.POST("/add-grievance", grievanceHandler.Create)
	g.GET("/grievance/:id", grievanceHandler.Detail)
	g.DELETE("/grievance/:id", grievanceHandler.Withdraw)
	g.GET("/officer-profile", grievanceHandler.OfficerProfile)
	g.GET("/profile", profileHandler.View)
	g.GET("/change-password", authHandler.ChangePasswordView)
	g.POST("/change-password", authHandler.ChangePassword)
	g.GET("/preferences", profileHandler.Preferences)
	g.PUT("/preferences", profileHandler.SavePreferences)
	g.GET("/search", searchHandler.Search)

	// Root and unknown paths land on the dashboard; the guard bounces
	// unauthenticated visitors on to /login from there.
	e.GET("/", redirectTo("/dashboard"))
	e.RouteNotFound("/*", redirectTo("/dashboard"))

	// --- Health probes and operational surfaces (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(opts.Redis, opts.BackendURL)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e, refresher, nil
}

// interface checks for the service wiring above
var (
	_ ports.SessionService    = (*service.SessionService)(nil)
	_ ports.AuthService       = (*service.AuthService)(nil)
	_ ports.GrievanceService  = (*service.GrievanceService)(nil)
	_ ports.SearchService     = (*service.SearchService)(nil)
	_ ports.BackendClient     = (*gateway.Client)(nil)
	_ ports.SnapshotWarmer    = (*queue.Refresher)(nil)
	_ ports.SnapshotStore     = (*cache.SnapshotStore)(nil)
	_ ports.SessionRepository = (*redis.SessionRepository)(nil)
	_ gateway.TokenSource     = (*redis.SessionRepository)(nil)
)

func redirectTo(target string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, target)
	}
}
