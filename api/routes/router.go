package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storyboard-backend/api/controllers"
	"github.com/angelmondragon/storyboard-backend/api/middleware"
	"github.com/angelmondragon/storyboard-backend/internal/auth"
	"github.com/angelmondragon/storyboard-backend/internal/export"
	"github.com/angelmondragon/storyboard-backend/internal/media"
	"github.com/angelmondragon/storyboard-backend/internal/projects"
	"github.com/angelmondragon/storyboard-backend/internal/sharing"
	"github.com/angelmondragon/storyboard-backend/pkg/config"
	"github.com/angelmondragon/storyboard-backend/pkg/logger"
	"github.com/angelmondragon/storyboard-backend/pkg/redis"
)

// Services bundles the domain services the router exposes.
type Services struct {
	Auth     auth.Service
	Projects projects.Service
	Media    media.Service
	Sharing  sharing.Service
	Export   export.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	storePinger controllers.Pinger,
	blobPinger controllers.Pinger,
	redisClient *redis.Client,
	metricsHandler http.Handler,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.OptionalAuth(cfg.JWT, logg),
	)

	// A nil *redis.Client must not reach the interfaces below as a typed nil.
	var limiter middleware.RateLimiter
	readyDeps := map[string]controllers.Pinger{
		"store": storePinger,
		"media": blobPinger,
	}
	if redisClient != nil {
		limiter = redisClient
		readyDeps["redis"] = redisClient
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Get("/test", controllers.Test())
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readyDeps))
	})
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, limiter, logg)).Post("/register", controllers.AuthRegister(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, limiter, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.Post("/google", controllers.AuthGoogle(svcs.Auth, logg))
	})

	r.Route("/projects", func(r chi.Router) {
		r.Post("/", controllers.ProjectCreate(svcs.Projects, logg))
		r.Get("/", controllers.ProjectList(svcs.Projects, logg))
		r.Get("/{projectID}", controllers.ProjectGet(svcs.Projects, logg))
		r.Put("/{projectID}", controllers.ProjectUpdate(svcs.Projects, logg))
		r.Delete("/{projectID}", controllers.ProjectDelete(svcs.Projects, logg))
	})

	r.Route("/media", func(r chi.Router) {
		r.Post("/upload", controllers.MediaUpload(svcs.Media, cfg.Media.MaxUploadBytes(), logg))
		r.Get("/", controllers.MediaList(svcs.Media, logg))
	})

	r.Route("/share", func(r chi.Router) {
		r.Post("/", controllers.ShareCreate(svcs.Sharing, logg))
		r.Get("/{token}", controllers.ShareResolve(svcs.Sharing, logg))
	})

	r.Post("/export", controllers.Export(svcs.Export, logg))

	return r
}
