package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"client-recovery/internal/config"
	"client-recovery/internal/database"
	"client-recovery/internal/handler"
	"client-recovery/internal/middleware"
)

func New(
	cfg *config.Config,
	db *database.DB,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handler.AuthHandler,
	registryHandler *handler.RegistryHandler,
	timelineHandler *handler.TimelineHandler,
	restorationHandler *handler.RestorationHandler,
	recoveryHandler *handler.RecoveryHandler,
	auditHandler *handler.AuditHandler,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)
	metricsMiddleware := middleware.NewMetricsMiddleware(prometheus.DefaultRegisterer)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(metricsMiddleware.Handler)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Health(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("database unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", authHandler.Login)
			auth.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles("admin")).Post("/register", authHandler.Register)
			auth.Post("/refresh", authHandler.Refresh)
			auth.With(authMiddleware.RequireAuth).Post("/logout", authHandler.Logout)
			auth.With(authMiddleware.RequireAuth).Get("/me", authHandler.Me)
		})

		api.With(authMiddleware.RequireAuth).Get("/deleted-accounts", registryHandler.ListDeleted)
		api.With(authMiddleware.RequireAuth).Get("/clients/{client_id}/timeline", timelineHandler.Get)
		api.With(authMiddleware.RequireAuth).Get("/clients/{client_id}/restoration", restorationHandler.Status)
		api.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles("operator", "admin")).Post("/clients/{client_id}/restore", recoveryHandler.Restore)
		api.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles("admin")).Post("/clients/{client_id}/purge", recoveryHandler.Purge)
		api.With(authMiddleware.RequireAuth).Get("/restorations", restorationHandler.History)
		api.With(authMiddleware.RequireAuth).Get("/restorations/export", restorationHandler.Export)
		api.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles("admin")).Get("/audit", auditHandler.List)
	})

	return r
}
