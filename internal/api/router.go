package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/qa-forum/internal/api/handlers"
	"github.com/baharkarakas/qa-forum/internal/auth"
	"github.com/baharkarakas/qa-forum/internal/config"
	"github.com/baharkarakas/qa-forum/internal/metrics"
	"github.com/baharkarakas/qa-forum/internal/middleware"
	"github.com/baharkarakas/qa-forum/internal/services"
	"github.com/baharkarakas/qa-forum/internal/web"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterDeps struct {
	Cfg      config.Config
	Logger   *slog.Logger
	AuthSvc  *services.AuthService
	ForumSvc *services.ForumService
	Cookie   *auth.SessionCookie
	DB       Pinger
}

func NewRouter(d RouterDeps) http.Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	authH := handlers.NewAuthHandler(d.AuthSvc, d.Cookie)
	contentH := handlers.NewContentHandler(d.ForumSvc)
	sessions := middleware.NewSessionMiddleware(d.AuthSvc, d.Cookie)
	limit := middleware.RateLimit(d.Cfg.AuthRateRPS)

	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, middleware.Logging(d.Logger), middleware.Recover, middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// health & metrics
	r.Get("/health", health(d.DB))
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		// ---------- auth ----------
		r.With(limit).Post("/register", authH.Register)
		r.With(limit).Post("/login", authH.Login)
		r.Post("/logout", authH.Logout)
		r.With(sessions.Load).Get("/check-auth", authH.CheckAuth)

		// ---------- content ----------
		r.Get("/categories", contentH.Categories)
		r.Get("/questions", contentH.Questions)
		r.Get("/questions/{id}", contentH.Question)
		r.With(sessions.Load, middleware.RequireUser("Please login to post a question")).
			Post("/questions", contentH.PostQuestion)
		r.With(sessions.Load, middleware.RequireUser("Please login to post an answer")).
			Post("/answers", contentH.PostAnswer)
	})

	r.Handle("/*", web.Handler())
	return r
}

func health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				slog.WarnContext(r.Context(), "health check failed", "err", err)
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		_, _ = w.Write([]byte("ok"))
	}
}
