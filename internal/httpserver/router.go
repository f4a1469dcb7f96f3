package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/handlers"
	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/metrics"
	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/middleware"
)

func SetupRouter(
	r *chi.Mux,
	baseLogger *zap.Logger,
	primitives *handlers.PrimitiveHandler,
	lessons *handlers.LessonHandler,
	sessions *handlers.SessionHandler,
) {
	r.Use(metrics.Middleware)

	// base middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)

	r.Use(middleware.LoggingContext(baseLogger))
	r.Use(middleware.Recoverer())                // panic recovery
	r.Use(middleware.Timeout(120 * time.Second)) // remote generation can be slow
	r.Use(middleware.MaxBodySize(512 * 1024))    // 512 KB max body

	// routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/generate_lesson", lessons.Generate)
		r.Get("/lesson/{id}", lessons.Get)

		r.Post("/primitives/resolve", primitives.Resolve)

		r.Post("/session", sessions.Create)
		r.Get("/sessions", sessions.List)
		r.Get("/session/{id}", sessions.Get)
		r.Put("/session/{id}", sessions.Update)
	})

	r.Get("/assets/{name}", primitives.Asset)

	// health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/metrics", metrics.Handler())
}
