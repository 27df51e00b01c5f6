package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"quizforge-backend/internal/handlers"
	"quizforge-backend/internal/middleware"
	"quizforge-backend/internal/models"
)

func New(
	jwtAuth *middleware.JWTAuth,
	sessionHandler *handlers.SessionHandler,
	authoringHandler *handlers.AuthoringHandler,
	draftsHandler *handlers.DraftsHandler,
	quizzesHandler *handlers.QuizzesHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Session rate limiter (10 req/min per IP)
	sessionLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Session Routes ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(sessionLimiter.Middleware)
			r.Post("/session", sessionHandler.Start)

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Get("/me", sessionHandler.Me)
			})
		})

		// ──── Authoring Routes (teacher role only) ────
		r.Route("/authoring", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Use(middleware.RequireRole(models.RoleTeacher))

			r.Post("/start", authoringHandler.Start)
			r.Get("/state", authoringHandler.State)
			r.Post("/manual", authoringHandler.StartManual)
			r.Post("/generate", authoringHandler.Generate)
			r.Post("/upload", authoringHandler.Upload)

			r.Route("/editor", func(r chi.Router) {
				r.Patch("/details", authoringHandler.UpdateDetails)
				r.Patch("/pending", authoringHandler.UpdatePending)
				r.Post("/questions", authoringHandler.AddQuestion)
				r.Delete("/questions/{id}", authoringHandler.RemoveQuestion)
				r.Post("/next", authoringHandler.NextStep)
				r.Post("/back", authoringHandler.Back)
				r.Post("/close", authoringHandler.Close)
				r.Post("/close/confirm", authoringHandler.ConfirmDiscard)
				r.Post("/close/cancel", authoringHandler.CancelDiscard)
				r.Post("/save-draft", authoringHandler.SaveDraft)
				r.Post("/publish", authoringHandler.SaveAndPublish)
			})
		})

		// ──── Draft Routes (teacher role only) ────
		r.Route("/drafts", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Use(middleware.RequireRole(models.RoleTeacher))
			r.Get("/", draftsHandler.List)
			r.Delete("/{id}", draftsHandler.Delete)
			r.Post("/{id}/publish", draftsHandler.Publish)
			r.Post("/{id}/edit", authoringHandler.EditDraft)
		})

		// ──── Published Quiz Routes ────
		r.Route("/quizzes", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", quizzesHandler.List)
			r.Get("/{id}", quizzesHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleTeacher))
				r.Post("/{id}/edit", quizzesHandler.Edit)
				r.Delete("/{id}", quizzesHandler.Delete)
			})
		})
	})

	return r
}
