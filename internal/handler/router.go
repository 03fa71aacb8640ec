package handler

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"studyhub/internal/auth"
)

// NewRouter builds the full HTTP surface of the service.
func NewRouter(
	log *logrus.Logger,
	tokens *auth.TokenManager,
	accounts *AccountHandler,
	studies *StudyHandler,
	events *EventHandler,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(Logger(log))             // structured access log
	r.Use(CORS)

	r.Get("/health", HealthCheck)

	// Public routes; reads pick up the caller identity when a token is sent.
	r.Group(func(r chi.Router) {
		r.Use(OptionalAuth(tokens))
		r.Post("/signup", accounts.SignUp)
		r.Post("/login", accounts.Login)
		r.Get("/studies/{path}", studies.Get)
		r.Get("/studies/{path}/events", events.ListByStudy)
		r.Get("/events/{id}", events.Get)
	})

	// Authenticated routes.
	r.Group(func(r chi.Router) {
		r.Use(Authenticator(tokens))
		r.Post("/studies", studies.Create)
		r.Post("/studies/{path}/join", studies.Join)
		r.Post("/studies/{path}/publish", studies.Publish)
		r.Post("/studies/{path}/close", studies.Close)
		r.Post("/studies/{path}/recruit/start", studies.StartRecruiting)
		r.Post("/studies/{path}/recruit/stop", studies.StopRecruiting)
		r.Post("/studies/{path}/events", events.Create)
		r.Post("/events/{id}/enroll", events.Enroll)
		r.Delete("/events/{id}/enroll", events.Disenroll)
		r.Post("/events/{id}/enrollments/{enrollmentID}/accept", events.Accept)
		r.Post("/events/{id}/enrollments/{enrollmentID}/reject", events.Reject)
	})

	return r
}
