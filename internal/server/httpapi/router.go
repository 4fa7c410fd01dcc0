package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router assembles the chi handler tree. The activity tracker wraps every
// /api route, register/login included: requests without a valid credential
// simply pass through it.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	// Registered before the subrouters so they inherit it.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		fail(w, http.StatusNotFound, "API route not found")
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(s.trackActivity)

		r.Get("/", s.handleIndex)
		r.Get("/health", s.handleHealth)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)

				r.Get("/me", s.handleMe)
				r.Put("/profile", s.handleUpdateProfile)
				r.Post("/skills", s.handleAddSkill)
				r.Delete("/skills/{type}/{ref}", s.handleRemoveSkill)
				r.Post("/deduct-credit", s.handleDeductCredit)
				r.Post("/add-credit", s.handleAddCredit)
				r.Post("/start-session", s.handleStartSession)
				r.Post("/end-session", s.handleEndSession)
			})
		})
	})

	return r
}
