/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/employees/*      The whole lifecycle surface (see handlers.go)
  /api/health           Liveness probe

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetEmployee)
				r.Get("/status", h.GetLifecycleStatus)
				r.Get("/events", h.ListEvents)

				r.Route("/onboarding", func(r chi.Router) {
					r.Get("/", h.GetOnboardingProgress)
					r.Post("/tasks", h.RecordOnboardingTask)
					r.Post("/complete", h.CompleteOnboarding)
				})

				r.Post("/exit", h.InitiateExit)
				r.Post("/notice", h.ComputeNotice)
				r.Post("/settlement", h.ComputeSettlement)

				r.Route("/offboarding", func(r chi.Router) {
					r.Get("/", h.GetOffboardingProgress)
					r.Post("/tasks", h.RecordOffboardingTask)
					r.Post("/complete", h.CompleteOffboarding)
				})

				r.Route("/documents", func(r chi.Router) {
					r.Get("/", h.GetDocumentCompleteness)
					r.Post("/", h.RecordDocument)
				})

				r.Route("/assets", func(r chi.Router) {
					r.Get("/", h.GetAssetSummary)
					r.Post("/", h.IssueAsset)
					r.Post("/{assetID}/return", h.ReturnAsset)
				})

				r.Route("/access", func(r chi.Router) {
					r.Get("/", h.GetAccessSummary)
					r.Post("/grant", h.GrantAccess)
					r.Post("/revoke", h.RevokeAccess)
				})
			})
		})
	})

	return r
}
