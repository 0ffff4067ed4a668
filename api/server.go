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
  1. requestLogger: Structured request logging (slog)
  2. Recoverer:     Panic recovery (500 instead of crash)
  3. RequestID:     Unique ID per request for tracing
  4. CORS:          Cross-origin requests for frontend

ROUTE GROUPS:
  /api/auth/*       Login, register, refresh, role probes
  /api/missions/*   Mission CRUD (authenticated)
  /api/expenses/*   Expense listings, lines, PDF export
  /api/natures/*    Cost-policy catalog
  /api/users        User listing (manager and up)

AUTHORIZATION:
  Everything outside /api/auth/login, /register, /refresh sits behind
  requireAuth. Role gates: /api/expenses (all) is admin, /expenses/team is
  manager, the /api/users listing is admin, POST /api/natures is admin.

SEE ALSO:
  - handlers.go: Handler implementations
  - middleware.go: Auth and logging middleware
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/warp/mission-engine/user"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	if h.Logger != nil {
		r.Use(requestLogger(h.Logger))
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Auth routes (public except the probes)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Login)
			r.Post("/register", h.Register)
			r.Get("/refresh", h.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(h.requireAuth)
				r.With(requireRole(user.RoleUser)).Get("/user", h.ProbeOK)
				r.With(requireRole(user.RoleManager)).Get("/manager", h.ProbeOK)
				r.With(requireRole(user.RoleAdmin)).Get("/admin", h.ProbeOK)
			})
		})

		// Everything else requires a valid token
		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)

			// Mission routes
			r.Route("/missions", func(r chi.Router) {
				r.Get("/", h.ListMissions)
				r.Post("/", h.CreateMission)
				r.Get("/{id}", h.GetMission)
				r.Get("/{id}/form", h.GetMissionForm)
				r.Put("/{id}", h.UpdateMission)
				r.Delete("/{id}", h.DeleteMission)
			})

			// Expense routes
			r.Route("/expenses", func(r chi.Router) {
				r.With(requireRole(user.RoleAdmin)).Get("/", h.ListExpenses)
				r.Get("/me", h.ListMyExpenses)
				r.With(requireRole(user.RoleManager)).Get("/team", h.ListTeamExpenses)
				r.Get("/{id}", h.GetExpense)
				r.Post("/{id}/lines", h.AddExpenseLine)
				r.Get("/{id}/export", h.ExportExpense)
			})

			// Cost-policy catalog
			r.Route("/natures", func(r chi.Router) {
				r.Get("/", h.ListNatures)
				r.Get("/{id}", h.GetNature)
				r.With(requireRole(user.RoleAdmin)).Post("/", h.SaveNature)
			})

			// User directory
			r.Route("/users", func(r chi.Router) {
				r.With(requireRole(user.RoleAdmin)).Get("/", h.ListUsers)
				r.Get("/{id}", h.GetUser)
			})
		})
	})

	return r
}
