package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/crewdeck/crewdeck/internal/api/handler"
	"github.com/crewdeck/crewdeck/internal/api/middleware"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Auth     handler.AuthService
	Users    handler.UserService
	Members  handler.MembershipService
	Cleaner  handler.MembershipCleaner
	Teams    handler.TeamService
	Verifier middleware.TokenVerifier
	DBPinger handler.DBPinger
	Version  string
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users, deps.Cleaner)
	teamHandler := handler.NewTeamHandler(deps.Teams, deps.Members)

	requireAuth := middleware.Auth(deps.Verifier)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/forgot-password", authHandler.ForgotPassword)
		// Reset accepts an expired token, so it stays outside the auth gate.
		r.Get("/reset-token", authHandler.ResetToken)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/logout", authHandler.Logout)
			r.Get("/info", authHandler.Info)
			r.Post("/update-info", authHandler.UpdateInfo)
			r.Post("/update-password", authHandler.UpdatePassword)
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/all", userHandler.ListAll)
		r.Get("/list", userHandler.ListPage)
		r.Delete("/me", userHandler.DeleteMe)
	})

	r.Route("/team", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/list", teamHandler.List)
		r.Get("/detail/{id}", teamHandler.Detail)
		r.Get("/users/{id}", teamHandler.Members)
		r.Get("/activity/{id}", teamHandler.Activity)
		r.Post("/create", teamHandler.Create)
		r.Post("/join-team", teamHandler.Join)
		r.Post("/left-team", teamHandler.Leave)
		r.Put("/update/{id}", teamHandler.Update)
		r.Delete("/delete/{id}", teamHandler.Delete)
	})

	return r
}
