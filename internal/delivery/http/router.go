package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"festreg/internal/delivery/http/controllers"
	"festreg/internal/delivery/http/helpers"
	"festreg/internal/delivery/http/middleware"
	"festreg/internal/domain"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Events        *controllers.EventController
	Registrations *controllers.RegistrationController
	Teams         *controllers.TeamController
	Admin         *controllers.AdminController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireRole(domain.RoleAdmin)(next))
	}

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Participant routes
	mux.HandleFunc("GET /events", auth(c.Events.ListEvents))
	mux.HandleFunc("GET /registrations/me", auth(c.Registrations.GetMyRegistrations))
	mux.HandleFunc("PUT /registrations/me/solo", auth(c.Registrations.UpdateSoloRegistrations))
	mux.HandleFunc("POST /registrations/validate", auth(c.Registrations.ValidateRegistration))
	mux.HandleFunc("POST /teams", auth(c.Teams.CreateTeam))
	mux.HandleFunc("DELETE /teams/{teamID}", auth(c.Teams.DeleteTeam))

	// Admin routes
	mux.HandleFunc("GET /admin/events/stats", admin(c.Admin.EventStats))
	mux.HandleFunc("GET /admin/events/{title}/registrations.csv", admin(c.Admin.ExportRegistrations))
	mux.HandleFunc("PUT /admin/events/{title}/settings", admin(c.Admin.UpdateSettings))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
