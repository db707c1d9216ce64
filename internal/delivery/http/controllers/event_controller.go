package controllers

import (
	"log/slog"
	"net/http"

	"festreg/internal/delivery/http/helpers"
	"festreg/internal/domain"
)

type EventController struct {
	Logger   *slog.Logger
	Catalog  domain.EventCatalog
	Settings domain.EventSettingsService
}

func NewEventController(logger *slog.Logger, catalog domain.EventCatalog, settings domain.EventSettingsService) *EventController {
	return &EventController{Logger: logger, Catalog: catalog, Settings: settings}
}

// EventView is a catalog event with its registration state.
type EventView struct {
	*domain.EventDefinition
	IsClosed bool `json:"is_closed"`
}

// ListEventsSuccessResponse is the success response envelope for GET /events.
type ListEventsSuccessResponse struct {
	Data  []EventView       `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListEvents godoc
// @Summary List festival events
// @Description Returns every catalog event with its category, participation mode, team size limits and whether registration is closed.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListEventsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events := c.Catalog.List()
	out := make([]EventView, 0, len(events))
	for _, ev := range events {
		closed, err := c.Settings.IsRegistrationClosed(r.Context(), ev.Title)
		if err != nil {
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to load event settings")
			return
		}
		out = append(out, EventView{EventDefinition: ev, IsClosed: closed})
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, out)
}
