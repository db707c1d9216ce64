package controllers

import (
	"encoding/csv"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"festreg/internal/delivery/http/helpers"
	"festreg/internal/domain"
)

type AdminController struct {
	Logger   *slog.Logger
	Reports  domain.ReportService
	Settings domain.EventSettingsService
	Catalog  domain.EventCatalog
}

func NewAdminController(logger *slog.Logger, reports domain.ReportService, settings domain.EventSettingsService, catalog domain.EventCatalog) *AdminController {
	return &AdminController{Logger: logger, Reports: reports, Settings: settings, Catalog: catalog}
}

// EventStatsSuccessResponse is the success response envelope for GET /admin/events/stats.
type EventStatsSuccessResponse struct {
	Data  []*domain.EventStats `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// EventStats godoc
// @Summary Registration counts per event
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.EventStatsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/stats [get]
func (c *AdminController) EventStats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.Reports.EventStats(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, stats)
}

var registrationsCSVHeader = []string{
	"type", "chest_no", "user_id", "team_id", "leader_id", "leader_chest_no", "member_chest_nos", "registered_at",
}

// ExportRegistrations godoc
// @Summary Export an event's registrations as CSV
// @Description One row per individual entry or team, ordered by chest number. member_chest_nos lists id:chest pairs separated by semicolons.
// @Tags admin
// @Produce text/csv
// @Security BearerAuth
// @Param title path string true "Event title"
// @Success 200 {string} string "CSV"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{title}/registrations.csv [get]
func (c *AdminController) ExportRegistrations(w http.ResponseWriter, r *http.Request) {
	title := r.PathValue("title")
	entries, err := c.Reports.EventRegistrations(r.Context(), title)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+domain.NormalizeEventTitle(title)+`.csv"`)
	w.WriteHeader(http.StatusOK)
	cw := csv.NewWriter(w)
	_ = cw.Write(registrationsCSVHeader)
	for _, e := range entries {
		_ = cw.Write(registrationRow(e))
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		c.Logger.ErrorContext(r.Context(), "csv export failed", "event", title, "err", err)
	}
}

func registrationRow(e *domain.EventRegistration) []string {
	if e.Type == domain.RegistrationTypeIndividual {
		return []string{e.Type, e.UserChestNo, e.UserID, "", "", "", "", e.RegisteredAt.Format(time.RFC3339)}
	}
	ids := make([]string, 0, len(e.MemberChestNos))
	for id := range e.MemberChestNos {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	pairs := make([]string, 0, len(ids))
	for _, id := range ids {
		pairs = append(pairs, id+":"+e.MemberChestNos[id])
	}
	return []string{
		e.Type, e.TeamChestNo, "", e.TeamID, e.LeaderID, e.LeaderChestNo,
		strings.Join(pairs, ";"), e.RegisteredAt.Format(time.RFC3339),
	}
}

// UpdateSettingsRequest is the request body for PUT /admin/events/{title}/settings.
type UpdateSettingsRequest struct {
	IsClosed *bool `json:"is_closed"`
}

// Validate implements helpers.Validator.
func (r *UpdateSettingsRequest) Validate() []string {
	if r.IsClosed == nil {
		return []string{"is_closed is required"}
	}
	return nil
}

// EventSettingsView is the registration state of one event.
type EventSettingsView struct {
	EventTitle string `json:"event_title"`
	IsClosed   bool   `json:"is_closed"`
}

// EventSettingsSuccessResponse is the success response envelope for PUT /admin/events/{title}/settings.
type EventSettingsSuccessResponse struct {
	Data  *EventSettingsView `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// UpdateSettings godoc
// @Summary Open or close registration for an event
// @Description Closing blocks new entries; participants already registered keep their entries.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param title path string true "Event title"
// @Param body body controllers.UpdateSettingsRequest true "Settings"
// @Success 200 {object} controllers.EventSettingsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{title}/settings [put]
func (c *AdminController) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	title := r.PathValue("title")
	if _, ok := c.Catalog.Get(title); !ok {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		return
	}
	var req UpdateSettingsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Settings.SetRegistrationClosed(r.Context(), title, *req.IsClosed); err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	c.Logger.InfoContext(r.Context(), "event settings updated", "event", title, "is_closed", *req.IsClosed)
	helpers.WriteJSONSuccess(w, http.StatusOK, &EventSettingsView{EventTitle: title, IsClosed: *req.IsClosed})
}
