package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"festreg/internal/delivery/http/helpers"
	"festreg/internal/delivery/http/middleware"
	"festreg/internal/domain"
)

type RegistrationController struct {
	Logger    *slog.Logger
	Service   domain.RegistrationService
	Query     domain.RegistrationQueryService
	Validator domain.RuleValidator
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService, query domain.RegistrationQueryService, validator domain.RuleValidator) *RegistrationController {
	return &RegistrationController{
		Logger:    logger,
		Service:   svc,
		Query:     query,
		Validator: validator,
	}
}

// UserRegistrationsSuccessResponse is the success response envelope for GET /registrations/me.
type UserRegistrationsSuccessResponse struct {
	Data  *domain.UserRegistrations `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

// GetMyRegistrations godoc
// @Summary List the caller's registrations
// @Description Returns the authenticated participant's solo events and teams. Read failures yield empty lists.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.UserRegistrationsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /registrations/me [get]
func (c *RegistrationController) GetMyRegistrations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, c.Query.FetchUserRegistrations(r.Context(), userID))
}

// UpdateSoloRequest is the request body for PUT /registrations/me/solo.
// Events is the complete desired set, not a patch.
type UpdateSoloRequest struct {
	Events []string `json:"events"`
}

// Validate implements helpers.Validator.
func (r *UpdateSoloRequest) Validate() []string {
	if r.Events == nil {
		return []string{"events is required"}
	}
	for i, e := range r.Events {
		r.Events[i] = strings.TrimSpace(e)
		if r.Events[i] == "" {
			return []string{"events must not contain empty titles"}
		}
	}
	return nil
}

// RegistrationResultResponse is the envelope for registration workflow outcomes.
type RegistrationResultResponse struct {
	Data  *helpers.RegistrationResult `json:"data"`
	Error *helpers.APIError           `json:"error"`
}

// UpdateSoloRegistrations godoc
// @Summary Replace the caller's solo registrations
// @Description Replaces the set of events the participant entered individually. Newly added events must be open and the final set must be within quota.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.UpdateSoloRequest true "Complete desired event set"
// @Success 200 {object} controllers.RegistrationResultResponse
// @Failure 400 {object} controllers.RegistrationResultResponse "unknown or group event, quota exceeded or registration closed"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} controllers.RegistrationResultResponse "error.code: conflict"
// @Failure 500 {object} controllers.RegistrationResultResponse "error.code: internal_error"
// @Router /registrations/me/solo [put]
func (c *RegistrationController) UpdateSoloRegistrations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req UpdateSoloRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	if err := c.Service.UpdateUserSoloRegistrations(r.Context(), userID, req.Events); err != nil {
		writeFailure(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, helpers.RegistrationResult{Success: true})
}

// ValidateRequest is the request body for POST /registrations/validate.
// Omitting solo_events keeps the caller's current solo set.
type ValidateRequest struct {
	SoloEvents []string `json:"solo_events"`
	TeamEvent  string   `json:"team_event"`
}

// ValidationSuccessResponse is the success response envelope for POST /registrations/validate.
type ValidationSuccessResponse struct {
	Data  *domain.ValidationResult `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// ValidateRegistration godoc
// @Summary Check a proposed change against the quotas
// @Description Dry run of the quota rules for the caller's current registrations plus the proposed solo set and/or team event. Nothing is stored.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.ValidateRequest true "Proposed change"
// @Success 200 {object} controllers.ValidationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/validate [post]
func (c *RegistrationController) ValidateRegistration(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req ValidateRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	current, err := c.Query.LoadUserRegistrations(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "load registrations for validation failed", "user_id", userID, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "could not load current registrations")
		return
	}
	result := c.Validator.Validate(current.SoloEvents, current.TeamEventTitles(), req.SoloEvents, strings.TrimSpace(req.TeamEvent))
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}
