package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"festreg/internal/delivery/http/helpers"
	"festreg/internal/delivery/http/middleware"
	"festreg/internal/domain"
)

type TeamController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewTeamController(logger *slog.Logger, svc domain.RegistrationService) *TeamController {
	return &TeamController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateTeamRequest is the request body for POST /teams. The caller is the team leader.
type CreateTeamRequest struct {
	EventTitle  string               `json:"event_title"`
	TeamName    string               `json:"team_name"`
	LeaderName  string               `json:"leader_name"`
	LeaderEmail string               `json:"leader_email"`
	Members     []domain.MemberInput `json:"members"`
}

// Validate implements helpers.Validator.
func (r *CreateTeamRequest) Validate() []string {
	var errs []string
	r.EventTitle = strings.TrimSpace(r.EventTitle)
	r.TeamName = strings.TrimSpace(r.TeamName)
	r.LeaderName = strings.TrimSpace(r.LeaderName)
	r.LeaderEmail = strings.TrimSpace(r.LeaderEmail)
	if r.EventTitle == "" {
		errs = append(errs, "event_title is required")
	}
	if r.LeaderName == "" {
		errs = append(errs, "leader_name is required")
	}
	for i := range r.Members {
		r.Members[i].ID = strings.TrimSpace(r.Members[i].ID)
		if r.Members[i].ID == "" {
			errs = append(errs, "members[].id is required")
			break
		}
	}
	return errs
}

// CreateTeam godoc
// @Summary Register a team
// @Description Registers a team led by the caller, assigning chest numbers to members that have none and a team chest number for the event.
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CreateTeamRequest true "Team"
// @Success 201 {object} controllers.RegistrationResultResponse
// @Failure 400 {object} controllers.RegistrationResultResponse "quota for leader or any member, duplicate team, team size or registration closed"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} controllers.RegistrationResultResponse "Event not found"
// @Failure 409 {object} controllers.RegistrationResultResponse "error.code: conflict"
// @Failure 500 {object} controllers.RegistrationResultResponse "error.code: internal_error"
// @Router /teams [post]
func (c *TeamController) CreateTeam(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req CreateTeamRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if req.LeaderEmail == "" {
		req.LeaderEmail = principal.Email
	}

	team, err := c.Service.CreateTeam(r.Context(), domain.CreateTeamInput{
		LeaderID:    principal.UserID,
		LeaderName:  req.LeaderName,
		LeaderEmail: req.LeaderEmail,
		EventTitle:  req.EventTitle,
		TeamName:    req.TeamName,
		Members:     req.Members,
	})
	if err != nil {
		writeFailure(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, helpers.RegistrationResult{Success: true, Team: team})
}

// DeleteTeam godoc
// @Summary Disband a team
// @Description Deletes the team and its registration entry. Only the team leader may do this; chest numbers are not reclaimed.
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param teamID path string true "Team ID"
// @Success 200 {object} controllers.RegistrationResultResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} controllers.RegistrationResultResponse "Only the leader can delete the team."
// @Failure 404 {object} controllers.RegistrationResultResponse "Team not found."
// @Failure 500 {object} controllers.RegistrationResultResponse "error.code: internal_error"
// @Router /teams/{teamID} [delete]
func (c *TeamController) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	teamID := r.PathValue("teamID")
	if teamID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing teamID")
		return
	}
	if err := c.Service.LeaveTeam(r.Context(), userID, teamID); err != nil {
		writeFailure(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, helpers.RegistrationResult{Success: true})
}
