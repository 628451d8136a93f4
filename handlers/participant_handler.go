package handlers

import (
	"net/http"

	"github.com/Ruben10-R/pro-league/middleware"
	"github.com/Ruben10-R/pro-league/services"
	"github.com/Ruben10-R/pro-league/validation"
)

type ParticipantHandler struct {
	participantService services.ParticipantService
}

func NewParticipantHandler(participantService services.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participantService: participantService}
}

// Register godoc
// @Summary Register for a tournament
// @Tags participants
// @Description The caller registers themselves, or a team when teamId is supplied.
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param body body object false "Optional {teamId}"
// @Success 201 {object} map[string]interface{} "Participant created"
// @Failure 400 {object} map[string]interface{} "Registration closed / full / wrong entrant kind"
// @Failure 409 {object} map[string]interface{} "Already registered"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/participants [post]
func (h *ParticipantHandler) Register(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, keyAuthUnauthorized, nil, nil)
		return
	}

	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var input struct {
		TeamID *int `json:"teamId"`
	}
	if r.ContentLength != 0 {
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, err)
			return
		}
	}

	if input.TeamID != nil && *input.TeamID <= 0 {
		v := &validation.Validator{}
		v.Check(false, "teamId", validation.RuleInvalid, nil)
		failedValidationResponse(w, v.Errors)
		return
	}

	participant, err := h.participantService.Register(r.Context(), tournamentID, user.ID, input.TeamID)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]interface{}{"participant": participant}, nil)
}

// ListByTournament handles GET /tournaments/{tournamentID}/participants.
func (h *ParticipantHandler) ListByTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	participants, err := h.participantService.ListByTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"participants": participants}, nil)
}

// Update handles PUT /participants/{participantID}: seed and status,
// tournament creator only.
func (h *ParticipantHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, keyAuthUnauthorized, nil, nil)
		return
	}

	participantID, err := getIDFromURL(r, "participantID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var input services.UpdateParticipantInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	participant, err := h.participantService.Update(r.Context(), participantID, user.ID, input)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"participant": participant}, nil)
}

// Withdraw godoc
// @Summary Withdraw a registration
// @Tags participants
// @Description Allowed for the registered user themselves or the captain of the registered team. The row is kept with status withdrew.
// @Produce json
// @Param participantID path int true "Participant ID"
// @Success 200 {object} map[string]interface{} "Participant with status withdrew"
// @Failure 403 {object} map[string]interface{} "Not the entrant or team captain"
// @Security BearerAuth
// @Router /participants/{participantID} [delete]
func (h *ParticipantHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, keyAuthUnauthorized, nil, nil)
		return
	}

	participantID, err := getIDFromURL(r, "participantID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	participant, err := h.participantService.Withdraw(r.Context(), participantID, user.ID)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"participant": participant}, nil)
}
