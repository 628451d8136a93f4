package handlers

import (
	"net/http"

	"github.com/Ruben10-R/pro-league/middleware"
	"github.com/Ruben10-R/pro-league/models"
	"github.com/Ruben10-R/pro-league/services"
	"github.com/Ruben10-R/pro-league/validation"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(tournamentService services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: tournamentService}
}

// Create handles POST /tournaments. The caller becomes the creator and
// the stored status is always draft, whatever the payload says.
func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, keyAuthUnauthorized, nil, nil)
		return
	}

	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	v := &validation.Validator{}
	v.Required(input.Name, "name")
	if input.Name != "" {
		v.MaxLength(input.Name, 255, "name")
	}
	v.Required(input.GameType, "gameType")
	v.Check(input.Format != "", "format", validation.RuleRequired, nil)
	if input.MaxParticipants != nil {
		v.Check(*input.MaxParticipants > 0, "maxParticipants", validation.RuleInvalid, nil)
	}
	if input.TeamSize != nil {
		v.Check(*input.TeamSize > 0, "teamSize", validation.RuleInvalid, nil)
	}
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	tournament, err := h.tournamentService.Create(r.Context(), user.ID, input)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]interface{}{"tournament": tournament}, nil)
}

// GetByID handles GET /tournaments/{tournamentID} with creator,
// participants and matches attached.
func (h *TournamentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	tournament, err := h.tournamentService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"tournament": tournament}, nil)
}

// List handles GET /tournaments with an optional status filter.
func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	var status *models.TournamentStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.TournamentStatus(raw)
		status = &s
	}
	page := getQueryInt(r, "page", 1)
	limit := getQueryInt(r, "limit", 10)

	tournaments, err := h.tournamentService.List(r.Context(), status, page, limit)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"tournaments": tournaments,
		"page":        page,
		"limit":       limit,
	}, nil)
}

func (h *TournamentHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, keyAuthUnauthorized, nil, nil)
		return
	}

	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var input services.UpdateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	tournament, err := h.tournamentService.Update(r.Context(), id, user.ID, input)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"tournament": tournament}, nil)
}

func (h *TournamentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, keyAuthUnauthorized, nil, nil)
		return
	}

	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.tournamentService.Delete(r.Context(), id, user.ID); err != nil {
		mapServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
