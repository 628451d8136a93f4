package handlers

import (
	"net/http"
	"strconv"

	"github.com/Ruben10-R/pro-league/middleware"
	"github.com/Ruben10-R/pro-league/services"
	"github.com/Ruben10-R/pro-league/validation"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, keyAuthUnauthorized, nil, nil)
		return
	}

	var input services.CreateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	v := &validation.Validator{}
	v.Check(input.TournamentID > 0, "tournamentId", validation.RuleRequired, nil)
	v.Check(input.Round > 0, "round", validation.RuleInvalid, nil)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	match, err := h.matchService.Create(r.Context(), user.ID, input)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]interface{}{"match": match}, nil)
}

func (h *MatchHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	match, err := h.matchService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"match": match}, nil)
}

// List handles GET /matches with an optional tournamentId filter,
// ordered by round.
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	var tournamentID *int
	if raw := r.URL.Query().Get("tournamentId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			v := &validation.Validator{}
			v.Check(false, "tournamentId", validation.RuleInvalid, nil)
			failedValidationResponse(w, v.Errors)
			return
		}
		tournamentID = &id
	}
	page := getQueryInt(r, "page", 1)
	limit := getQueryInt(r, "limit", 50)

	matches, err := h.matchService.List(r.Context(), tournamentID, page, limit)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"matches": matches,
		"page":    page,
		"limit":   limit,
	}, nil)
}

// Update handles PUT /matches/{matchID}: any supplied subset of fields
// is merged onto the stored row.
func (h *MatchHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, keyAuthUnauthorized, nil, nil)
		return
	}

	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var input services.UpdateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	match, err := h.matchService.Update(r.Context(), id, user.ID, input)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"match": match}, nil)
}

func (h *MatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, keyAuthUnauthorized, nil, nil)
		return
	}

	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.matchService.Delete(r.Context(), id, user.ID); err != nil {
		mapServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
