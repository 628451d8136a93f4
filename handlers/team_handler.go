package handlers

import (
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/Ruben10-R/pro-league/middleware"
	"github.com/Ruben10-R/pro-league/services"
	"github.com/Ruben10-R/pro-league/validation"
)

const maxLogoSize = 5 << 20 // 5MB

var allowedLogoTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(teamService services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// Create handles POST /teams. The caller becomes captain and is added
// as the first member in the same transaction.
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, keyAuthUnauthorized, nil, nil)
		return
	}

	var input services.CreateTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	v := &validation.Validator{}
	v.Required(input.Name, "name")
	if input.Name != "" {
		v.MinLength(input.Name, 2, "name")
		v.MaxLength(input.Name, 255, "name")
	}
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	team, err := h.teamService.Create(r.Context(), user.ID, input)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]interface{}{"team": team}, nil)
}

func (h *TeamHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	team, err := h.teamService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"team": team}, nil)
}

func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	page := getQueryInt(r, "page", 1)
	limit := getQueryInt(r, "limit", 10)

	teams, err := h.teamService.List(r.Context(), page, limit)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"teams": teams,
		"page":  page,
		"limit": limit,
	}, nil)
}

func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, keyAuthUnauthorized, nil, nil)
		return
	}

	id, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var input services.UpdateTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	v := &validation.Validator{}
	if input.Name != nil {
		v.MinLength(*input.Name, 2, "name")
		v.MaxLength(*input.Name, 255, "name")
	}
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	team, err := h.teamService.Update(r.Context(), id, user.ID, input)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"team": team}, nil)
}

func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, keyAuthUnauthorized, nil, nil)
		return
	}

	id, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.teamService.Delete(r.Context(), id, user.ID); err != nil {
		mapServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddMember handles POST /teams/{teamID}/members, captain only. Role
// defaults to member when omitted.
func (h *TeamHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, keyAuthUnauthorized, nil, nil)
		return
	}

	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var input services.AddMemberInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	v := &validation.Validator{}
	v.Check(input.UserID > 0, "userId", validation.RuleRequired, nil)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	team, err := h.teamService.AddMember(r.Context(), teamID, user.ID, input)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]interface{}{"team": team}, nil)
}

// RemoveMember handles DELETE /teams/{teamID}/members/{userID},
// captain only. The captain's own membership cannot be removed.
func (h *TeamHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, keyAuthUnauthorized, nil, nil)
		return
	}

	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	userID, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	team, err := h.teamService.RemoveMember(r.Context(), teamID, user.ID, userID)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"team": team}, nil)
}

// UploadLogo godoc
// @Summary Upload a team logo
// @Tags teams
// @Description Captain only. Accepts multipart form field "logo" (png, jpeg or webp, max 5MB); a previous logo is replaced.
// @Accept multipart/form-data
// @Produce json
// @Param teamID path int true "Team ID"
// @Param logo formData file true "Logo image"
// @Success 200 {object} map[string]interface{} "Team with logoUrl"
// @Failure 403 {object} map[string]interface{} "Not the team captain"
// @Security BearerAuth
// @Router /teams/{teamID}/logo [post]
func (h *TeamHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, keyAuthUnauthorized, nil, nil)
		return
	}

	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxLogoSize); err != nil {
		badRequestResponse(w, err)
		return
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		badRequestResponse(w, errors.New("multipart field logo is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	ext, ok := allowedLogoTypes[contentType]
	if !ok {
		// Fall back to the filename extension for clients that omit
		// the part's content type.
		ext = strings.ToLower(path.Ext(header.Filename))
		switch ext {
		case ".png":
			contentType = "image/png"
		case ".jpg", ".jpeg":
			contentType = "image/jpeg"
		case ".webp":
			contentType = "image/webp"
		default:
			v := &validation.Validator{}
			v.Check(false, "logo", validation.RuleInvalid, map[string]interface{}{"contentType": contentType})
			failedValidationResponse(w, v.Errors)
			return
		}
	}

	team, err := h.teamService.UploadLogo(r.Context(), teamID, user.ID, contentType, ext, file)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"team": team}, nil)
}
