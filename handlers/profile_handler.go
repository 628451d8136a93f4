package handlers

import (
	"net/http"

	"github.com/Ruben10-R/pro-league/middleware"
	"github.com/Ruben10-R/pro-league/services"
	"github.com/Ruben10-R/pro-league/validation"
)

type ProfileHandler struct {
	userService services.UserService
}

func NewProfileHandler(userService services.UserService) *ProfileHandler {
	return &ProfileHandler{userService: userService}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, keyAuthUnauthorized, nil, nil)
		return
	}

	profile, err := h.userService.GetProfile(r.Context(), user.ID)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"user": profile}, nil)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, keyAuthUnauthorized, nil, nil)
		return
	}

	var input services.UpdateProfileInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	v := &validation.Validator{}
	if input.FullName != nil && *input.FullName != "" {
		v.MinLength(*input.FullName, 2, "fullName")
		v.MaxLength(*input.FullName, 255, "fullName")
	}
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	updated, err := h.userService.UpdateProfile(r.Context(), user.ID, input)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"user": updated}, newMessage(keyProfileUpdateSuccess, nil))
}

// ChangePassword verifies the current password before accepting the
// new one. Issued tokens stay valid.
func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, keyAuthUnauthorized, nil, nil)
		return
	}

	var input services.ChangePasswordInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	v := &validation.Validator{}
	v.Required(input.CurrentPassword, "currentPassword")
	v.Required(input.NewPassword, "newPassword")
	if input.NewPassword != "" {
		v.MinLength(input.NewPassword, 8, "newPassword")
	}
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	if err := h.userService.ChangePassword(r.Context(), user.ID, input); err != nil {
		mapServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil, newMessage(keyProfilePasswordSuccess, nil))
}
