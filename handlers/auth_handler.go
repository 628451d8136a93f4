package handlers

import (
	"net/http"

	"github.com/Ruben10-R/pro-league/middleware"
	"github.com/Ruben10-R/pro-league/services"
	"github.com/Ruben10-R/pro-league/validation"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register godoc
// @Summary Create an account and issue an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Registration payload"
// @Success 201 {object} map[string]interface{} "User and token"
// @Failure 409 {object} map[string]interface{} "Email already taken"
// @Failure 422 {object} map[string]interface{} "Validation failed"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	v := &validation.Validator{}
	v.Required(input.Email, "email")
	if input.Email != "" {
		v.Email(input.Email, "email")
	}
	v.Required(input.Password, "password")
	if input.Password != "" {
		v.MinLength(input.Password, 8, "password")
	}
	if input.FullName != nil {
		v.MinLength(*input.FullName, 2, "fullName")
		v.MaxLength(*input.FullName, 255, "fullName")
	}
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	user, token, err := h.authService.Register(r.Context(), input)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]interface{}{
		"user":  user,
		"token": token,
	}, newMessage(keyAuthRegisterSuccess, nil))
}

// Login godoc
// @Summary Exchange credentials for an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Credentials"
// @Success 200 {object} map[string]interface{} "User and token"
// @Failure 401 {object} map[string]interface{} "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	v := &validation.Validator{}
	v.Required(input.Email, "email")
	v.Required(input.Password, "password")
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	user, token, err := h.authService.Login(r.Context(), input)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"user":  user,
		"token": token,
	}, newMessage(keyAuthLoginSuccess, nil))
}

// Logout revokes exactly the token the request was authenticated with.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	rawToken, err := middleware.TokenFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, keyAuthUnauthorized, nil, nil)
		return
	}

	if err := h.authService.Logout(r.Context(), rawToken); err != nil {
		mapServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil, newMessage(keyAuthLogoutSuccess, nil))
}

// Me returns the profile of the authenticated caller.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, keyAuthUnauthorized, nil, nil)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"user": user}, nil)
}
