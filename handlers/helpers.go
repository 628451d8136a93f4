package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Ruben10-R/pro-league/services"
	"github.com/Ruben10-R/pro-league/validation"
	"github.com/go-chi/chi/v5"
)

// translationMessage is the symbolic, client-localizable message unit:
// the server never ships human-readable error prose.
type translationMessage struct {
	Key    string                 `json:"key"`
	Params map[string]interface{} `json:"params"`
}

type fieldError struct {
	Field   string             `json:"field"`
	Rule    string             `json:"rule"`
	Message translationMessage `json:"message"`
}

func newMessage(key string, params map[string]interface{}) *translationMessage {
	if params == nil {
		params = map[string]interface{}{}
	}
	return &translationMessage{Key: key, Params: params}
}

func writeSuccess(w http.ResponseWriter, status int, data interface{}, message *translationMessage) {
	envelope := map[string]interface{}{
		"success": true,
		"data":    data,
	}
	if message != nil {
		envelope["message"] = message
	}
	writeJSON(w, status, envelope)
}

func writeError(w http.ResponseWriter, status int, key string, params map[string]interface{}, fieldErrors []fieldError) {
	envelope := map[string]interface{}{
		"success": false,
		"message": newMessage(key, params),
	}
	if len(fieldErrors) > 0 {
		envelope["errors"] = fieldErrors
	}
	writeJSON(w, status, envelope)
}

func writeJSON(w http.ResponseWriter, status int, envelope map[string]interface{}) {
	js, err := json.Marshal(envelope)
	if err != nil {
		slog.Error("failed to marshal response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(js); err != nil {
		slog.Error("failed to write response", slog.Any("error", err))
	}
}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err) // programmer error: dst is not a pointer
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func badRequestResponse(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, keyErrorGeneric, map[string]interface{}{"detail": err.Error()}, nil)
}

func failedValidationResponse(w http.ResponseWriter, fieldErrors []validation.FieldError) {
	out := make([]fieldError, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		out = append(out, fieldError{
			Field:   fe.Field,
			Rule:    fe.Rule,
			Message: *newMessage("validation."+fe.Rule, fe.Params),
		})
	}
	writeError(w, http.StatusUnprocessableEntity, keyValidationFailed, nil, out)
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	writeError(w, http.StatusInternalServerError, keyErrorServer, nil, nil)
}

// mapServiceError converts service-layer sentinels into the envelope:
// one status and one symbolic key per failure class.
func mapServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	// Not found
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrTournamentNotFound),
		errors.Is(err, services.ErrParticipantNotFound),
		errors.Is(err, services.ErrMatchNotFound),
		errors.Is(err, services.ErrTeamMemberNotFound):
		writeError(w, http.StatusNotFound, keyErrorNotFound, nil, nil)

	// Conflicts
	case errors.Is(err, services.ErrEmailTaken):
		writeError(w, http.StatusConflict, keyAuthEmailTaken, nil, nil)
	case errors.Is(err, services.ErrRegistrationConflict):
		writeError(w, http.StatusConflict, keyParticipantAlreadyRegistered, nil, nil)
	case errors.Is(err, services.ErrTeamMemberConflict):
		writeError(w, http.StatusConflict, keyTeamMemberConflict, nil, nil)

	// Business rules
	case errors.Is(err, services.ErrRegistrationNotOpen):
		writeError(w, http.StatusBadRequest, keyTournamentRegistrationClosed, nil, nil)
	case errors.Is(err, services.ErrTournamentFull):
		writeError(w, http.StatusBadRequest, keyTournamentFull, nil, nil)
	case errors.Is(err, services.ErrTeamRegistrationOnly):
		writeError(w, http.StatusBadRequest, keyTournamentTeamRequired, nil, nil)
	case errors.Is(err, services.ErrSoloRegistrationOnly):
		writeError(w, http.StatusBadRequest, keyTournamentIndividualOnly, nil, nil)
	case errors.Is(err, services.ErrInvalidCurrentPassword):
		writeError(w, http.StatusBadRequest, keyProfileInvalidCurrentPassword, nil, nil)
	case errors.Is(err, services.ErrCannotRemoveCaptain):
		writeError(w, http.StatusBadRequest, keyTeamCannotRemoveCaptain, nil, nil)
	case errors.Is(err, services.ErrTournamentInvalidFormat):
		writeError(w, http.StatusBadRequest, keyTournamentInvalidFormat, nil, nil)
	case errors.Is(err, services.ErrTournamentInvalidStatus):
		writeError(w, http.StatusBadRequest, keyTournamentInvalidStatus, nil, nil)
	case errors.Is(err, services.ErrParticipantInvalidState):
		writeError(w, http.StatusBadRequest, keyParticipantInvalidStatus, nil, nil)
	case errors.Is(err, services.ErrMatchInvalidStatus):
		writeError(w, http.StatusBadRequest, keyMatchInvalidStatus, nil, nil)
	case errors.Is(err, services.ErrTeamInvalidRole):
		writeError(w, http.StatusBadRequest, keyTeamInvalidRole, nil, nil)

	// Authentication / authorization
	case errors.Is(err, services.ErrAuthInvalidCredentials):
		writeError(w, http.StatusUnauthorized, keyAuthInvalidCredentials, nil, nil)
	case errors.Is(err, services.ErrAuthTokenExpired):
		writeError(w, http.StatusUnauthorized, keyAuthTokenExpired, nil, nil)
	case errors.Is(err, services.ErrAuthInvalidToken):
		writeError(w, http.StatusUnauthorized, keyAuthTokenInvalid, nil, nil)
	case errors.Is(err, services.ErrForbiddenOperation):
		writeError(w, http.StatusForbidden, keyErrorForbidden, nil, nil)

	default:
		serverErrorResponse(w, r, err)
	}
}

func getIDFromURL(r *http.Request, param string) (int, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s parameter", param)
	}
	return id, nil
}

func getQueryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
