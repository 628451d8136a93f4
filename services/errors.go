package services

import "errors"

// Shared sentinel errors, mapped to HTTP responses in the handlers package.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed        = errors.New("validation failed")
	ErrPasswordTooShort        = errors.New("password is too short")
	ErrRegistrationNotOpen     = errors.New("tournament registration is not open")
	ErrTournamentFull          = errors.New("tournament is full")
	ErrTeamRegistrationOnly    = errors.New("this tournament requires team registration")
	ErrSoloRegistrationOnly    = errors.New("this tournament is for individual players only")
	ErrInvalidCurrentPassword  = errors.New("current password is incorrect")
	ErrCannotRemoveCaptain     = errors.New("cannot remove the team captain")
	ErrTournamentInvalidFormat = errors.New("invalid tournament format provided")
	ErrTournamentInvalidStatus = errors.New("invalid tournament status provided")
	ErrParticipantInvalidState = errors.New("invalid participant status provided")
	ErrMatchInvalidStatus      = errors.New("invalid match status provided")
	ErrTeamInvalidRole         = errors.New("invalid team member role provided")

	// Conflicts
	ErrEmailTaken           = errors.New("email address is already in use")
	ErrRegistrationConflict = errors.New("user or team is already registered for this tournament")
	ErrTeamMemberConflict   = errors.New("user is already a member of this team")

	// Authentication and authorization
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthInvalidToken       = errors.New("invalid or revoked token")
	ErrAuthTokenExpired       = errors.New("token has expired")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Entity-specific not-found variants
	ErrUserNotFound        = errors.New("user not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrParticipantNotFound = errors.New("participant registration not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrTeamMemberNotFound  = errors.New("team member not found")
)
