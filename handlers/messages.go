package handlers

// Symbolic message keys returned in the response envelope. Clients own
// the translations; the server only ever emits the keys.
const (
	// Success messages.
	keyAuthRegisterSuccess    = "auth.register.success"
	keyAuthLoginSuccess       = "auth.login.success"
	keyAuthLogoutSuccess      = "auth.logout.success"
	keyProfileUpdateSuccess   = "profile.update.success"
	keyProfilePasswordSuccess = "profile.password.success"

	// Generic errors.
	keyErrorGeneric     = "errors.generic"
	keyErrorServer      = "errors.server"
	keyErrorNotFound    = "errors.notFound"
	keyErrorForbidden   = "errors.forbidden"
	keyValidationFailed = "validation.failed"

	// Auth errors.
	keyAuthEmailTaken         = "auth.errors.emailTaken"
	keyAuthInvalidCredentials = "auth.errors.invalidCredentials"
	keyAuthUnauthorized       = "auth.errors.unauthorized"
	keyAuthTokenInvalid       = "auth.errors.tokenInvalid"
	keyAuthTokenExpired       = "auth.errors.tokenExpired"

	// Profile errors.
	keyProfileInvalidCurrentPassword = "profile.errors.invalidCurrentPassword"

	// Tournament errors.
	keyTournamentRegistrationClosed = "tournament.errors.registrationClosed"
	keyTournamentFull               = "tournament.errors.full"
	keyTournamentTeamRequired       = "tournament.errors.teamRequired"
	keyTournamentIndividualOnly     = "tournament.errors.individualOnly"
	keyTournamentInvalidFormat      = "tournament.errors.invalidFormat"
	keyTournamentInvalidStatus      = "tournament.errors.invalidStatus"

	// Team errors.
	keyTeamMemberConflict      = "team.errors.memberAlreadyExists"
	keyTeamCannotRemoveCaptain = "team.errors.cannotRemoveCaptain"
	keyTeamInvalidRole         = "team.errors.invalidRole"

	// Participant errors.
	keyParticipantAlreadyRegistered = "participant.errors.alreadyRegistered"
	keyParticipantInvalidStatus     = "participant.errors.invalidStatus"

	// Match errors.
	keyMatchInvalidStatus = "match.errors.invalidStatus"
)
