package models

import "time"

// ParticipantStatus matches the status ENUM in the tournament_participants table.
type ParticipantStatus string

const (
	ParticipantStatusRegistered   ParticipantStatus = "registered"
	ParticipantStatusConfirmed    ParticipantStatus = "confirmed"
	ParticipantStatusCheckedIn    ParticipantStatus = "checked_in"
	ParticipantStatusDisqualified ParticipantStatus = "disqualified"
	ParticipantStatusWithdrew     ParticipantStatus = "withdrew"
)

func (s ParticipantStatus) Valid() bool {
	switch s {
	case ParticipantStatusRegistered, ParticipantStatusConfirmed, ParticipantStatusCheckedIn,
		ParticipantStatusDisqualified, ParticipantStatusWithdrew:
		return true
	}
	return false
}

// Participant is an entrant in a tournament: either a solo user or a
// team, never both. The XOR is enforced by a check constraint.
type Participant struct {
	ID           int               `json:"id"`
	TournamentID int               `json:"tournamentId"`
	UserID       *int              `json:"userId"`
	TeamID       *int              `json:"teamId"`
	Seed         *int              `json:"seed"`
	Status       ParticipantStatus `json:"status"`
	RegisteredAt time.Time         `json:"registeredAt"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    *time.Time        `json:"updatedAt"`

	User *PublicUser `json:"user,omitempty"`
	Team *Team       `json:"team,omitempty"`
}
