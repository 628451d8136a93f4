package models

import "time"

// MatchStatus matches the status ENUM in the matches table.
type MatchStatus string

const (
	MatchStatusScheduled  MatchStatus = "scheduled"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
	MatchStatusCancelled  MatchStatus = "cancelled"
	MatchStatusDisputed   MatchStatus = "disputed"
)

func (s MatchStatus) Valid() bool {
	switch s {
	case MatchStatusScheduled, MatchStatusInProgress, MatchStatusCompleted,
		MatchStatusCancelled, MatchStatusDisputed:
		return true
	}
	return false
}

type Match struct {
	ID                int         `json:"id"`
	TournamentID      int         `json:"tournamentId"`
	Round             int         `json:"round"`
	BracketPosition   *string     `json:"bracketPosition"`
	Participant1ID    *int        `json:"participant1Id"`
	Participant2ID    *int        `json:"participant2Id"`
	WinnerID          *int        `json:"winnerId"`
	Participant1Score *int        `json:"participant1Score"`
	Participant2Score *int        `json:"participant2Score"`
	Status            MatchStatus `json:"status"`
	ScheduledAt       *time.Time  `json:"scheduledAt"`
	StartedAt         *time.Time  `json:"startedAt"`
	CompletedAt       *time.Time  `json:"completedAt"`
	Location          *string     `json:"location"`
	Notes             *string     `json:"notes"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         *time.Time  `json:"updatedAt"`

	Participant1 *Participant `json:"participant1,omitempty"`
	Participant2 *Participant `json:"participant2,omitempty"`
	Winner       *Participant `json:"winner,omitempty"`
}
