package models

import "time"

// TournamentFormat matches the format ENUM in the tournaments table.
// The format is descriptive metadata: no bracket generation or round
// advancement is derived from it.
type TournamentFormat string

const (
	FormatSingleElimination TournamentFormat = "single_elimination"
	FormatDoubleElimination TournamentFormat = "double_elimination"
	FormatRoundRobin        TournamentFormat = "round_robin"
	FormatSwiss             TournamentFormat = "swiss"
	FormatGroupStage        TournamentFormat = "group_stage"
)

func (f TournamentFormat) Valid() bool {
	switch f {
	case FormatSingleElimination, FormatDoubleElimination, FormatRoundRobin, FormatSwiss, FormatGroupStage:
		return true
	}
	return false
}

// TournamentStatus matches the status ENUM in the tournaments table.
// Any valid value may be set by the creator in any order; there is no
// enforced transition graph.
type TournamentStatus string

const (
	TournamentStatusDraft              TournamentStatus = "draft"
	TournamentStatusRegistrationOpen   TournamentStatus = "registration_open"
	TournamentStatusRegistrationClosed TournamentStatus = "registration_closed"
	TournamentStatusInProgress         TournamentStatus = "in_progress"
	TournamentStatusCompleted          TournamentStatus = "completed"
	TournamentStatusCancelled          TournamentStatus = "cancelled"
)

func (s TournamentStatus) Valid() bool {
	switch s {
	case TournamentStatusDraft, TournamentStatusRegistrationOpen, TournamentStatusRegistrationClosed,
		TournamentStatusInProgress, TournamentStatusCompleted, TournamentStatusCancelled:
		return true
	}
	return false
}

type Tournament struct {
	ID                int              `json:"id"`
	Name              string           `json:"name"`
	Description       *string          `json:"description"`
	GameType          string           `json:"gameType"`
	Format            TournamentFormat `json:"format"`
	Status            TournamentStatus `json:"status"`
	MaxParticipants   *int             `json:"maxParticipants"`
	IsTeamBased       bool             `json:"isTeamBased"`
	TeamSize          *int             `json:"teamSize"`
	Rules             *string          `json:"rules"`
	Prizes            *string          `json:"prizes"`
	RegistrationStart *time.Time       `json:"registrationStart"`
	RegistrationEnd   *time.Time       `json:"registrationEnd"`
	StartDate         *time.Time       `json:"startDate"`
	EndDate           *time.Time       `json:"endDate"`
	CreatedBy         int              `json:"createdBy"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         *time.Time       `json:"updatedAt"`

	// Preloaded relations, populated by the service layer.
	Creator      *PublicUser   `json:"creator,omitempty"`
	Participants []Participant `json:"participants,omitempty"`
	Matches      []Match       `json:"matches,omitempty"`
}
