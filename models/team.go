package models

import "time"

// TeamMemberRole matches the role ENUM in the team_members table.
type TeamMemberRole string

const (
	TeamRoleCaptain    TeamMemberRole = "captain"
	TeamRoleMember     TeamMemberRole = "member"
	TeamRoleSubstitute TeamMemberRole = "substitute"
)

func (r TeamMemberRole) Valid() bool {
	switch r {
	case TeamRoleCaptain, TeamRoleMember, TeamRoleSubstitute:
		return true
	}
	return false
}

type Team struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	LogoKey     *string    `json:"-"`
	LogoURL     *string    `json:"logoUrl"`
	CaptainID   *int       `json:"captainId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt"`

	Captain *PublicUser  `json:"captain,omitempty"`
	Members []TeamMember `json:"members,omitempty"`
}

type TeamMember struct {
	TeamID   int            `json:"teamId"`
	UserID   int            `json:"userId"`
	Role     TeamMemberRole `json:"role"`
	JoinedAt time.Time      `json:"joinedAt"`

	User *PublicUser `json:"user,omitempty"`
}
