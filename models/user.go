package models

import "time"

type User struct {
	ID           int        `json:"id"`
	FullName     *string    `json:"fullName"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt"`
}

// PublicUser is the reduced shape embedded in other resources
// (participants, team members) so password hashes and emails never
// leak through preloads.
type PublicUser struct {
	ID       int     `json:"id"`
	FullName *string `json:"fullName"`
}

func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{ID: u.ID, FullName: u.FullName}
}
