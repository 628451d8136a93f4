package models

import "time"

// AuthToken is the persisted side of a bearer token. Only a SHA-256
// digest of the signed token is stored; logout deletes the row, which
// revokes the token even before its JWT expiry.
type AuthToken struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}
