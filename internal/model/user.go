package model

import "time"

// User represents an account as stored in the `users` table.  The password
// hash never leaves the server: it has no JSON name and responses are built
// from this struct directly.
//
// Fields:
//
//	ID           – UUID primary key.
//	Name         – display name.
//	Email        – unique, case-sensitive as stored.
//	PasswordHash – bcrypt hash of the password.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
