// Package repository holds the MySQL-backed stores.  Callers distinguish
// failures with the sentinel errors below; anything else is a driver or
// connection error.
package repository

import "errors"

var (
	// ErrEmailExists is returned by UserRepo.Create when the email is taken,
	// including when a concurrent insert wins the unique index.
	ErrEmailExists = errors.New("email already exists")

	ErrUserNotFound = errors.New("user not found")

	// ErrTaskNotFound also covers tasks owned by another user.
	ErrTaskNotFound = errors.New("task not found")
)
