/*
Package store provides access to the users collection.

Each registered user is a single document: the username, the password hash,
and the ordered want-to-go list kept in one JSONB column so that list updates
remain a full-field replace of the stored value.
*/
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no user document matches the given username.
var ErrNotFound = errors.New("store: user not found")

// ErrAlreadyExists is returned when creating a user whose username is taken.
var ErrAlreadyExists = errors.New("store: username already exists")

// User is the persisted user document.
type User struct {
	Username     string
	PasswordHash string

	// WantToGo is the ordered list of bookmarked destination keys.
	// Insertion order is display order; the list never holds duplicates.
	WantToGo []string
}

// Store is the user persistence interface consumed by the HTTP handlers.
type Store interface {
	// GetByUsername fetches the user document for an exact username match.
	// It returns ErrNotFound when no document exists.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Create inserts a new user document with an empty want-to-go list.
	// It returns ErrAlreadyExists when the username is taken.
	Create(ctx context.Context, username, passwordHash string) error

	// ReplaceWantToGo overwrites the stored want-to-go list for the user.
	// It returns ErrNotFound when the update matched no document.
	ReplaceWantToGo(ctx context.Context, username string, list []string) error
}
