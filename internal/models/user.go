package models

import "time"

// CurrentUser represents the single logged-in user of the process.
//
// There is no user table: login overwrites this record and logout clears it.
// The password is only ever kept as a bcrypt hash.
type CurrentUser struct {
	// Email is the user's email address and the key into the order store.
	Email string

	// PasswordHash is the bcrypt hash of the password given at login.
	PasswordHash string

	// LoggedInAt is when the slot was last written.
	LoggedInAt time.Time
}
