package auth

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/shopfront/internal/models"
	"github.com/mmynk/shopfront/internal/storage"
)

// MaxPasswordBytes is the longest password bcrypt can hash.
const MaxPasswordBytes = 72

var (
	ErrInvalidEmail    = errors.New("email must be a plain valid address")
	ErrEmptyPassword   = errors.New("password is required")
	ErrPasswordTooLong = fmt.Errorf("password must be at most %d bytes", MaxPasswordBytes)
)

// PasswordAuthenticator logs users into the single current-user slot.
// Passwords are stored only as bcrypt hashes.
type PasswordAuthenticator struct {
	slot storage.UserSlot
	cost int
	now  func() time.Time
}

// NewPasswordAuthenticator creates a password authenticator writing to slot.
// A cost of 0 uses bcrypt.DefaultCost.
func NewPasswordAuthenticator(slot storage.UserSlot, cost int) *PasswordAuthenticator {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &PasswordAuthenticator{slot: slot, cost: cost, now: time.Now}
}

// ValidateCredential checks the login input shape. The email becomes the
// order-store key, so display-name forms like "Ada <ada@example.com>" are
// rejected.
func (a *PasswordAuthenticator) ValidateCredential(email, password string) error {
	if email == "" {
		return ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	if password == "" {
		return ErrEmptyPassword
	}
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

// Login overwrites the current-user slot with email.
func (a *PasswordAuthenticator) Login(email, password string) (models.CurrentUser, error) {
	if err := a.ValidateCredential(email, password); err != nil {
		return models.CurrentUser{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return models.CurrentUser{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.CurrentUser{
		Email:        email,
		PasswordHash: string(hashedPassword),
		LoggedInAt:   a.now().UTC(),
	}
	a.slot.SetCurrent(user)
	return user, nil
}

// Logout clears the slot. It returns storage.ErrNoActiveUser if nobody was logged in.
func (a *PasswordAuthenticator) Logout() error {
	if !a.slot.Clear() {
		return storage.ErrNoActiveUser
	}
	return nil
}
