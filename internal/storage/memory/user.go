package memory

import (
	"sync"

	"github.com/mmynk/shopfront/internal/models"
	"github.com/mmynk/shopfront/internal/storage"
)

var _ storage.UserSlot = (*UserSlot)(nil)

// UserSlot holds at most one current user behind its own lock.
type UserSlot struct {
	mu   sync.Mutex
	user *models.CurrentUser
}

// NewUserSlot creates an empty slot.
func NewUserSlot() *UserSlot {
	return &UserSlot{}
}

// Current returns a copy of the logged-in user.
func (s *UserSlot) Current() (models.CurrentUser, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return models.CurrentUser{}, false
	}
	return *s.user, true
}

// SetCurrent overwrites the slot.
func (s *UserSlot) SetCurrent(user models.CurrentUser) {
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
}

// Clear empties the slot.
func (s *UserSlot) Clear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	had := s.user != nil
	s.user = nil
	return had
}
