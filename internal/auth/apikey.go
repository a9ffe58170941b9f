package auth

import (
	"crypto/subtle"
	"fmt"
	"net/http"
)

// APIKeyHeader carries the shared secret.
const APIKeyHeader = "X-API-KEY"

// APIKeyStrategy accepts requests whose X-API-KEY header matches one of an
// allow-list of shared secrets.
type APIKeyStrategy struct {
	keys [][]byte
}

// NewAPIKeyStrategy creates a strategy for the given keys. Empty keys are ignored.
func NewAPIKeyStrategy(keys ...string) *APIKeyStrategy {
	s := &APIKeyStrategy{}
	for _, k := range keys {
		if k != "" {
			s.keys = append(s.keys, []byte(k))
		}
	}
	return s
}

// Authenticate implements Strategy.
func (s *APIKeyStrategy) Authenticate(r *http.Request) (Principal, error) {
	got := r.Header.Get(APIKeyHeader)
	if got == "" {
		return Principal{}, ErrMissingCredentials
	}

	// Compare against every key so timing does not reveal the match position.
	match := -1
	for i, k := range s.keys {
		if subtle.ConstantTimeCompare([]byte(got), k) == 1 {
			match = i
		}
	}
	if match < 0 {
		return Principal{}, ErrInvalidAPIKey
	}
	return Principal{Method: "api_key", Subject: fmt.Sprintf("key-%d", match)}, nil
}
