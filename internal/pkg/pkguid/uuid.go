package pkguid

import "github.com/google/uuid"

// UUID generates random (version 4) RFC 4122 UUID strings. The generated
// values double as public share tokens, so they must not be guessable or
// time-ordered.
type UUID struct{}

// NewUUID returns a UUID generator.
func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a new UUIDv4 string.
func (u *UUID) Generate() string {
	return uuid.NewString()
}
