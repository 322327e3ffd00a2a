package utils

import "github.com/google/uuid"

// NewID returns a random UUIDv4 string used for rooms, messages and connections.
func NewID() string {
	return uuid.NewString()
}
