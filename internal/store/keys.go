package store

import "github.com/google/uuid"

// NewPushKey returns a unique child key that sorts by creation time.
func NewPushKey() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
