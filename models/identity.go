package models

import "github.com/google/uuid"

// Identity is the signed-in user as seen by clients.
type Identity struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
}

// Equal compares two possibly nil identities by value.
func (i *Identity) Equal(other *Identity) bool {
	if i == nil || other == nil {
		return i == other
	}
	return *i == *other
}
