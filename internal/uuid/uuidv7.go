// Package uuid generates and validates the string identifiers used as
// primary keys.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a UUIDv7 string. UUIDv7 embeds a millisecond timestamp in its
// leading bits, so ids sort in creation order.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// Random source failure; fall back to v4.
		return googleuuid.NewString()
	}
	return id.String()
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
