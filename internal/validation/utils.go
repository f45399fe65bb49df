package validation

import (
	"github.com/google/uuid"
)

// IsValidUUID reports whether s parses as a UUID in any of the textual
// forms accepted by google/uuid.
func IsValidUUID(s string) bool {
	return uuid.Validate(s) == nil
}
