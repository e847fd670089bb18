package values

import (
	"regexp"

	"github.com/google/uuid"
)

// canonical 8-4-4-4-12 form only, the looser forms uuid.Parse accepts
// (braces, urn prefix, no dashes) are rejected.
var idShape = regexp.MustCompile(`^[0-9a-fA-F]{8}-([0-9a-fA-F]{4}-){3}[0-9a-fA-F]{12}$`)

// ID represents a validated entity identifier. The check is purely syntactic,
// version and variant bits are not inspected.
type ID struct {
	value uuid.UUID
}

// ParseID validates the raw identifier and wraps it into an ID.
func ParseID(raw string) (ID, error) {
	if !idShape.MatchString(raw) {
		return ID{}, NewValidationError("id", "%q is not a valid uuid", raw)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return ID{}, NewValidationError("id", "%q is not a valid uuid", raw)
	}

	return ID{value: id}, nil
}

func (id ID) String() string {
	return id.value.String()
}

// UUID returns the underlying identifier.
func (id ID) UUID() uuid.UUID {
	return id.value
}

// Equal is an exact structural comparison.
func (id ID) Equal(other ID) bool {
	return id.value == other.value
}

// IsZero reports whether the ID was never assigned, entities carry a zero ID
// until the repository persists them.
func (id ID) IsZero() bool {
	return id.value == uuid.Nil
}
