package values

import "time"

// displayLayout renders the fixed textual form, ISO 8601 seconds precision
// with a literal Z suffix.
const displayLayout = "2006-01-02T15:04:05"

// Timestamp represents a lifecycle timestamp (created, updated or deleted
// at). The zero Timestamp means the value is absent, which is a legal state
// for entities the repository has not touched yet.
type Timestamp struct {
	value time.Time
}

// ParseTimestamp validates the raw time and wraps it into a Timestamp.
func ParseTimestamp(raw time.Time) (Timestamp, error) {
	if raw.IsZero() {
		return Timestamp{}, NewValidationError("timestamp", "must be a valid point in time")
	}

	return Timestamp{value: raw}, nil
}

// Time returns the underlying time.
func (ts Timestamp) Time() time.Time {
	return ts.value
}

// Equal is an exact comparison on the instant in time.
func (ts Timestamp) Equal(other Timestamp) bool {
	return ts.value.Equal(other.value)
}

func (ts Timestamp) String() string {
	return ts.value.UTC().Format(displayLayout) + "Z"
}

// IsZero reports whether the timestamp is absent.
func (ts Timestamp) IsZero() bool {
	return ts.value.IsZero()
}
