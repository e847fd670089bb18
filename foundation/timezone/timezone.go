// Package timezone converts stored UTC timestamps into the display form the
// client asked for.
package timezone

import "time"

// Default is the zone used when the client did not ask for one.
const Default = "UTC"

// Converter renders a UTC timestamp into its display string.
type Converter func(t time.Time) string

// Validate reports whether the zone name is known.
func Validate(name string) bool {
	if name == "" {
		return false
	}
	_, err := time.LoadLocation(name)
	return err == nil
}

// ConverterFor returns a Converter rendering timestamps in the given zone as
// ISO 8601 with the zone offset. An unknown zone falls back to UTC.
func ConverterFor(name string) Converter {
	loc, err := time.LoadLocation(name)
	if err != nil {
		loc = time.UTC
	}

	return func(t time.Time) string {
		return t.In(loc).Format(time.RFC3339)
	}
}
