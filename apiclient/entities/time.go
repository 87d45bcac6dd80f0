package entities

import (
	"strings"
	"time"
)

// CustomTime handles the timestamp formats returned by the API
type CustomTime struct {
	time.Time
}

// UnmarshalJSON implements custom JSON unmarshaling for timestamps
func (ct *CustomTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		return nil
	}

	t, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	ct.Time = t
	return nil
}

// MarshalJSON implements custom JSON marshaling for timestamps
func (ct CustomTime) MarshalJSON() ([]byte, error) {
	if ct.Time.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + ct.Time.UTC().Format(time.RFC3339Nano) + `"`), nil
}

// ParseTimestamp parses an ISO-8601 timestamp as written by the platform and
// by JavaScript's Date.toISOString.
func ParseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999", // Without timezone
		"2006-01-02T15:04:05",
		"2006-01-02",
	}

	var parseErr error
	for _, format := range formats {
		t, err := time.Parse(format, s)
		if err == nil {
			return t, nil
		}
		parseErr = err
	}

	return time.Time{}, parseErr
}
