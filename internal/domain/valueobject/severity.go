package valueobject

import (
	"fmt"
	"strings"
)

// Severity grades a single document anomaly.
type Severity struct {
	value string
}

var (
	SeverityLow    = Severity{value: "LOW"}
	SeverityMedium = Severity{value: "MEDIUM"}
	SeverityHigh   = Severity{value: "HIGH"}
)

// SeverityFromString parses a severity case-insensitively.
func SeverityFromString(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LOW":
		return SeverityLow, nil
	case "MEDIUM":
		return SeverityMedium, nil
	case "HIGH":
		return SeverityHigh, nil
	default:
		return Severity{}, fmt.Errorf("invalid severity: %s", s)
	}
}

// Weight returns the scoring weight: HIGH=3, MEDIUM=2, LOW=1.
func (s Severity) Weight() int {
	switch s.value {
	case "HIGH":
		return 3
	case "MEDIUM":
		return 2
	case "LOW":
		return 1
	default:
		return 0
	}
}

func (s Severity) String() string { return s.value }

func (s Severity) Equal(other Severity) bool { return s.value == other.value }

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.value), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*s = Severity{}
		return nil
	}
	parsed, err := SeverityFromString(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
