package valueobject

import "fmt"

// RiskLevel is an immutable value object representing a risk classification.
// Document verification uses the LOW..HIGH subset; application assessments
// use the full VERY_LOW..VERY_HIGH range.
type RiskLevel struct {
	value string
}

var (
	RiskLevelVeryLow  = RiskLevel{value: "VERY_LOW"}
	RiskLevelLow      = RiskLevel{value: "LOW"}
	RiskLevelMedium   = RiskLevel{value: "MEDIUM"}
	RiskLevelHigh     = RiskLevel{value: "HIGH"}
	RiskLevelVeryHigh = RiskLevel{value: "VERY_HIGH"}
)

var riskLevelRank = map[string]int{
	"VERY_LOW":  0,
	"LOW":       1,
	"MEDIUM":    2,
	"HIGH":      3,
	"VERY_HIGH": 4,
}

// RiskLevelFromString reconstructs a RiskLevel from its string representation.
func RiskLevelFromString(s string) (RiskLevel, error) {
	switch s {
	case "VERY_LOW":
		return RiskLevelVeryLow, nil
	case "LOW":
		return RiskLevelLow, nil
	case "MEDIUM":
		return RiskLevelMedium, nil
	case "HIGH":
		return RiskLevelHigh, nil
	case "VERY_HIGH":
		return RiskLevelVeryHigh, nil
	default:
		return RiskLevel{}, fmt.Errorf("invalid risk level: %s", s)
	}
}

// RiskLevelFromOverallScore buckets an overall application risk score (0-100).
//
//	<= 25 VERY_LOW, <= 40 LOW, <= 60 MEDIUM, <= 75 HIGH, else VERY_HIGH
func RiskLevelFromOverallScore(score float64) RiskLevel {
	switch {
	case score <= 25:
		return RiskLevelVeryLow
	case score <= 40:
		return RiskLevelLow
	case score <= 60:
		return RiskLevelMedium
	case score <= 75:
		return RiskLevelHigh
	default:
		return RiskLevelVeryHigh
	}
}

// RiskLevelFromAnomalyScore buckets a document anomaly score (0-100) into LOW, MEDIUM or HIGH.
func RiskLevelFromAnomalyScore(score float64) RiskLevel {
	switch {
	case score >= 70:
		return RiskLevelHigh
	case score >= 30:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

func (r RiskLevel) String() string { return r.value }

// Max returns the more severe of the two levels.
func (r RiskLevel) Max(other RiskLevel) RiskLevel {
	if riskLevelRank[other.value] > riskLevelRank[r.value] {
		return other
	}
	return r
}

func (r RiskLevel) IsZero() bool { return r.value == "" }

func (r RiskLevel) Equal(other RiskLevel) bool { return r.value == other.value }

// MarshalText implements encoding.TextMarshaler.
func (r RiskLevel) MarshalText() ([]byte, error) { return []byte(r.value), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *RiskLevel) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*r = RiskLevel{}
		return nil
	}
	parsed, err := RiskLevelFromString(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
