package valueobject

import "fmt"

// VerificationStatus is the state of a single document verification.
// Transitions: PENDING -> {VERIFIED, UNDER_REVIEW, REJECTED}.
type VerificationStatus struct {
	value string
}

var (
	VerificationPending     = VerificationStatus{value: "PENDING"}
	VerificationVerified    = VerificationStatus{value: "VERIFIED"}
	VerificationUnderReview = VerificationStatus{value: "UNDER_REVIEW"}
	VerificationRejected    = VerificationStatus{value: "REJECTED"}
)

// VerificationStatusFromString reconstructs a VerificationStatus from its string representation.
func VerificationStatusFromString(s string) (VerificationStatus, error) {
	switch s {
	case "PENDING":
		return VerificationPending, nil
	case "VERIFIED":
		return VerificationVerified, nil
	case "UNDER_REVIEW":
		return VerificationUnderReview, nil
	case "REJECTED":
		return VerificationRejected, nil
	default:
		return VerificationStatus{}, fmt.Errorf("invalid verification status: %s", s)
	}
}

func (s VerificationStatus) String() string { return s.value }

// IsTerminal returns true once a verification run has produced an outcome.
func (s VerificationStatus) IsTerminal() bool {
	return s == VerificationVerified || s == VerificationUnderReview || s == VerificationRejected
}

func (s VerificationStatus) IsZero() bool { return s.value == "" }

func (s VerificationStatus) Equal(other VerificationStatus) bool { return s.value == other.value }

// MarshalText implements encoding.TextMarshaler.
func (s VerificationStatus) MarshalText() ([]byte, error) { return []byte(s.value), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *VerificationStatus) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*s = VerificationStatus{}
		return nil
	}
	parsed, err := VerificationStatusFromString(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
