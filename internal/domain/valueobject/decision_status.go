package valueobject

import (
	"fmt"
	"strings"
)

// DecisionStatus is the terminal outcome of one decision cycle.
type DecisionStatus struct {
	value string
}

var (
	DecisionApproved = DecisionStatus{value: "APPROVED"}
	DecisionRejected = DecisionStatus{value: "REJECTED"}
)

// DecisionStatusFromString reconstructs a DecisionStatus from its string representation.
func DecisionStatusFromString(s string) (DecisionStatus, error) {
	switch s {
	case "APPROVED":
		return DecisionApproved, nil
	case "REJECTED":
		return DecisionRejected, nil
	default:
		return DecisionStatus{}, fmt.Errorf("invalid decision status: %s", s)
	}
}

func (d DecisionStatus) String() string { return d.value }

func (d DecisionStatus) IsApproved() bool { return d == DecisionApproved }

func (d DecisionStatus) Equal(other DecisionStatus) bool { return d.value == other.value }

// Recommendation is an advisory opinion on a document or an application.
type Recommendation struct {
	value string
}

var (
	RecommendationVerified     = Recommendation{value: "VERIFIED"}
	RecommendationReviewNeeded = Recommendation{value: "REVIEW_NEEDED"}
	RecommendationRejected     = Recommendation{value: "REJECTED"}
)

// RecommendationFromString maps the advisory vocabulary onto a Recommendation.
// APPROVE and REJECT are accepted as application-level synonyms.
func RecommendationFromString(s string) (Recommendation, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "VERIFIED", "APPROVE", "APPROVED":
		return RecommendationVerified, nil
	case "REVIEW_NEEDED", "REVIEW", "UNDER_REVIEW":
		return RecommendationReviewNeeded, nil
	case "REJECTED", "REJECT":
		return RecommendationRejected, nil
	default:
		return Recommendation{}, fmt.Errorf("invalid recommendation: %s", s)
	}
}

func (r Recommendation) String() string { return r.value }

func (r Recommendation) IsNegative() bool { return r == RecommendationRejected }

func (r Recommendation) IsZero() bool { return r.value == "" }

// MarshalText implements encoding.TextMarshaler.
func (d DecisionStatus) MarshalText() ([]byte, error) { return []byte(d.value), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DecisionStatus) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = DecisionStatus{}
		return nil
	}
	parsed, err := DecisionStatusFromString(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (r Recommendation) MarshalText() ([]byte, error) { return []byte(r.value), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Recommendation) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*r = Recommendation{}
		return nil
	}
	parsed, err := RecommendationFromString(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
