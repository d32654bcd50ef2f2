package service

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/pkg/money"
)

// MatchReport holds the per-field matches of one document and the match score.
type MatchReport struct {
	Matches model.FieldMatches
	Score   float64
}

// DocumentMatcher looks for the applicant's claimed fields in extracted
// document text. Matching is substring search over case-folded text; it is
// an approximation and never parses document structure.
type DocumentMatcher struct{}

// NewDocumentMatcher returns a DocumentMatcher.
func NewDocumentMatcher() *DocumentMatcher {
	return &DocumentMatcher{}
}

// Match compares text against the profile. The score always uses the fixed
// denominator model.MatchFieldCount, so a field the applicant never claimed
// counts as unmatched.
func (m *DocumentMatcher) Match(text string, p model.ApplicantProfile) MatchReport {
	lower := strings.ToLower(text)

	matches := model.FieldMatches{
		Name:          containsClaim(lower, strings.ToLower(p.FullName())),
		Income:        containsAmount(lower, p.MonthlyIncome),
		PropertyValue: containsAmount(lower, p.PropertyValuation),
		PAN:           containsClaim(lower, strings.ToLower(strings.TrimSpace(p.PANNumber))),
		Aadhaar:       containsClaim(stripSpace(lower), stripSpace(p.AadhaarNumber)),
	}
	return MatchReport{Matches: matches, Score: matches.Score()}
}

func containsClaim(text, claim string) bool {
	return claim != "" && strings.Contains(text, claim)
}

// containsAmount matches any literal rendering of amount. Labelled forms
// such as "salary: 52340" contain the bare rendering.
func containsAmount(text string, amount decimal.Decimal) bool {
	for _, r := range money.Renderings(amount) {
		if strings.Contains(text, r) {
			return true
		}
	}
	return false
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
