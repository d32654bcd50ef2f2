package service_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/service"
)

func TestDocumentMatcher_Match(t *testing.T) {
	m := service.NewDocumentMatcher()

	tests := []struct {
		name  string
		text  string
		want  model.FieldMatches
		score float64
	}{
		{
			name:  "salary slip",
			text:  salarySlipText,
			want:  model.FieldMatches{Name: true, Income: true, PAN: true},
			score: 60,
		},
		{
			name:  "case folded name and pan",
			text:  "ASHA VERMA abcde1234f",
			want:  model.FieldMatches{Name: true, PAN: true},
			score: 40,
		},
		{
			name:  "plain integer income and grouped valuation",
			text:  "income: 52340 valuation: 5,000,000",
			want:  model.FieldMatches{Income: true, PropertyValue: true},
			score: 40,
		},
		{
			name:  "rs prefix",
			text:  "Property value Rs.5000000 for Salary Rs.52340",
			want:  model.FieldMatches{Income: true, PropertyValue: true},
			score: 40,
		},
		{
			name:  "aadhaar without spaces",
			text:  "UID 123456789012",
			want:  model.FieldMatches{Aadhaar: true},
			score: 20,
		},
		{
			name:  "nothing",
			text:  "unrelated text",
			score: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := m.Match(tt.text, testProfile())
			assert.Equal(t, tt.want, r.Matches)
			assert.Equal(t, tt.score, r.Score)
		})
	}
}

func TestDocumentMatcher_UnclaimedFieldsCountAsUnmatched(t *testing.T) {
	p := testProfile()
	p.PropertyValuation = decimal.Zero
	p.AadhaarNumber = ""

	text := "Asha Verma ABCDE1234F ₹52,340"
	r := service.NewDocumentMatcher().Match(text, p)

	assert.Equal(t, 3, r.Matches.Count())
	assert.Equal(t, 60.0, r.Score, "denominator stays at five fields")
}
