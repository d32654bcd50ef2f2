package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidProfile is returned when an applicant profile is missing a required field
// or carries an out-of-range value.
var ErrInvalidProfile = errors.New("invalid applicant profile")

// CIBIL bureau score bounds.
const (
	MinCIBILScore = 300
	MaxCIBILScore = 900
)

// ApplicantProfile is the applicant record owned by the surrounding application.
// The engine reads it and never mutates it.
type ApplicantProfile struct {
	ApplicationID       uuid.UUID
	FirstName           string
	LastName            string
	PANNumber           string
	AadhaarNumber       string
	CompanyName         string
	EmploymentType      string
	MonthlyIncome       decimal.Decimal
	ExistingEMI         decimal.Decimal
	LoanAmount          decimal.Decimal
	PropertyValuation   decimal.Decimal
	ExperienceYears     int
	CIBILScore          int
	IsNonAgricultural   bool
	HasExistingMortgage bool
}

// FullName returns the applicant name as it is expected to appear on documents.
func (p ApplicantProfile) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// Validate checks required fields and value ranges.
func (p ApplicantProfile) Validate() error {
	if p.FullName() == "" {
		return fmt.Errorf("%w: applicant name is required", ErrInvalidProfile)
	}
	if p.CIBILScore < MinCIBILScore || p.CIBILScore > MaxCIBILScore {
		return fmt.Errorf("%w: cibil score %d outside [%d, %d]", ErrInvalidProfile, p.CIBILScore, MinCIBILScore, MaxCIBILScore)
	}
	amounts := []struct {
		name   string
		amount decimal.Decimal
	}{
		{"monthly income", p.MonthlyIncome},
		{"existing emi", p.ExistingEMI},
		{"loan amount", p.LoanAmount},
		{"property valuation", p.PropertyValuation},
	}
	for _, a := range amounts {
		if a.amount.IsNegative() {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidProfile, a.name)
		}
	}
	return nil
}

// MustValidate panics when the profile violates Validate. Callers that accept
// external input are expected to call Validate first.
func (p ApplicantProfile) MustValidate() {
	if err := p.Validate(); err != nil {
		panic(err)
	}
}
