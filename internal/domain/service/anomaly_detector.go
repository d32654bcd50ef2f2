package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
	"github.com/bibbank/loanrisk/pkg/money"
)

const (
	minContentLength      = 10
	repeatedRunLength     = 6
	meaningfulWordRatio   = 0.3
	duplicateLineMinLen   = 20
	duplicateLineMaxCount = 2
	unrealisticAmount     = 100_000_000
	salaryTolerance       = 0.3
	roundAmountRatio      = 0.5
	minTxnIndicators      = 3
	minSalaryComponents   = 3
)

var (
	longTokenRe     = regexp.MustCompile(`[a-zA-Z]{20,}`)
	wideGapRe       = regexp.MustCompile(`[a-zA-Z]{2,}[ \t]{2,}[a-zA-Z]{2,}`)
	yearRe          = regexp.MustCompile(`\d{4}`)
	panRe           = regexp.MustCompile(`[A-Z]{5}\d{4}[A-Z]`)
	aadhaarRe       = regexp.MustCompile(`\d{4}\s?\d{4}\s?\d{4}`)
	salaryComponent = regexp.MustCompile(`(?i)\b(basic|hra|da|ta|pf|tax|net|gross)\b`)

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d{1,2}[-/]\d{1,2}[-/]\d{2,4}`),
		regexp.MustCompile(`(?i)\d{1,2}\s+(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{4}`),
		regexp.MustCompile(`(?i)(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2},?\s+\d{4}`),
	}

	placeholders   = []string{"lorem ipsum", "sample text", "enter text here", "xxx", "---"}
	txnIndicators  = []string{"withdrawal", "deposit", "transfer", "balance", "debit", "credit"}
	areaUnits      = []string{"sq.ft", "sq ft", "square feet", "sq.m", "square meters", "acres", "hectares"}
	overdraftMarks = []string{"overdraft", "-₹", "(₹"}
)

// AnomalyReport is the outcome of scanning one document.
type AnomalyReport struct {
	RiskLevel valueobject.RiskLevel
	Anomalies []model.Anomaly
	Score     float64
}

// NewAnomalyReport scores a list of anomalies.
func NewAnomalyReport(anomalies []model.Anomaly) AnomalyReport {
	score := model.AnomalyScore(anomalies)
	return AnomalyReport{
		Anomalies: anomalies,
		Score:     score,
		RiskLevel: valueobject.RiskLevelFromAnomalyScore(score),
	}
}

// AnomalyDetector scans extracted document text for structural and content
// red flags. It is stateless apart from its clock and safe for concurrent use.
type AnomalyDetector struct {
	now func() time.Time
}

// NewAnomalyDetector returns a detector that uses now for the future-date
// check. A nil clock uses time.Now.
func NewAnomalyDetector(now func() time.Time) *AnomalyDetector {
	if now == nil {
		now = time.Now
	}
	return &AnomalyDetector{now: now}
}

// Detect runs every deterministic check over text. Text too short to analyse
// is reported as EMPTY_CONTENT alone.
func (d *AnomalyDetector) Detect(text string, docType valueobject.DocumentType, profile model.ApplicantProfile) AnomalyReport {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < minContentLength {
		return NewAnomalyReport([]model.Anomaly{{
			Type:        model.AnomalyEmptyContent,
			Description: "Document appears to be empty or has very little content",
			Severity:    valueobject.SeverityHigh,
		}})
	}

	var anomalies []model.Anomaly
	anomalies = append(anomalies, d.contentChecks(text)...)
	anomalies = append(anomalies, d.typeChecks(text, docType)...)
	anomalies = append(anomalies, d.consistencyChecks(text, docType, profile)...)
	return NewAnomalyReport(anomalies)
}

func (d *AnomalyDetector) contentChecks(text string) []model.Anomaly {
	var out []model.Anomaly
	lower := strings.ToLower(text)

	if isGibberish(text) {
		out = append(out, high(model.AnomalyGibberishText, "Document contains nonsensical or garbled text"))
	}
	if n := duplicateLines(text); n > 0 {
		out = append(out, medium(model.AnomalyDuplicateContent, fmt.Sprintf("Found %d lines repeated multiple times", n)))
	}
	for _, p := range placeholders {
		if strings.Contains(lower, p) {
			out = append(out, high(model.AnomalyPlaceholderText, fmt.Sprintf("Found placeholder text: %q", p)))
		}
	}
	if hasInconsistentFormatting(text) {
		out = append(out, medium(model.AnomalyInconsistentFormatting, "Document has inconsistent formatting or styling"))
	}

	limit := d.now().Year() + 1
	for _, re := range datePatterns {
		for _, date := range re.FindAllString(text, -1) {
			y := yearRe.FindString(date)
			if y == "" {
				continue
			}
			if year, err := strconv.Atoi(y); err == nil && year > limit {
				out = append(out, high(model.AnomalyFutureDate, "Document contains future date: "+date))
			}
		}
	}

	ceiling := decimal.NewFromInt(unrealisticAmount)
	for _, amount := range money.ExtractAmounts(text) {
		if amount.GreaterThan(ceiling) {
			out = append(out, medium(model.AnomalyUnrealisticAmount, "Unusually large amount detected: "+money.Format(amount)))
		}
	}
	return out
}

func (d *AnomalyDetector) typeChecks(text string, docType valueobject.DocumentType) []model.Anomaly {
	var out []model.Anomaly
	lower := strings.ToLower(text)

	switch docType {
	case valueobject.DocumentTypeBankStatements:
		if countPresent(lower, txnIndicators) < minTxnIndicators {
			out = append(out, medium(model.AnomalyInsufficientTransactions, "Bank statement shows very few transactions"))
		}
		if countPresent(lower, overdraftMarks) > 0 {
			out = append(out, high(model.AnomalyNegativeBalance, "Potential overdraft or negative balance detected"))
		}

	case valueobject.DocumentTypeSalarySlips:
		if distinctComponents(text) < minSalaryComponents {
			out = append(out, medium(model.AnomalyIncompleteSalarySlip, "Salary slip missing standard components"))
		}
		amounts := money.ExtractRupeeAmounts(text)
		round := 0
		for _, a := range amounts {
			if money.IsRound(a) {
				round++
			}
		}
		if float64(round) > float64(len(amounts))*roundAmountRatio {
			out = append(out, model.Anomaly{
				Type:        model.AnomalySuspiciousRoundNumbers,
				Description: "Unusual number of round figure amounts",
				Severity:    valueobject.SeverityLow,
			})
		}

	case valueobject.DocumentTypePANCard:
		if !panRe.MatchString(text) {
			out = append(out, high(model.AnomalyInvalidPANFormat, "PAN card number format appears invalid"))
		}

	case valueobject.DocumentTypeAadhaar:
		if !aadhaarRe.MatchString(text) {
			out = append(out, high(model.AnomalyInvalidAadhaarFormat, "Aadhaar number format appears invalid"))
		}

	case valueobject.DocumentTypeKYCDocs:
		if !panRe.MatchString(text) && !aadhaarRe.MatchString(text) {
			out = append(out, high(model.AnomalyInvalidKYCFormat, "No valid PAN or Aadhaar number found in KYC document"))
		}

	case valueobject.DocumentTypePropertyValuation:
		if countPresent(lower, areaUnits) == 0 {
			out = append(out, medium(model.AnomalyMissingPropertyDetails, "Property document missing area measurements"))
		}
	}
	return out
}

func (d *AnomalyDetector) consistencyChecks(text string, docType valueobject.DocumentType, p model.ApplicantProfile) []model.Anomaly {
	var out []model.Anomaly

	if name := strings.ToLower(p.FullName()); name != "" && !strings.Contains(strings.ToLower(text), name) {
		out = append(out, high(model.AnomalyNameMismatch, "Applicant name not found in document"))
	}

	if docType.Equal(valueobject.DocumentTypeSalarySlips) && p.MonthlyIncome.IsPositive() {
		tolerance := p.MonthlyIncome.Mul(decimal.NewFromFloat(salaryTolerance))
		for _, amount := range money.ExtractRupeeAmounts(text) {
			if amount.Sub(p.MonthlyIncome).Abs().GreaterThan(tolerance) {
				out = append(out, high(model.AnomalySalaryMismatch, fmt.Sprintf(
					"Document salary (%s) differs from application (%s)",
					money.Format(amount), money.Format(p.MonthlyIncome))))
				break
			}
		}
	}
	return out
}

// isGibberish flags long runs of one character, very long alphabetic
// tokens, or text where few tokens are real words.
func isGibberish(text string) bool {
	if hasRepeatedRun(text, repeatedRunLength) {
		return true
	}
	if longTokenRe.MatchString(text) {
		return true
	}
	words := strings.Fields(text)
	meaningful := 0
	for _, w := range words {
		if utf8.RuneCountInString(w) > 2 && isAlpha(w) {
			meaningful++
		}
	}
	return float64(meaningful) < float64(len(words))*meaningfulWordRatio
}

// hasRepeatedRun reports a run of n identical runes, ignoring line breaks.
func hasRepeatedRun(text string, n int) bool {
	var prev rune
	run := 0
	for _, r := range text {
		if r == '\n' {
			run = 0
			continue
		}
		if run > 0 && r == prev {
			run++
		} else {
			run = 1
		}
		if run >= n {
			return true
		}
		prev = r
	}
	return false
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

// duplicateLines counts distinct substantial lines that appear more than twice.
func duplicateLines(text string) int {
	counts := make(map[string]int)
	for _, line := range strings.Split(text, "\n") {
		clean := strings.TrimSpace(line)
		if utf8.RuneCountInString(clean) > duplicateLineMinLen {
			counts[clean]++
		}
	}
	n := 0
	for _, c := range counts {
		if c > duplicateLineMaxCount {
			n++
		}
	}
	return n
}

// hasInconsistentFormatting reports all-caps lines mixed with all-lowercase
// lines, or wide gaps between words.
func hasInconsistentFormatting(text string) bool {
	upper, lower := 0, 0
	for _, line := range strings.Split(text, "\n") {
		switch letterCase(line) {
		case caseUpper:
			upper++
		case caseLower:
			lower++
		}
	}
	if upper > 0 && lower > 0 {
		return true
	}
	return wideGapRe.MatchString(text)
}

type lineCase int

const (
	caseNone lineCase = iota
	caseUpper
	caseLower
	caseMixed
)

func letterCase(line string) lineCase {
	hasUpper, hasLower := false, false
	for _, r := range line {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		}
	}
	switch {
	case hasUpper && hasLower:
		return caseMixed
	case hasUpper:
		return caseUpper
	case hasLower:
		return caseLower
	default:
		return caseNone
	}
}

func distinctComponents(text string) int {
	seen := make(map[string]bool)
	for _, m := range salaryComponent.FindAllString(text, -1) {
		seen[strings.ToLower(m)] = true
	}
	return len(seen)
}

func countPresent(lower string, needles []string) int {
	n := 0
	for _, s := range needles {
		if strings.Contains(lower, s) {
			n++
		}
	}
	return n
}

func high(kind, description string) model.Anomaly {
	return model.Anomaly{Type: kind, Description: description, Severity: valueobject.SeverityHigh}
}

func medium(kind, description string) model.Anomaly {
	return model.Anomaly{Type: kind, Description: description, Severity: valueobject.SeverityMedium}
}
