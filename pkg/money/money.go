// Package money holds the rupee amount helpers shared by the engine: display
// formatting, the literal renderings a document may use for an amount, and
// extraction of currency figures from free text.
package money

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// RupeeSymbol prefixes formatted amounts.
const RupeeSymbol = "₹"

var (
	westernPrinter = message.NewPrinter(language.English)
	indianPrinter  = message.NewPrinter(language.MustParse("en-IN"))
)

// Format renders d as a rupee amount with two decimals and Indian digit
// grouping, for example "₹5,00,000.00".
func Format(d decimal.Decimal) string {
	return RupeeSymbol + indianPrinter.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// Group renders the integer part of d with comma grouping in the given style.
func Group(d decimal.Decimal, indian bool) string {
	if indian {
		return indianPrinter.Sprintf("%d", d.IntPart())
	}
	return westernPrinter.Sprintf("%d", d.IntPart())
}

// Renderings returns the lower-case literal forms an amount is commonly
// written in: the plain integer, currency-prefixed forms, and comma-grouped
// forms in both western and Indian style. Labels such as "salary:" are
// applied by the caller. A zero or negative amount has no renderings.
func Renderings(d decimal.Decimal) []string {
	if !d.IsPositive() {
		return nil
	}
	plain := d.Truncate(0).String()
	forms := []string{plain}
	if !d.Equal(d.Truncate(0)) {
		forms = append(forms, d.String())
	}
	for _, grouped := range []string{Group(d, false), Group(d, true)} {
		if grouped != plain {
			forms = append(forms, grouped)
		}
	}

	out := make([]string, 0, len(forms)*4)
	seen := make(map[string]bool, len(forms)*4)
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, f := range forms {
		add(f)
		add(RupeeSymbol + f)
		add("rs." + f)
		add("inr " + f)
	}
	return out
}

var (
	prefixedAmountRe = regexp.MustCompile(`(?i)(?:₹|rs\.|inr)\s*(\d[\d,]*(?:\.\d+)?)`)
	suffixedAmountRe = regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)\s*(?:rupees|rs\b|₹)`)
	rupeeAmountRe    = regexp.MustCompile(`₹\s*(\d[\d,]*(?:\.\d+)?)`)
)

// ExtractAmounts returns every currency-marked figure in text, in order of
// appearance per pattern. Prefixed forms (₹, Rs., INR) are read first and
// suffixed forms ("rupees", "Rs", "₹") second.
func ExtractAmounts(text string) []decimal.Decimal {
	amounts := collect(prefixedAmountRe, text)
	return append(amounts, collect(suffixedAmountRe, text)...)
}

// ExtractRupeeAmounts returns only the ₹-prefixed figures in text.
func ExtractRupeeAmounts(text string) []decimal.Decimal {
	return collect(rupeeAmountRe, text)
}

func collect(re *regexp.Regexp, text string) []decimal.Decimal {
	var out []decimal.Decimal
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		raw := strings.Trim(strings.ReplaceAll(m[1], ",", ""), ".")
		d, err := decimal.NewFromString(raw)
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	return out
}

// IsRound reports whether the integer part of d ends in 000 or 500.
func IsRound(d decimal.Decimal) bool {
	s := d.Truncate(0).String()
	return strings.HasSuffix(s, "000") || strings.HasSuffix(s, "500")
}
