package scanning

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// amountPattern matches two-decimal amounts with optional thousands separators
	amountPattern = regexp.MustCompile(`\d{1,3}(?:,\d{3})*\.\d{2}|\d+\.\d{2}`)

	// plainNumberPattern matches a cleaned right-most item fragment
	plainNumberPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)

	// nonPriceChars strips everything but digits and periods
	nonPriceChars = regexp.MustCompile(`[^0-9.]`)
)

// parseAmount parses a matched amount, ignoring thousands separators
func parseAmount(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// amountsIn returns every two-decimal amount on a line, in order
func amountsIn(text string) []decimal.Decimal {
	matches := amountPattern.FindAllString(text, -1)
	amounts := make([]decimal.Decimal, 0, len(matches))
	for _, m := range matches {
		if d, ok := parseAmount(m); ok {
			amounts = append(amounts, d)
		}
	}
	return amounts
}

// maxAmount returns the largest amount; amounts must not be empty
func maxAmount(amounts []decimal.Decimal) decimal.Decimal {
	return decimal.Max(amounts[0], amounts[1:]...)
}

// parsePrice extracts an item price from a fragment like "₹45.00" or "$12"
func parsePrice(text string) (decimal.Decimal, bool) {
	clean := nonPriceChars.ReplaceAllString(text, "")
	if !plainNumberPattern.MatchString(clean) {
		return decimal.Zero, false
	}
	return parseAmount(clean)
}

// toFloat converts a decimal amount to a float rounded to cents
func toFloat(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func floatPtr(d decimal.Decimal) *float64 {
	f := toFloat(d)
	return &f
}
