package scanning

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var (
	// totalKeywords mark a row as stating a total
	totalKeywords = []string{"total", "payable", "net amount", "balance", "amount due"}

	// labelledTotalKeywords name the grand total explicitly and beat magnitude
	labelledTotalKeywords = []string{"grand total", "net payable"}

	taxKeywords = []string{"tax", "gst", "vat"}

	// noiseKeywords mark metadata rows that are never items
	noiseKeywords = []string{
		"total", "subtotal", "sub total", "amount", "payable", "balance", "due",
		"cash", "card", "change", "visa", "mastercard", "amex", "upi", "date",
		"time", "tax", "gst", "vat", "discount", "round", "rounding", "tel",
		"ph:", "item", "price", "rate", "qty", "quantity", "desc", "description",
	}

	itemStopPrefixes = []string{"total", "sub"}

	quantityPattern = regexp.MustCompile(`(?i)^(\d+)\s*(x|pcs|pc)\b`)
	unitPattern     = regexp.MustCompile(`(?i)\b(\d*\.?\d+)\s*(kg|g|gm|l|ml|ltr|box|pkt)\b`)
	digitsOnly      = regexp.MustCompile(`^\d+$`)
	digitsOrSpace   = regexp.MustCompile(`^[\d\s]*$`)
)

// bodyAnalysis is the outcome of scanning the receipt body
type bodyAnalysis struct {
	items []LineItem
	total *decimal.Decimal
	tax   *decimal.Decimal
}

// analyzeBody finds the grand total, accumulated tax and line items
func analyzeBody(rows []TextRow, cfg Config) bodyAnalysis {
	match, tax := analyzeTotals(rows, cfg)

	// a total found only by position is never smaller than the items above it
	if match != nil && match.positional && match.amount.LessThan(itemSumBefore(rows, match.row, cfg)) {
		match = nil
	}

	var total *decimal.Decimal
	if match != nil {
		total = &match.amount
	}
	items, sum := extractItems(rows, total, cfg)

	if total == nil && len(items) > 0 {
		total = &sum
	}

	return bodyAnalysis{items: items, total: total, tax: tax}
}

// totalMatch is the total candidate chosen by the first pass
type totalMatch struct {
	amount decimal.Decimal
	row    int
	// positional is set when only the bottom window made the row a candidate
	positional bool
}

// analyzeTotals is the first pass: totals by keyword or position, and tax lines
func analyzeTotals(rows []TextRow, cfg Config) (*totalMatch, *decimal.Decimal) {
	windowStart := totalWindowStart(len(rows), cfg)
	labelled := false

	var (
		total *totalMatch
		tax   *decimal.Decimal
	)
	for i, row := range rows {
		lower := strings.ToLower(row.Text)

		if amounts := amountsIn(row.Text); len(amounts) > 0 {
			rowMax := maxAmount(amounts)
			keyword := containsAny(lower, totalKeywords)

			switch {
			case containsAny(lower, labelledTotalKeywords):
				total = &totalMatch{amount: rowMax, row: i}
				labelled = true
			case labelled:
				// an explicitly labelled grand total is not displaced by magnitude
			case keyword || i >= windowStart:
				if total == nil || rowMax.GreaterThan(total.amount) {
					total = &totalMatch{amount: rowMax, row: i, positional: !keyword}
				}
			}
		}

		if containsAny(lower, taxKeywords) {
			if m := amountPattern.FindString(row.Text); m != "" {
				if amount, ok := parseAmount(m); ok {
					sum := amount
					if tax != nil {
						sum = tax.Add(amount)
					}
					tax = &sum
				}
			}
		}
	}
	return total, tax
}

// itemSumBefore sums the prices of items found above the given row
func itemSumBefore(rows []TextRow, end int, cfg Config) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range scanItems(rows, nil, cfg) {
		if item.row < end {
			sum = sum.Add(item.price)
		}
	}
	return sum
}

// totalWindowStart returns the index of the first bottom-region row
func totalWindowStart(n int, cfg Config) int {
	byCount := n - cfg.TotalWindowRows
	byFraction := n - int(math.Floor(float64(n)*cfg.TotalWindowFraction))
	return max(byCount, byFraction, 0)
}

// extractItems is the second pass over rows that are not totals, tax or noise.
// It also returns the sum of the accepted item prices.
func extractItems(rows []TextRow, total *decimal.Decimal, cfg Config) ([]LineItem, decimal.Decimal) {
	items := make([]LineItem, 0)
	sum := decimal.Zero
	for _, found := range scanItems(rows, total, cfg) {
		items = append(items, found.item)
		sum = sum.Add(found.price)
	}
	return items, sum
}

// pricedItem is an accepted item with its exact price and source row
type pricedItem struct {
	item  LineItem
	price decimal.Decimal
	row   int
}

func scanItems(rows []TextRow, total *decimal.Decimal, cfg Config) []pricedItem {
	var found []pricedItem
	n := len(rows)

	for i, row := range rows {
		lower := strings.ToLower(strings.TrimSpace(row.Text))

		if float64(i) >= cfg.ItemStopFraction*float64(n) && hasAnyPrefix(lower, itemStopPrefixes) {
			break
		}
		if containsAny(lower, totalKeywords) || containsAny(lower, taxKeywords) {
			continue
		}
		if containsAny(lower, noiseKeywords) {
			continue
		}
		if utf8.RuneCountInString(row.Text) < cfg.MinRowLength || digitsOnly.MatchString(row.Text) {
			continue
		}

		item, price, ok := parseItemRow(row, cfg)
		if !ok {
			continue
		}
		if total != nil && n > cfg.TotalEchoMinRows && price.Equal(*total) {
			continue
		}
		found = append(found, pricedItem{item: item, price: price, row: i})
	}
	return found
}

// parseItemRow reads "<name fragments> <price fragment>" into a line item
func parseItemRow(row TextRow, cfg Config) (LineItem, decimal.Decimal, bool) {
	if len(row.Fragments) < 2 {
		return LineItem{}, decimal.Zero, false
	}
	last := len(row.Fragments) - 1

	price, ok := parsePrice(row.Fragments[last].Text)
	if !ok {
		return LineItem{}, decimal.Zero, false
	}
	if !price.GreaterThan(decimal.NewFromFloat(cfg.MinItemPrice)) || !price.LessThan(decimal.NewFromFloat(cfg.MaxItemPrice)) {
		return LineItem{}, decimal.Zero, false
	}

	parts := make([]string, last)
	for i, f := range row.Fragments[:last] {
		parts[i] = f.Text
	}
	name := strings.TrimSpace(strings.Join(parts, " "))

	quantity := 1
	if m := quantityPattern.FindStringSubmatch(name); m != nil {
		if q, err := strconv.Atoi(m[1]); err == nil && q >= 1 && q < cfg.MaxQuantity {
			quantity = q
			name = strings.TrimSpace(name[len(m[0]):])
		}
	}

	unit := ""
	if loc := unitPattern.FindStringSubmatchIndex(name); loc != nil {
		unit = strings.ToLower(name[loc[4]:loc[5]])
		if cfg.StripUnitFromName {
			name = strings.Join(strings.Fields(name[:loc[0]]+" "+name[loc[1]:]), " ")
		}
	}

	if utf8.RuneCountInString(name) < cfg.MinItemNameLength || digitsOrSpace.MatchString(name) {
		return LineItem{}, decimal.Zero, false
	}

	return LineItem{
		Name:     name,
		Amount:   toFloat(price),
		Quantity: quantity,
		Unit:     unit,
	}, price, true
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
