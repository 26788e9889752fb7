package receipt

import (
	"fmt"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/zombor/expense-scanner/internal/scanning"
)

// Scan is one scanned receipt as returned to API clients
type Scan struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	Currency     string `json:"currency"`
	TotalCents   *int64 `json:"total_cents,omitempty"` // Amount in minor units
	TaxCents     *int64 `json:"tax_cents,omitempty"`
	TotalDisplay string `json:"total_display,omitempty"` // e.g. "$75.00"
	TaxDisplay   string `json:"tax_display,omitempty"`

	Result *scanning.ScanResult `json:"result"`
}

// Upload is one file submitted for scanning
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// BatchEntry is the outcome of one file in a batch scan.
// Exactly one of Scan and Error is set.
type BatchEntry struct {
	Filename string `json:"filename"`
	Scan     *Scan  `json:"scan,omitempty"`
	Error    string `json:"error,omitempty"`
}

// lookupCurrency validates an ISO 4217 code
func lookupCurrency(code string) (*money.Currency, error) {
	currency := money.GetCurrency(code)
	if currency == nil {
		return nil, fmt.Errorf("unknown currency %q", code)
	}
	return currency, nil
}

// minorUnits converts an extracted amount to minor units of the currency,
// rounding half away from zero.
func minorUnits(amount *float64, currency *money.Currency) (*money.Money, *int64) {
	if amount == nil {
		return nil, nil
	}
	units := decimal.NewFromFloat(*amount).Shift(int32(currency.Fraction)).Round(0).IntPart()
	return money.New(units, currency.Code), &units
}

// setAmounts fills the minor-unit and display fields from the result
func (s *Scan) setAmounts(currency *money.Currency) {
	s.Currency = currency.Code
	if m, units := minorUnits(s.Result.TotalAmount, currency); m != nil {
		s.TotalCents = units
		s.TotalDisplay = m.Display()
	}
	if m, units := minorUnits(s.Result.TaxAmount, currency); m != nil {
		s.TaxCents = units
		s.TaxDisplay = m.Display()
	}
}
