package scanning

// Point is a position on the source image
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is the extent of a fragment on the source image
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TextFragment is one OCR-recognized line of text with its position and size
type TextFragment struct {
	Text     string `json:"text"`
	Position Point  `json:"position"`
	Size     Size   `json:"size"`
}

// centerY returns the vertical center of the fragment
func (f TextFragment) centerY() float64 {
	return f.Position.Y + f.Size.Height/2
}

// TextRow is a reconstructed physical line of the receipt.
// Fragments are kept sorted left-to-right and Text is always their
// space-joined texts in that order.
type TextRow struct {
	Y         float64        `json:"y"`
	Height    float64        `json:"height"`
	Text      string         `json:"text"`
	Fragments []TextFragment `json:"fragments"`
}

// LineItem is one purchased item extracted from a receipt
type LineItem struct {
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Quantity int     `json:"quantity"`
	Unit     string  `json:"unit,omitempty"` // e.g. "kg", "ml", "pkt"
}

// ScanResult contains everything extracted from a receipt.
// Fields that could not be found are nil, never zero values.
type ScanResult struct {
	TotalAmount       *float64   `json:"total_amount,omitempty"`
	TaxAmount         *float64   `json:"tax_amount,omitempty"`
	Date              *string    `json:"date,omitempty"` // verbatim, not normalized
	Merchant          *string    `json:"merchant,omitempty"`
	Items             []LineItem `json:"items"`
	Category          *string    `json:"category,omitempty"`
	RawText           string     `json:"raw_text"`
	ReconstructedText string     `json:"reconstructed_text"`
}
