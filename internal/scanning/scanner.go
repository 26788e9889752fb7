package scanning

import (
	"context"
	"errors"
	"fmt"
)

// ErrRecognition labels failures of the OCR collaborator
var ErrRecognition = errors.New("recognition failed")

// Recognizer defines the interface for the external OCR engine
type Recognizer interface {
	// Recognize reads an image/PDF and returns its text lines with bounding frames
	Recognize(ctx context.Context, imageData []byte, contentType string) (*Recognition, error)
	// Close closes the recognizer and releases resources
	Close() error
}

// Scanner runs OCR through a Recognizer and parses the result
type Scanner struct {
	recognizer Recognizer
	parser     *Parser
}

// NewScanner creates a new Scanner
func NewScanner(recognizer Recognizer, parser *Parser) *Scanner {
	return &Scanner{
		recognizer: recognizer,
		parser:     parser,
	}
}

// Scan recognizes a receipt image and extracts its structured data.
// Recognition errors are returned wrapped in ErrRecognition and never retried.
func (s *Scanner) Scan(ctx context.Context, imageData []byte, contentType string) (*ScanResult, error) {
	rec, err := s.recognizer.Recognize(ctx, imageData, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecognition, err)
	}
	return s.parser.Parse(rec), nil
}

// Parse extracts structured data from a recognition obtained elsewhere
func (s *Scanner) Parse(rec *Recognition) *ScanResult {
	return s.parser.Parse(rec)
}

// Close closes the underlying recognizer
func (s *Scanner) Close() error {
	return s.recognizer.Close()
}
