package scanning

import (
	"fmt"
	"log/slog"
	"strings"
)

// Parser turns raw OCR output into a ScanResult.
// A Parser is immutable and safe for concurrent use.
type Parser struct {
	cfg        Config
	classifier *Classifier
}

// NewParser creates a Parser with the default taxonomy
func NewParser(cfg Config) (*Parser, error) {
	return NewParserWithTaxonomy(cfg, DefaultTaxonomy)
}

// NewParserWithTaxonomy creates a Parser with a custom category table
func NewParserWithTaxonomy(cfg Config, taxonomy []Category) (*Parser, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &Parser{
		cfg:        cfg,
		classifier: NewClassifier(taxonomy),
	}, nil
}

// Parse runs row reconstruction, field extraction, classification and
// assembly over one recognition. It never fails: anything that cannot be
// found is left nil in the result.
func (p *Parser) Parse(rec *Recognition) *ScanResult {
	rawText := rec.FullText()
	rows := ReconstructRows(rec.Fragments(), p.cfg)

	merchant := extractMerchant(rows, p.cfg)
	body := analyzeBody(rows, p.cfg)
	date := extractDate(rawText)
	category := p.classifier.Classify(classificationText(rawText, merchant, body.items))

	result := assemble(rawText, rows, merchant, date, category, body)

	slog.Debug("Parsed receipt",
		"rows", len(rows),
		"items", len(result.Items),
		"total_found", result.TotalAmount != nil,
		"merchant_found", result.Merchant != nil,
	)
	return result
}

// assemble packages the extracted fields into a ScanResult
func assemble(rawText string, rows []TextRow, merchant, date, category *string, body bodyAnalysis) *ScanResult {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = r.Text
	}

	result := &ScanResult{
		Date:              date,
		Merchant:          merchant,
		Items:             body.items,
		Category:          category,
		RawText:           rawText,
		ReconstructedText: strings.Join(lines, "\n"),
	}
	if body.total != nil {
		result.TotalAmount = floatPtr(*body.total)
	}
	if body.tax != nil {
		result.TaxAmount = floatPtr(*body.tax)
	}
	if result.Items == nil {
		result.Items = []LineItem{}
	}
	return result
}
