package receipt

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/zombor/expense-scanner/internal/scanning"
)

// Scanner extracts structured data from receipt images or recorded OCR output
type Scanner interface {
	Scan(ctx context.Context, imageData []byte, contentType string) (*scanning.ScanResult, error)
	Parse(rec *scanning.Recognition) *scanning.ScanResult
}

// IDGenerator generates unique IDs for scans
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// uuidGenerator generates random UUIDs
type uuidGenerator struct{}

func (g *uuidGenerator) Generate() string {
	return uuid.NewString()
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Config holds the service settings
type Config struct {
	// Currency is the ISO 4217 code amounts are reported in
	Currency string
	// BatchConcurrency caps how many files of a batch are scanned at once
	BatchConcurrency int
}

// Service handles receipt scanning
type Service struct {
	scanner          Scanner
	currency         *money.Currency
	batchConcurrency int
	metrics          *Metrics
	idGenerator      IDGenerator
	timeSource       TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(scanner Scanner, cfg Config, metrics *Metrics) (*Service, error) {
	return NewServiceWithDeps(scanner, cfg, metrics, &uuidGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(scanner Scanner, cfg Config, metrics *Metrics, idGen IDGenerator, timeSrc TimeSource) (*Service, error) {
	currency, err := lookupCurrency(cfg.Currency)
	if err != nil {
		return nil, err
	}
	if cfg.BatchConcurrency < 1 {
		cfg.BatchConcurrency = 1
	}

	return &Service{
		scanner:          scanner,
		currency:         currency,
		batchConcurrency: cfg.BatchConcurrency,
		metrics:          metrics,
		idGenerator:      idGen,
		timeSource:       timeSrc,
	}, nil
}

var (
	filenameSpecialChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	filenameSpaces       = regexp.MustCompile(`\s+`)
)

// sanitizeFilename cleans up a filename by removing special characters and truncating length
func sanitizeFilename(filename string) string {
	filename = filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	base = filenameSpecialChars.ReplaceAllString(base, "")
	base = filenameSpaces.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	// Phones generate very long names
	maxLen := 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}

	if base == "" {
		base = "receipt"
	}
	return base + ext
}

// ScanReceipt recognizes and parses one uploaded receipt
func (s *Service) ScanReceipt(ctx context.Context, filename string, data []byte, contentType string) (*Scan, error) {
	start := s.timeSource.Now()

	result, err := s.scanner.Scan(ctx, data, contentType)
	if err != nil {
		slog.Error("Failed to scan receipt",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		s.metrics.observeFailure(sourceImage, s.timeSource.Now().Sub(start))
		return nil, fmt.Errorf("scanning receipt: %w", err)
	}

	now := s.timeSource.Now()
	s.metrics.observeResult(sourceImage, now.Sub(start), result)

	scan := s.newScan(result, now)
	scan.Filename = sanitizeFilename(filename)
	scan.ContentType = contentType

	slog.Info("Scanned receipt",
		"id", scan.ID,
		"filename", scan.Filename,
		"items", len(result.Items),
		"total", scan.TotalDisplay,
	)
	return scan, nil
}

// ScanBatch scans several uploads concurrently. One failing file does not
// affect the others; entries are returned in upload order.
func (s *Service) ScanBatch(ctx context.Context, uploads []Upload) []BatchEntry {
	entries := make([]BatchEntry, len(uploads))

	var g errgroup.Group
	g.SetLimit(s.batchConcurrency)
	for i, upload := range uploads {
		g.Go(func() error {
			entries[i].Filename = upload.Filename
			scan, err := s.ScanReceipt(ctx, upload.Filename, upload.Data, upload.ContentType)
			if err != nil {
				entries[i].Error = err.Error()
				return nil
			}
			entries[i].Scan = scan
			return nil
		})
	}
	// Workers never return errors
	_ = g.Wait()

	return entries
}

// ParseRecognition runs the pipeline over OCR output recorded elsewhere
func (s *Service) ParseRecognition(rec *scanning.Recognition) *Scan {
	start := s.timeSource.Now()
	result := s.scanner.Parse(rec)
	now := s.timeSource.Now()
	s.metrics.observeResult(sourceOCR, now.Sub(start), result)
	return s.newScan(result, now)
}

func (s *Service) newScan(result *scanning.ScanResult, now time.Time) *Scan {
	scan := &Scan{
		ID:        s.idGenerator.Generate(),
		CreatedAt: now,
		Result:    result,
	}
	scan.setAmounts(s.currency)
	return scan
}
