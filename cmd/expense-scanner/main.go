package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gabriel-vasile/mimetype"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/expense-scanner/internal/receipt"
	"github.com/zombor/expense-scanner/internal/recognition"
	"github.com/zombor/expense-scanner/internal/scanning"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	defaults := scanning.DefaultConfig()

	fs := ff.NewFlagSet("expense-scanner")
	var (
		port        = fs.IntLong("port", 8080, "HTTP server port")
		logLevel    = fs.StringLong("log-level", "info", "Log level: debug, info, warn or error")
		ocrJSON     = fs.StringLong("ocr-json", "", "Parse recorded OCR output (JSON file) and print the result instead of serving")
		imagePath   = fs.StringLong("image", "", "Scan one receipt image and print the result instead of serving")
		scannerType = fs.StringLong("scanner", "gemini", "OCR backend: 'gemini' or 'ollama'")
		geminiKey   = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		ollamaURL   = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel = fs.StringLong("ollama-model", "qwen2.5vl", "Ollama vision model name (e.g., qwen2.5vl, llama3.2-vision)")
		cachePath   = fs.StringLong("cache", "", "Recognition cache file path (optional)")
		currency    = fs.StringLong("currency", "USD", "ISO 4217 currency code for reported amounts")
		batchLimit  = fs.IntLong("batch-concurrency", 4, "Maximum receipts scanned at once in a batch")
		authUser    = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass    = fs.StringLong("auth-pass", "", "Basic auth password (optional)")

		rowTolerance   = fs.Float64Long("row-tolerance", defaults.RowTolerance, "Maximum vertical distance for fragments to share a row")
		windowRows     = fs.IntLong("total-window-rows", defaults.TotalWindowRows, "Bottom rows considered for an unlabelled total")
		windowFraction = fs.Float64Long("total-window-fraction", defaults.TotalWindowFraction, "Bottom fraction of rows considered for an unlabelled total")
		itemStop       = fs.Float64Long("item-stop-fraction", defaults.ItemStopFraction, "Fraction of the receipt after which a total/sub row ends the item list")
		maxItemPrice   = fs.Float64Long("max-item-price", defaults.MaxItemPrice, "Item prices at or above this are rejected")
		maxQuantity    = fs.IntLong("max-quantity", defaults.MaxQuantity, "Leading quantities at or above this are ignored")
		stripUnit      = fs.BoolLong("strip-unit", "Remove the unit measure from item names")
		showVersion    = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("EXPENSE_SCANNER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid log level %q\n", *logLevel)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := defaults
	cfg.RowTolerance = *rowTolerance
	cfg.TotalWindowRows = *windowRows
	cfg.TotalWindowFraction = *windowFraction
	cfg.ItemStopFraction = *itemStop
	cfg.MaxItemPrice = *maxItemPrice
	cfg.MaxQuantity = *maxQuantity
	cfg.StripUnitFromName = *stripUnit

	parser, err := scanning.NewParser(cfg)
	if err != nil {
		slog.Error("Invalid scanning configuration", "error", err)
		os.Exit(1)
	}

	// Recorded OCR output needs no backend
	if *ocrJSON != "" {
		if err := parseRecorded(*ocrJSON, parser); err != nil {
			slog.Error("Failed to parse OCR output", "error", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recognizer, err := newRecognizer(ctx, *scannerType, backendOptions{
		geminiKey:   *geminiKey,
		geminiModel: *geminiModel,
		ollamaURL:   *ollamaURL,
		ollamaModel: *ollamaModel,
		cachePath:   *cachePath,
	})
	if err != nil {
		slog.Error("Failed to initialize OCR backend", "error", err)
		os.Exit(1)
	}
	scanner := scanning.NewScanner(recognizer, parser)
	defer scanner.Close()

	if *imagePath != "" {
		if err := scanImage(ctx, *imagePath, scanner); err != nil {
			slog.Error("Failed to scan image", "error", err)
			scanner.Close()
			os.Exit(1)
		}
		return
	}

	metrics := receipt.NewMetrics()
	service, err := receipt.NewService(scanner, receipt.Config{
		Currency:         *currency,
		BatchConcurrency: *batchLimit,
	}, metrics)
	if err != nil {
		slog.Error("Failed to initialize service", "error", err)
		scanner.Close()
		os.Exit(1)
	}

	basicAuth := receipt.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := receipt.NewServer(service, metrics, basicAuth)

	addr := fmt.Sprintf(":%d", *port)
	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr), "version", version)
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	if err := server.Start(ctx, addr); err != nil {
		slog.Error("Server error", "error", err)
		scanner.Close()
		os.Exit(1)
	}
}

type backendOptions struct {
	geminiKey   string
	geminiModel string
	ollamaURL   string
	ollamaModel string
	cachePath   string
}

// newRecognizer builds the configured OCR backend, optionally behind the cache
func newRecognizer(ctx context.Context, scannerType string, opts backendOptions) (scanning.Recognizer, error) {
	var (
		recognizer scanning.Recognizer
		err        error
	)
	switch scannerType {
	case "gemini":
		apiKey := opts.geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("gemini API key is required. Set --gemini-key flag or GEMINI_API_KEY environment variable")
		}
		slog.Info("Initializing Gemini recognizer...", "model", opts.geminiModel)
		recognizer, err = recognition.NewGemini(ctx, apiKey, opts.geminiModel)
	case "ollama":
		slog.Info("Initializing Ollama recognizer...", "url", opts.ollamaURL, "model", opts.ollamaModel)
		recognizer, err = recognition.NewOllama(opts.ollamaURL, opts.ollamaModel)
	default:
		return nil, fmt.Errorf("invalid scanner type %q: must be gemini or ollama", scannerType)
	}
	if err != nil {
		return nil, err
	}

	if opts.cachePath == "" {
		return recognizer, nil
	}
	slog.Info("Initializing recognition cache...", "path", opts.cachePath)
	cached, err := recognition.NewCachedRecognizer(opts.cachePath, recognizer)
	if err != nil {
		recognizer.Close()
		return nil, fmt.Errorf("opening recognition cache: %w", err)
	}
	return cached, nil
}

// parseRecorded runs the pipeline over a recognition saved as JSON
func parseRecorded(path string, parser *scanning.Parser) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading OCR file: %w", err)
	}

	var rec scanning.Recognition
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("decoding OCR file: %w", err)
	}

	return printResult(parser.Parse(&rec))
}

// scanImage recognizes and parses a single image file
func scanImage(ctx context.Context, path string, scanner *scanning.Scanner) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading image: %w", err)
	}

	result, err := scanner.Scan(ctx, data, contentTypeFor(path, data))
	if err != nil {
		return err
	}
	return printResult(result)
}

// contentTypeFor picks a content type from the file extension, sniffing
// the data when the extension is unknown
func contentTypeFor(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	}
	mime, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	return mime
}

func printResult(result *scanning.ScanResult) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	return nil
}
