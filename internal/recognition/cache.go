package recognition

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.etcd.io/bbolt"

	"github.com/zombor/expense-scanner/internal/scanning"
)

const recognitionBucket = "recognitions"

// CachedRecognizer remembers OCR output per image so re-scanning the same
// file does not call the backend again.
type CachedRecognizer struct {
	next scanning.Recognizer
	db   *bbolt.DB
}

// NewCachedRecognizer opens (or creates) the cache file at path
func NewCachedRecognizer(path string, next scanning.Recognizer) (*CachedRecognizer, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(recognitionBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &CachedRecognizer{next: next, db: db}, nil
}

// cacheKey identifies an image by content
func cacheKey(imageData []byte) []byte {
	sum := sha256.Sum256(imageData)
	return []byte(hex.EncodeToString(sum[:]))
}

// Recognize returns the cached recognition for the image or asks the
// wrapped recognizer and stores its answer. Failures are never cached.
func (c *CachedRecognizer) Recognize(ctx context.Context, imageData []byte, contentType string) (*scanning.Recognition, error) {
	key := cacheKey(imageData)

	cached, err := c.get(key)
	if err != nil {
		slog.Warn("Failed to read recognition cache", "error", err)
	} else if cached != nil {
		slog.Debug("Recognition cache hit", "key", string(key))
		return cached, nil
	}

	rec, err := c.next.Recognize(ctx, imageData, contentType)
	if err != nil {
		return nil, err
	}

	if err := c.put(key, rec); err != nil {
		slog.Warn("Failed to write recognition cache", "error", err)
	}
	return rec, nil
}

func (c *CachedRecognizer) get(key []byte) (*scanning.Recognition, error) {
	var rec *scanning.Recognition
	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(recognitionBucket)).Get(key)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return nil, fmt.Errorf("reading recognition: %w", err)
	}
	return rec, nil
}

func (c *CachedRecognizer) put(key []byte, rec *scanning.Recognition) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling recognition: %w", err)
		}
		return tx.Bucket([]byte(recognitionBucket)).Put(key, data)
	})
}

// Close closes the wrapped recognizer and the cache file
func (c *CachedRecognizer) Close() error {
	return errors.Join(c.next.Close(), c.db.Close())
}
