package scanning

import (
	"errors"
	"fmt"
)

// Config holds the tunable heuristics of the receipt pipeline
type Config struct {
	// RowTolerance is the maximum vertical distance (exclusive) between a
	// fragment and a row for the fragment to join that row.
	RowTolerance float64
	// ResortRows re-sorts reconstructed rows by vertical position.
	ResortRows bool

	// TotalWindowRows and TotalWindowFraction bound the bottom-of-receipt
	// region whose rows are total candidates even without a keyword.
	// The smaller of the two windows applies.
	TotalWindowRows     int
	TotalWindowFraction float64

	// ItemStopFraction is how far through the receipt a row starting with
	// "total" or "sub" ends item extraction.
	ItemStopFraction float64
	// MinRowLength is the shortest row text considered for an item.
	MinRowLength int
	// MinItemPrice and MaxItemPrice bound item prices (both exclusive).
	MinItemPrice float64
	MaxItemPrice float64
	// MaxQuantity bounds a leading quantity (exclusive).
	MaxQuantity int
	// MinItemNameLength is the shortest accepted item name.
	MinItemNameLength int
	// TotalEchoMinRows: on receipts with more rows than this, an item
	// priced exactly at the detected total is dropped.
	TotalEchoMinRows int
	// StripUnitFromName removes the "<number> <unit>" token from item names.
	StripUnitFromName bool

	// MerchantScanRows is how many leading rows are searched for a merchant.
	MerchantScanRows int
	// MinMerchantLength is the shortest accepted merchant name.
	MinMerchantLength int
}

// DefaultConfig returns the heuristics tuned for printed retail receipts
func DefaultConfig() Config {
	return Config{
		RowTolerance:        15,
		ResortRows:          true,
		TotalWindowRows:     8,
		TotalWindowFraction: 0.4,
		ItemStopFraction:    0.6,
		MinRowLength:        5,
		MinItemPrice:        0,
		MaxItemPrice:        100000,
		MaxQuantity:         100,
		MinItemNameLength:   3,
		TotalEchoMinRows:    5,
		StripUnitFromName:   false,
		MerchantScanRows:    6,
		MinMerchantLength:   4,
	}
}

// Validate reports every invalid setting
func (c Config) Validate() error {
	var errs []error
	if c.RowTolerance <= 0 {
		errs = append(errs, fmt.Errorf("row tolerance must be positive, got %v", c.RowTolerance))
	}
	if c.TotalWindowRows < 0 {
		errs = append(errs, fmt.Errorf("total window rows must not be negative, got %d", c.TotalWindowRows))
	}
	if c.TotalWindowFraction < 0 || c.TotalWindowFraction > 1 {
		errs = append(errs, fmt.Errorf("total window fraction must be between 0 and 1, got %v", c.TotalWindowFraction))
	}
	if c.ItemStopFraction < 0 || c.ItemStopFraction > 1 {
		errs = append(errs, fmt.Errorf("item stop fraction must be between 0 and 1, got %v", c.ItemStopFraction))
	}
	if c.MinItemPrice < 0 {
		errs = append(errs, fmt.Errorf("min item price must not be negative, got %v", c.MinItemPrice))
	}
	if c.MaxItemPrice <= c.MinItemPrice {
		errs = append(errs, fmt.Errorf("max item price %v must exceed min item price %v", c.MaxItemPrice, c.MinItemPrice))
	}
	if c.MaxQuantity < 2 {
		errs = append(errs, fmt.Errorf("max quantity must be at least 2, got %d", c.MaxQuantity))
	}
	if c.MerchantScanRows < 0 {
		errs = append(errs, fmt.Errorf("merchant scan rows must not be negative, got %d", c.MerchantScanRows))
	}
	return errors.Join(errs...)
}
