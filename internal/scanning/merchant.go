package scanning

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// merchantNoise matches metadata lines printed around the merchant name
var merchantNoise = regexp.MustCompile(`(?i)(date|phone|gst|tax|inv)`)

// extractMerchant returns the first plausible name among the leading rows
func extractMerchant(rows []TextRow, cfg Config) *string {
	for i := 0; i < min(cfg.MerchantScanRows, len(rows)); i++ {
		text := strings.TrimSpace(rows[i].Text)
		if utf8.RuneCountInString(text) < cfg.MinMerchantLength {
			continue
		}
		if digitsOnly.MatchString(text) {
			continue
		}
		if merchantNoise.MatchString(text) {
			continue
		}
		return &text
	}
	return nil
}
