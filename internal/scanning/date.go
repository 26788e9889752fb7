package scanning

import "regexp"

var datePattern = regexp.MustCompile(`\d{1,2}[-./]\d{1,2}[-./]\d{2,4}`)

// extractDate returns the first date-like token in the text, verbatim.
// DD/MM and MM/DD are indistinguishable here so no normalization happens.
func extractDate(text string) *string {
	m := datePattern.FindString(text)
	if m == "" {
		return nil
	}
	return &m
}
