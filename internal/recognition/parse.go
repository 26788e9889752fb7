package recognition

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zombor/expense-scanner/internal/scanning"
)

// parseRecognitionJSON decodes the model's answer into a Recognition
func parseRecognitionJSON(text string) (*scanning.Recognition, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")

	// Models sometimes wrap the object in prose
	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}
	endIdx := strings.LastIndex(text, "}")
	if endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON object in response")
	}
	text = text[startIdx : endIdx+1]

	var rec scanning.Recognition
	if err := json.Unmarshal([]byte(text), &rec); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	for i := range rec.Blocks {
		for j := range rec.Blocks[i].Lines {
			rec.Blocks[i].Lines[j].Text = strings.TrimSpace(rec.Blocks[i].Lines[j].Text)
		}
	}
	return &rec, nil
}
