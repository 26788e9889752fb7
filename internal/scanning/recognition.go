package scanning

import "strings"

// Recognition is the raw output of an OCR collaborator: the full recognized
// text plus blocks of lines, each line carrying a bounding frame.
type Recognition struct {
	Text   string  `json:"text"`
	Blocks []Block `json:"blocks"`
}

// Block is a group of recognized lines
type Block struct {
	Text  string `json:"text,omitempty"`
	Lines []Line `json:"lines"`
}

// Line is a single recognized line of text
type Line struct {
	Text  string `json:"text"`
	Frame *Frame `json:"frame,omitempty"`
}

// Frame is a bounding box as reported by the collaborator.
// Some engines report the origin as x/y, others as left/top; both are accepted.
type Frame struct {
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Left   *float64 `json:"left,omitempty"`
	Top    *float64 `json:"top,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

// Origin resolves the top-left corner, defaulting unknown coordinates to 0
func (f Frame) Origin() Point {
	return Point{
		X: firstOf(f.X, f.Left),
		Y: firstOf(f.Y, f.Top),
	}
}

// Extent resolves the frame size, defaulting unknown dimensions to 0
func (f Frame) Extent() Size {
	return Size{
		Width:  firstOf(f.Width),
		Height: firstOf(f.Height),
	}
}

func firstOf(values ...*float64) float64 {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}

// Fragments flattens the recognition into the canonical fragment shape used
// by the rest of the pipeline. Lines without a frame carry no position and
// are skipped.
func (r *Recognition) Fragments() []TextFragment {
	if r == nil {
		return nil
	}
	var fragments []TextFragment
	for _, block := range r.Blocks {
		for _, line := range block.Lines {
			if line.Frame == nil {
				continue
			}
			fragments = append(fragments, TextFragment{
				Text:     line.Text,
				Position: line.Frame.Origin(),
				Size:     line.Frame.Extent(),
			})
		}
	}
	return fragments
}

// FullText returns the collaborator's full text, or the line texts joined
// with newlines when the collaborator did not provide it.
func (r *Recognition) FullText() string {
	if r == nil {
		return ""
	}
	if r.Text != "" {
		return r.Text
	}
	var lines []string
	for _, block := range r.Blocks {
		for _, line := range block.Lines {
			lines = append(lines, line.Text)
		}
	}
	return strings.Join(lines, "\n")
}
