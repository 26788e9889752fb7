package scanning

import (
	"math"
	"sort"
	"strings"
)

// ReconstructRows clusters fragments into physical rows, top to bottom.
// Fragments whose top edges or vertical centers lie within the configured
// tolerance of a row join that row; the rest start new rows.
func ReconstructRows(fragments []TextFragment, cfg Config) []TextRow {
	sorted := make([]TextFragment, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Position.Y != sorted[j].Position.Y {
			return sorted[i].Position.Y < sorted[j].Position.Y
		}
		return sorted[i].Position.X < sorted[j].Position.X
	})

	var rows []TextRow
	for _, f := range sorted {
		idx := findRow(rows, f, cfg.RowTolerance)
		if idx < 0 {
			rows = append(rows, TextRow{
				Y:         f.Position.Y,
				Height:    f.Size.Height,
				Text:      f.Text,
				Fragments: []TextFragment{f},
			})
			continue
		}
		rows[idx].add(f)
	}

	if cfg.ResortRows {
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Y < rows[j].Y
		})
	}
	return rows
}

// findRow returns the index of the first row the fragment belongs to, or -1
func findRow(rows []TextRow, f TextFragment, tolerance float64) int {
	for i, r := range rows {
		if math.Abs(r.Y-f.Position.Y) < tolerance {
			return i
		}
		if math.Abs(r.centerY()-f.centerY()) < tolerance {
			return i
		}
	}
	return -1
}

func (r *TextRow) centerY() float64 {
	return r.Y + r.Height/2
}

// add appends a fragment, keeping fragments ordered by X and Text in sync
func (r *TextRow) add(f TextFragment) {
	r.Fragments = append(r.Fragments, f)
	sort.SliceStable(r.Fragments, func(i, j int) bool {
		return r.Fragments[i].Position.X < r.Fragments[j].Position.X
	})
	texts := make([]string, len(r.Fragments))
	for i, frag := range r.Fragments {
		texts[i] = frag.Text
	}
	r.Text = strings.Join(texts, " ")
}
