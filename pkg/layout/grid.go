package layout

import (
	"math"

	"github.com/printforge/gangsheet/pkg/project"
	"github.com/printforge/gangsheet/pkg/sheet"
)

// Grid arranges items in a square grid of ceil(sqrt(n)) columns in
// insertion order. Cells are square; each item is scaled to fit its cell
// width but never upscaled.
func Grid(items []project.Item, s sheet.Sheet) []project.Item {
	if len(items) == 0 {
		return nil
	}

	cols := int(math.Ceil(math.Sqrt(float64(len(items)))))
	if cols < 1 {
		cols = 1
	}
	rows := (len(items) + cols - 1) / cols
	cell := math.Floor((s.PixelWidth() - 2*Margin) / float64(cols))
	if hCell := math.Floor((s.PixelHeight() - 2*Margin) / float64(rows)); hCell < cell {
		// On sheets wider than tall the square cell is bound by the height,
		// so the last row stays on the sheet.
		cell = hCell
	}

	out := make([]project.Item, len(items))
	for i, it := range items {
		col := i % cols
		row := i / cols
		it.X = Margin + float64(col)*cell
		it.Y = Margin + float64(row)*cell
		if it.IntrinsicWidth > 0 {
			it.Scale = math.Min(1, cell/float64(it.IntrinsicWidth))
			if h := float64(it.IntrinsicHeight) * it.Scale; h > cell {
				// Tall items are bound by the square cell as well.
				it.Scale = cell / float64(it.IntrinsicHeight)
			}
		}
		out[i] = it
	}
	return out
}
