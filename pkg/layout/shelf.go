package layout

import (
	"math"

	"github.com/printforge/gangsheet/pkg/project"
	"github.com/printforge/gangsheet/pkg/sheet"
)

// shelfFitFactor controls how much of the usable sheet width a single item
// may claim in the compact shelf layout. A factor of 3 targets roughly
// three items per row before scaling kicks in.
const shelfFitFactor = 3.0

// Shelf performs a single-pass left-to-right shelf fill in insertion
// order. Items wrap to a new row when the next placement would exceed the
// sheet width; each row is as tall as its tallest item. Items that would
// cross the sheet's bottom edge are left at their current placement.
func Shelf(items []project.Item, s sheet.Sheet) []project.Item {
	if len(items) == 0 {
		return nil
	}

	sheetW, sheetH := s.PixelWidth(), s.PixelHeight()
	usable := sheetW - 2*Margin

	x, y := Margin, Margin
	rowHeight := 0.0

	out := make([]project.Item, len(items))
	for i, it := range items {
		orig := it
		if it.IntrinsicWidth > 0 {
			it.Scale = math.Min(1, usable/(float64(it.IntrinsicWidth)*shelfFitFactor))
		}

		w, h := it.ScaledWidth(), it.ScaledHeight()
		if x+w > sheetW-Margin && x > Margin {
			// Wrap to a new row.
			x = Margin
			y += rowHeight + Margin
			rowHeight = 0
		}
		if y+h > sheetH {
			// Out of vertical space; the item keeps its current placement.
			out[i] = orig
			continue
		}

		it.X, it.Y = x, y
		x += w + Margin
		rowHeight = math.Max(rowHeight, h)
		out[i] = it
	}
	return out
}
