package layout

import (
	"math"
	"sort"

	"github.com/printforge/gangsheet/pkg/project"
	"github.com/printforge/gangsheet/pkg/sheet"
)

// Smart-pack tuning constants.
const (
	// packPadding separates items within a shelf and shelves from each
	// other, in display pixels.
	packPadding = 8.0

	// minShelfHeight is the floor for new shelves when vertical space is
	// scarce, so late items keep a usable scale.
	minShelfHeight = 20.0
)

// packShelf is a horizontal packing band with its own height and
// used-width cursor.
type packShelf struct {
	y      float64
	height float64
	used   float64
}

// placement is a computed position and scale for one item.
type placement struct {
	x, y, scale float64
}

// SmartPack arranges items with a deterministic shelf bin-packing
// strategy. Items are sorted largest-first (max dimension, then area, then
// original insertion order for full ties) and placed into the topmost
// shelf whose remaining width accepts them once scaled to the shelf
// height. Items that fit no existing shelf open a new shelf below all
// others. Oversized items are scaled down so nothing ever leaves the
// sheet.
func SmartPack(items []project.Item, s sheet.Sheet) []project.Item {
	if len(items) == 0 {
		return nil
	}

	sheetW, sheetH := s.PixelWidth(), s.PixelHeight()

	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := items[order[i]], items[order[j]]
		am, bm := maxDim(a), maxDim(b)
		if am != bm {
			return am > bm
		}
		// Area breaks max-dimension ties; SliceStable keeps original
		// insertion order when areas tie as well.
		return area(a) > area(b)
	})

	placements := make(map[string]placement, len(items))
	var shelves []*packShelf
	nextY := 0.0

	for _, idx := range order {
		it := items[idx]
		w, h := float64(it.IntrinsicWidth), float64(it.IntrinsicHeight)
		if w <= 0 || h <= 0 {
			continue
		}

		if sh, scale, ok := findShelf(shelves, w, h, sheetW, sheetH); ok {
			placements[it.ID] = placement{x: sh.used, y: sh.y, scale: scale}
			sh.used += w*scale + packPadding
			continue
		}

		// Open a new shelf below all existing ones.
		remaining := sheetH - nextY
		shelfH := math.Min(h, remaining)
		if remaining < minShelfHeight {
			// The floor applies only when vertical space is scarce; items
			// with room to spare are never scaled up.
			shelfH = minShelfHeight
		}
		scale := shelfH / h
		if w*scale > sheetW {
			// Wider than the sheet even at shelf height: shrink further.
			scale = sheetW / w
		}

		y := nextY
		if y+h*scale > sheetH {
			// Space is exhausted; pin the shelf to the bottom edge rather
			// than letting the item leave the sheet.
			y = math.Max(sheetH-h*scale, 0)
		}

		placements[it.ID] = placement{x: 0, y: y, scale: scale}
		shelves = append(shelves, &packShelf{y: y, height: shelfH, used: w*scale + packPadding})
		nextY = y + shelfH + packPadding
	}

	// Write results back matched by id; items without a computed placement
	// (stale ids, degenerate sizes) pass through untouched.
	out := make([]project.Item, len(items))
	for i, it := range items {
		if pl, ok := placements[it.ID]; ok {
			it.X, it.Y, it.Scale = pl.x, pl.y, pl.scale
		}
		out[i] = it
	}
	return out
}

// findShelf returns the topmost shelf that accepts an item of the given
// intrinsic size once scaled to the shelf height, with the resulting scale.
func findShelf(shelves []*packShelf, w, h, sheetW, sheetH float64) (*packShelf, float64, bool) {
	for _, sh := range shelves {
		scale := (sh.height - packPadding) / h
		if bottom := (sheetH - sh.y) / h; scale > bottom {
			// A bottom-pinned shelf may be taller than the space under it.
			scale = bottom
		}
		if scale <= 0 {
			continue
		}
		if sh.used+w*scale <= sheetW {
			return sh, scale, true
		}
	}
	return nil, 0, false
}

func maxDim(it project.Item) int {
	if it.IntrinsicWidth > it.IntrinsicHeight {
		return it.IntrinsicWidth
	}
	return it.IntrinsicHeight
}

func area(it project.Item) int {
	return it.IntrinsicWidth * it.IntrinsicHeight
}
