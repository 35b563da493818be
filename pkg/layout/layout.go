// Package layout provides automatic arrangement strategies for placed
// items.
//
// Every strategy is a pure function from (items, sheet) to a new item
// slice: positions and scales are rewritten, while ids, intrinsic sizes,
// and rotations are preserved. Strategies operate in display-pixel space.
package layout

import (
	"fmt"

	"github.com/printforge/gangsheet/pkg/project"
	"github.com/printforge/gangsheet/pkg/sheet"
)

// Mode selects an automatic arrangement strategy.
type Mode string

// Available layout modes.
const (
	ModeFreeform Mode = "freeform"
	ModeGrid     Mode = "grid"
	ModeShelf    Mode = "shelf"
	ModeSmart    Mode = "smart"
)

// Margin is the sheet-edge margin, in display pixels, used by the grid and
// shelf strategies.
const Margin = 8.0

// ParseMode validates a layout mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFreeform, ModeGrid, ModeShelf, ModeSmart:
		return Mode(s), nil
	}
	return "", fmt.Errorf("invalid layout mode: %q (must be 'freeform', 'grid', 'shelf', or 'smart')", s)
}

// Apply dispatches to the strategy for the given mode and returns the
// rearranged items. Freeform is a no-op that returns the input unchanged.
func Apply(mode Mode, items []project.Item, s sheet.Sheet) ([]project.Item, error) {
	switch mode {
	case ModeFreeform:
		return items, nil
	case ModeGrid:
		return Grid(items, s), nil
	case ModeShelf:
		return Shelf(items, s), nil
	case ModeSmart:
		return SmartPack(items, s), nil
	}
	return nil, fmt.Errorf("invalid layout mode: %q", mode)
}
