// Package interact implements the pointer-driven drag state machine for
// manual item manipulation.
//
// Each active pointer id owns at most one drag session, so concurrent
// multi-pointer drags on different items are independent. A session
// captures the pointer exclusively: only events carrying its pointer id
// drive it, and move deltas always derive from the immutable drag-start
// snapshot, so out-of-order move delivery cannot accumulate drift.
package interact

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/printforge/gangsheet/pkg/project"
)

// InteractionMode is the explicit signal the presentation layer reacts to
// (cursor style, text-selection suppression) instead of mutating shared
// global state.
type InteractionMode string

// Interaction modes.
const (
	ModeIdle     InteractionMode = "idle"
	ModeDragging InteractionMode = "dragging"
)

// Point is a position in display-pixel space.
type Point struct {
	X, Y float64
}

// Session is one active drag: the captured pointer, the target item, and
// the immutable start snapshot both deltas derive from.
type Session struct {
	PointerID    int
	ItemID       string
	StartPointer Point
	StartItem    Point
}

// Controller routes pointer events to drag sessions and commits position
// changes to the project through its defined operations.
type Controller struct {
	proj     *project.Project
	sessions map[int]*Session
	logger   *log.Logger
}

// NewController creates a drag controller for the given project.
// If logger is nil, the default logger is used.
func NewController(p *project.Project, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		proj:     p,
		sessions: make(map[int]*Session),
		logger:   logger,
	}
}

// Mode reports the current interaction mode: dragging while any session is
// active, idle otherwise.
func (c *Controller) Mode() InteractionMode {
	if len(c.sessions) > 0 {
		return ModeDragging
	}
	return ModeIdle
}

// Session returns the active session for a pointer id, if any.
func (c *Controller) Session(pointerID int) (*Session, bool) {
	s, ok := c.sessions[pointerID]
	return s, ok
}

// PointerDown starts a drag session when the pointer lands on an item's
// body. Pointer-downs over a designated no-drag sub-region (an action
// toolbar overlay) are ignored, as are downs from a pointer id that
// already owns a session. Returns true when a session started.
func (c *Controller) PointerDown(pointerID int, itemID string, pos Point, overNoDragRegion bool) bool {
	if overNoDragRegion {
		return false
	}
	if _, active := c.sessions[pointerID]; active {
		return false
	}
	it, ok := c.proj.Item(itemID)
	if !ok {
		return false
	}

	c.sessions[pointerID] = &Session{
		PointerID:    pointerID,
		ItemID:       itemID,
		StartPointer: pos,
		StartItem:    Point{X: it.X, Y: it.Y},
	}
	c.logger.Debug("drag started", "pointer", pointerID, "item", itemID)
	return true
}

// PointerMove advances the drag owned by the given pointer id. The
// candidate position is the start item position plus the pointer delta
// divided by the current zoom, optionally snapped to the grid, and clamped
// so the item's scaled bounding box stays on the sheet. Events from
// pointer ids without a session are ignored.
func (c *Controller) PointerMove(pointerID int, pos Point) {
	s, ok := c.sessions[pointerID]
	if !ok {
		return
	}
	it, ok := c.proj.Item(s.ItemID)
	if !ok {
		// Item deleted mid-drag; drop the session.
		delete(c.sessions, pointerID)
		return
	}

	zoom := c.proj.View.Zoom
	if zoom <= 0 {
		zoom = 1
	}

	x := s.StartItem.X + (pos.X-s.StartPointer.X)/zoom
	y := s.StartItem.Y + (pos.Y-s.StartPointer.Y)/zoom

	if c.proj.View.Snap && c.proj.View.GridSize > 0 {
		x = snap(x, c.proj.View.GridSize)
		y = snap(y, c.proj.View.GridSize)
	}

	x = clampAxis(x, it.ScaledWidth(), c.proj.Sheet.PixelWidth())
	y = clampAxis(y, it.ScaledHeight(), c.proj.Sheet.PixelHeight())

	if err := c.proj.Update(s.ItemID, project.Patch{X: &x, Y: &y}); err != nil {
		c.logger.Warn("drag update rejected", "item", s.ItemID, "err", err)
	}
}

// PointerUp ends the drag owned by the given pointer id and releases the
// capture. Unknown pointer ids are ignored.
func (c *Controller) PointerUp(pointerID int) {
	if s, ok := c.sessions[pointerID]; ok {
		c.logger.Debug("drag ended", "pointer", pointerID, "item", s.ItemID)
		delete(c.sessions, pointerID)
	}
}

// PointerCancel aborts the drag owned by the given pointer id. The item
// keeps the last committed position; clamping happens on every move, so no
// correction pass is needed.
func (c *Controller) PointerCancel(pointerID int) {
	c.PointerUp(pointerID)
}

// snap rounds v to the nearest multiple of the grid size.
func snap(v, grid float64) float64 {
	return math.Round(v/grid) * grid
}

// clampAxis keeps pos within [0, sheetDim-scaledDim]; items larger than
// the sheet clamp to 0.
func clampAxis(pos, scaledDim, sheetDim float64) float64 {
	limit := sheetDim - scaledDim
	if limit < 0 {
		limit = 0
	}
	return math.Min(math.Max(pos, 0), limit)
}
