// Package project holds the mutable state of a gang sheet arrangement: the
// sheet configuration, the ordered collection of placed items, and the view
// state of the editing surface.
//
// Item order is z-order (insertion order by default). All mutations go
// through the operations defined here and derive a new item slice from the
// old one, so a snapshot taken before an operation never observes a
// half-applied update. Every successful mutation bumps Version, which async
// consumers (export, decode continuations) use to detect stale snapshots.
package project

import (
	"math"

	"github.com/google/uuid"

	"github.com/printforge/gangsheet/pkg/errors"
	"github.com/printforge/gangsheet/pkg/sheet"
)

// DuplicateOffset is the fixed position delta, in display pixels, applied
// per copy index when duplicating an item.
const DuplicateOffset = 12.0

// Default placement for freshly uploaded items.
const (
	defaultX         = 20.0
	defaultY         = 20.0
	defaultScaleCap  = 0.45
	defaultFitFactor = 1.2
)

// Project status values.
const (
	StatusDraft     = "draft"
	StatusFinalized = "finalized"
)

// ViewState holds editing ergonomics that never affect exported geometry.
type ViewState struct {
	Zoom        float64 `json:"zoom"`
	GridSize    float64 `json:"grid_size"`
	Snap        bool    `json:"snap"`
	Background  string  `json:"background"`
	Transparent bool    `json:"transparent"`
	LayoutMode  string  `json:"layout_mode"`
}

// DefaultViewState returns the view state of a fresh project.
func DefaultViewState() ViewState {
	return ViewState{
		Zoom:       1,
		GridSize:   10,
		Background: "#ffffff",
		LayoutMode: "freeform",
	}
}

// Project is a sheet configuration plus an ordered list of placed items.
type Project struct {
	ID         string      `json:"id"`
	Sheet      sheet.Sheet `json:"sheet"`
	Items      []Item      `json:"items"`
	SelectedID string      `json:"selected_id,omitempty"`
	View       ViewState   `json:"view"`
	Status     string      `json:"status"`
	Version    uint64      `json:"-"`
}

// New creates an empty project on the given sheet.
func New(s sheet.Sheet) *Project {
	return &Project{
		ID:     uuid.NewString(),
		Sheet:  s,
		View:   DefaultViewState(),
		Status: StatusDraft,
	}
}

// Reset wipes all items and restores the default sheet and view state.
func (p *Project) Reset() {
	p.Sheet = sheet.Default()
	p.Items = nil
	p.SelectedID = ""
	p.View = DefaultViewState()
	p.Status = StatusDraft
	p.Version++
}

// Clone returns a structural deep copy of the project. Callers that hand
// snapshots to asynchronous consumers must clone first so later edits do
// not leak into the snapshot.
func (p *Project) Clone() *Project {
	cp := *p
	cp.Items = make([]Item, len(p.Items))
	copy(cp.Items, p.Items)
	return &cp
}

// Item returns the item with the given id, if present.
func (p *Project) Item(id string) (Item, bool) {
	for _, it := range p.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// mutable rejects mutations on finalized projects.
func (p *Project) mutable() error {
	if p.Status == StatusFinalized {
		return errors.New(errors.ErrCodeFinalized, "project is finalized")
	}
	return nil
}

// Add appends an item to the collection. The item keeps its id if one is
// set; otherwise a fresh one is assigned. Fails when the sheet's item limit
// is reached.
func (p *Project) Add(it Item) error {
	if err := p.mutable(); err != nil {
		return err
	}
	if p.Sheet.MaxItems > 0 && len(p.Items) >= p.Sheet.MaxItems {
		return errors.New(errors.ErrCodeInvalidInput, "sheet holds at most %d items", p.Sheet.MaxItems)
	}
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.Scale <= 0 {
		it.Scale = 1
	}
	items := make([]Item, len(p.Items), len(p.Items)+1)
	copy(items, p.Items)
	p.Items = append(items, it)
	p.Version++
	return nil
}

// Update applies a partial patch to the item with the given id. A missing
// id is a no-op, not an error.
func (p *Project) Update(id string, patch Patch) error {
	if err := p.mutable(); err != nil {
		return err
	}
	for i, it := range p.Items {
		if it.ID != id {
			continue
		}
		items := make([]Item, len(p.Items))
		copy(items, p.Items)
		items[i] = patch.apply(it)
		p.Items = items
		p.Version++
		return nil
	}
	return nil
}

// Remove deletes the item with the given id and clears the selection if it
// referenced that id. A missing id is a no-op.
func (p *Project) Remove(id string) error {
	if err := p.mutable(); err != nil {
		return err
	}
	for i, it := range p.Items {
		if it.ID != id {
			continue
		}
		items := make([]Item, 0, len(p.Items)-1)
		items = append(items, p.Items[:i]...)
		items = append(items, p.Items[i+1:]...)
		p.Items = items
		if p.SelectedID == id {
			p.SelectedID = ""
		}
		p.Version++
		return nil
	}
	return nil
}

// Duplicate clones the item count times. Each clone gets a fresh id and a
// position offset by DuplicateOffset multiplied by its copy index, clamped
// to the sheet so no copy leaves the bounds. The newest clone becomes the
// selection. Returns the clones in creation order.
func (p *Project) Duplicate(id string, count int) ([]Item, error) {
	if err := p.mutable(); err != nil {
		return nil, err
	}
	src, ok := p.Item(id)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "item %s not found", id)
	}
	if count < 1 {
		count = 1
	}

	clones := make([]Item, 0, count)
	for i := 1; i <= count; i++ {
		clone := src
		clone.ID = uuid.NewString()
		clone.X = clampAxis(src.X+DuplicateOffset*float64(i), clone.ScaledWidth(), p.Sheet.PixelWidth())
		clone.Y = clampAxis(src.Y+DuplicateOffset*float64(i), clone.ScaledHeight(), p.Sheet.PixelHeight())
		clones = append(clones, clone)
	}

	items := make([]Item, len(p.Items), len(p.Items)+count)
	copy(items, p.Items)
	p.Items = append(items, clones...)
	p.SelectedID = clones[len(clones)-1].ID
	p.Version++
	return clones, nil
}

// Autofill tiles copies of the referenced item in row-major order across
// the sheet, using the item's current scaled bounding box as the cell size.
// Tiling stops at the sheet edges; partial cells are not created. The cell
// containing the original's top-left corner is skipped so the source keeps
// its place. All tiles get fresh ids and are appended. Returns the number
// of tiles created.
func (p *Project) Autofill(id string) (int, error) {
	if err := p.mutable(); err != nil {
		return 0, err
	}
	src, ok := p.Item(id)
	if !ok {
		return 0, errors.New(errors.ErrCodeNotFound, "item %s not found", id)
	}

	cellW, cellH := src.ScaledWidth(), src.ScaledHeight()
	if cellW <= 0 || cellH <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "item %s has a degenerate bounding box", id)
	}

	sheetW, sheetH := p.Sheet.PixelWidth(), p.Sheet.PixelHeight()
	cols := int(math.Floor(sheetW / cellW))
	rows := int(math.Floor(sheetH / cellH))

	var tiles []Item
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			x := float64(col) * cellW
			y := float64(row) * cellH
			if src.X >= x && src.X < x+cellW && src.Y >= y && src.Y < y+cellH {
				// This cell holds the source's origin.
				continue
			}
			tile := src
			tile.ID = uuid.NewString()
			tile.X, tile.Y = x, y
			tiles = append(tiles, tile)
		}
	}
	if len(tiles) == 0 {
		return 0, nil
	}

	items := make([]Item, len(p.Items), len(p.Items)+len(tiles))
	copy(items, p.Items)
	p.Items = append(items, tiles...)
	p.Version++
	return len(tiles), nil
}

// ReplaceItems swaps in a rearranged item slice, as produced by an
// automatic layout strategy. The slice is copied.
func (p *Project) ReplaceItems(items []Item) error {
	if err := p.mutable(); err != nil {
		return err
	}
	next := make([]Item, len(items))
	copy(next, items)
	p.Items = next
	p.Version++
	return nil
}

// Select marks the item with the given id as selected. An empty id clears
// the selection.
func (p *Project) Select(id string) error {
	if id != "" {
		if _, ok := p.Item(id); !ok {
			return errors.New(errors.ErrCodeNotFound, "item %s not found", id)
		}
	}
	p.SelectedID = id
	return nil
}

// SetStatus transitions the project lifecycle between draft and finalized.
func (p *Project) SetStatus(status string) error {
	if status != StatusDraft && status != StatusFinalized {
		return errors.New(errors.ErrCodeInvalidInput, "invalid status: %q", status)
	}
	p.Status = status
	p.Version++
	return nil
}

// TotalPrice returns the sheet price for the current item count.
func (p *Project) TotalPrice() float64 {
	return p.Sheet.TotalPrice(len(p.Items))
}

// DefaultScale computes the initial scale for an image of the given
// intrinsic size on the given sheet. The image is scaled so it occupies a
// comfortable fraction of the sheet, capped so small sheets still leave
// room to arrange multiple uploads.
func DefaultScale(s sheet.Sheet, intrinsicW, intrinsicH int) float64 {
	if intrinsicW <= 0 || intrinsicH <= 0 {
		return 1
	}
	fitW := s.PixelWidth() / (float64(intrinsicW) * defaultFitFactor)
	fitH := s.PixelHeight() / (float64(intrinsicH) * defaultFitFactor)
	return math.Min(defaultScaleCap, math.Min(fitW, fitH))
}

// NewItem constructs an item for a decoded upload with default placement
// and scale on the given sheet.
func NewItem(s sheet.Sheet, name, sourceRef string, intrinsicW, intrinsicH int) Item {
	return Item{
		ID:              uuid.NewString(),
		Name:            name,
		SourceRef:       sourceRef,
		IntrinsicWidth:  intrinsicW,
		IntrinsicHeight: intrinsicH,
		X:               defaultX,
		Y:               defaultY,
		Scale:           DefaultScale(s, intrinsicW, intrinsicH),
		Visible:         true,
	}
}

// clampAxis keeps pos within [0, sheetDim-scaledDim]. If the scaled
// dimension exceeds the sheet, the position clamps to 0.
func clampAxis(pos, scaledDim, sheetDim float64) float64 {
	limit := sheetDim - scaledDim
	if limit < 0 {
		limit = 0
	}
	return math.Min(math.Max(pos, 0), limit)
}
