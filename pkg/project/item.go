package project

// Item is a single placed image on the sheet. Position is the top-left of
// the item's bounding box in sheet-pixel space at the display resolution.
// Intrinsic dimensions come from the decoded source image and never change
// after creation.
type Item struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	SourceRef       string  `json:"src"`
	IntrinsicWidth  int     `json:"original_width"`
	IntrinsicHeight int     `json:"original_height"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Rotation        float64 `json:"rotation"`
	Scale           float64 `json:"scale"`
	Visible         bool    `json:"visible"`
}

// ScaledWidth returns the width of the item's bounding box after scaling.
func (it Item) ScaledWidth() float64 {
	return float64(it.IntrinsicWidth) * it.Scale
}

// ScaledHeight returns the height of the item's bounding box after scaling.
func (it Item) ScaledHeight() float64 {
	return float64(it.IntrinsicHeight) * it.Scale
}

// Patch describes a partial item update. Nil fields are left unchanged.
type Patch struct {
	Name     *string  `json:"name,omitempty"`
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`
	Scale    *float64 `json:"scale,omitempty"`
	Visible  *bool    `json:"visible,omitempty"`
}

// apply merges the patch into a copy of the item and returns it.
func (p Patch) apply(it Item) Item {
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.X != nil {
		it.X = *p.X
	}
	if p.Y != nil {
		it.Y = *p.Y
	}
	if p.Rotation != nil {
		it.Rotation = *p.Rotation
	}
	if p.Scale != nil && *p.Scale > 0 {
		it.Scale = *p.Scale
	}
	if p.Visible != nil {
		it.Visible = *p.Visible
	}
	return it
}
