// Package sheet defines the print substrate that items are arranged on.
//
// A sheet has fixed physical dimensions and two independent resolutions:
// the display resolution (fixed, used for on-screen editing geometry) and
// the export resolution (user-settable, used only when producing output
// artifacts). Decoupling the two keeps editing scale independent of output
// quality.
package sheet

import (
	"fmt"

	"github.com/printforge/gangsheet/pkg/units"
)

// DisplayDPI is the fixed pixel density of the editing surface.
const DisplayDPI = 96

// DefaultExportDPI is the default output pixel density.
const DefaultExportDPI = 300

// PricePerItem is the surcharge added to the base sheet price for every
// placed item.
const PricePerItem = 0.50

// Sheet describes a print substrate.
type Sheet struct {
	Name      string     `json:"name"`
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	Unit      units.Unit `json:"unit"`
	Price     float64    `json:"price"`
	MaxItems  int        `json:"max_items"`
	ExportDPI float64    `json:"export_dpi"`
}

// PixelWidth returns the sheet width in pixels at the display resolution.
func (s Sheet) PixelWidth() float64 {
	return float64(units.ToPixels(s.Width, s.Unit, DisplayDPI))
}

// PixelHeight returns the sheet height in pixels at the display resolution.
func (s Sheet) PixelHeight() float64 {
	return float64(units.ToPixels(s.Height, s.Unit, DisplayDPI))
}

// ExportPixelWidth returns the sheet width in pixels at the export resolution.
func (s Sheet) ExportPixelWidth() float64 {
	return float64(units.ToPixels(s.Width, s.Unit, s.ExportDPI))
}

// ExportPixelHeight returns the sheet height in pixels at the export resolution.
func (s Sheet) ExportPixelHeight() float64 {
	return float64(units.ToPixels(s.Height, s.Unit, s.ExportDPI))
}

// ExportScale is the factor that rescales display-pixel geometry to
// export-pixel geometry.
func (s Sheet) ExportScale() float64 {
	if s.ExportDPI == 0 {
		return 1
	}
	return s.ExportDPI / DisplayDPI
}

// TotalPrice computes the sheet price for a given number of placed items:
// base price plus a per-item surcharge.
func (s Sheet) TotalPrice(itemCount int) float64 {
	return s.Price + float64(itemCount)*PricePerItem
}

// Presets returns the available sheet presets.
func Presets() []Sheet {
	return []Sheet{
		{Name: "8.5x11 Small Sheet", Width: 8.5, Height: 11, Unit: units.Inch, Price: 12.99, MaxItems: 25, ExportDPI: DefaultExportDPI},
		{Name: "12x16 Standard Sheet", Width: 12, Height: 16, Unit: units.Inch, Price: 18.99, MaxItems: 50, ExportDPI: DefaultExportDPI},
		{Name: "22x24 Large Sheet", Width: 22, Height: 24, Unit: units.Inch, Price: 45.99, MaxItems: 100, ExportDPI: DefaultExportDPI},
	}
}

// Default returns the default sheet preset.
func Default() Sheet {
	return Presets()[1]
}

// PresetByName looks up a preset by its exact name.
func PresetByName(name string) (Sheet, error) {
	for _, p := range Presets() {
		if p.Name == name {
			return p, nil
		}
	}
	return Sheet{}, fmt.Errorf("unknown sheet preset: %q", name)
}
