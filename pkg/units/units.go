// Package units converts between physical measurements and pixel space.
//
// A sheet is defined in a physical unit (inch, centimeter) or directly in
// pixels, and rendered at a resolution expressed in pixels per inch. All
// conversion functions are pure; the editing surface uses a fixed display
// resolution while exports recompute pixel geometry at the export
// resolution.
package units

import (
	"fmt"
	"math"
)

// Unit is a physical measurement unit for sheet dimensions.
type Unit string

// Supported units.
const (
	Inch       Unit = "inch"
	Centimeter Unit = "centimeter"
	Pixel      Unit = "pixel"
)

// CentimetersPerInch is the conversion constant between metric and
// imperial lengths.
const CentimetersPerInch = 2.54

// Parse validates a unit string and returns the Unit.
func Parse(s string) (Unit, error) {
	switch Unit(s) {
	case Inch, Centimeter, Pixel:
		return Unit(s), nil
	}
	return "", fmt.Errorf("invalid unit: %q (must be 'inch', 'centimeter', or 'pixel')", s)
}

// ToPixels converts a value in the given unit to pixels at the given
// resolution (pixels per inch). Pixel outputs round to the nearest integer.
func ToPixels(value float64, unit Unit, resolution float64) int {
	switch unit {
	case Pixel:
		return int(math.Round(value))
	case Inch:
		return int(math.Round(value * resolution))
	case Centimeter:
		return int(math.Round(value / CentimetersPerInch * resolution))
	}
	return int(math.Round(value))
}

// FromPixels converts pixels back to a value in the given unit at the given
// resolution. Inch values round to 3 decimal places and centimeter values
// to 2, keeping displayed values stable under repeated round trips.
func FromPixels(pixels float64, unit Unit, resolution float64) float64 {
	switch unit {
	case Pixel:
		return pixels
	case Inch:
		return roundTo(pixels/resolution, 3)
	case Centimeter:
		return roundTo(pixels/resolution*CentimetersPerInch, 2)
	}
	return pixels
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}
