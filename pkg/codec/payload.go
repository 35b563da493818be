// Package codec serializes a project to the persisted/shareable payload
// and back.
//
// The payload is a JSON document of the shape
// {items, sheetPreset, dpi, unit}. Loading applies defaults for any
// missing field, so payloads written by older versions keep decoding. A
// missing key is a soft miss; a present but unparseable value is corrupt.
// Neither mutates the caller's state.
package codec

import (
	"context"
	"encoding/json"

	"github.com/printforge/gangsheet/pkg/errors"
	"github.com/printforge/gangsheet/pkg/project"
	"github.com/printforge/gangsheet/pkg/sheet"
	"github.com/printforge/gangsheet/pkg/store"
	"github.com/printforge/gangsheet/pkg/units"
)

// Payload is the wire shape of a persisted or shared project.
type Payload struct {
	Items       []project.Item `json:"items"`
	SheetPreset sheet.Sheet    `json:"sheetPreset"`
	DPI         float64        `json:"dpi"`
	Unit        string         `json:"unit"`
}

// FromProject captures a project as a payload.
func FromProject(p *project.Project) Payload {
	items := make([]project.Item, len(p.Items))
	copy(items, p.Items)
	return Payload{
		Items:       items,
		SheetPreset: p.Sheet,
		DPI:         p.Sheet.ExportDPI,
		Unit:        string(p.Sheet.Unit),
	}
}

// Project reconstructs a project from the payload, applying defaults for
// any missing field: the default sheet preset, export resolution 300, and
// the preset's unit.
func (pl Payload) Project() *project.Project {
	s := pl.SheetPreset
	if s.Width == 0 || s.Height == 0 {
		s = sheet.Default()
	}
	if pl.DPI > 0 {
		s.ExportDPI = pl.DPI
	} else if s.ExportDPI == 0 {
		s.ExportDPI = sheet.DefaultExportDPI
	}
	if u, err := units.Parse(pl.Unit); err == nil {
		s.Unit = u
	} else if s.Unit == "" {
		s.Unit = sheet.Default().Unit
	}

	p := project.New(s)
	p.Items = make([]project.Item, len(pl.Items))
	copy(p.Items, pl.Items)
	return p
}

// Encode renders the payload as JSON text.
func Encode(p *project.Project) (string, error) {
	data, err := json.Marshal(FromProject(p))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encoding project payload")
	}
	return string(data), nil
}

// Decode parses JSON payload text into a project.
func Decode(text string) (*project.Project, error) {
	var pl Payload
	if err := json.Unmarshal([]byte(text), &pl); err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistenceCorrupt, err, "payload is not valid JSON")
	}
	return pl.Project(), nil
}

// Save encodes the project and stores it under key.
func Save(ctx context.Context, s store.Store, key string, p *project.Project) error {
	text, err := Encode(p)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, text)
}

// Load fetches and decodes the project stored under key. A missing key
// yields a PERSISTENCE_MISS error and an unparseable value a
// PERSISTENCE_CORRUPT error; callers surface both as notices and keep
// their current state.
func Load(ctx context.Context, s store.Store, key string) (*project.Project, error) {
	text, ok, err := s.Get(ctx, key)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "reading %q", key)
	}
	if !ok {
		return nil, errors.New(errors.ErrCodePersistenceMiss, "no saved sheet at %q", key)
	}
	return Decode(text)
}
