// Package export turns a project snapshot into output artifacts.
//
// Vector output is always available. Raster and document output delegate
// to external renderers modeled as capability-checked services: when a
// renderer is missing or fails, the exporter degrades one step down the
// chain (document → raster → vector) instead of failing. Each degrade is a
// deliberate, logged decision.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/printforge/gangsheet/pkg/project"
)

// Output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// Snapshot is an immutable view of a project taken at a specific version.
// Asynchronous export work operates on the snapshot; the recorded version
// lets callers detect that the live project has moved on before they treat
// the artifact as current.
type Snapshot struct {
	Project *project.Project
	Version uint64
}

// Snap clones the project into a snapshot.
func Snap(p *project.Project) Snapshot {
	return Snapshot{Project: p.Clone(), Version: p.Version}
}

// Stale reports whether the live project has been edited since the
// snapshot was taken.
func (s Snapshot) Stale(p *project.Project) bool {
	return p.Version != s.Version
}

// Rasterizer renders a display-resolution SVG scene to bitmap bytes at a
// resolution multiplier, with the scene's background color.
type Rasterizer interface {
	Available() bool
	Render(ctx context.Context, svg []byte, scale float64, background string) ([]byte, error)
}

// DocumentRenderer renders a display-resolution SVG scene to a paginated
// document.
type DocumentRenderer interface {
	Available() bool
	Render(ctx context.Context, svg []byte, scale float64, background string) ([]byte, error)
}

// Result is a produced artifact. Format records what was actually
// produced, which may sit lower on the fallback chain than what was asked
// for.
type Result struct {
	Format   string
	Data     []byte
	Filename string
}

// Exporter produces artifacts from snapshots.
type Exporter struct {
	rasterizer Rasterizer
	document   DocumentRenderer
	logger     *log.Logger
	now        func() time.Time
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithRasterizer sets the bitmap rendering service.
func WithRasterizer(r Rasterizer) Option {
	return func(e *Exporter) { e.rasterizer = r }
}

// WithDocumentRenderer sets the document generation service.
func WithDocumentRenderer(d DocumentRenderer) Option {
	return func(e *Exporter) { e.document = d }
}

// WithLogger sets the logger used to report fallback degrades.
func WithLogger(l *log.Logger) Option {
	return func(e *Exporter) { e.logger = l }
}

// New creates an Exporter. By default both external renderers use
// rsvg-convert when it is installed, and degrade gracefully when not.
func New(opts ...Option) *Exporter {
	e := &Exporter{
		rasterizer: RSVG{},
		document:   RSVGDocument{},
		logger:     log.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Vector renders the snapshot as SVG. This never fails.
func (e *Exporter) Vector(snap Snapshot) Result {
	return Result{
		Format:   FormatSVG,
		Data:     RenderSVG(snap),
		Filename: e.filename(FormatSVG),
	}
}

// Raster renders the snapshot as bitmap bytes at export resolution,
// requesting a multiplier of export DPI over display DPI from the external
// renderer. Falls back to vector output when the renderer is unavailable
// or fails.
func (e *Exporter) Raster(ctx context.Context, snap Snapshot) Result {
	svg := renderDisplaySVG(snap)
	background := rasterBackground(snap)

	if !e.rasterizer.Available() {
		e.logger.Warn("bitmap renderer unavailable, falling back to vector output")
		return e.Vector(snap)
	}
	data, err := e.rasterizer.Render(ctx, svg, snap.Project.Sheet.ExportScale(), background)
	if err != nil {
		e.logger.Warn("bitmap renderer failed, falling back to vector output", "err", err)
		return e.Vector(snap)
	}
	return Result{
		Format:   FormatPNG,
		Data:     data,
		Filename: e.filename(FormatPNG),
	}
}

// Document renders the snapshot as a paginated document. Falls back to
// raster output when the document service is unavailable or fails, and
// from there to vector if the raster service is also down.
func (e *Exporter) Document(ctx context.Context, snap Snapshot) Result {
	svg := renderDisplaySVG(snap)
	background := rasterBackground(snap)

	if !e.document.Available() {
		e.logger.Warn("document renderer unavailable, falling back to raster output")
		return e.Raster(ctx, snap)
	}
	data, err := e.document.Render(ctx, svg, snap.Project.Sheet.ExportScale(), background)
	if err != nil {
		e.logger.Warn("document renderer failed, falling back to raster output", "err", err)
		return e.Raster(ctx, snap)
	}
	return Result{
		Format:   FormatPDF,
		Data:     data,
		Filename: e.filename(FormatPDF),
	}
}

// Export dispatches on the requested format.
func (e *Exporter) Export(ctx context.Context, snap Snapshot, format string) (Result, error) {
	switch format {
	case FormatSVG:
		return e.Vector(snap), nil
	case FormatPNG:
		return e.Raster(ctx, snap), nil
	case FormatPDF:
		return e.Document(ctx, snap), nil
	}
	return Result{}, fmt.Errorf("invalid export format: %q (must be 'svg', 'png', or 'pdf')", format)
}

// filename builds the artifact filename, e.g. gangsheet-1700000000.png.
func (e *Exporter) filename(format string) string {
	return fmt.Sprintf("gangsheet-%d.%s", e.now().Unix(), format)
}

// rasterBackground returns the background color to hand to external
// renderers, or empty for a transparent scene.
func rasterBackground(snap Snapshot) string {
	if snap.Project.View.Transparent {
		return ""
	}
	if snap.Project.View.Background == "" {
		return "#ffffff"
	}
	return snap.Project.View.Background
}
