package export

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// RSVG renders SVG scenes to PNG by shelling out to rsvg-convert. It is
// the default Rasterizer. Requires librsvg: brew install librsvg (macOS),
// apt install librsvg2-bin (Linux).
type RSVG struct{}

// Available reports whether rsvg-convert is on the PATH.
func (RSVG) Available() bool {
	_, err := exec.LookPath("rsvg-convert")
	return err == nil
}

// Render converts the SVG to PNG at the given resolution multiplier.
func (RSVG) Render(ctx context.Context, svg []byte, scale float64, background string) ([]byte, error) {
	args := []string{"-z", fmt.Sprintf("%.4f", scale)}
	if background != "" {
		args = append(args, "-b", background)
	}
	return rsvgConvert(ctx, svg, "png", args...)
}

// RSVGDocument renders SVG scenes to PDF via rsvg-convert. It is the
// default DocumentRenderer.
type RSVGDocument struct{}

// Available reports whether rsvg-convert is on the PATH.
func (RSVGDocument) Available() bool {
	_, err := exec.LookPath("rsvg-convert")
	return err == nil
}

// Render converts the SVG to a single-page PDF at the given resolution
// multiplier.
func (RSVGDocument) Render(ctx context.Context, svg []byte, scale float64, background string) ([]byte, error) {
	args := []string{"-z", fmt.Sprintf("%.4f", scale)}
	if background != "" {
		args = append(args, "-b", background)
	}
	return rsvgConvert(ctx, svg, "pdf", args...)
}

// rsvgConvert shells out to rsvg-convert for format conversion.
func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, "rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}
