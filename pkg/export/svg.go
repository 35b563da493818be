package export

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// RenderSVG emits the vector form of a snapshot: a container sized to the
// sheet dimensions at the export resolution, a background fill unless
// transparent, and one image element per visible item with its editor
// geometry rescaled to export pixels and rotated about its own center.
func RenderSVG(snap Snapshot) []byte {
	return renderSVGScaled(snap, snap.Project.Sheet.ExportScale())
}

// renderDisplaySVG emits the same scene at display-resolution geometry.
// External rasterizers consume this together with a resolution multiplier,
// mirroring how the editor surface is snapshotted.
func renderDisplaySVG(snap Snapshot) []byte {
	return renderSVGScaled(snap, 1)
}

func renderSVGScaled(snap Snapshot, scale float64) []byte {
	s := snap.Project.Sheet
	w := s.PixelWidth() * scale
	h := s.PixelHeight() * scale

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(w), num(h), num(w), num(h))

	view := snap.Project.View
	if !view.Transparent {
		bg := view.Background
		if bg == "" {
			bg = "#ffffff"
		}
		fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%s" height="%s" fill="%s"/>`+"\n",
			num(w), num(h), escapeAttr(bg))
	}

	for _, it := range snap.Project.Items {
		if !it.Visible {
			continue
		}
		x := it.X * scale
		y := it.Y * scale
		iw := it.ScaledWidth() * scale
		ih := it.ScaledHeight() * scale
		cx := x + iw/2
		cy := y + ih/2

		fmt.Fprintf(&buf, `  <image id="item-%s" x="%s" y="%s" width="%s" height="%s" transform="rotate(%s %s %s)" href="%s" xlink:href="%s"/>`+"\n",
			escapeAttr(it.ID), num(x), num(y), num(iw), num(ih),
			num(it.Rotation), num(cx), num(cy),
			escapeAttr(it.SourceRef), escapeAttr(it.SourceRef))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// num formats a coordinate without trailing zero noise.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// escapeAttr escapes an XML attribute value.
func escapeAttr(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return r.Replace(s)
}
