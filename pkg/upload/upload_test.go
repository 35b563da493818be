package upload

import (
	"bytes"
	"image"
	"image/color/palette"
	"image/gif"
	"image/png"
	"testing"

	"github.com/printforge/gangsheet/pkg/errors"
	"github.com/printforge/gangsheet/pkg/sheet"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func gifBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := gif.Encode(&buf, image.NewPaletted(image.Rect(0, 0, w, h), palette.Plan9), nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodePNG(t *testing.T) {
	s := sheet.Default()
	it, err := Decode(s, "logo.png", "uploads/logo.png", pngBytes(t, 400, 300))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if it.IntrinsicWidth != 400 || it.IntrinsicHeight != 300 {
		t.Errorf("intrinsic size = %dx%d, want 400x300", it.IntrinsicWidth, it.IntrinsicHeight)
	}
	if it.Name != "logo.png" || it.SourceRef != "uploads/logo.png" {
		t.Errorf("name/ref = %q/%q", it.Name, it.SourceRef)
	}
	if it.ID == "" {
		t.Error("item must get an id")
	}
	if it.X != 20 || it.Y != 20 {
		t.Errorf("default position = (%v, %v), want (20, 20)", it.X, it.Y)
	}
	if !it.Visible {
		t.Error("uploaded items start visible")
	}
	// Small image on a large sheet hits the scale cap.
	if it.Scale != 0.45 {
		t.Errorf("Scale = %v, want 0.45", it.Scale)
	}
}

func TestDecodeGIF(t *testing.T) {
	it, err := Decode(sheet.Default(), "anim.gif", "uploads/anim.gif", gifBytes(t, 64, 48))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if it.IntrinsicWidth != 64 || it.IntrinsicHeight != 48 {
		t.Errorf("intrinsic size = %dx%d, want 64x48", it.IntrinsicWidth, it.IntrinsicHeight)
	}
}

func TestDecodeRejectsNonImage(t *testing.T) {
	cases := map[string][]byte{
		"notes.txt": []byte("just some text, definitely not pixels"),
		"empty.bin": nil,
	}
	for name, data := range cases {
		_, err := Decode(sheet.Default(), name, name, data)
		if errors.GetCode(err) != errors.ErrCodeInvalidUpload {
			t.Errorf("Decode(%s) = %v, want INVALID_UPLOAD", name, err)
		}
	}
}

func TestDecodeCorruptImage(t *testing.T) {
	// A valid PNG signature followed by garbage sniffs as image/png but
	// fails to decode.
	data := append([]byte("\x89PNG\r\n\x1a\n"), []byte("garbage body")...)
	_, err := Decode(sheet.Default(), "broken.png", "broken.png", data)
	if errors.GetCode(err) != errors.ErrCodeDecodeFailure {
		t.Errorf("Decode of corrupt png = %v, want DECODE_FAILURE", err)
	}
}

func TestDecodeAllSkipsFailures(t *testing.T) {
	s := sheet.Default()
	files := []File{
		{Name: "a.png", SourceRef: "a", Data: pngBytes(t, 10, 10)},
		{Name: "junk.txt", SourceRef: "junk", Data: []byte("nope")},
		{Name: "b.png", SourceRef: "b", Data: pngBytes(t, 20, 20)},
	}
	items := DecodeAll(s, files, nil)
	if len(items) != 2 {
		t.Fatalf("DecodeAll returned %d items, want 2", len(items))
	}
	if items[0].Name != "a.png" || items[1].Name != "b.png" {
		t.Errorf("batch order not preserved: %q, %q", items[0].Name, items[1].Name)
	}
}
