package codec

import (
	"context"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/printforge/gangsheet/pkg/errors"
	"github.com/printforge/gangsheet/pkg/project"
	"github.com/printforge/gangsheet/pkg/sheet"
	"github.com/printforge/gangsheet/pkg/store"
	"github.com/printforge/gangsheet/pkg/units"
)

func fixtureProject() *project.Project {
	p := project.New(sheet.Default())
	p.Items = []project.Item{
		{ID: "a", Name: "logo.png", SourceRef: "uploads/logo.png", IntrinsicWidth: 400, IntrinsicHeight: 300, X: 20, Y: 20, Scale: 0.45, Visible: true},
		{ID: "b", Name: "badge.png", SourceRef: "uploads/badge.png", IntrinsicWidth: 100, IntrinsicHeight: 100, X: 200, Y: 150, Rotation: 45, Scale: 1, Visible: true},
	}
	return p
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	defer s.Close()

	orig := fixtureProject()
	if err := Save(ctx, s, "my-sheet", orig); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, err := Load(ctx, s, "my-sheet")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !reflect.DeepEqual(got.Items, orig.Items) {
		t.Errorf("loaded items = %+v, want %+v", got.Items, orig.Items)
	}
	if got.Sheet != orig.Sheet {
		t.Errorf("loaded sheet = %+v, want %+v", got.Sheet, orig.Sheet)
	}
}

func TestLoadMiss(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()

	_, err := Load(context.Background(), s, "nope")
	if errors.GetCode(err) != errors.ErrCodePersistenceMiss {
		t.Errorf("Load of missing key = %v, want PERSISTENCE_MISS", err)
	}
}

func TestLoadCorrupt(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	defer s.Close()

	if err := s.Set(ctx, "bad", "{not json"); err != nil {
		t.Fatal(err)
	}
	_, err := Load(ctx, s, "bad")
	if errors.GetCode(err) != errors.ErrCodePersistenceCorrupt {
		t.Errorf("Load of corrupt payload = %v, want PERSISTENCE_CORRUPT", err)
	}
}

func TestDecodeAppliesDefaults(t *testing.T) {
	// Minimal payload from an older writer: only items present.
	p, err := Decode(`{"items":[{"id":"a","original_width":10,"original_height":10,"scale":1,"visible":true}]}`)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	want := sheet.Default()
	if p.Sheet.Name != want.Name {
		t.Errorf("missing preset should default to %q, got %q", want.Name, p.Sheet.Name)
	}
	if p.Sheet.ExportDPI != sheet.DefaultExportDPI {
		t.Errorf("missing dpi should default to %v, got %v", sheet.DefaultExportDPI, p.Sheet.ExportDPI)
	}
	if p.Sheet.Unit != units.Inch {
		t.Errorf("missing unit should default to %q, got %q", units.Inch, p.Sheet.Unit)
	}
	if len(p.Items) != 1 || p.Items[0].ID != "a" {
		t.Errorf("items not preserved: %+v", p.Items)
	}
}

func TestDecodePayloadOverridesDPIAndUnit(t *testing.T) {
	orig := fixtureProject()
	orig.Sheet.ExportDPI = 150
	orig.Sheet.Unit = units.Centimeter

	text, err := Encode(orig)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(text)
	if err != nil {
		t.Fatal(err)
	}
	if got.Sheet.ExportDPI != 150 {
		t.Errorf("ExportDPI = %v, want 150", got.Sheet.ExportDPI)
	}
	if got.Sheet.Unit != units.Centimeter {
		t.Errorf("Unit = %q, want centimeter", got.Sheet.Unit)
	}
}

func TestShareRoundTrip(t *testing.T) {
	orig := fixtureProject()
	token, err := EncodeShare(orig)
	if err != nil {
		t.Fatalf("EncodeShare error: %v", err)
	}
	if strings.ContainsAny(token, "+/=") {
		t.Errorf("share token %q is not URL-safe", token)
	}

	got, err := DecodeShare(token)
	if err != nil {
		t.Fatalf("DecodeShare error: %v", err)
	}
	if !reflect.DeepEqual(got.Items, orig.Items) {
		t.Errorf("shared items = %+v, want %+v", got.Items, orig.Items)
	}
}

func TestDecodeShareRejectsGarbage(t *testing.T) {
	for _, token := range []string{"%%%not-base64%%%", "bm90IGpzb24"} { // second decodes to "not json"
		_, err := DecodeShare(token)
		if errors.GetCode(err) != errors.ErrCodeSharePayloadInvalid {
			t.Errorf("DecodeShare(%q) = %v, want SHARE_PAYLOAD_INVALID", token, err)
		}
	}
}

func TestShareURLAndFromURL(t *testing.T) {
	orig := fixtureProject()
	link, err := ShareURL("https://example.com/builder", orig)
	if err != nil {
		t.Fatalf("ShareURL error: %v", err)
	}
	u, err := url.Parse(link)
	if err != nil {
		t.Fatal(err)
	}
	if u.Query().Get(ShareParam) == "" {
		t.Fatalf("share link %q has no %q parameter", link, ShareParam)
	}

	got, err := FromURL(link)
	if err != nil {
		t.Fatalf("FromURL error: %v", err)
	}
	if got == nil || !reflect.DeepEqual(got.Items, orig.Items) {
		t.Errorf("FromURL did not recover the shared project")
	}
}

func TestFromURLWithoutParam(t *testing.T) {
	p, err := FromURL("https://example.com/builder?theme=dark")
	if err != nil || p != nil {
		t.Errorf("FromURL without share param = (%v, %v), want (nil, nil)", p, err)
	}
}

func TestFromURLMalformedTokenSoftFails(t *testing.T) {
	p, err := FromURL("https://example.com/builder?sheet=!!broken!!")
	if p != nil {
		t.Error("malformed token must not produce a project")
	}
	if errors.GetCode(err) != errors.ErrCodeSharePayloadInvalid {
		t.Errorf("err = %v, want SHARE_PAYLOAD_INVALID", err)
	}
}
