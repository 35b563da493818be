package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/printforge/gangsheet/pkg/config"
	"github.com/printforge/gangsheet/pkg/export"
	"github.com/printforge/gangsheet/pkg/project"
	"github.com/printforge/gangsheet/pkg/sheet"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := []string{"new", "add", "layout", "export", "share", "presets", "serve", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command is missing %q", name)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"out.png", export.FormatPNG},
		{"out.PDF", export.FormatPDF},
		{"out.svg", export.FormatSVG},
		{"out.txt", export.FormatSVG},
		{"", export.FormatSVG},
	}
	for _, tt := range tests {
		if got := formatFromPath(tt.path); got != tt.want {
			t.Errorf("formatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestChooseSheet(t *testing.T) {
	c := &CLI{cfg: config.Default()}

	got, err := c.chooseSheet("22x24 Large Sheet")
	if err != nil || got.Name != "22x24 Large Sheet" {
		t.Errorf("chooseSheet by name = (%+v, %v)", got, err)
	}

	if _, err := c.chooseSheet("no such preset"); err == nil {
		t.Error("unknown preset must error")
	}

	// Non-interactive runs fall back to the default preset.
	got, err = c.chooseSheet("")
	if err != nil {
		t.Fatalf("chooseSheet default: %v", err)
	}
	if got.Name != sheet.Default().Name {
		t.Errorf("default preset = %q", got.Name)
	}
}

func TestProjectFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.json")
	p := project.New(sheet.Default())
	p.Items = []project.Item{{ID: "a", Name: "x.png", IntrinsicWidth: 10, IntrinsicHeight: 10, Scale: 1, Visible: true}}

	if err := writeProjectFile(path, p); err != nil {
		t.Fatalf("writeProjectFile: %v", err)
	}
	got, err := readProjectFile(path)
	if err != nil {
		t.Fatalf("readProjectFile: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].Name != "x.png" {
		t.Errorf("round-tripped items = %+v", got.Items)
	}

	if _, err := readProjectFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing project file must error")
	}
	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := readProjectFile(path); err == nil {
		t.Error("corrupt project file must error")
	}
}
