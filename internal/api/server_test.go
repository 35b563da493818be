package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/printforge/gangsheet/pkg/config"
	"github.com/printforge/gangsheet/pkg/export"
	"github.com/printforge/gangsheet/pkg/project"
	"github.com/printforge/gangsheet/pkg/store"
)

// downRenderer simulates an absent external renderer.
type downRenderer struct{}

func (downRenderer) Available() bool { return false }
func (downRenderer) Render(ctx context.Context, svg []byte, scale float64, background string) ([]byte, error) {
	return nil, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	exp := export.New(
		export.WithRasterizer(downRenderer{}),
		export.WithDocumentRenderer(downRenderer{}),
	)
	return New(config.Default(), store.NewMemoryStore(), WithExporter(exp))
}

// do runs one request against the router and decodes a JSON response into
// out when it is non-nil.
func do(t *testing.T, h http.Handler, method, path string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if out != nil && rec.Code < 300 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decoding %s %s response: %v\n%s", method, path, err, rec.Body.String())
		}
	}
	return rec
}

func createProject(t *testing.T, h http.Handler) project.Project {
	t.Helper()
	var p project.Project
	rec := do(t, h, http.MethodPost, "/api/projects", nil, &p)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create project = %d: %s", rec.Code, rec.Body.String())
	}
	return p
}

func pngPayload(t *testing.T, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func uploadOne(t *testing.T, h http.Handler, projectID string) project.Project {
	t.Helper()
	body := map[string]any{
		"files": []map[string]string{{"name": "logo.png", "data": pngPayload(t, 400, 300)}},
	}
	var p project.Project
	rec := do(t, h, http.MethodPost, "/api/projects/"+projectID+"/items", body, &p)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload = %d: %s", rec.Code, rec.Body.String())
	}
	return p
}

func TestPresets(t *testing.T) {
	h := newTestServer(t).Handler()
	var presets []map[string]any
	rec := do(t, h, http.MethodGet, "/api/presets", nil, &presets)
	if rec.Code != http.StatusOK || len(presets) != 3 {
		t.Errorf("presets = %d, %d entries", rec.Code, len(presets))
	}
}

func TestProjectLifecycle(t *testing.T) {
	h := newTestServer(t).Handler()
	p := createProject(t, h)
	if p.ID == "" || p.Status != "draft" {
		t.Fatalf("created project = %+v", p)
	}
	if p.Sheet.Name != "12x16 Standard Sheet" {
		t.Errorf("default preset = %q", p.Sheet.Name)
	}

	var got project.Project
	if rec := do(t, h, http.MethodGet, "/api/projects/"+p.ID, nil, &got); rec.Code != http.StatusOK {
		t.Fatalf("get = %d", rec.Code)
	}
	if got.ID != p.ID {
		t.Errorf("got project %q, want %q", got.ID, p.ID)
	}

	if rec := do(t, h, http.MethodDelete, "/api/projects/"+p.ID, nil, nil); rec.Code != http.StatusNoContent {
		t.Errorf("delete = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/projects/"+p.ID, nil, nil); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", rec.Code)
	}
}

func TestCreateProjectWithPresetAndUnit(t *testing.T) {
	h := newTestServer(t).Handler()
	var p project.Project
	body := map[string]any{"preset": "22x24 Large Sheet", "dpi": 150}
	if rec := do(t, h, http.MethodPost, "/api/projects", body, &p); rec.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", rec.Code, rec.Body.String())
	}
	if p.Sheet.Name != "22x24 Large Sheet" || p.Sheet.ExportDPI != 150 {
		t.Errorf("sheet = %+v", p.Sheet)
	}

	rec := do(t, h, http.MethodPost, "/api/projects", map[string]any{"preset": "bogus"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown preset = %d, want 400", rec.Code)
	}
	rec = do(t, h, http.MethodPost, "/api/projects", map[string]any{"unit": "furlong"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid unit = %d, want 400", rec.Code)
	}
}

func TestUploadAndItemOps(t *testing.T) {
	h := newTestServer(t).Handler()
	p := createProject(t, h)
	p = uploadOne(t, h, p.ID)
	if len(p.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(p.Items))
	}
	it := p.Items[0]
	if it.IntrinsicWidth != 400 || it.IntrinsicHeight != 300 {
		t.Errorf("intrinsic = %dx%d", it.IntrinsicWidth, it.IntrinsicHeight)
	}
	if !strings.HasPrefix(it.SourceRef, "data:image/png;base64,") {
		t.Errorf("source ref = %q, want embedded data URL", it.SourceRef[:min(40, len(it.SourceRef))])
	}

	// Patch position.
	var patched project.Project
	rec := do(t, h, http.MethodPatch, fmt.Sprintf("/api/projects/%s/items/%s", p.ID, it.ID), map[string]any{"x": 50.0}, &patched)
	if rec.Code != http.StatusOK || patched.Items[0].X != 50 {
		t.Errorf("patch = %d, x = %v", rec.Code, patched.Items[0].X)
	}
	rec = do(t, h, http.MethodPatch, fmt.Sprintf("/api/projects/%s/items/ghost", p.ID), map[string]any{"x": 1.0}, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("patch missing item = %d, want 404", rec.Code)
	}

	// Duplicate.
	var dup project.Project
	rec = do(t, h, http.MethodPost, fmt.Sprintf("/api/projects/%s/items/%s/duplicate?count=2", p.ID, it.ID), nil, &dup)
	if rec.Code != http.StatusOK || len(dup.Items) != 3 {
		t.Errorf("duplicate = %d, items = %d, want 3", rec.Code, len(dup.Items))
	}

	// Remove one copy.
	rec = do(t, h, http.MethodDelete, fmt.Sprintf("/api/projects/%s/items/%s", p.ID, dup.Items[2].ID), nil, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("remove = %d", rec.Code)
	}
}

func TestAutofill(t *testing.T) {
	h := newTestServer(t).Handler()
	p := createProject(t, h)
	p = uploadOne(t, h, p.ID)

	var resp struct {
		Created int             `json:"created"`
		Project project.Project `json:"project"`
	}
	rec := do(t, h, http.MethodPost, fmt.Sprintf("/api/projects/%s/items/%s/autofill", p.ID, p.Items[0].ID), nil, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("autofill = %d: %s", rec.Code, rec.Body.String())
	}
	if resp.Created == 0 || len(resp.Project.Items) != resp.Created+1 {
		t.Errorf("created %d tiles, project has %d items", resp.Created, len(resp.Project.Items))
	}
}

func TestLayoutEndpoint(t *testing.T) {
	h := newTestServer(t).Handler()
	p := createProject(t, h)
	p = uploadOne(t, h, p.ID)

	var arranged project.Project
	rec := do(t, h, http.MethodPost, "/api/projects/"+p.ID+"/layout", map[string]string{"mode": "grid"}, &arranged)
	if rec.Code != http.StatusOK {
		t.Fatalf("layout = %d: %s", rec.Code, rec.Body.String())
	}
	if arranged.View.LayoutMode != "grid" {
		t.Errorf("layout mode = %q", arranged.View.LayoutMode)
	}

	rec = do(t, h, http.MethodPost, "/api/projects/"+p.ID+"/layout", map[string]string{"mode": "diagonal"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid mode = %d, want 400", rec.Code)
	}
}

func TestFinalizedRejectsEdits(t *testing.T) {
	h := newTestServer(t).Handler()
	p := createProject(t, h)
	p = uploadOne(t, h, p.ID)

	rec := do(t, h, http.MethodPost, "/api/projects/"+p.ID+"/status", map[string]string{"status": "finalized"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("finalize = %d", rec.Code)
	}
	rec = do(t, h, http.MethodPatch, fmt.Sprintf("/api/projects/%s/items/%s", p.ID, p.Items[0].ID), map[string]any{"x": 1.0}, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("edit after finalize = %d, want 409", rec.Code)
	}
}

func TestPrice(t *testing.T) {
	h := newTestServer(t).Handler()
	p := createProject(t, h)
	p = uploadOne(t, h, p.ID)

	var resp struct {
		Total float64 `json:"total"`
		Items int     `json:"items"`
	}
	rec := do(t, h, http.MethodGet, "/api/projects/"+p.ID+"/price", nil, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("price = %d", rec.Code)
	}
	// Default sheet 18.99 plus one item at 0.50.
	if resp.Total != 19.49 || resp.Items != 1 {
		t.Errorf("price = %+v, want total 19.49 for 1 item", resp)
	}
}

func TestExportSVG(t *testing.T) {
	h := newTestServer(t).Handler()
	p := createProject(t, h)
	p = uploadOne(t, h, p.ID)

	rec := do(t, h, http.MethodGet, "/api/projects/"+p.ID+"/export.svg", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export.svg = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Error("body is not SVG")
	}
	if rec.Header().Get("X-Export-Degraded") != "" {
		t.Error("vector export must not be degraded")
	}
}

func TestExportPNGDegradesToVector(t *testing.T) {
	h := newTestServer(t).Handler()
	p := createProject(t, h)

	rec := do(t, h, http.MethodGet, "/api/projects/"+p.ID+"/export.png", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export.png = %d", rec.Code)
	}
	if got := rec.Header().Get("X-Export-Degraded"); got != "svg" {
		t.Errorf("X-Export-Degraded = %q, want svg with renderers down", got)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("degraded content type = %q", ct)
	}
}

func TestShareEndpoint(t *testing.T) {
	h := newTestServer(t).Handler()
	p := createProject(t, h)

	var resp map[string]string
	rec := do(t, h, http.MethodGet, "/api/projects/"+p.ID+"/share", nil, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("share = %d", rec.Code)
	}
	if !strings.Contains(resp["url"], "?sheet=") {
		t.Errorf("share url = %q", resp["url"])
	}
}

func TestSaveAndLoad(t *testing.T) {
	h := newTestServer(t).Handler()
	p := createProject(t, h)
	p = uploadOne(t, h, p.ID)

	rec := do(t, h, http.MethodPost, "/api/projects/"+p.ID+"/save", map[string]string{"key": "my-sheet"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("save = %d: %s", rec.Code, rec.Body.String())
	}

	var loaded project.Project
	rec = do(t, h, http.MethodPost, "/api/projects/load", map[string]string{"key": "my-sheet"}, &loaded)
	if rec.Code != http.StatusOK {
		t.Fatalf("load = %d: %s", rec.Code, rec.Body.String())
	}
	if len(loaded.Items) != 1 || loaded.Items[0].Name != "logo.png" {
		t.Errorf("loaded project items = %+v", loaded.Items)
	}

	rec = do(t, h, http.MethodPost, "/api/projects/load", map[string]string{"key": "missing"}, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("load missing key = %d, want 404", rec.Code)
	}
}
