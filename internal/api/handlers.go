package api

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/printforge/gangsheet/pkg/codec"
	"github.com/printforge/gangsheet/pkg/errors"
	"github.com/printforge/gangsheet/pkg/export"
	"github.com/printforge/gangsheet/pkg/layout"
	"github.com/printforge/gangsheet/pkg/project"
	"github.com/printforge/gangsheet/pkg/sheet"
	"github.com/printforge/gangsheet/pkg/units"
	"github.com/printforge/gangsheet/pkg/upload"
)

// maxUploadBytes caps the in-memory portion of a multipart upload.
const maxUploadBytes = 32 << 20

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.cfg.SheetPresets())
}

type createProjectRequest struct {
	Preset string  `json:"preset"`
	Unit   string  `json:"unit"`
	DPI    float64 `json:"dpi"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	sh := sheet.Default()
	if req.Preset != "" {
		found := false
		for _, p := range s.cfg.SheetPresets() {
			if p.Name == req.Preset {
				sh, found = p, true
				break
			}
		}
		if !found {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "unknown sheet preset: %q", req.Preset))
			return
		}
	}
	if req.Unit != "" {
		u, err := units.Parse(req.Unit)
		if err != nil {
			s.writeError(w, errors.Wrap(errors.ErrCodeInvalidUnit, err, "invalid unit"))
			return
		}
		sh.Unit = u
	}
	if req.DPI > 0 {
		sh.ExportDPI = req.DPI
	}

	p := project.New(sh)
	s.mu.Lock()
	s.projects[p.ID] = p
	s.mu.Unlock()
	s.writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	_, err := s.lookup(id)
	delete(s.projects, id)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type uploadRequest struct {
	Files []struct {
		Name string `json:"name"`
		Data string `json:"data"` // base64
	} `json:"files"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	files, err := readUploadFiles(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if len(files) == 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidUpload, "no files in upload"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	items := upload.DecodeAll(p.Sheet, files, s.logger)
	for _, it := range items {
		if err := p.Add(it); err != nil {
			s.writeError(w, err)
			return
		}
	}
	s.writeJSON(w, http.StatusCreated, p)
}

// readUploadFiles accepts either a multipart form with a "files" field or a
// JSON body with base64-encoded file contents. Each file's image bytes are
// embedded as a data URL so exported scenes stay self-contained.
func readUploadFiles(r *http.Request) ([]upload.File, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidUpload, err, "parsing multipart upload")
		}
		var files []upload.File
		for _, hdr := range r.MultipartForm.File["files"] {
			f, err := hdr.Open()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidUpload, err, "opening %s", hdr.Filename)
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidUpload, err, "reading %s", hdr.Filename)
			}
			files = append(files, upload.File{Name: hdr.Filename, SourceRef: upload.DataURL(data), Data: data})
		}
		return files, nil
	}

	var req uploadRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	files := make([]upload.File, 0, len(req.Files))
	for _, f := range req.Files {
		data, err := base64.StdEncoding.DecodeString(f.Data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidUpload, err, "%s is not valid base64", f.Name)
		}
		files = append(files, upload.File{Name: f.Name, SourceRef: upload.DataURL(data), Data: data})
	}
	return files, nil
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var patch project.Patch
	if err := decodeBody(r, &patch); err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	itemID := chi.URLParam(r, "itemID")
	if _, ok := p.Item(itemID); !ok {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "item %s not found", itemID))
		return
	}
	if err := p.Update(itemID, patch); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	itemID := chi.URLParam(r, "itemID")
	if _, ok := p.Item(itemID); !ok {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "item %s not found", itemID))
		return
	}
	if err := p.Remove(itemID); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDuplicate(w http.ResponseWriter, r *http.Request) {
	count := 1
	if q := r.URL.Query().Get("count"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid count: %q", q))
			return
		}
		count = n
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if _, err := p.Duplicate(chi.URLParam(r, "itemID"), count); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleAutofill(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	created, err := p.Autofill(chi.URLParam(r, "itemID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"created": created, "project": p})
}

type layoutRequest struct {
	Mode string `json:"mode"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	mode, err := layout.ParseMode(req.Mode)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidLayout, err, "invalid layout mode"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	items, err := layout.Apply(mode, p.Items, p.Sheet)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidLayout, err, "applying layout"))
		return
	}
	if err := p.ReplaceItems(items); err != nil {
		s.writeError(w, err)
		return
	}
	p.View.LayoutMode = string(mode)
	s.writeJSON(w, http.StatusOK, p)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := p.SetStatus(req.Status); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"total": p.TotalPrice(),
		"items": len(p.Items),
	})
}

// handleExport produces an artifact from a snapshot taken under the lock.
// The render itself runs lock-free; if the project was edited in the
// meantime the response carries a staleness header so clients can re-export.
func (s *Server) handleExport(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		snap, err := s.snapshot(id)
		if err != nil {
			s.writeError(w, err)
			return
		}

		res, err := s.exporter.Export(r.Context(), snap, format)
		if err != nil {
			s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "export failed"))
			return
		}

		if res.Format != format {
			w.Header().Set("X-Export-Degraded", res.Format)
		}
		s.mu.Lock()
		if live, ok := s.projects[id]; ok && snap.Stale(live) {
			w.Header().Set("X-Export-Stale", "true")
		}
		s.mu.Unlock()

		w.Header().Set("Content-Type", contentTypeFor(res.Format))
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(res.Data); err != nil {
			s.logger.Error("writing export body", "error", err)
		}
	}
}

func contentTypeFor(format string) string {
	switch format {
	case export.FormatSVG:
		return "image/svg+xml"
	case export.FormatPNG:
		return "image/png"
	case export.FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	url, err := codec.ShareURL(s.cfg.Share.BaseURL, snap.Project)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

type saveRequest struct {
	Key string `json:"key"`
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	snap, err := s.snapshot(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	key := req.Key
	if key == "" {
		key = id
	}
	if err := codec.Save(r.Context(), s.store, key, snap.Project); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"key": key})
}

type loadRequest struct {
	Key string `json:"key"`
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	var req loadRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Key == "" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "key is required"))
		return
	}
	p, err := codec.Load(r.Context(), s.store, req.Key)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	s.projects[p.ID] = p
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, p)
}

// decodeBody parses a JSON request body. An empty body decodes to the zero
// value.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
