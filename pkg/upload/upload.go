// Package upload turns raw uploaded bytes into placed items.
//
// Decoding only reads image headers (DecodeConfig), never full pixel data;
// the intrinsic size is all the arrangement model needs. Non-image files
// are rejected with a distinct code so batch callers can skip them
// silently, while corrupt image files surface a decode failure.
package upload

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"net/http"

	// Registered decoders. The editing surface accepts whatever the
	// browser can draw, which in practice means these formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/charmbracelet/log"

	"github.com/printforge/gangsheet/pkg/errors"
	"github.com/printforge/gangsheet/pkg/project"
	"github.com/printforge/gangsheet/pkg/sheet"
)

// Decode sniffs and decodes one uploaded file and constructs an item with
// default placement on the given sheet. name becomes the item name and
// sourceRef its image reference.
func Decode(s sheet.Sheet, name, sourceRef string, data []byte) (project.Item, error) {
	if len(data) == 0 {
		return project.Item{}, errors.New(errors.ErrCodeInvalidUpload, "%s is empty", name)
	}

	contentType := http.DetectContentType(data)
	if !isImage(contentType) {
		return project.Item{}, errors.New(errors.ErrCodeInvalidUpload, "%s is %s, not an image", name, contentType)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return project.Item{}, errors.Wrap(errors.ErrCodeDecodeFailure, err, "decoding %s", name)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return project.Item{}, errors.New(errors.ErrCodeDecodeFailure, "%s (%s) has no dimensions", name, format)
	}

	return project.NewItem(s, name, sourceRef, cfg.Width, cfg.Height), nil
}

// File is one member of an upload batch.
type File struct {
	Name      string
	SourceRef string
	Data      []byte
}

// DecodeAll decodes a batch of uploads. Files that are not images or fail
// to decode are logged and skipped; the batch never aborts. If logger is
// nil, the default logger is used.
func DecodeAll(s sheet.Sheet, files []File, logger *log.Logger) []project.Item {
	if logger == nil {
		logger = log.Default()
	}
	items := make([]project.Item, 0, len(files))
	for _, f := range files {
		it, err := Decode(s, f.Name, f.SourceRef, f.Data)
		if err != nil {
			if errors.GetCode(err) == errors.ErrCodeInvalidUpload {
				logger.Debug("skipping non-image upload", "name", f.Name)
			} else {
				logger.Warn("skipping undecodable upload", "name", f.Name, "error", err)
			}
			continue
		}
		items = append(items, it)
	}
	return items
}

// DataURL embeds image bytes as an inline data URL, so items carry their
// pixels with them and exported scenes stay self-contained.
func DataURL(data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", http.DetectContentType(data), base64.StdEncoding.EncodeToString(data))
}

func isImage(contentType string) bool {
	return len(contentType) >= 6 && contentType[:6] == "image/"
}
