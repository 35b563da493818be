package cli

import (
	"os"

	"github.com/printforge/gangsheet/pkg/codec"
	"github.com/printforge/gangsheet/pkg/errors"
	"github.com/printforge/gangsheet/pkg/project"
)

// readProjectFile loads a project from a payload file on disk.
func readProjectFile(path string) (*project.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "reading %s", path)
	}
	return codec.Decode(string(data))
}

// writeProjectFile persists a project as a payload file.
func writeProjectFile(path string, p *project.Project) error {
	text, err := codec.Encode(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(text), 0644)
}
