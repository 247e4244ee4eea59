package build

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/conneroisu/tackweld/internal/errors"
	"github.com/conneroisu/tackweld/internal/logging"
	"github.com/conneroisu/tackweld/internal/registry"
)

// DefaultPrefix is prepended to every component id to name its artifact.
const DefaultPrefix = "tw_tpl_"

// Artifact describes one written component file.
type Artifact struct {
	ID       string `json:"id" yaml:"id"`
	Path     string `json:"path" yaml:"path"`
	Size     int    `json:"size" yaml:"size"`
	Checksum string `json:"checksum" yaml:"checksum"`
}

// Writer materializes component definitions as artifact files.
type Writer struct {
	outDir string
	prefix string
	logger logging.Logger
}

// NewWriter creates a writer that places `prefix+id` files in outDir.
func NewWriter(outDir, prefix string, logger logging.Logger) *Writer {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Writer{outDir: outDir, prefix: prefix, logger: logger}
}

// ArtifactName returns the file name used for component id.
func (w *Writer) ArtifactName(id string) string {
	return w.prefix + id
}

// Write creates or overwrites one artifact per definition, in id order,
// containing exactly the definition's contents. The first failure aborts the
// whole write.
func (w *Writer) Write(ctx context.Context, defs []*registry.Definition) ([]Artifact, error) {
	if err := os.MkdirAll(w.outDir, 0755); err != nil {
		return nil, errors.ErrWrite(w.outDir, err)
	}

	sorted := sortDefinitions(defs)
	artifacts := make([]Artifact, 0, len(sorted))

	for _, def := range sorted {
		path := filepath.Join(w.outDir, w.ArtifactName(def.ID))
		contents := def.Contents()

		if err := WriteFileAtomic(path, []byte(contents)); err != nil {
			return nil, errors.ErrWrite(path, err).WithComponent(def.ID)
		}

		w.logger.Debug(ctx, "Wrote component artifact", "id", def.ID, "path", path, "bytes", len(contents))
		artifacts = append(artifacts, Artifact{
			ID:       def.ID,
			Path:     path,
			Size:     len(contents),
			Checksum: def.Checksum(),
		})
	}

	return artifacts, nil
}

// WriteFileAtomic writes data with mode 0644 to a temporary file in the
// target directory and renames it into place, so readers see either the old
// or the new file.
func WriteFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tw-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}

	return nil
}

func sortDefinitions(defs []*registry.Definition) []*registry.Definition {
	sorted := make([]*registry.Definition, len(defs))
	copy(sorted, defs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}
