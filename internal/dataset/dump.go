package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	img "shapecaptcha/internal/image"
	"shapecaptcha/internal/shape"
)

// ImageDumper writes the decoded bytes of every shape image to a directory,
// named by stage, position, and detected type.
type ImageDumper struct {
	dir string
}

// NewImageDumper returns a dumper writing into dir, created on demand.
func NewImageDumper(dir string) *ImageDumper {
	return &ImageDumper{dir: dir}
}

// FileName is the dump name of one shape image.
func FileName(stage, index int, typ shape.Label) string {
	return fmt.Sprintf("s%d_i%d_%s.png", stage, index, typ)
}

// Dump writes one shape image and returns its path.
func (d *ImageDumper) Dump(stage, index int, b64 string, typ shape.Label) (string, error) {
	data, err := img.PayloadBytes(b64)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "create dump directory %s", d.dir)
	}
	path := filepath.Join(d.dir, FileName(stage, index, typ))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrapf(err, "write %s", path)
	}
	return path, nil
}
