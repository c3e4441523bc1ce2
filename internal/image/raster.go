// Package image provides shape image decoding, alpha compositing, and OpenCV Mat conversion.
package image

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUndecodable is returned when a payload does not decode to a raster.
var ErrUndecodable = errors.New("undecodable image")

// Raster is a decoded shape image composited onto white.
// Pix holds the same pixels as BGR in B, G, R byte order, row-major.
type Raster struct {
	Width  int
	Height int
	Pix    []uint8

	BGR  gocv.Mat // CV_8UC3
	Gray gocv.Mat // CV_8UC1 luma of BGR
}

// At returns the B, G, R bytes of the pixel at (x, y).
func (r *Raster) At(x, y int) (b, g, red uint8) {
	i := (y*r.Width + x) * 3
	return r.Pix[i], r.Pix[i+1], r.Pix[i+2]
}

// Area returns the pixel count of the raster.
func (r *Raster) Area() int {
	return r.Width * r.Height
}

// Close releases the OpenCV matrices.
func (r *Raster) Close() error {
	if r == nil {
		return nil
	}
	if err := r.BGR.Close(); err != nil {
		return err
	}
	return r.Gray.Close()
}

// FromImage normalizes any decoded image into a Raster: grayscale sources
// are expanded to three channels and transparency is composited over white.
func FromImage(src image.Image) (*Raster, error) {
	if src == nil {
		return nil, ErrUndecodable
	}
	b := src.Bounds()
	if b.Dx() < 1 || b.Dy() < 1 {
		return nil, errors.Wrapf(ErrUndecodable, "empty %dx%d image", b.Dx(), b.Dy())
	}

	nrgba := imaging.Clone(src)
	pix := CompositeOnWhite(nrgba)

	r := &Raster{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    pix,
	}
	r.BGR = bgrToMat(pix, r.Width, r.Height)
	r.Gray = gocv.NewMat()
	gocv.CvtColor(r.BGR, &r.Gray, gocv.ColorBGRToGray)
	return r, nil
}

// DecodeBytes decodes raw encoded image bytes (PNG, JPEG, GIF, BMP, TIFF, WebP).
func DecodeBytes(data []byte) (*Raster, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(ErrUndecodable, "%v", err)
	}
	return FromImage(src)
}

// Load reads and decodes an image file.
func Load(path string) (*Raster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read image")
	}
	return DecodeBytes(data)
}

// SupportedFormats returns the list of supported image file extensions.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".tif", ".webp"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

// bgrToMat copies interleaved BGR bytes into a new CV_8UC3 Mat.
func bgrToMat(pix []uint8, w, h int) gocv.Mat {
	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	for y := 0; y < h; y++ {
		row := y * w * 3
		for x := 0; x < w*3; x++ {
			mat.SetUCharAt(y, x, pix[row+x])
		}
	}
	return mat
}
