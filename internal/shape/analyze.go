package shape

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/edaniels/golog"
	"gocv.io/x/gocv"

	img "shapecaptcha/internal/image"
	"shapecaptcha/pkg/colorutil"
	"shapecaptcha/pkg/geometry"
)

// Analyzer turns shape images into descriptors. It holds no mutable state:
// the same payload always yields the same descriptor, and one Analyzer may be
// used from several goroutines.
type Analyzer struct {
	params  Params
	palette colorutil.Palette
	logger  golog.Logger
}

// NewAnalyzer returns an Analyzer using the given calibration.
func NewAnalyzer(params Params, palette colorutil.Palette, logger golog.Logger) *Analyzer {
	return &Analyzer{params: params, palette: palette, logger: logger}
}

// Analyze decodes a raw base64 or data-URI image and describes its shape.
// It never fails: undecodable input yields EmptyDescriptor.
func (a *Analyzer) Analyze(b64 string) Descriptor {
	r, err := img.DecodeBase64(b64)
	if err != nil {
		a.logger.Debugw("shape image not decodable", "error", err)
		return EmptyDescriptor()
	}
	defer r.Close()
	return a.AnalyzeRaster(r)
}

// AnalyzeRaster describes the shape in an already decoded raster.
//
//   - no boundary found: type no_contour
//   - boundary area below MinShapeArea: EmptyDescriptor
//   - a panic inside the vision pipeline: type error, message in Error
func (a *Analyzer) AnalyzeRaster(r *img.Raster) (d Descriptor) {
	defer func() {
		if rec := recover(); rec != nil {
			d = EmptyDescriptor()
			d.Type = ErrorLabel
			d.Error = fmt.Sprint(rec)
			a.logger.Warnw("shape analysis failed", "error", d.Error)
		}
	}()

	ex, ok := ExtractContour(r, a.params)
	if !ok {
		d = EmptyDescriptor()
		d.Type = NoContour
		return d
	}
	for _, c := range ex.Candidates {
		a.logger.Debugw("contour candidate", "strategy", c.Strategy, "area", c.Area, "points", len(c.Contour))
	}

	contour := ex.Contour
	pv := gocv.NewPointVectorFromPoints(contour)
	defer pv.Close()

	area := gocv.ContourArea(pv)
	if area < a.params.MinShapeArea {
		return EmptyDescriptor()
	}

	cls := Classify(contour, a.params)

	// The hull always contains the contour; guard the invariant against rounding.
	hullArea := math.Max(geometry.PolygonArea(geometry.ConvexHull(geometry.FromImagePoints(contour))), area)

	bbox := geometry.RectFromImage(gocv.BoundingRect(pv))

	silhouette := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), r.Height, r.Width, gocv.MatTypeCV8U)
	defer silhouette.Close()
	filled := gocv.NewPointsVectorFromPoints([][]image.Point{contour})
	defer filled.Close()
	gocv.DrawContours(&silhouette, filled, -1, color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)

	bg := ex.Background
	return Descriptor{
		Area:        area,
		HullArea:    hullArea,
		BBoxArea:    bbox.Area(),
		Type:        cls.Label,
		Vertices:    cls.Vertices,
		Circularity: cls.Circularity,
		Color:       DominantColor(r.BGR, silhouette, a.palette),
		Background:  a.palette.Lookup(uint8(bg[2]), uint8(bg[1]), uint8(bg[0])),
	}
}
