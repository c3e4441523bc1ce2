package shape

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	img "shapecaptcha/internal/image"
)

// Contour is a closed boundary in pixel coordinates.
type Contour []image.Point

// Candidate is the best contour one segmentation strategy produced.
type Candidate struct {
	Strategy string
	Area     float64
	Contour  Contour
}

// Extraction is the outcome of ExtractContour.
type Extraction struct {
	// Contour is the winning boundary.
	Contour Contour
	// Candidates holds one entry per strategy that found a valid contour.
	Candidates []Candidate
	// Background is the estimated B, G, R backdrop color.
	Background [3]float64
}

// ExtractContour finds the single boundary most likely to be the foreground
// shape. Several independent segmentations are tried:
//
//  1. background-difference masks at each of p.DiffThresholds
//  2. Otsu binarization of the blurred gray image, both polarities
//  3. dilated Canny edges of the blurred gray image
//
// Each yields at most one candidate (its largest valid external contour).
// Candidates outside (MinAreaFrac, MaxAreaFrac) of the image area are noise
// or the canvas frame and are discarded. The largest candidate wins; on an
// exact tie the earlier strategy is kept.
//
// Returns ok=false when no strategy yields a candidate; Background is set
// either way.
func ExtractContour(r *img.Raster, p Params) (ex Extraction, ok bool) {
	e := newExtractor(r, p)
	defer e.close()

	ex.Background = EstimateBackground(r, p.BackgroundRadius)
	for _, thresh := range p.DiffThresholds {
		mask := foregroundMask(r, ex.Background, thresh)
		e.try(fmt.Sprintf("bgdiff-%g", thresh), mask)
		mask.Close()
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(r.Gray, &blurred, image.Pt(p.BlurSize, p.BlurSize), 0, 0, gocv.BorderDefault)

	for _, polarity := range []struct {
		name string
		typ  gocv.ThresholdType
	}{
		{"otsu-inv", gocv.ThresholdBinaryInv | gocv.ThresholdOtsu},
		{"otsu", gocv.ThresholdBinary | gocv.ThresholdOtsu},
	} {
		binary := gocv.NewMat()
		gocv.Threshold(blurred, &binary, 0, 255, polarity.typ)
		e.try(polarity.name, binary)
		binary.Close()
	}

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blurred, &edges, p.CannyLow, p.CannyHigh)
	for i := 0; i < p.EdgeDilateRounds; i++ {
		gocv.Dilate(edges, &edges, e.kernel)
	}
	e.try("canny", edges)

	if len(e.candidates) == 0 {
		return ex, false
	}

	winner := e.candidates[0]
	for _, c := range e.candidates[1:] {
		if c.Area > winner.Area {
			winner = c
		}
	}
	ex.Contour = winner.Contour
	ex.Candidates = e.candidates
	return ex, true
}

// extractor holds the state shared by all strategies of one extraction.
type extractor struct {
	minArea, maxArea float64
	closeIterations  int
	kernel           gocv.Mat
	candidates       []Candidate
}

func newExtractor(r *img.Raster, p Params) *extractor {
	imgArea := float64(r.Area())
	return &extractor{
		minArea:         imgArea * p.MinAreaFrac,
		maxArea:         imgArea * p.MaxAreaFrac,
		closeIterations: p.CloseIterations,
		kernel:          gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(p.KernelSize, p.KernelSize)),
	}
}

func (e *extractor) close() {
	e.kernel.Close()
}

// try closes the binary mask in place and records its largest valid
// external contour as a candidate.
func (e *extractor) try(strategy string, binary gocv.Mat) {
	// Closing with n iterations is n dilations followed by n erosions.
	for i := 0; i < e.closeIterations; i++ {
		gocv.Dilate(binary, &binary, e.kernel)
	}
	for i := 0; i < e.closeIterations; i++ {
		gocv.Erode(binary, &binary, e.kernel)
	}

	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var best Contour
	var bestArea float64
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		area := gocv.ContourArea(contour)
		if area <= e.minArea || area >= e.maxArea {
			continue
		}
		if area > bestArea {
			bestArea = area
			best = contour.ToPoints()
		}
	}

	if best == nil || bestArea <= 0 {
		return
	}
	e.candidates = append(e.candidates, Candidate{Strategy: strategy, Area: bestArea, Contour: best})
}

// foregroundMask marks pixels whose Euclidean distance from bg exceeds thresh.
// Works for white, black, gray, or colored backdrops alike.
func foregroundMask(r *img.Raster, bg [3]float64, thresh float64) gocv.Mat {
	mask := gocv.NewMatWithSize(r.Height, r.Width, gocv.MatTypeCV8U)
	t2 := thresh * thresh
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			b, g, red := r.At(x, y)
			db := float64(b) - bg[0]
			dg := float64(g) - bg[1]
			dr := float64(red) - bg[2]
			var v uint8
			if db*db+dg*dg+dr*dr > t2 {
				v = 255
			}
			mask.SetUCharAt(y, x, v)
		}
	}
	return mask
}
