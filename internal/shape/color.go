package shape

import (
	"gocv.io/x/gocv"

	"shapecaptcha/pkg/colorutil"
)

// DominantColor returns the palette bucket with the most in-range pixels
// inside mask (CV_8U, 255 = shape). A bucket must strictly beat the current
// best to win, so earlier buckets keep ties and an empty mask yields Unknown.
func DominantColor(bgr, mask gocv.Mat, palette colorutil.Palette) colorutil.Name {
	if bgr.Empty() {
		return colorutil.Unknown
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(bgr, &hsv, gocv.ColorBGRToHSV)

	best, bestN := colorutil.Unknown, 0
	for _, bucket := range palette {
		n := bucketCount(hsv, mask, bucket)
		if n > bestN {
			best, bestN = bucket.Name, n
		}
	}
	return best
}

// bucketCount counts masked pixels falling in any of the bucket's HSV boxes.
func bucketCount(hsv, mask gocv.Mat, bucket colorutil.Bucket) int {
	hits := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), hsv.Rows(), hsv.Cols(), gocv.MatTypeCV8U)
	defer hits.Close()

	box := gocv.NewMat()
	defer box.Close()
	for _, rng := range bucket.Ranges {
		lo := gocv.NewScalar(rng.Lo.H, rng.Lo.S, rng.Lo.V, 0)
		hi := gocv.NewScalar(rng.Hi.H, rng.Hi.S, rng.Hi.V, 0)
		gocv.InRangeWithScalar(hsv, lo, hi, &box)
		gocv.BitwiseOr(hits, box, &hits)
	}

	if !mask.Empty() {
		gocv.BitwiseAnd(hits, mask, &hits)
	}
	return gocv.CountNonZero(hits)
}
