// Package analyzer estimates how hard an image is to recognize while still
// obscured, and suggests a per-round time limit from that estimate. The
// heuristic is classical: Laplacian variance for fine detail and Sobel edge
// density for structure.
package analyzer

import (
	"image"
	"math"

	"gonum.org/v1/gonum/stat"

	"go-reveal-quiz/internal/imaging"
)

// Difficulty levels map detail metrics to suggested time budgets.
const (
	LevelEasy   = "easy"
	LevelMedium = "medium"
	LevelHard   = "hard"
)

// Suggested time limits per level, in seconds. Detail-rich images are
// recognizable earlier in the reveal, so they get the shorter budgets.
const (
	easyTimeLimit   = 45.0
	mediumTimeLimit = 60.0
	hardTimeLimit   = 90.0
)

// Thresholds splitting Laplacian variance into difficulty bands.
const (
	lowDetailVariance  = 100.0
	highDetailVariance = 500.0
)

// edgeMagnitudeThreshold marks a pixel as part of an edge for the density
// metric.
const edgeMagnitudeThreshold = 50.0

// Difficulty describes the detail metrics of an image and the time limit
// they suggest.
type Difficulty struct {
	LaplacianVariance  float64 `json:"laplacian_variance"`
	EdgeDensity        float64 `json:"edge_density"`
	Level              string  `json:"level"`
	SuggestedTimeLimit float64 `json:"suggested_time_limit"`
}

// DifficultyEstimator computes Difficulty for decoded images.
type DifficultyEstimator struct{}

// NewDifficultyEstimator creates an estimator with the default thresholds.
func NewDifficultyEstimator() *DifficultyEstimator {
	return &DifficultyEstimator{}
}

// Estimate analyzes an image and suggests a time limit for revealing it.
func (e *DifficultyEstimator) Estimate(img image.Image) Difficulty {
	gray := imaging.ToGray(img)

	variance := laplacianVariance(gray)
	density := edgeDensity(gray)

	d := Difficulty{
		LaplacianVariance: variance,
		EdgeDensity:       density,
	}
	switch {
	case variance < lowDetailVariance:
		d.Level = LevelHard
		d.SuggestedTimeLimit = hardTimeLimit
	case variance < highDetailVariance:
		d.Level = LevelMedium
		d.SuggestedTimeLimit = mediumTimeLimit
	default:
		d.Level = LevelEasy
		d.SuggestedTimeLimit = easyTimeLimit
	}
	return d
}

// laplacianVariance computes the variance of the 4-neighbor Laplacian
// response over the interior pixels. Uniform or heavily smoothed images
// score near zero.
func laplacianVariance(gray *image.Gray) float64 {
	bounds := gray.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < 3 || h < 3 {
		return 0
	}

	data := make([]float64, 0, (w-2)*(h-2))
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			center := float64(gray.GrayAt(x, y).Y)
			top := float64(gray.GrayAt(x, y-1).Y)
			bottom := float64(gray.GrayAt(x, y+1).Y)
			left := float64(gray.GrayAt(x-1, y).Y)
			right := float64(gray.GrayAt(x+1, y).Y)
			data = append(data, -4*center+top+bottom+left+right)
		}
	}
	if len(data) == 0 {
		return 0
	}
	return stat.Variance(data, nil)
}

// edgeDensity returns the fraction of interior pixels whose Sobel gradient
// magnitude exceeds the edge threshold.
func edgeDensity(gray *image.Gray) float64 {
	bounds := gray.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < 3 || h < 3 {
		return 0
	}

	edgeCount := 0
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := int(gray.GrayAt(x+1, y-1).Y) - int(gray.GrayAt(x-1, y-1).Y) +
				2*int(gray.GrayAt(x+1, y).Y) - 2*int(gray.GrayAt(x-1, y).Y) +
				int(gray.GrayAt(x+1, y+1).Y) - int(gray.GrayAt(x-1, y+1).Y)

			gy := int(gray.GrayAt(x-1, y+1).Y) - int(gray.GrayAt(x-1, y-1).Y) +
				2*int(gray.GrayAt(x, y+1).Y) - 2*int(gray.GrayAt(x, y-1).Y) +
				int(gray.GrayAt(x+1, y+1).Y) - int(gray.GrayAt(x+1, y-1).Y)

			if math.Sqrt(float64(gx*gx+gy*gy)) > edgeMagnitudeThreshold {
				edgeCount++
			}
		}
	}
	return float64(edgeCount) / float64((w-2)*(h-2))
}
