// Package cropper isolates the main photographed subject from a raw image
// using a classical edge/contour heuristic. It never fails: any degenerate
// detection result falls back to returning the input unchanged.
package cropper

import (
	"image"

	"go-reveal-quiz/internal/imaging"
)

const (
	// Smoothing pass before edge detection.
	smoothKernelSize = 9

	// Edge detection thresholds; weak edges survive only when connected to
	// strong ones.
	lowThreshold  = 30.0
	highThreshold = 150.0

	// Dilation merges disjoint subject parts into connected regions.
	dilateKernelSize = 7
	dilateIterations = 4

	// Candidate rectangles below this fraction of the image area are noise.
	minAreaFraction = 0.005

	// A union box covering at least this fraction of both dimensions is the
	// whole background, not a subject.
	backgroundFraction = 0.9

	// Symmetric padding applied to the union box, as a fraction of its own
	// width/height.
	padFraction = 0.15

	// Crops at or below this size keep the original image.
	minCropSize = 50
)

// SubjectCropper detects the main subject region of an image.
type SubjectCropper struct{}

// NewSubjectCropper creates a subject cropper with the default heuristic
// parameters.
func NewSubjectCropper() *SubjectCropper {
	return &SubjectCropper{}
}

// Crop returns the sub-region of img likely containing the main subject, or
// img unchanged when no convincing subject region is found. The input is
// never modified; the operation is deterministic for identical pixel input.
func (c *SubjectCropper) Crop(img image.Image) image.Image {
	if img == nil {
		return nil
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return img
	}

	gray := imaging.ToGray(img)
	smoothed := imaging.GaussianBlurGray(gray, smoothKernelSize, imaging.SigmaForKsize(smoothKernelSize))
	edges := detectEdges(smoothed, lowThreshold, highThreshold)
	dilated := imaging.Dilate(edges, dilateKernelSize, dilateIterations)
	contours := imaging.ConnectedBounds(dilated)

	minArea := int(float64(width*height) * minAreaFraction)
	var valid []image.Rectangle
	for _, rect := range contours {
		if rect.Dx()*rect.Dy() >= minArea {
			valid = append(valid, rect)
		}
	}
	if len(valid) == 0 {
		return img
	}

	// Union bounding box across all valid candidates: one subject region,
	// not per-contour crops.
	union := valid[0]
	for _, rect := range valid[1:] {
		union = union.Union(rect)
	}

	// A box spanning nearly the whole frame is background.
	if float64(union.Dx()) >= backgroundFraction*float64(width) &&
		float64(union.Dy()) >= backgroundFraction*float64(height) {
		return img
	}

	padded := pad(union, width, height)
	if padded.Dx() <= minCropSize || padded.Dy() <= minCropSize || padded.Empty() {
		return img
	}

	return imaging.Crop(img, padded.Add(bounds.Min))
}

// pad grows a rectangle by padFraction of its own dimensions on each side,
// clamped to the image bounds.
func pad(rect image.Rectangle, width, height int) image.Rectangle {
	padX := int(float64(rect.Dx()) * padFraction)
	padY := int(float64(rect.Dy()) * padFraction)

	x1 := rect.Min.X - padX
	y1 := rect.Min.Y - padY
	x2 := rect.Max.X + padX
	y2 := rect.Max.Y + padY

	if x1 < 0 {
		x1 = 0
	}
	if y1 < 0 {
		y1 = 0
	}
	if x2 > width {
		x2 = width
	}
	if y2 > height {
		y2 = height
	}

	return image.Rect(x1, y1, x2, y2)
}
