package reveal

import (
	"image"

	"go-reveal-quiz/internal/imaging"
)

const (
	// Maximum Gaussian sigma at progress 0.
	maxSigma = 30.0

	// Sigmas at or below this are a visual no-op; skip the filter call.
	sigmaEpsilon = 0.1

	// Fraction of each dimension shown at progress 0 in zoom mode.
	minZoomRatio = 0.125

	// Hybrid mode clears the blur component ahead of the zoom component.
	hybridBlurAcceleration = 1.25
)

// BlurTransform obscures the image with Gaussian smoothing whose sigma
// decreases linearly from maxSigma to zero as progress goes 0 to 1.
type BlurTransform struct{}

func (t *BlurTransform) Name() string { return string(ModeBlur) }

func (t *BlurTransform) Apply(img image.Image, progress float64) image.Image {
	if img == nil {
		return nil
	}
	progress = clampProgress(progress)

	sigma := maxSigma * (1.0 - progress)
	if sigma <= sigmaEpsilon {
		return imaging.CloneRGBA(img)
	}

	// Odd kernel width derived from sigma.
	ksize := int(sigma*6) + 1
	if ksize%2 == 0 {
		ksize++
	}

	return imaging.GaussianBlurRGBA(imaging.CloneRGBA(img), ksize, sigma)
}

// ZoomTransform obscures the image by cropping a centered region and
// stretching it back to full size with bilinear interpolation. The crop
// ratio grows linearly from minZoomRatio to 1 as progress goes 0 to 1; at
// ratio 1 the transform is the identity.
type ZoomTransform struct{}

func (t *ZoomTransform) Name() string { return string(ModeZoom) }

func (t *ZoomTransform) Apply(img image.Image, progress float64) image.Image {
	if img == nil {
		return nil
	}
	progress = clampProgress(progress)

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return imaging.CloneRGBA(img)
	}

	ratio := minZoomRatio + (1.0-minZoomRatio)*progress
	cropWidth := int(float64(width) * ratio)
	cropHeight := int(float64(height) * ratio)
	if cropWidth >= width && cropHeight >= height {
		return imaging.CloneRGBA(img)
	}
	if cropWidth < 1 {
		cropWidth = 1
	}
	if cropHeight < 1 {
		cropHeight = 1
	}

	cx, cy := width/2, height/2
	x1 := cx - cropWidth/2
	if x1 < 0 {
		x1 = 0
	}
	y1 := cy - cropHeight/2
	if y1 < 0 {
		y1 = 0
	}
	x2 := x1 + cropWidth
	if x2 > width {
		x2 = width
	}
	y2 := y1 + cropHeight
	if y2 > height {
		y2 = height
	}

	crop := imaging.Crop(img, image.Rect(x1, y1, x2, y2).Add(bounds.Min))
	return imaging.Resize(crop, width, height)
}

// HybridTransform applies the zoom reveal and then blurs the result with an
// accelerated progress, so the blur component clears slightly before the
// zoom component and the reveal happens in two staggered stages.
type HybridTransform struct{}

func (t *HybridTransform) Name() string { return string(ModeHybrid) }

func (t *HybridTransform) Apply(img image.Image, progress float64) image.Image {
	if img == nil {
		return nil
	}
	progress = clampProgress(progress)

	zoomed := (&ZoomTransform{}).Apply(img, progress)

	blurProgress := progress * hybridBlurAcceleration
	if blurProgress > 1.0 {
		blurProgress = 1.0
	}
	return (&BlurTransform{}).Apply(zoomed, blurProgress)
}
