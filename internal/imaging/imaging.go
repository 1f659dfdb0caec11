// Package imaging provides the shared pixel-level primitives used by the
// reveal transforms and the subject cropper: grayscale conversion, separable
// Gaussian smoothing, morphological dilation, connected-component extraction
// and bilinear resizing. All functions allocate and return new images; no
// input is ever mutated.
package imaging

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// ToGray converts an image to grayscale. The result is normalized to a
// zero-origin rectangle regardless of the input bounds.
func ToGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(gray, gray.Bounds(), img, bounds.Min, draw.Src)
	return gray
}

// CloneRGBA copies an image into a freshly allocated zero-origin RGBA buffer.
func CloneRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}

// Resize scales an image to the target dimensions using bilinear
// interpolation.
func Resize(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// Crop extracts a sub-region into a new zero-origin RGBA image. The rectangle
// is interpreted in the coordinate space of img and must lie within its
// bounds.
func Crop(img image.Image, rect image.Rectangle) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), img, rect.Min, draw.Src)
	return dst
}
