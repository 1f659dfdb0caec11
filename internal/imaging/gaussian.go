package imaging

import (
	"image"
	"math"
)

// gaussianKernel builds a normalized 1D Gaussian kernel for the given full
// kernel size (must be odd) and sigma.
func gaussianKernel(ksize int, sigma float64) []float64 {
	radius := ksize / 2
	kernel := make([]float64, ksize)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// SigmaForKsize derives a sigma from a kernel size when the caller requests
// automatic sigma selection, matching the common 0.3*((ksize-1)*0.5 - 1) + 0.8
// convention.
func SigmaForKsize(ksize int) float64 {
	return 0.3*((float64(ksize)-1)*0.5-1) + 0.8
}

// GaussianBlurRGBA applies symmetric Gaussian smoothing to an RGBA image
// using a separable kernel (one horizontal and one vertical pass). Kernel
// size must be odd; edges are clamped. The input is not modified.
func GaussianBlurRGBA(src *image.RGBA, ksize int, sigma float64) *image.RGBA {
	if ksize%2 == 0 {
		ksize++
	}
	kernel := gaussianKernel(ksize, sigma)
	radius := ksize / 2
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	// Horizontal pass
	tmp := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b, a float64
			for k := -radius; k <= radius; k++ {
				sx := clampInt(x+k, 0, w-1)
				o := src.PixOffset(bounds.Min.X+sx, bounds.Min.Y+y)
				wk := kernel[k+radius]
				r += float64(src.Pix[o]) * wk
				g += float64(src.Pix[o+1]) * wk
				b += float64(src.Pix[o+2]) * wk
				a += float64(src.Pix[o+3]) * wk
			}
			o := tmp.PixOffset(x, y)
			tmp.Pix[o] = uint8(r + 0.5)
			tmp.Pix[o+1] = uint8(g + 0.5)
			tmp.Pix[o+2] = uint8(b + 0.5)
			tmp.Pix[o+3] = uint8(a + 0.5)
		}
	}

	// Vertical pass
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b, a float64
			for k := -radius; k <= radius; k++ {
				sy := clampInt(y+k, 0, h-1)
				o := tmp.PixOffset(x, sy)
				wk := kernel[k+radius]
				r += float64(tmp.Pix[o]) * wk
				g += float64(tmp.Pix[o+1]) * wk
				b += float64(tmp.Pix[o+2]) * wk
				a += float64(tmp.Pix[o+3]) * wk
			}
			o := dst.PixOffset(x, y)
			dst.Pix[o] = uint8(r + 0.5)
			dst.Pix[o+1] = uint8(g + 0.5)
			dst.Pix[o+2] = uint8(b + 0.5)
			dst.Pix[o+3] = uint8(a + 0.5)
		}
	}

	return dst
}

// GaussianBlurGray applies symmetric Gaussian smoothing to a grayscale image
// with a separable kernel. Kernel size must be odd; edges are clamped.
func GaussianBlurGray(src *image.Gray, ksize int, sigma float64) *image.Gray {
	if ksize%2 == 0 {
		ksize++
	}
	kernel := gaussianKernel(ksize, sigma)
	radius := ksize / 2
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	tmp := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				sx := clampInt(x+k, 0, w-1)
				sum += float64(src.GrayAt(bounds.Min.X+sx, bounds.Min.Y+y).Y) * kernel[k+radius]
			}
			tmp.Pix[tmp.PixOffset(x, y)] = uint8(sum + 0.5)
		}
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				sy := clampInt(y+k, 0, h-1)
				sum += float64(tmp.GrayAt(x, sy).Y) * kernel[k+radius]
			}
			dst.Pix[dst.PixOffset(x, y)] = uint8(sum + 0.5)
		}
	}

	return dst
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
