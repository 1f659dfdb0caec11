package cropper

import (
	"image"
	"math"
)

// detectEdges produces a binary edge map from a smoothed grayscale image.
// Gradient magnitudes are computed with the Sobel operator and thinned with
// double-threshold hysteresis: pixels at or above high become edges
// immediately, pixels between low and high survive only when connected to a
// strong edge.
func detectEdges(gray *image.Gray, low, high float64) *image.Gray {
	bounds := gray.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	const (
		strong = 255
		weak   = 128
	)

	edges := image.NewGray(image.Rect(0, 0, w, h))
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := -1*int(gray.GrayAt(x-1, y-1).Y) + 1*int(gray.GrayAt(x+1, y-1).Y) +
				-2*int(gray.GrayAt(x-1, y).Y) + 2*int(gray.GrayAt(x+1, y).Y) +
				-1*int(gray.GrayAt(x-1, y+1).Y) + 1*int(gray.GrayAt(x+1, y+1).Y)

			gy := -1*int(gray.GrayAt(x-1, y-1).Y) - 2*int(gray.GrayAt(x, y-1).Y) - 1*int(gray.GrayAt(x+1, y-1).Y) +
				1*int(gray.GrayAt(x-1, y+1).Y) + 2*int(gray.GrayAt(x, y+1).Y) + 1*int(gray.GrayAt(x+1, y+1).Y)

			magnitude := math.Sqrt(float64(gx*gx + gy*gy))
			switch {
			case magnitude >= high:
				edges.Pix[edges.PixOffset(x, y)] = strong
			case magnitude >= low:
				edges.Pix[edges.PixOffset(x, y)] = weak
			}
		}
	}

	// Hysteresis: promote weak pixels reachable from strong ones, then clear
	// the rest.
	var stack []image.Point
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if edges.Pix[edges.PixOffset(x, y)] == strong {
				stack = append(stack, image.Point{X: x, Y: y})
			}
		}
	}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := p.X+dx, p.Y+dy
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				o := edges.PixOffset(nx, ny)
				if edges.Pix[o] == weak {
					edges.Pix[o] = strong
					stack = append(stack, image.Point{X: nx, Y: ny})
				}
			}
		}
	}
	for i, v := range edges.Pix {
		if v == weak {
			edges.Pix[i] = 0
		}
	}

	return edges
}
