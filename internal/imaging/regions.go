package imaging

import (
	"image"
	"image/color"
)

// Dilate performs morphological dilation on a binary grayscale image with a
// square structuring element, repeated for the given number of iterations.
// Nearby white regions merge into connected blobs.
func Dilate(src *image.Gray, kernelSize, iterations int) *image.Gray {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	half := kernelSize / 2

	result := image.NewGray(image.Rect(0, 0, w, h))
	copy(result.Pix, src.Pix)

	for iter := 0; iter < iterations; iter++ {
		tmp := image.NewGray(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				maxVal := uint8(0)
				for ky := -half; ky <= half; ky++ {
					sy := y + ky
					if sy < 0 || sy >= h {
						continue
					}
					for kx := -half; kx <= half; kx++ {
						sx := x + kx
						if sx < 0 || sx >= w {
							continue
						}
						if v := result.GrayAt(sx, sy).Y; v > maxVal {
							maxVal = v
						}
					}
				}
				tmp.SetGray(x, y, color.Gray{Y: maxVal})
			}
		}
		result = tmp
	}

	return result
}

// ConnectedBounds finds the bounding rectangles of connected white regions
// (pixel value > 128) in a binary grayscale image using iterative flood fill.
func ConnectedBounds(src *image.Gray) []image.Rectangle {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	visited := make([]bool, w*h)

	var rects []image.Rectangle
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if src.GrayAt(x, y).Y > 128 && !visited[y*w+x] {
				rects = append(rects, floodFill(src, visited, x, y))
			}
		}
	}
	return rects
}

// floodFill walks one connected component and returns its bounding rectangle.
func floodFill(src *image.Gray, visited []bool, startX, startY int) image.Rectangle {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	minX, minY := startX, startY
	maxX, maxY := startX, startY

	stack := []image.Point{{X: startX, Y: startY}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= w || p.Y < 0 || p.Y >= h {
			continue
		}
		if visited[p.Y*w+p.X] || src.GrayAt(p.X, p.Y).Y <= 128 {
			continue
		}
		visited[p.Y*w+p.X] = true

		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}

		stack = append(stack,
			image.Point{X: p.X + 1, Y: p.Y},
			image.Point{X: p.X - 1, Y: p.Y},
			image.Point{X: p.X, Y: p.Y + 1},
			image.Point{X: p.X, Y: p.Y - 1},
		)
	}

	return image.Rect(minX, minY, maxX+1, maxY+1)
}
