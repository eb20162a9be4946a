package segment

import (
	"image"
)

// externalContours returns the bounding rectangles of the outer contours of
// a binary image, in the raster order of each contour's first pixel.
//
// Nonzero pixels are foreground, connected 8-ways; background is connected
// 4-ways. A foreground component has an outer contour when it touches the
// image frame or the background region connected to the frame. Components
// sitting inside a hole of another component are skipped, along with
// everything nested further in.
func externalContours(bin *image.Gray) []image.Rectangle {
	w, h := bin.Rect.Dx(), bin.Rect.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	fg := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			fg[y*w+x] = bin.Pix[y*bin.Stride+x] != 0
		}
	}

	outside := outerBackground(fg, w, h)
	visited := make([]bool, w*h)

	var rects []image.Rectangle
	for idx := range fg {
		if !fg[idx] || visited[idx] {
			continue
		}
		rect, external := floodFillComponent(fg, outside, visited, idx, w, h)
		if external {
			rects = append(rects, rect)
		}
	}
	return rects
}

// outerBackground marks background pixels 4-connected to the image frame
func outerBackground(fg []bool, w, h int) []bool {
	outside := make([]bool, w*h)
	var stack []int
	push := func(idx int) {
		if !fg[idx] && !outside[idx] {
			outside[idx] = true
			stack = append(stack, idx)
		}
	}

	for x := 0; x < w; x++ {
		push(x)
		push((h-1)*w + x)
	}
	for y := 0; y < h; y++ {
		push(y * w)
		push(y*w + w - 1)
	}

	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		x, y := idx%w, idx/w
		if x > 0 {
			push(idx - 1)
		}
		if x < w-1 {
			push(idx + 1)
		}
		if y > 0 {
			push(idx - w)
		}
		if y < h-1 {
			push(idx + w)
		}
	}
	return outside
}

// floodFillComponent visits the 8-connected foreground component containing
// start, returning its bounding rectangle and whether it borders the outer
// background or the image frame.
func floodFillComponent(fg, outside, visited []bool, start, w, h int) (image.Rectangle, bool) {
	minX, minY := start%w, start/w
	maxX, maxY := minX+1, minY+1
	external := false

	visited[start] = true
	stack := []int{start}

	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := idx%w, idx/w

		if x < minX {
			minX = x
		}
		if x+1 > maxX {
			maxX = x + 1
		}
		if y < minY {
			minY = y
		}
		if y+1 > maxY {
			maxY = y + 1
		}

		if !external {
			external = x == 0 || y == 0 || x == w-1 || y == h-1 ||
				outside[idx-1] || outside[idx+1] || outside[idx-w] || outside[idx+w]
		}

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				n := ny*w + nx
				if fg[n] && !visited[n] {
					visited[n] = true
					stack = append(stack, n)
				}
			}
		}
	}

	return image.Rect(minX, minY, maxX, maxY), external
}
