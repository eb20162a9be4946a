package segment

import (
	"fmt"
	"image"
)

// NativeDetector finds element regions in pure Go: grayscale, Gaussian
// adaptive threshold (11×11 window, C=2, inverted) and outer contours.
type NativeDetector struct{}

// Name implements Detector
func (NativeDetector) Name() string { return "native" }

// Detect implements Detector. Regions are reported in raster order of the
// first pixel of each contour.
func (NativeDetector) Detect(img image.Image) ([]image.Rectangle, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image")
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, nil
	}

	bin := adaptiveThreshold(grayscale(img))

	rects := externalContours(bin)
	for i := range rects {
		rects[i] = rects[i].Add(bounds.Min)
	}
	return rects, nil
}
