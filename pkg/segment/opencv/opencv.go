//go:build opencv

// Package opencv provides a contour detector backed by OpenCV through gocv.
// Importing it registers the detector with the segment package as "opencv".
package opencv

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/gardar/img2html/pkg/segment"
)

func init() {
	segment.Register("opencv", func() segment.Detector { return New() })
}

// Detector runs cv::adaptiveThreshold and cv::findContours
type Detector struct {
	BlockSize int
	C         float32
}

// New returns a detector using an 11×11 Gaussian window and C=2
func New() *Detector {
	return &Detector{BlockSize: 11, C: 2}
}

// Name implements segment.Detector
func (d *Detector) Name() string { return "opencv" }

// Detect implements segment.Detector. Regions come back in the order
// OpenCV reports the contours.
func (d *Detector) Detect(img image.Image) ([]image.Rectangle, error) {
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image to Mat: %w", err)
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.AdaptiveThreshold(gray, &binary, 255, gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinaryInv, d.BlockSize, d.C)

	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	offset := img.Bounds().Min
	rects := make([]image.Rectangle, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		rects = append(rects, gocv.BoundingRect(contours.At(i)).Add(offset))
	}
	return rects, nil
}
