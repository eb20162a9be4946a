// Package segment crops the visual elements of an image into standalone
// files.
//
// A Detector reports the bounding rectangles of the image's outer contours.
// Segmenter keeps the rectangles larger than MinElementSize in both
// dimensions, crops them out of the original image, and writes each one to
// element_{i}.png in the output directory, where i is the position of the
// contour among all detected contours. Indices skipped by the size filter
// leave gaps in the numbering, and files from an earlier run with the same
// index are overwritten.
package segment

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	stageerrors "github.com/gardar/img2html/internal/errors"
	"github.com/gardar/img2html/pkg/imageio"
)

// MinElementSize is the exclusive lower bound, in pixels, on the width and
// height of a kept region
const MinElementSize = 50

// Detector finds the outer contours of an image
type Detector interface {
	Name() string
	Detect(img image.Image) ([]image.Rectangle, error)
}

// Region is a detected contour's bounding box and its discovery index
type Region struct {
	Index  int
	Bounds image.Rectangle
}

// FileName is the name the region's crop is written under
func (r Region) FileName() string {
	return fmt.Sprintf("element_%d.png", r.Index)
}

// Keep reports whether the region passes the size filter
func (r Region) Keep() bool {
	return r.Bounds.Dx() > MinElementSize && r.Bounds.Dy() > MinElementSize
}

// Segmenter is the visual stage of the conversion
type Segmenter struct {
	detector Detector
	log      logrus.FieldLogger
}

// New returns a Segmenter using detector, the native one when nil.
// A nil logger discards output.
func New(detector Detector, log logrus.FieldLogger) *Segmenter {
	if detector == nil {
		detector = NativeDetector{}
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Segmenter{detector: detector, log: log}
}

// Detector returns the contour detector in use
func (s *Segmenter) Detector() Detector { return s.detector }

// Regions runs the detector over img and returns the regions passing the
// size filter, numbered by their position among all detected contours.
func (s *Segmenter) Regions(img image.Image) ([]Region, error) {
	rects, err := s.detector.Detect(img)
	if err != nil {
		return nil, err
	}

	regions := []Region{}
	for i, rect := range rects {
		r := Region{Index: i, Bounds: rect}
		if !r.Keep() {
			continue
		}
		regions = append(regions, r)
	}

	s.log.WithFields(logrus.Fields{
		"detector": s.detector.Name(),
		"contours": len(rects),
		"kept":     len(regions),
	}).Debug("Detected contours")

	return regions, nil
}

// Segment crops the visual elements of the image at imagePath into outDir,
// creating it if needed, and returns the written paths in discovery order.
// On failure it returns an empty slice and the stage error.
func (s *Segmenter) Segment(ctx context.Context, imagePath, outDir string) ([]string, error) {
	src, err := imageio.Load(stageerrors.StageSegment, imagePath)
	if err != nil {
		return []string{}, err
	}

	regions, err := s.Regions(src.Image)
	if err != nil {
		return []string{}, stageerrors.NewSegmentationFailedError(imagePath, s.detector.Name(), err)
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return []string{}, stageerrors.NewFilesystemError(stageerrors.StageSegment, outDir, "create directory", err)
	}

	paths := make([]string, 0, len(regions))
	for _, r := range regions {
		if err := ctx.Err(); err != nil {
			return []string{}, stageerrors.NewSegmentationFailedError(imagePath, s.detector.Name(), err)
		}

		path := filepath.Join(outDir, r.FileName())
		crop := imaging.Crop(src.Image, r.Bounds)
		if err := imaging.Save(crop, path); err != nil {
			return []string{}, stageerrors.NewFilesystemError(stageerrors.StageSegment, path, "write", err)
		}

		s.log.WithFields(logrus.Fields{
			"index":  r.Index,
			"bounds": r.Bounds.String(),
		}).Debugf("Element saved to: %s", path)
		paths = append(paths, path)
	}

	return paths, nil
}
