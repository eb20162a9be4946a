// Package imageio loads the source image shared by the conversion stages and
// converts it to the PNG payload handed to OCR engines.
package imageio

import (
	"bytes"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	stageerrors "github.com/gardar/img2html/internal/errors"
)

// Image is a decoded source image together with the bytes it was read from
type Image struct {
	Path   string
	Format string // Decoder name reported by image.DecodeConfig ("png", "jpeg", ...)
	Data   []byte
	Image  image.Image

	// Oriented is set when an EXIF orientation was applied, so Image no
	// longer matches the pixel layout stored in Data.
	Oriented bool
}

// Load reads and decodes the image at path, applying any EXIF orientation.
// A missing or unreadable file yields an IMAGE_NOT_FOUND error for stage;
// bytes that no registered decoder accepts yield IMAGE_DECODE.
func Load(stage, path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, stageerrors.NewImageNotFoundError(stage, path, err)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, stageerrors.NewImageDecodeError(stage, path, err)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, stageerrors.NewImageDecodeError(stage, path, err)
	}

	// imaging hands back the decoder's own image unless it flipped or
	// rotated it, and the JPEG decoder never yields NRGBA.
	_, transformed := img.(*image.NRGBA)

	return &Image{
		Path:     path,
		Format:   format,
		Data:     data,
		Image:    img,
		Oriented: format == "jpeg" && transformed,
	}, nil
}

// Encoded returns bytes suitable for embedding the image as displayed: the
// file as read, or a PNG of the oriented pixels.
func (i *Image) Encoded() ([]byte, error) {
	if !i.Oriented {
		return i.Data, nil
	}
	return i.PNG()
}

// NRGBA returns the pixels as 8-bit non-premultiplied RGBA.
// Paletted, grayscale and 16-bit sources are all normalized to this layout.
func (i *Image) NRGBA() *image.NRGBA {
	return imaging.Clone(i.Image)
}

// PNG encodes the normalized pixels as PNG
func (i *Image) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, i.NRGBA(), imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode %s as PNG: %w", i.Path, err)
	}
	return buf.Bytes(), nil
}
