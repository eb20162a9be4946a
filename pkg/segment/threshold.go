package segment

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

const (
	blockSize  = 11 // Gaussian window of the adaptive threshold
	thresholdC = 2  // Subtracted from the local mean
)

// grayscale converts img to 8-bit luma using the ITU-R 601 weights
func grayscale(img image.Image) *image.Gray {
	nrgba := imaging.Grayscale(img)
	w, h := nrgba.Rect.Dx(), nrgba.Rect.Dy()
	gray := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := nrgba.Pix[y*nrgba.Stride:]
		dst := gray.Pix[y*gray.Stride:]
		for x := 0; x < w; x++ {
			dst[x] = src[x*4]
		}
	}
	return gray
}

// adaptiveThreshold binarizes gray against its Gaussian-weighted local mean.
// A pixel becomes foreground (255) when it is at least thresholdC darker
// than the mean of its blockSize×blockSize neighbourhood, so dark strokes
// and edges on a light background come out bright.
func adaptiveThreshold(gray *image.Gray) *image.Gray {
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	mean := gaussianMean(gray, blockSize)

	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src := int(gray.Pix[y*gray.Stride+x])
			if src-int(mean[y*w+x]) <= -thresholdC {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}

// gaussianKernel returns normalized weights for a kernel of size taps, with
// the sigma OpenCV derives for that size.
func gaussianKernel(size int) []float64 {
	sigma := 0.3*(float64(size-1)*0.5-1) + 0.8
	half := size / 2

	k := make([]float64, size)
	var sum float64
	for i := range k {
		x := float64(i - half)
		k[i] = math.Exp(-x * x / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// gaussianMean blurs gray with a separable size×size Gaussian, replicating
// edge pixels, and rounds the result to 8 bits. The result is row-major
// with stride equal to the image width.
func gaussianMean(gray *image.Gray, size int) []uint8 {
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	k := gaussianKernel(size)
	half := size / 2

	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride:]
		for x := 0; x < w; x++ {
			var acc float64
			for i, kv := range k {
				acc += kv * float64(row[clamp(x+i-half, w)])
			}
			tmp[y*w+x] = acc
		}
	}

	mean := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc float64
			for i, kv := range k {
				acc += kv * tmp[clamp(y+i-half, h)*w+x]
			}
			mean[y*w+x] = uint8(math.Min(255, math.Max(0, math.Round(acc))))
		}
	}
	return mean
}

// clamp limits i to [0, n)
func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
