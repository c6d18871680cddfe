package jacket

import (
	"errors"
	"image"
	"math"

	"github.com/nfnt/resize"
)

const (
	// SplitFactor is the number of descriptor cells per axis.
	SplitFactor = 8

	// VecDim is the descriptor length: one RMS value per cell per color
	// channel.
	VecDim = 3 * SplitFactor * SplitFactor

	// descriptorScale is the side length images are normalized to before
	// sampling, so every cell covers the same pixel count regardless of
	// source resolution.
	descriptorScale = 64
)

// DefaultMaxDistance is the usual caller-side acceptance cutoff for
// Nearest results, scaled to the descriptor dimension. Empirically tuned;
// the index itself never rejects.
const DefaultMaxDistance = 3 * VecDim

// ErrEmptyImage reports a descriptor request for an image with no pixels.
var ErrEmptyImage = errors.New("empty image")

// Describe computes the color fingerprint of an image: the image is scaled
// to a fixed size, split into a SplitFactor x SplitFactor grid, and each
// cell contributes the root-mean-square value of every color channel. RMS
// rather than mean keeps bright foreground art from washing out against
// flat backgrounds. The vector is channel-major and not normalized.
func Describe(img image.Image) ([]float64, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrEmptyImage
	}

	scaled := resize.Resize(descriptorScale, descriptorScale, img, resize.Bicubic)
	sb := scaled.Bounds()

	const cell = descriptorScale / SplitFactor
	vec := make([]float64, VecDim)
	for cy := 0; cy < SplitFactor; cy++ {
		for cx := 0; cx < SplitFactor; cx++ {
			var sum [3]float64
			for y := 0; y < cell; y++ {
				for x := 0; x < cell; x++ {
					r, g, b, _ := scaled.At(sb.Min.X+cx*cell+x, sb.Min.Y+cy*cell+y).RGBA()
					sum[0] += float64(r>>8) * float64(r>>8)
					sum[1] += float64(g>>8) * float64(g>>8)
					sum[2] += float64(b>>8) * float64(b>>8)
				}
			}
			for c, s := range sum {
				vec[c*SplitFactor*SplitFactor+cy*SplitFactor+cx] = math.Sqrt(s / (cell * cell))
			}
		}
	}
	return vec, nil
}
