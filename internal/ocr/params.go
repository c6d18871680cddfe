package ocr

// defaultThreshold is the binarization cutoff used when no override is
// given. Result-screen text is well separated from its background at this
// level.
const defaultThreshold = 100

// RecognizeParams controls binarization, component filtering and match
// acceptance for glyph recognition.
type RecognizeParams struct {
	// Threshold is the binarization cutoff (0-255): pixels at or above it
	// count as background, anything darker is candidate ink.
	Threshold uint8

	// MaxWidthFrac and MaxHeightFrac discard components whose bounding box
	// reaches that fraction of the image dimension. A value of 1 or more
	// disables the limit for that axis.
	MaxWidthFrac  float64
	MaxHeightFrac float64

	// MaxShapeDistance is the acceptance cutoff: a component is emitted
	// only when the root of its squared distance to the nearest reference
	// character is at most this value. Empirically tuned.
	MaxShapeDistance float64
}

// DefaultRecognizeParams returns parameters tuned for result-screen text:
// reject components spanning most of the image width (horizontal bars,
// underlines) but allow full-height ones.
func DefaultRecognizeParams() RecognizeParams {
	return RecognizeParams{
		Threshold:        defaultThreshold,
		MaxWidthFrac:     0.9,
		MaxHeightFrac:    1.0,
		MaxShapeDistance: 0.75,
	}
}

// WithThreshold returns a copy with a different binarization cutoff.
func (p RecognizeParams) WithThreshold(threshold uint8) RecognizeParams {
	p.Threshold = threshold
	return p
}

// WithMaxSizeFractions returns a copy with different component size limits.
func (p RecognizeParams) WithMaxSizeFractions(width, height float64) RecognizeParams {
	p.MaxWidthFrac = width
	p.MaxHeightFrac = height
	return p
}

// WithMaxShapeDistance returns a copy with a different acceptance cutoff.
func (p RecognizeParams) WithMaxShapeDistance(distance float64) RecognizeParams {
	p.MaxShapeDistance = distance
	return p
}
