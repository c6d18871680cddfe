// Package ocr implements font-specific glyph-shape recognition. Connected
// components of a thresholded region are summarized as grid ink-density
// vectors and classified by nearest-neighbor search against a reference
// alphabet rendered from the game's own font.
package ocr

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/prescientmoon/shimmeringmoon-sub000/internal/imaging"
	"github.com/prescientmoon/shimmeringmoon-sub000/pkg/geometry"
)

// Sentinel failures a caller may want to distinguish; everything else is
// wrapped context around one of these or a one-off condition.
var (
	// ErrNoComponents reports that extraction found no surviving
	// components, so no measurement can be derived at all. Distinct from a
	// recognized-but-rejected glyph, which is silently dropped.
	ErrNoComponents = errors.New("no components found")

	// ErrEmptyAlphabet reports that the whitelist filtered out every
	// reference character.
	ErrEmptyAlphabet = errors.New("whitelist excludes every alphabet character")

	// ErrEmptyCell reports a feature grid cell that covers zero pixels.
	ErrEmptyCell = errors.New("feature cell covers zero pixels")
)

// Character whitelists for the result-screen fields.
const (
	DigitChars  = "0123456789"
	ScoreChars  = "0123456789'"
	LetterChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	TitleChars  = LetterChars + DigitChars
)

// Engine recognizes text in image regions by glyph-shape matching against a
// reference alphabet. Read-only once built; safe for concurrent use.
type Engine struct {
	alphabet *Alphabet
	params   RecognizeParams
}

// NewEngine creates a recognition engine backed by the given alphabet.
func NewEngine(alphabet *Alphabet, params RecognizeParams) (*Engine, error) {
	if alphabet == nil || alphabet.Len() == 0 {
		return nil, fmt.Errorf("engine needs a non-empty alphabet")
	}
	return &Engine{alphabet: alphabet, params: params}, nil
}

// Params returns the engine's recognition parameters.
func (e *Engine) Params() RecognizeParams {
	return e.params
}

// Recognize extracts the text visible in img, restricted to whitelist
// characters, in left-to-right component order. Components whose nearest
// reference shape is too far away are dropped without a placeholder, so an
// empty result is valid; callers decide whether that means failure.
func (e *Engine) Recognize(img image.Image, whitelist string) (string, error) {
	gray := imaging.ToGray(img)
	m := extractComponents(gray, e.params.Threshold, e.params.MaxWidthFrac, e.params.MaxHeightFrac)
	if m.survivorCount() == 0 {
		return "", ErrNoComponents
	}

	// Restrict the reference alphabet to the whitelisted characters.
	candidates := make([]int, 0, e.alphabet.Len())
	for i, c := range e.alphabet.chars {
		if strings.ContainsRune(whitelist, c) {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return "", ErrEmptyAlphabet
	}

	// Screenshot text is not rendered at the reference point size, so the
	// reference box is rescaled to the query's tallest component while
	// keeping the alphabet's aspect ratio.
	queryHeight := m.maxSurvivorHeight()
	queryWidth := int(math.Round(float64(e.alphabet.maxWidth) *
		float64(queryHeight) / float64(e.alphabet.maxHeight)))
	log.Debugf("glyph: %d components, query box %dx%d",
		m.survivorCount(), queryWidth, queryHeight)

	out := make([]rune, 0, m.survivorCount())
	for _, id := range m.order {
		vec, err := glyphVector(m, queryWidth, queryHeight, id)
		if err != nil {
			return "", err
		}

		best := -1
		bestDist := math.MaxFloat64
		for _, ci := range candidates {
			if d := vec.distance(e.alphabet.vectors[ci]); d < bestDist {
				bestDist = d
				best = ci
			}
		}

		if math.Sqrt(bestDist) <= e.params.MaxShapeDistance {
			out = append(out, e.alphabet.chars[best])
		} else {
			log.Debugf("glyph: dropped component at x=%d, nearest %q at %.3f",
				m.bounds[id-1].X, e.alphabet.chars[best], math.Sqrt(bestDist))
		}
	}

	return string(out), nil
}

// RecognizeRegion crops bounds out of img and recognizes the crop.
func (e *Engine) RecognizeRegion(img image.Image, bounds geometry.RectInt, whitelist string) (string, error) {
	return e.Recognize(imaging.CropRGBA(img, bounds), whitelist)
}
