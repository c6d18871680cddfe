package ocr

import (
	"fmt"
	"image"

	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	// renderPointSize is the size reference glyphs are rasterized at,
	// large enough that the feature grid samples real shape detail.
	renderPointSize = 60.0

	// renderPadding keeps glyphs away from the buffer edges.
	renderPadding = 32

	// renderGap separates consecutive glyphs so antialiased neighbors can
	// never touch and merge into a single component.
	renderGap = 24
)

// Alphabet is the reference table for one font/weight: each whitelisted
// character's feature vector plus the maximum glyph width/height used as
// the comparison scale. Built once, read-only afterwards, safe for
// concurrent use.
type Alphabet struct {
	weight    Weight
	chars     []rune
	vectors   []featureVector
	maxWidth  int
	maxHeight int
}

// NewAlphabet renders every character of whitelist in the given weight and
// measures its shape. The rendered components must correspond one to one,
// left to right, with the characters of whitelist, so the string must avoid
// glyphs that split into several components (diacritics, colons) or merge
// with neighbors (ligatures).
func NewAlphabet(fc *FontContext, weight Weight, whitelist string) (*Alphabet, error) {
	runes := []rune(whitelist)
	if len(runes) == 0 {
		return nil, fmt.Errorf("empty whitelist string")
	}

	face, err := fc.face(weight, renderPointSize)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	sample, err := renderSample(face, runes)
	if err != nil {
		return nil, fmt.Errorf("render sample text: %w", err)
	}

	// Rendering is controlled, so no size filtering: every component is a
	// glyph.
	m := extractComponents(sample, defaultThreshold, 1, 1)
	if m.survivorCount() == 0 {
		return nil, fmt.Errorf("sample text %q: %w", whitelist, ErrNoComponents)
	}
	if m.survivorCount() != len(runes) {
		return nil, fmt.Errorf("sample text %q rendered into %d components, want %d",
			whitelist, m.survivorCount(), len(runes))
	}

	maxWidth, maxHeight := 0, 0
	for _, id := range m.order {
		b := m.bounds[id-1]
		if b.Width > maxWidth {
			maxWidth = b.Width
		}
		if b.Height > maxHeight {
			maxHeight = b.Height
		}
	}

	a := &Alphabet{
		weight:    weight,
		chars:     runes,
		vectors:   make([]featureVector, 0, len(runes)),
		maxWidth:  maxWidth,
		maxHeight: maxHeight,
	}
	for i, id := range m.order {
		vec, err := glyphVector(m, maxWidth, maxHeight, id)
		if err != nil {
			return nil, fmt.Errorf("character %q: %w", runes[i], err)
		}
		a.vectors = append(a.vectors, vec)
	}

	log.Debugf("alphabet: %d %s characters, reference box %dx%d",
		len(a.chars), weight, maxWidth, maxHeight)
	return a, nil
}

// Len returns the number of characters in the alphabet.
func (a *Alphabet) Len() int {
	return len(a.chars)
}

// Weight returns the font weight the alphabet was rendered with.
func (a *Alphabet) Weight() Weight {
	return a.weight
}

// renderSample draws the runes onto a white buffer, dark on light, with a
// fixed gap between consecutive glyphs.
func renderSample(face font.Face, runes []rune) (*image.Gray, error) {
	metrics := face.Metrics()

	total := 0
	for _, r := range runes {
		advance, ok := face.GlyphAdvance(r)
		if !ok {
			return nil, fmt.Errorf("font has no glyph for %q", r)
		}
		total += advance.Ceil() + renderGap
	}

	width := 2*renderPadding + total
	height := 2*renderPadding + metrics.Ascent.Ceil() + metrics.Descent.Ceil()

	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = backgroundValue
	}

	d := font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: face,
	}
	x := fixed.I(renderPadding)
	baseline := fixed.I(renderPadding + metrics.Ascent.Ceil())
	for _, r := range runes {
		d.Dot = fixed.Point26_6{X: x, Y: baseline}
		d.DrawString(string(r))
		advance, _ := face.GlyphAdvance(r)
		x += advance + fixed.I(renderGap)
	}

	return img, nil
}
