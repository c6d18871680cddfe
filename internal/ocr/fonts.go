package ocr

import (
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

// Weight identifies a font weight variant registered in a FontContext.
type Weight int

const (
	WeightLight Weight = iota
	WeightRegular
	WeightBold

	weightCount
)

var weightNames = [weightCount]string{"light", "regular", "bold"}

// String returns the lowercase weight name.
func (w Weight) String() string {
	if w < 0 || w >= weightCount {
		return "unknown"
	}
	return weightNames[w]
}

// FontContext owns the parsed fonts used to render reference alphabets.
// Construct one at startup, register the weights the alphabets need, and
// share it read-only afterwards; no process-global font state is involved.
type FontContext struct {
	fonts [weightCount]*truetype.Font
}

// NewFontContext returns a context with no registered weights.
func NewFontContext() *FontContext {
	return &FontContext{}
}

// RegisterFont parses TTF data and stores it under the given weight,
// replacing any previous registration.
func (fc *FontContext) RegisterFont(w Weight, ttf []byte) error {
	if w < 0 || w >= weightCount {
		return fmt.Errorf("invalid font weight %d", w)
	}
	f, err := truetype.Parse(ttf)
	if err != nil {
		return fmt.Errorf("parse %s font: %w", w, err)
	}
	fc.fonts[w] = f
	return nil
}

// LoadFont reads a TTF file and registers it under the given weight.
func (fc *FontContext) LoadFont(w Weight, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font file: %w", err)
	}
	return fc.RegisterFont(w, data)
}

// face builds a rendering face at the given point size. The caller is
// responsible for closing it.
func (fc *FontContext) face(w Weight, size float64) (font.Face, error) {
	if w < 0 || w >= weightCount || fc.fonts[w] == nil {
		return nil, fmt.Errorf("no font registered for weight %s", w)
	}
	return truetype.NewFace(fc.fonts[w], &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
