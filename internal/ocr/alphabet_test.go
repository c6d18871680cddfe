package ocr

import (
	"image"
	"math"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

// testFontContext returns a context with Go Regular registered under
// WeightRegular.
func testFontContext(t *testing.T) *FontContext {
	t.Helper()
	fc := NewFontContext()
	if err := fc.RegisterFont(WeightRegular, goregular.TTF); err != nil {
		t.Fatalf("RegisterFont: %v", err)
	}
	return fc
}

// renderText rasterizes text the same way alphabet construction does.
func renderText(t *testing.T, fc *FontContext, text string) *image.Gray {
	t.Helper()
	face, err := fc.face(WeightRegular, renderPointSize)
	if err != nil {
		t.Fatalf("face: %v", err)
	}
	defer face.Close()

	img, err := renderSample(face, []rune(text))
	if err != nil {
		t.Fatalf("renderSample(%q): %v", text, err)
	}
	return img
}

func TestNewAlphabetDigits(t *testing.T) {
	fc := testFontContext(t)

	a, err := NewAlphabet(fc, WeightRegular, DigitChars)
	if err != nil {
		t.Fatalf("NewAlphabet: %v", err)
	}

	if a.Len() != len(DigitChars) {
		t.Errorf("Len() = %d, want %d", a.Len(), len(DigitChars))
	}
	if a.Weight() != WeightRegular {
		t.Errorf("Weight() = %s, want %s", a.Weight(), WeightRegular)
	}
	if a.maxWidth <= 0 || a.maxHeight <= 0 {
		t.Errorf("reference box %dx%d, want positive", a.maxWidth, a.maxHeight)
	}

	// Every reference vector is unit length.
	for i, vec := range a.vectors {
		sum := 0.0
		for _, x := range vec {
			sum += x * x
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("vector for %q has squared norm %v, want 1", a.chars[i], sum)
		}
	}
}

func TestNewAlphabetEmptyWhitelist(t *testing.T) {
	fc := testFontContext(t)
	if _, err := NewAlphabet(fc, WeightRegular, ""); err == nil {
		t.Error("NewAlphabet(\"\") succeeded, want error")
	}
}

func TestNewAlphabetUnregisteredWeight(t *testing.T) {
	fc := testFontContext(t)
	if _, err := NewAlphabet(fc, WeightBold, DigitChars); err == nil {
		t.Error("NewAlphabet with unregistered weight succeeded, want error")
	}
}

func TestNewAlphabetRejectsSplitGlyphs(t *testing.T) {
	// "=" renders as two components, which cannot be matched one to one
	// with the whitelist.
	fc := testFontContext(t)
	if _, err := NewAlphabet(fc, WeightRegular, "="); err == nil {
		t.Error("NewAlphabet(\"=\") succeeded, want component count error")
	}
}

func TestRegisterFontRejectsGarbage(t *testing.T) {
	fc := NewFontContext()
	if err := fc.RegisterFont(WeightRegular, []byte("not a font")); err == nil {
		t.Error("RegisterFont accepted garbage data")
	}
	if err := fc.RegisterFont(Weight(12), goregular.TTF); err == nil {
		t.Error("RegisterFont accepted an out-of-range weight")
	}
}

func TestLoadFontMissingFile(t *testing.T) {
	fc := NewFontContext()
	if err := fc.LoadFont(WeightRegular, "testdata/no-such-font.ttf"); err == nil {
		t.Error("LoadFont succeeded on a missing file")
	}
}

func TestWeightString(t *testing.T) {
	tests := []struct {
		w    Weight
		want string
	}{
		{WeightLight, "light"},
		{WeightRegular, "regular"},
		{WeightBold, "bold"},
		{Weight(-1), "unknown"},
		{Weight(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.w.String(); got != tt.want {
			t.Errorf("Weight(%d).String() = %q, want %q", int(tt.w), got, tt.want)
		}
	}
}
