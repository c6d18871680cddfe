// Package analysis reads structured play results out of game screenshots:
// numeric fields and the difficulty through glyph recognition, the song
// through jacket fingerprinting with a title-lookup fallback.
package analysis

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/effect"
	log "github.com/sirupsen/logrus"

	"github.com/prescientmoon/shimmeringmoon-sub000/internal/imaging"
	"github.com/prescientmoon/shimmeringmoon-sub000/internal/jacket"
	"github.com/prescientmoon/shimmeringmoon-sub000/internal/ocr"
	"github.com/prescientmoon/shimmeringmoon-sub000/internal/songs"
	"github.com/prescientmoon/shimmeringmoon-sub000/pkg/geometry"
)

// AlphabetChars covers every character the field readers may request, so
// an engine whose alphabet was built from it serves all of them.
const AlphabetChars = ocr.LetterChars + ocr.DigitChars + "'"

// Analyzer reads play results from screenshots. Read-only once built; one
// Analyzer serves concurrent calls.
type Analyzer struct {
	engine  *ocr.Engine
	index   *jacket.Index
	library *songs.Library
	layouts *Layouts

	// MaxJacketDistance is the jacket acceptance cutoff. Adjust before
	// first use if the default does not suit the corpus.
	MaxJacketDistance float64
}

// NewAnalyzer assembles an analyzer. A nil layouts falls back to the
// built-in calibration.
func NewAnalyzer(engine *ocr.Engine, index *jacket.Index, library *songs.Library, layouts *Layouts) (*Analyzer, error) {
	if engine == nil {
		return nil, fmt.Errorf("analyzer needs a glyph engine")
	}
	if index == nil {
		return nil, fmt.Errorf("analyzer needs a jacket index")
	}
	if library == nil {
		return nil, fmt.Errorf("analyzer needs a song library")
	}
	if layouts == nil {
		layouts = DefaultLayouts()
	}
	return &Analyzer{
		engine:            engine,
		index:             index,
		library:           library,
		layouts:           layouts,
		MaxJacketDistance: jacket.DefaultMaxDistance,
	}, nil
}

// textRegion crops a layout region and inverts it: result-screen text is
// light on dark, the recognizer expects ink on white.
func (a *Analyzer) textRegion(img image.Image, kind RegionKind) *image.RGBA {
	b := img.Bounds()
	r := a.layouts.Best(b.Dx(), b.Dy()).Region(kind, b.Dx(), b.Dy())
	return effect.Invert(imaging.CropRGBA(img, r))
}

// ReadScore recognizes and parses the score field.
func (a *Analyzer) ReadScore(img image.Image) (int, error) {
	text, err := a.engine.Recognize(a.textRegion(img, RegionScore), ocr.ScoreChars)
	if err != nil {
		return 0, fmt.Errorf("score region: %w", err)
	}
	return parseScore(text)
}

// ReadCounter recognizes and parses one of the note counters: pure, far,
// lost or max recall.
func (a *Analyzer) ReadCounter(img image.Image, kind RegionKind) (int, error) {
	switch kind {
	case RegionPure, RegionFar, RegionLost, RegionMaxRecall:
	default:
		return 0, fmt.Errorf("%s is not a counter region", kind)
	}
	text, err := a.engine.Recognize(a.textRegion(img, kind), ocr.DigitChars)
	if err != nil {
		return 0, fmt.Errorf("%s region: %w", kind, err)
	}
	return parseCounter(text)
}

// ReadDifficulty recognizes the difficulty badge.
func (a *Analyzer) ReadDifficulty(img image.Image) (songs.Difficulty, error) {
	text, err := a.engine.Recognize(a.textRegion(img, RegionDifficulty), ocr.LetterChars)
	if err != nil {
		return 0, fmt.Errorf("difficulty region: %w", err)
	}
	return parseDifficultyText(text)
}

// ReadTitle recognizes the song title as displayed; use Library.Lookup to
// resolve it to a song.
func (a *Analyzer) ReadTitle(img image.Image) (string, error) {
	text, err := a.engine.Recognize(a.textRegion(img, RegionTitle), ocr.TitleChars)
	if err != nil {
		return "", fmt.Errorf("title region: %w", err)
	}
	if text == "" {
		return "", fmt.Errorf("no title characters recognized")
	}
	return text, nil
}

// IdentifyJacket crops the jacket region, de-skews it by the layout tilt,
// trims the band the shear passes may leave black, and queries the index.
// When the nearest jacket is beyond MaxJacketDistance the match is
// returned together with ErrNoConfidentMatch so callers can still report
// the distance.
func (a *Analyzer) IdentifyJacket(img image.Image) (jacket.Match, error) {
	b := img.Bounds()
	lay := a.layouts.Best(b.Dx(), b.Dy())

	// The crop owns its pixels, so the in-place shear cannot touch the
	// caller's buffer.
	crop := imaging.CropRGBA(img, lay.Region(RegionJacket, b.Dx(), b.Dy()))
	cb := crop.Bounds()
	region := geometry.NewRectInt(0, 0, cb.Dx(), cb.Dy())
	if lay.JacketTilt != 0 {
		imaging.Rotate(crop, region, region.Center(), -lay.JacketTilt)
	}

	inner := region.Inset(rotationMargin(lay.JacketTilt, max(cb.Dx(), cb.Dy())))
	if inner.Empty() {
		return jacket.Match{}, fmt.Errorf("jacket region %dx%d too small to de-skew", cb.Dx(), cb.Dy())
	}

	m, ok, err := a.index.Identify(imaging.CropRGBA(crop, inner))
	if err != nil {
		return jacket.Match{}, fmt.Errorf("jacket region: %w", err)
	}
	if !ok {
		return jacket.Match{}, fmt.Errorf("jacket index is empty")
	}
	if m.Distance > a.MaxJacketDistance {
		return m, fmt.Errorf("nearest jacket %d at distance %.1f: %w", m.ID, m.Distance, ErrNoConfidentMatch)
	}
	return m, nil
}

// rotationMargin is the width of the edge band the shear passes may leave
// black for a tilt over a region of the given larger dimension.
func rotationMargin(tilt float64, maxDim int) int {
	spread := math.Abs(math.Sin(tilt)) + 2*math.Abs(math.Tan(tilt/2))
	return int(math.Ceil(spread*float64(maxDim)/2)) + 2
}

// Analyze reads every field of a result screenshot, degrading gracefully:
// an unreadable field keeps its zero value and is listed in Missing. Only
// an image with no readable fields at all errors.
func (a *Analyzer) Analyze(img image.Image) (*Result, error) {
	res := &Result{}
	miss := func(kind RegionKind, err error) {
		log.Debugf("analysis: %s unreadable: %v", kind, err)
		res.Missing = append(res.Missing, kind.String())
	}

	var err error
	if res.Score, err = a.ReadScore(img); err != nil {
		miss(RegionScore, err)
	}
	if res.Pure, err = a.ReadCounter(img, RegionPure); err != nil {
		miss(RegionPure, err)
	}
	if res.Far, err = a.ReadCounter(img, RegionFar); err != nil {
		miss(RegionFar, err)
	}
	if res.Lost, err = a.ReadCounter(img, RegionLost); err != nil {
		miss(RegionLost, err)
	}
	if res.MaxRecall, err = a.ReadCounter(img, RegionMaxRecall); err != nil {
		miss(RegionMaxRecall, err)
	}
	if res.Difficulty, err = a.ReadDifficulty(img); err != nil {
		miss(RegionDifficulty, err)
	}
	if res.Title, err = a.ReadTitle(img); err != nil {
		miss(RegionTitle, err)
	}

	match, jerr := a.IdentifyJacket(img)
	res.JacketDistance = match.Distance
	if jerr != nil {
		miss(RegionJacket, jerr)
	} else if song, chart, ok := a.library.ChartByID(match.ID); ok {
		res.Song, res.Chart = song, chart
	} else {
		miss(RegionJacket, fmt.Errorf("jacket id %d is not in the library", match.ID))
	}

	// Base jacket art stands for the whole song, so prefer the chart at
	// the difficulty read off the screen.
	if res.Song != nil && res.ReadOK(RegionDifficulty) {
		if c, ok := res.Song.Chart(res.Difficulty); ok {
			res.Chart = c
		}
	}

	// When the jacket gave nothing, fall back to the recognized title.
	if res.Song == nil && res.Title != "" {
		if song, lerr := a.library.Lookup(res.Title); lerr == nil {
			res.Song = song
			if res.ReadOK(RegionDifficulty) {
				if c, ok := song.Chart(res.Difficulty); ok {
					res.Chart = c
				}
			}
		} else {
			log.Debugf("analysis: title lookup failed: %v", lerr)
		}
	}

	if len(res.Missing) == int(regionCount) {
		return nil, ErrUnreadableImage
	}
	return res, nil
}
