package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/prescientmoon/shimmeringmoon-sub000/pkg/geometry"
)

// Layout locates the result-screen regions for one device aspect ratio.
// Rectangles are stored as fractions of the screenshot width and height so
// one layout serves every resolution with that shape.
type Layout struct {
	Name         string  `json:"name"`
	AspectWidth  float64 `json:"aspect_width"`
	AspectHeight float64 `json:"aspect_height"`

	Score      geometry.Rect `json:"score"`
	Difficulty geometry.Rect `json:"difficulty"`
	Pure       geometry.Rect `json:"pure"`
	Far        geometry.Rect `json:"far"`
	Lost       geometry.Rect `json:"lost"`
	MaxRecall  geometry.Rect `json:"max_recall"`
	Title      geometry.Rect `json:"title"`
	Jacket     geometry.Rect `json:"jacket"`

	// JacketTilt is the angle, in radians, the jacket art is rotated by
	// on screen; recognition de-skews by its negative.
	JacketTilt float64 `json:"jacket_tilt"`
}

// relative returns the fractional rectangle for a region.
func (l *Layout) relative(kind RegionKind) geometry.Rect {
	switch kind {
	case RegionScore:
		return l.Score
	case RegionDifficulty:
		return l.Difficulty
	case RegionPure:
		return l.Pure
	case RegionFar:
		return l.Far
	case RegionLost:
		return l.Lost
	case RegionMaxRecall:
		return l.MaxRecall
	case RegionTitle:
		return l.Title
	case RegionJacket:
		return l.Jacket
	default:
		return geometry.Rect{}
	}
}

// Region converts a fractional region to pixels for a width x height
// screenshot.
func (l *Layout) Region(kind RegionKind, width, height int) geometry.RectInt {
	return l.relative(kind).Scaled(float64(width), float64(height)).ToRectInt()
}

// aspect returns the layout's width/height ratio.
func (l *Layout) aspect() float64 {
	return l.AspectWidth / l.AspectHeight
}

// validate checks that every region is present and sanely sized.
func (l *Layout) validate() error {
	if l.AspectWidth <= 0 || l.AspectHeight <= 0 {
		return fmt.Errorf("layout %q: aspect %gx%g is not positive", l.Name, l.AspectWidth, l.AspectHeight)
	}
	for k := RegionKind(0); k < regionCount; k++ {
		r := l.relative(k)
		if r.Width <= 0 || r.Height <= 0 {
			return fmt.Errorf("layout %q: empty %s region", l.Name, k)
		}
		if r.X < 0 || r.Y < 0 || r.X+r.Width > 1 || r.Y+r.Height > 1 {
			return fmt.Errorf("layout %q: %s region extends outside the frame", l.Name, k)
		}
	}
	return nil
}

// Layouts selects between calibrated layouts by screenshot shape.
// Read-only once constructed.
type Layouts struct {
	Layouts []*Layout `json:"layouts"`
}

// DefaultLayouts returns the built-in 16:9 calibration, which covers the
// common phone and tablet captures.
func DefaultLayouts() *Layouts {
	return &Layouts{Layouts: []*Layout{{
		Name:         "16:9",
		AspectWidth:  16,
		AspectHeight: 9,

		Score:      geometry.Rect{X: 0.51, Y: 0.61, Width: 0.28, Height: 0.10},
		Difficulty: geometry.Rect{X: 0.07, Y: 0.165, Width: 0.14, Height: 0.05},
		Pure:       geometry.Rect{X: 0.41, Y: 0.33, Width: 0.13, Height: 0.048},
		Far:        geometry.Rect{X: 0.41, Y: 0.39, Width: 0.13, Height: 0.048},
		Lost:       geometry.Rect{X: 0.41, Y: 0.45, Width: 0.13, Height: 0.048},
		MaxRecall:  geometry.Rect{X: 0.56, Y: 0.28, Width: 0.12, Height: 0.05},
		Title:      geometry.Rect{X: 0.09, Y: 0.63, Width: 0.30, Height: 0.08},
		Jacket:     geometry.Rect{X: 0.073, Y: 0.22, Width: 0.225, Height: 0.40},
		JacketTilt: 0.045,
	}}}
}

// LoadLayouts reads a layout calibration file.
func LoadLayouts(path string) (*Layouts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout file: %w", err)
	}
	var ls Layouts
	if err := json.Unmarshal(data, &ls); err != nil {
		return nil, fmt.Errorf("parse layout file: %w", err)
	}
	if len(ls.Layouts) == 0 {
		return nil, fmt.Errorf("layout file %s defines no layouts", path)
	}
	for _, l := range ls.Layouts {
		if l == nil {
			return nil, fmt.Errorf("layout file %s: null layout entry", path)
		}
		if err := l.validate(); err != nil {
			return nil, err
		}
	}
	log.Debugf("analysis: loaded %d layouts from %s", len(ls.Layouts), path)
	return &ls, nil
}

// Best returns the layout whose design aspect ratio is closest to a
// width x height screenshot. The receiver must hold at least one layout.
func (ls *Layouts) Best(width, height int) *Layout {
	target := float64(width) / float64(height)
	best := ls.Layouts[0]
	bestDiff := math.Abs(best.aspect() - target)
	for _, l := range ls.Layouts[1:] {
		if diff := math.Abs(l.aspect() - target); diff < bestDiff {
			best, bestDiff = l, diff
		}
	}
	return best
}
