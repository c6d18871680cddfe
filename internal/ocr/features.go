package ocr

import (
	"fmt"
	"math"
)

// gridSplit is the number of feature cells per axis. Every glyph is
// summarized by gridSplit x gridSplit average ink densities.
const gridSplit = 5

// glyphVecDim is the length of a glyph feature vector.
const glyphVecDim = gridSplit * gridSplit

// featureVector is a grid-sampled ink density descriptor for one connected
// component, normalized to unit L2 length. Two vectors are comparable only
// when built against the same reference box dimensions.
type featureVector [glyphVecDim]float64

// glyphVector computes the feature vector of component id against a
// (refWidth, refHeight) reference box anchored at the component's top-left
// bound. Each cell averages (255 - intensity) over the pixels inside it
// that belong to the component, so darker and denser regions score higher.
// Fails with ErrEmptyCell when the reference box is too small to give every
// cell at least one pixel.
func glyphVector(m *componentMap, refWidth, refHeight, id int) (featureVector, error) {
	var vec featureVector

	b := m.bounds[id-1]
	if b == nil {
		return vec, fmt.Errorf("component %d was discarded", id)
	}

	bin := m.img
	for cy := 0; cy < gridSplit; cy++ {
		y0 := b.Y + cy*refHeight/gridSplit
		y1 := b.Y + (cy+1)*refHeight/gridSplit
		for cx := 0; cx < gridSplit; cx++ {
			x0 := b.X + cx*refWidth/gridSplit
			x1 := b.X + (cx+1)*refWidth/gridSplit

			area := (x1 - x0) * (y1 - y0)
			if area == 0 {
				return vec, fmt.Errorf("cell (%d,%d) of %dx%d reference box: %w",
					cx, cy, refWidth, refHeight, ErrEmptyCell)
			}

			ink := 0.0
			for y := y0; y < y1; y++ {
				if y < 0 || y >= bin.height {
					continue
				}
				for x := x0; x < x1; x++ {
					if x < 0 || x >= bin.width {
						continue
					}
					if m.labels[y*bin.width+x] == id {
						ink += float64(255 - bin.at(x, y))
					}
				}
			}
			vec[cy*gridSplit+cx] = ink / float64(area)
		}
	}

	vec.normalize()
	return vec, nil
}

// normalize scales the vector to unit L2 length. A zero vector is left
// unchanged.
func (v *featureVector) normalize() {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range v {
		v[i] /= norm
	}
}

// distance returns the squared Euclidean distance between two vectors.
// Only meaningful comparatively, or against the acceptance threshold.
func (v featureVector) distance(other featureVector) float64 {
	sum := 0.0
	for i := range v {
		d := v[i] - other[i]
		sum += d * d
	}
	return sum
}
