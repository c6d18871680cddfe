// Package jacket identifies song cover art by nearest-neighbor search over
// color-block fingerprints. Corpus descriptors are compressed through a
// thin-SVD projection computed at build time; queries are projected through
// the same matrix and linearly scanned.
package jacket

import (
	"fmt"
	"image"
	"math"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// DefaultRank is the number of singular vectors kept by the projection.
// Build clamps it to the corpus size, and a rank of zero or less disables
// projection entirely (queries scan raw descriptors).
const DefaultRank = 24

// Entry is one corpus item: a caller-assigned id and its Describe vector.
type Entry struct {
	ID         int
	Descriptor []float64
}

// Match is the result of a nearest-neighbor query.
type Match struct {
	// ID is the entry id of the closest corpus descriptor.
	ID int

	// Distance is the Euclidean distance to that descriptor, in projected
	// space when the index carries a projection. Compare against
	// DefaultMaxDistance or a caller-tuned cutoff.
	Distance float64
}

// Index answers nearest-neighbor queries over a fixed jacket corpus.
// Read-only once built; safe for concurrent queries.
type Index struct {
	ids         []int
	projection  *mat.Dense // rank x VecDim, nil when projection is disabled
	descriptors *mat.Dense // rank (or VecDim) x len(ids), one column per entry
}

// Build assembles an index from corpus entries. Descriptors become the
// columns of a matrix whose thin singular value decomposition yields the
// projection: the top-rank left singular vectors, transposed. An empty
// corpus builds an empty index whose queries report no match.
func Build(entries []Entry, rank int) (*Index, error) {
	n := len(entries)
	if n == 0 {
		return &Index{}, nil
	}

	raw := mat.NewDense(VecDim, n, nil)
	ids := make([]int, n)
	for j, e := range entries {
		if len(e.Descriptor) != VecDim {
			return nil, fmt.Errorf("entry %d (id %d): descriptor has %d values, want %d",
				j, e.ID, len(e.Descriptor), VecDim)
		}
		raw.SetCol(j, e.Descriptor)
		ids[j] = e.ID
	}

	if rank <= 0 {
		log.Debugf("jacket: indexed %d descriptors without projection", n)
		return &Index{ids: ids, descriptors: raw}, nil
	}
	if rank > n {
		rank = n
	}
	if rank > VecDim {
		rank = VecDim
	}

	var svd mat.SVD
	if ok := svd.Factorize(raw, mat.SVDThin); !ok {
		return nil, fmt.Errorf("descriptor matrix factorization failed")
	}
	var u mat.Dense
	svd.UTo(&u)

	var projection mat.Dense
	projection.CloneFrom(u.Slice(0, VecDim, 0, rank).T())

	var projected mat.Dense
	projected.Mul(&projection, raw)

	log.Debugf("jacket: indexed %d descriptors at rank %d", n, rank)
	return &Index{ids: ids, projection: &projection, descriptors: &projected}, nil
}

// Len returns the number of indexed entries.
func (x *Index) Len() int {
	return len(x.ids)
}

// Rank returns the projection rank, or zero when projection is disabled.
func (x *Index) Rank() int {
	if x.projection == nil {
		return 0
	}
	r, _ := x.projection.Dims()
	return r
}

// Identify describes an image and returns its nearest corpus entry. The
// boolean follows Nearest; the error reports a descriptor failure.
func (x *Index) Identify(img image.Image) (Match, bool, error) {
	vec, err := Describe(img)
	if err != nil {
		return Match{}, false, err
	}
	m, ok := x.Nearest(vec)
	return m, ok, nil
}

// Nearest returns the corpus entry closest to the given Describe vector.
// The boolean is false only for an empty index; every non-empty index
// always answers with its single best match, however distant. Acceptance
// is the caller's decision.
func (x *Index) Nearest(vec []float64) (Match, bool) {
	if x.Len() == 0 {
		return Match{}, false
	}

	query := mat.NewVecDense(len(vec), vec)
	var probe mat.VecDense
	if x.projection != nil {
		probe.MulVec(x.projection, query)
	} else {
		probe.CloneFromVec(query)
	}

	dim, _ := x.descriptors.Dims()
	column := make([]float64, dim)
	best, bestDist := 0, math.MaxFloat64
	for j := range x.ids {
		mat.Col(column, j, x.descriptors)
		dist := 0.0
		for i, v := range column {
			d := v - probe.AtVec(i)
			dist += d * d
		}
		if dist < bestDist {
			bestDist = dist
			best = j
		}
	}

	return Match{ID: x.ids[best], Distance: math.Sqrt(bestDist)}, true
}
