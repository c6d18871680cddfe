package analysis

import (
	"errors"

	"github.com/prescientmoon/shimmeringmoon-sub000/internal/songs"
)

// RegionKind names the result-screen regions a layout can locate.
type RegionKind int

const (
	RegionScore RegionKind = iota
	RegionDifficulty
	RegionPure
	RegionFar
	RegionLost
	RegionMaxRecall
	RegionTitle
	RegionJacket

	regionCount
)

var regionNames = [regionCount]string{
	"score", "difficulty", "pure", "far", "lost", "max recall", "title", "jacket",
}

// String returns the lowercase region name.
func (k RegionKind) String() string {
	if k < 0 || k >= regionCount {
		return "unknown"
	}
	return regionNames[k]
}

var (
	// ErrNoConfidentMatch reports that the nearest jacket is further away
	// than the acceptance cutoff. The match is still returned alongside
	// it so callers can report the distance.
	ErrNoConfidentMatch = errors.New("no confident jacket match")

	// ErrUnreadableImage reports that not a single field of a screenshot
	// could be read.
	ErrUnreadableImage = errors.New("no readable fields in image")
)

// Result holds everything Analyze could read from one screenshot. Fields
// that could not be read keep their zero values and have their region
// names listed in Missing.
type Result struct {
	Score     int
	Pure      int
	Far       int
	Lost      int
	MaxRecall int

	// Difficulty is meaningful only when "difficulty" is absent from
	// Missing.
	Difficulty songs.Difficulty

	// Title is the raw recognized title text, before library lookup.
	Title string

	// Song and Chart identify the play, resolved from the jacket match
	// when confident and from the title otherwise; nil when neither
	// worked.
	Song  *songs.Song
	Chart *songs.Chart

	// JacketDistance is the distance of the nearest jacket, valid
	// whenever the jacket region itself was readable, even when the
	// match was rejected.
	JacketDistance float64

	Missing []string
}

// ReadOK reports whether the named region was successfully read.
func (r *Result) ReadOK(kind RegionKind) bool {
	name := kind.String()
	for _, m := range r.Missing {
		if m == name {
			return false
		}
	}
	return true
}
