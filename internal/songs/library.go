// Package songs models the game's song database: songs, charts and
// difficulties, fuzzy lookup of recognized titles, and enumeration of the
// jacket corpus the recognizer is built from.
package songs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	log "github.com/sirupsen/logrus"
)

// ErrSongNotFound reports that no library entry matches a recognized title,
// even allowing for recognition errors.
var ErrSongNotFound = errors.New("no song matches the recognized title")

// Chart is one playable difficulty of a song.
type Chart struct {
	ID         int        `json:"id"`
	Difficulty Difficulty `json:"difficulty"`
	Level      string     `json:"level"`
	Jacket     string     `json:"jacket,omitempty"` // overrides the song's base jacket
}

// Song is a library entry with its charts.
type Song struct {
	ID     int      `json:"id"`
	Title  string   `json:"title"`
	Artist string   `json:"artist"`
	Jacket string   `json:"jacket,omitempty"` // base jacket shared by charts without their own
	Charts []*Chart `json:"charts"`
}

// Chart returns the song's chart at the given difficulty.
func (s *Song) Chart(d Difficulty) (*Chart, bool) {
	for _, c := range s.Charts {
		if c.Difficulty == d {
			return c, true
		}
	}
	return nil, false
}

// Library is the full song database. Read-only once constructed; safe for
// concurrent lookups, which allocate their own scratch space.
type Library struct {
	Songs []*Song `json:"songs"`

	byID       map[int]*Song
	byChart    map[int]chartRef
	byTitle    map[string]*Song
	normalized []string // normalized titles, parallel to Songs
	maxNorm    int      // longest normalized title, in runes
}

type chartRef struct {
	song  *Song
	chart *Chart
}

// NewLibrary indexes the given songs into a library.
func NewLibrary(list []*Song) (*Library, error) {
	lib := &Library{Songs: list}
	if err := lib.index(); err != nil {
		return nil, err
	}
	return lib, nil
}

// LoadLibrary reads and indexes a song library JSON file.
func LoadLibrary(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read song library: %w", err)
	}
	var lib Library
	if err := json.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("parse song library: %w", err)
	}
	if err := lib.index(); err != nil {
		return nil, fmt.Errorf("song library %s: %w", path, err)
	}
	log.Debugf("songs: loaded %d songs from %s", len(lib.Songs), path)
	return &lib, nil
}

// index builds the lookup maps and validates id uniqueness.
func (l *Library) index() error {
	l.byID = make(map[int]*Song, len(l.Songs))
	l.byChart = make(map[int]chartRef)
	l.byTitle = make(map[string]*Song, len(l.Songs))
	l.normalized = make([]string, 0, len(l.Songs))
	l.maxNorm = 0

	for _, s := range l.Songs {
		if s == nil {
			return fmt.Errorf("null song entry")
		}
		if other, dup := l.byID[s.ID]; dup {
			return fmt.Errorf("songs %q and %q share id %d", other.Title, s.Title, s.ID)
		}
		l.byID[s.ID] = s

		norm := normalizeTitle(s.Title)
		l.normalized = append(l.normalized, norm)
		if n := len([]rune(norm)); n > l.maxNorm {
			l.maxNorm = n
		}
		if norm != "" {
			if other, dup := l.byTitle[norm]; dup {
				log.Warnf("songs: titles %q and %q normalize identically; lookups resolve to the former",
					other.Title, s.Title)
			} else {
				l.byTitle[norm] = s
			}
		}

		var seen [difficultyCount]bool
		for _, c := range s.Charts {
			if c == nil {
				return fmt.Errorf("song %q: null chart entry", s.Title)
			}
			if c.Difficulty < 0 || c.Difficulty >= difficultyCount {
				return fmt.Errorf("song %q: chart %d has an invalid difficulty", s.Title, c.ID)
			}
			if seen[c.Difficulty] {
				return fmt.Errorf("song %q has two %s charts", s.Title, c.Difficulty)
			}
			seen[c.Difficulty] = true
			if ref, dup := l.byChart[c.ID]; dup {
				return fmt.Errorf("songs %q and %q share chart id %d", ref.song.Title, s.Title, c.ID)
			}
			l.byChart[c.ID] = chartRef{song: s, chart: c}
		}
	}
	return nil
}

// Len returns the number of songs.
func (l *Library) Len() int {
	return len(l.Songs)
}

// SongByID returns the song with the given id.
func (l *Library) SongByID(id int) (*Song, bool) {
	s, ok := l.byID[id]
	return s, ok
}

// ChartByID resolves a chart id to its song and chart.
func (l *Library) ChartByID(id int) (*Song, *Chart, bool) {
	ref, ok := l.byChart[id]
	if !ok {
		return nil, nil, false
	}
	return ref.song, ref.chart, true
}

// Lookup resolves a recognized title to a song: first an exact match on
// normalized titles, then the best Levenshtein distance over the whole
// library, accepted only when the distance is at most a third of the query
// length. Recognition drops characters it cannot place, so the fuzzy
// fallback carries most real traffic.
func (l *Library) Lookup(title string) (*Song, error) {
	norm := normalizeTitle(title)
	if norm == "" {
		return nil, fmt.Errorf("title %q: %w", title, ErrSongNotFound)
	}
	if s, ok := l.byTitle[norm]; ok {
		return s, nil
	}

	query := []rune(norm)
	size := l.maxNorm
	if len(query) > size {
		size = len(query)
	}
	prev := make([]int, size+1)
	curr := make([]int, size+1)

	best, bestDist := -1, 0
	for i, cand := range l.normalized {
		if cand == "" {
			continue
		}
		d := levenshtein(query, []rune(cand), prev, curr)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 || bestDist*3 > len(query) {
		return nil, fmt.Errorf("title %q: %w", title, ErrSongNotFound)
	}

	s := l.Songs[best]
	log.Debugf("songs: fuzzy matched %q to %q at distance %d", title, s.Title, bestDist)
	return s, nil
}

// normalizeTitle produces the canonical lookup form of a title: lowercase
// with everything except letters and digits removed.
// E.g., "GOODTEK (Arcaea ver.)" → "goodtekarcaeaver".
func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// levenshtein computes the edit distance between two rune strings using
// two scratch rows supplied by the caller; each call owns its rows, so
// concurrent lookups never share state. Rows must hold len(b)+1 entries.
func levenshtein(a, b []rune, prev, curr []int) int {
	prev = prev[:len(b)+1]
	curr = curr[:len(b)+1]
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
