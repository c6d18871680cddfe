package songs

import (
	"fmt"
	"path/filepath"
)

// CorpusEntry ties one jacket image file to the chart it identifies.
type CorpusEntry struct {
	ChartID int
	Path    string
}

// JacketCorpus enumerates the jacket files the recognizer index is built
// from, resolving paths against assetsDir. A chart with its own jacket
// file claims it directly. The song's base jacket is indexed once, for the
// lowest-difficulty chart without its own file, and in practice stands for
// the whole song: identifying it yields that chart's song, and callers
// pick the chart matching the difficulty they read elsewhere. A song whose
// charts have no jacket art at all could never be identified, so it is an
// error.
func (l *Library) JacketCorpus(assetsDir string) ([]CorpusEntry, error) {
	var out []CorpusEntry
	for _, s := range l.Songs {
		if len(s.Charts) == 0 {
			continue
		}

		emitted := 0
		baseClaimed := false
		for _, d := range Difficulties() {
			c, ok := s.Chart(d)
			if !ok {
				continue
			}
			switch {
			case c.Jacket != "":
				out = append(out, CorpusEntry{ChartID: c.ID, Path: filepath.Join(assetsDir, c.Jacket)})
				emitted++
			case s.Jacket != "" && !baseClaimed:
				out = append(out, CorpusEntry{ChartID: c.ID, Path: filepath.Join(assetsDir, s.Jacket)})
				baseClaimed = true
				emitted++
			}
		}
		if emitted == 0 {
			return nil, fmt.Errorf("song %q has no jacket art", s.Title)
		}
	}
	return out, nil
}
