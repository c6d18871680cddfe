package songs

import (
	"path/filepath"
	"testing"
)

func TestJacketCorpus(t *testing.T) {
	lib := testLibrary(t)

	entries, err := lib.JacketCorpus("assets")
	if err != nil {
		t.Fatalf("JacketCorpus: %v", err)
	}

	want := []CorpusEntry{
		// Base art claims the lowest chart of each song; the Beyond chart
		// of song 2 has its own art.
		{ChartID: 101, Path: filepath.Join("assets", "sayonarahatsukoi/base.jpg")},
		{ChartID: 201, Path: filepath.Join("assets", "goodtek/base.jpg")},
		{ChartID: 204, Path: filepath.Join("assets", "goodtek/byd.jpg")},
		{ChartID: 301, Path: filepath.Join("assets", "fractureray/base.jpg")},
	}
	if len(entries) != len(want) {
		t.Fatalf("JacketCorpus returned %d entries, want %d: %v", len(entries), len(want), entries)
	}
	for i, w := range want {
		if entries[i] != w {
			t.Errorf("entries[%d] = %+v, want %+v", i, entries[i], w)
		}
	}
}

func TestJacketCorpusPerChartArtOnly(t *testing.T) {
	// When every chart carries its own art, the base jacket is never
	// indexed.
	lib, err := NewLibrary([]*Song{
		{
			ID: 1, Title: "A", Jacket: "a/base.jpg",
			Charts: []*Chart{
				{ID: 11, Difficulty: DifficultyPast, Jacket: "a/pst.jpg"},
				{ID: 12, Difficulty: DifficultyFuture, Jacket: "a/ftr.jpg"},
			},
		},
	})
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}

	entries, err := lib.JacketCorpus(".")
	if err != nil {
		t.Fatalf("JacketCorpus: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("JacketCorpus returned %d entries, want 2: %v", len(entries), entries)
	}
	for _, e := range entries {
		if filepath.Base(e.Path) == "base.jpg" {
			t.Errorf("base jacket indexed despite per-chart art: %+v", e)
		}
	}
}

func TestJacketCorpusMissingArt(t *testing.T) {
	lib, err := NewLibrary([]*Song{
		{ID: 1, Title: "No Art", Charts: []*Chart{{ID: 11, Difficulty: DifficultyPast}}},
	})
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	if _, err := lib.JacketCorpus("."); err == nil {
		t.Error("JacketCorpus succeeded for a song without jacket art")
	}
}
