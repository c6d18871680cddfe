package jacket

import (
	"bytes"
	"encoding/gob"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

func mustDescribe(t *testing.T, img image.Image) []float64 {
	t.Helper()
	vec, err := Describe(img)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	return vec
}

var (
	red   = color.RGBA{R: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
)

// testIndex builds an index over solid red/green/blue entries with ids
// 1, 2, 3.
func testIndex(t *testing.T, rank int) *Index {
	t.Helper()
	entries := []Entry{
		{ID: 1, Descriptor: mustDescribe(t, solidImage(100, 100, red))},
		{ID: 2, Descriptor: mustDescribe(t, solidImage(100, 100, green))},
		{ID: 3, Descriptor: mustDescribe(t, solidImage(100, 100, blue))},
	}
	idx, err := Build(entries, rank)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return idx
}

func TestDescribeSolidColor(t *testing.T) {
	vec := mustDescribe(t, solidImage(120, 90, red))
	if len(vec) != VecDim {
		t.Fatalf("len(vec) = %d, want %d", len(vec), VecDim)
	}

	cells := SplitFactor * SplitFactor
	for i, v := range vec {
		want := 0.0
		if i < cells { // red channel block comes first
			want = 255.0
		}
		if math.Abs(v-want) > 1.0 {
			t.Fatalf("vec[%d] = %v, want about %v", i, v, want)
		}
	}
}

func TestDescribeIgnoresSourceResolution(t *testing.T) {
	small := mustDescribe(t, solidImage(24, 32, green))
	large := mustDescribe(t, solidImage(640, 480, green))
	for i := range small {
		if math.Abs(small[i]-large[i]) > 1.0 {
			t.Fatalf("vec[%d] differs across resolutions: %v vs %v", i, small[i], large[i])
		}
	}
}

func TestDescribeEmptyImage(t *testing.T) {
	_, err := Describe(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	if !errors.Is(err, ErrEmptyImage) {
		t.Errorf("Describe error = %v, want ErrEmptyImage", err)
	}
}

func TestNearestFindsExactCopy(t *testing.T) {
	idx := testIndex(t, DefaultRank)
	if idx.Rank() != 3 {
		t.Fatalf("Rank() = %d, want 3 (clamped to corpus size)", idx.Rank())
	}

	// The query image has a different resolution than the corpus entry.
	tests := []struct {
		name string
		c    color.RGBA
		want int
	}{
		{"red", red, 1},
		{"green", green, 2},
		{"blue", blue, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := idx.Nearest(mustDescribe(t, solidImage(256, 256, tt.c)))
			if !ok {
				t.Fatal("Nearest reported no match")
			}
			if m.ID != tt.want {
				t.Errorf("Nearest id = %d, want %d", m.ID, tt.want)
			}
			if m.Distance > 1.0 {
				t.Errorf("Nearest distance = %v, want about 0", m.Distance)
			}
		})
	}
}

func TestNearestDistanceRejectsForeignImage(t *testing.T) {
	// A single-color index queried with a very different image still
	// answers, but at a distance far beyond the acceptance cutoff.
	idx, err := Build([]Entry{
		{ID: 7, Descriptor: mustDescribe(t, solidImage(64, 64, red))},
	}, DefaultRank)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	m, ok := idx.Nearest(mustDescribe(t, solidImage(64, 64, blue)))
	if !ok {
		t.Fatal("Nearest reported no match")
	}
	if m.ID != 7 {
		t.Errorf("Nearest id = %d, want 7", m.ID)
	}
	if m.Distance <= DefaultMaxDistance {
		t.Errorf("Distance = %v, want above the %d cutoff", m.Distance, DefaultMaxDistance)
	}
}

func TestIdentify(t *testing.T) {
	idx := testIndex(t, DefaultRank)

	m, ok, err := idx.Identify(solidImage(320, 320, blue))
	if err != nil {
		t.Fatalf("Identify: %v", err)
	}
	if !ok {
		t.Fatal("Identify reported no match")
	}
	if m.ID != 3 {
		t.Errorf("Identify id = %d, want 3", m.ID)
	}
	if m.Distance > 1.0 {
		t.Errorf("Identify distance = %v, want about 0", m.Distance)
	}

	if _, _, err := idx.Identify(image.NewRGBA(image.Rect(0, 0, 0, 0))); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("Identify on empty image = %v, want ErrEmptyImage", err)
	}

	if _, ok, err := new(Index).Identify(solidImage(32, 32, blue)); ok || err != nil {
		t.Errorf("Identify on empty index = (%v, %v), want no match and no error", ok, err)
	}
}

func TestBuildWithoutProjection(t *testing.T) {
	idx := testIndex(t, 0)
	if idx.Rank() != 0 {
		t.Fatalf("Rank() = %d, want 0", idx.Rank())
	}

	m, ok := idx.Nearest(mustDescribe(t, solidImage(100, 100, blue)))
	if !ok || m.ID != 3 {
		t.Errorf("Nearest = (%+v, %v), want id 3", m, ok)
	}
	if m.Distance > 1.0 {
		t.Errorf("Nearest distance = %v, want about 0", m.Distance)
	}
}

func TestBuildEmptyCorpus(t *testing.T) {
	idx, err := Build(nil, DefaultRank)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if idx.Len() != 0 {
		t.Errorf("Len() = %d, want 0", idx.Len())
	}
	if _, ok := idx.Nearest(make([]float64, VecDim)); ok {
		t.Error("Nearest on empty index reported a match")
	}
}

func TestBuildRejectsShortDescriptor(t *testing.T) {
	_, err := Build([]Entry{{ID: 1, Descriptor: []float64{1, 2, 3}}}, DefaultRank)
	if err == nil {
		t.Error("Build accepted a short descriptor")
	}
}

func TestIndexGobRoundTrip(t *testing.T) {
	idx := testIndex(t, 2)
	query := mustDescribe(t, solidImage(100, 100, green))
	want, ok := idx.Nearest(query)
	if !ok {
		t.Fatal("Nearest reported no match")
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(idx); err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded := new(Index)
	if err := gob.NewDecoder(&buf).Decode(decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if decoded.Len() != idx.Len() || decoded.Rank() != idx.Rank() {
		t.Fatalf("decoded index is %d entries rank %d, want %d rank %d",
			decoded.Len(), decoded.Rank(), idx.Len(), idx.Rank())
	}
	got, ok := decoded.Nearest(query)
	if !ok {
		t.Fatal("decoded Nearest reported no match")
	}
	if got.ID != want.ID || math.Abs(got.Distance-want.Distance) > 1e-9 {
		t.Errorf("decoded Nearest = %+v, want %+v", got, want)
	}
}

func TestEmptyIndexGobRoundTrip(t *testing.T) {
	idx, err := Build(nil, DefaultRank)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(idx); err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded := new(Index)
	if err := gob.NewDecoder(&buf).Decode(decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Len() != 0 {
		t.Errorf("decoded Len() = %d, want 0", decoded.Len())
	}
}
