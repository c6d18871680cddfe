package ocr

import (
	"image"
	"testing"
)

// makeGray builds a white grayscale image and paints the given rectangles
// black.
func makeGray(t *testing.T, w, h int, blobs ...image.Rectangle) *image.Gray {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	for _, b := range blobs {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				img.Pix[img.PixOffset(x, y)] = 0
			}
		}
	}
	return img
}

func TestExtractComponentsCount(t *testing.T) {
	tests := []struct {
		name  string
		blobs []image.Rectangle
		want  int
	}{
		{
			name:  "single blob",
			blobs: []image.Rectangle{image.Rect(10, 10, 20, 20)},
			want:  1,
		},
		{
			name: "three separated blobs",
			blobs: []image.Rectangle{
				image.Rect(5, 5, 12, 12),
				image.Rect(30, 8, 38, 18),
				image.Rect(60, 20, 70, 30),
			},
			want: 3,
		},
		{
			name:  "empty image",
			blobs: nil,
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := makeGray(t, 100, 50, tt.blobs...)
			m := extractComponents(img, 100, 0.9, 1.0)
			if got := m.survivorCount(); got != tt.want {
				t.Errorf("survivorCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExtractComponentsEightConnectivity(t *testing.T) {
	// Two pixels touching only diagonally belong to one component.
	img := makeGray(t, 10, 10)
	img.Pix[img.PixOffset(4, 4)] = 0
	img.Pix[img.PixOffset(5, 5)] = 0

	m := extractComponents(img, 100, 1, 1)
	if got := m.survivorCount(); got != 1 {
		t.Fatalf("survivorCount() = %d, want 1 (diagonal pixels must connect)", got)
	}
	b := m.bounds[m.order[0]-1]
	if b.Width != 2 || b.Height != 2 {
		t.Errorf("bounds = %dx%d, want 2x2", b.Width, b.Height)
	}
}

func TestExtractComponentsSizeFilter(t *testing.T) {
	// A near-full-width bar plus a small glyph-sized blob.
	bar := image.Rect(0, 2, 95, 6)
	blob := image.Rect(40, 20, 48, 30)
	img := makeGray(t, 100, 40, bar, blob)

	m := extractComponents(img, 100, 0.9, 1.0)
	if got := m.survivorCount(); got != 1 {
		t.Fatalf("survivorCount() = %d, want 1 (bar spans >=90%% of width)", got)
	}
	b := m.bounds[m.order[0]-1]
	if b.X != 40 || b.Y != 20 {
		t.Errorf("surviving bounds at (%d,%d), want (40,20)", b.X, b.Y)
	}
}

func TestExtractComponentsFullHeightAllowed(t *testing.T) {
	// Height fraction 1.0 disables the height limit, so a full-height
	// column survives while a 90%-width bar does not.
	column := image.Rect(10, 0, 16, 40)
	img := makeGray(t, 100, 40, column)

	m := extractComponents(img, 100, 0.9, 1.0)
	if got := m.survivorCount(); got != 1 {
		t.Errorf("survivorCount() = %d, want 1 (full-height component allowed)", got)
	}
}

func TestExtractComponentsOrderedByX(t *testing.T) {
	img := makeGray(t, 120, 40,
		image.Rect(80, 5, 90, 15),
		image.Rect(10, 20, 20, 30),
		image.Rect(45, 8, 55, 18),
	)

	m := extractComponents(img, 100, 0.9, 1.0)
	if m.survivorCount() != 3 {
		t.Fatalf("survivorCount() = %d, want 3", m.survivorCount())
	}

	want := []int{10, 45, 80}
	for i, id := range m.order {
		if got := m.bounds[id-1].X; got != want[i] {
			t.Errorf("order[%d] has x-min %d, want %d", i, got, want[i])
		}
	}
}

func TestBinarizeKeepsForegroundIntensity(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 1))
	img.Pix[0] = 50  // ink, keeps its value
	img.Pix[1] = 99  // ink, just under the cutoff
	img.Pix[2] = 150 // background

	bin := binarize(img, 100)
	if bin.at(0, 0) != 50 {
		t.Errorf("foreground pixel = %d, want 50", bin.at(0, 0))
	}
	if bin.at(1, 0) != 99 {
		t.Errorf("foreground pixel = %d, want 99", bin.at(1, 0))
	}
	if bin.at(2, 0) != backgroundValue {
		t.Errorf("background pixel = %d, want %d", bin.at(2, 0), backgroundValue)
	}
}
