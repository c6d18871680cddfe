package ocr

import (
	"image"
	"sort"

	"github.com/prescientmoon/shimmeringmoon-sub000/pkg/geometry"
)

// backgroundValue is the intensity assigned to non-ink pixels after
// binarization.
const backgroundValue = 255

// binaryImage is a thresholded grayscale buffer. Pixels at or above the
// threshold are forced to the background value; foreground pixels keep
// their original intensity so antialiased glyph edges still contribute
// partial ink to feature cells. The buffer is owned by the extraction step
// and never aliases the source image.
type binaryImage struct {
	width  int
	height int
	pix    []uint8
}

func binarize(img *image.Gray, threshold uint8) *binaryImage {
	b := img.Bounds()
	bin := &binaryImage{
		width:  b.Dx(),
		height: b.Dy(),
		pix:    make([]uint8, b.Dx()*b.Dy()),
	}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y) : img.PixOffset(b.Min.X, y)+bin.width]
		for _, v := range row {
			if v >= threshold {
				bin.pix[i] = backgroundValue
			} else {
				bin.pix[i] = v
			}
			i++
		}
	}
	return bin
}

func (b *binaryImage) at(x, y int) uint8 {
	return b.pix[y*b.width+x]
}

// componentMap holds the 8-connected foreground regions of a binarized
// image: a label per pixel (0 = background), per-component bounds, and the
// surviving component ids in reading order.
type componentMap struct {
	img    *binaryImage
	labels []int
	// bounds is indexed by component id minus one; nil marks a component
	// discarded by the size filter.
	bounds []*geometry.RectInt
	// order lists surviving component ids sorted by ascending bounding-box
	// x-minimum. Reading order for glyph sequences.
	order []int
}

// extractComponents binarizes a grayscale image and labels its 8-connected
// foreground regions. Components whose bounding box reaches maxWidthFrac of
// the image width or maxHeightFrac of the image height are discarded; this
// filters scanlines and borders misread as glyphs. A fraction of 1 or more
// disables the limit for that axis. Zero surviving components is a valid
// result, not an error.
func extractComponents(img *image.Gray, threshold uint8, maxWidthFrac, maxHeightFrac float64) *componentMap {
	bin := binarize(img, threshold)
	m := &componentMap{
		img:    bin,
		labels: make([]int, bin.width*bin.height),
	}

	for y := 0; y < bin.height; y++ {
		for x := 0; x < bin.width; x++ {
			idx := y*bin.width + x
			if bin.pix[idx] == backgroundValue || m.labels[idx] != 0 {
				continue
			}
			id := len(m.bounds) + 1
			r := m.fill(x, y, id)
			m.bounds = append(m.bounds, &r)
		}
	}

	// Size filter.
	for i, r := range m.bounds {
		if r == nil {
			continue
		}
		tooWide := maxWidthFrac < 1 && float64(r.Width) >= maxWidthFrac*float64(bin.width)
		tooTall := maxHeightFrac < 1 && float64(r.Height) >= maxHeightFrac*float64(bin.height)
		if tooWide || tooTall {
			m.bounds[i] = nil
		}
	}

	for i, r := range m.bounds {
		if r != nil {
			m.order = append(m.order, i+1)
		}
	}
	sort.SliceStable(m.order, func(i, j int) bool {
		return m.bounds[m.order[i]-1].X < m.bounds[m.order[j]-1].X
	})

	return m
}

// fill labels the component containing (x, y) with id using a stack-based
// flood fill over all 8 neighbors, and returns its bounding box.
func (m *componentMap) fill(x, y, id int) geometry.RectInt {
	bin := m.img
	minX, minY := x, y
	maxX, maxY := x, y

	stack := []geometry.PointInt{{X: x, Y: y}}
	m.labels[y*bin.width+x] = id

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := p.X+dx, p.Y+dy
				if nx < 0 || nx >= bin.width || ny < 0 || ny >= bin.height {
					continue
				}
				idx := ny*bin.width + nx
				if bin.pix[idx] == backgroundValue || m.labels[idx] != 0 {
					continue
				}
				m.labels[idx] = id
				stack = append(stack, geometry.PointInt{X: nx, Y: ny})
			}
		}
	}

	return geometry.NewRectInt(minX, minY, maxX-minX+1, maxY-minY+1)
}

// survivorCount returns the number of components that passed the size filter.
func (m *componentMap) survivorCount() int {
	return len(m.order)
}

// maxSurvivorHeight returns the tallest surviving component's height, or 0
// when nothing survived.
func (m *componentMap) maxSurvivorHeight() int {
	h := 0
	for _, id := range m.order {
		if b := m.bounds[id-1]; b.Height > h {
			h = b.Height
		}
	}
	return h
}
