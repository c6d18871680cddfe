package imaging

import (
	"image"
	"math"

	"github.com/prescientmoon/shimmeringmoon-sub000/pkg/geometry"
)

// Rotate rotates a rectangular region of an RGBA buffer in place by angle
// radians around center, using three successive shear passes:
//
//	xshear(-tan(angle/2)) -> yshear(sin(angle)) -> xshear(-tan(angle/2))
//
// Pixels are moved, never interpolated, so the output contains aliasing
// artifacts; that is acceptable for the jacket matcher, which tolerates minor
// geometric distortion. Pixels shifted outside the region are dropped and
// vacated pixels are filled with opaque black. Pixels outside the region are
// never touched. The caller must have exclusive access to img for the
// duration of the call.
func Rotate(img *image.RGBA, region geometry.RectInt, center geometry.PointInt, angle float64) {
	clip := region.Intersect(boundsRect(img))
	if clip.Empty() {
		return
	}

	xf := -math.Tan(angle / 2)
	yf := math.Sin(angle)

	xshear(img, clip, center, xf)
	yshear(img, clip, center, yf)
	xshear(img, clip, center, xf)
}

// xshear shifts each row of the region horizontally by an integer offset
// proportional to its distance from the center row. Rows are walked right to
// left when shifting rightward so source pixels are read before they are
// overwritten.
func xshear(img *image.RGBA, region geometry.RectInt, center geometry.PointInt, factor float64) {
	x0 := region.X
	x1 := region.X + region.Width
	for y := region.Y; y < region.Y+region.Height; y++ {
		skew := int(factor * float64(y-center.Y))
		if skew == 0 {
			continue
		}
		if skew > 0 {
			for x := x1 - 1; x >= x0; x-- {
				if dst := x + skew; dst < x1 {
					movePixel(img, dst, y, x, y)
				}
			}
			clearRow(img, x0, min(x0+skew, x1), y)
		} else {
			for x := x0; x < x1; x++ {
				if dst := x + skew; dst >= x0 {
					movePixel(img, dst, y, x, y)
				}
			}
			clearRow(img, max(x1+skew, x0), x1, y)
		}
	}
}

// yshear is the transpose of xshear: columns shift vertically by an offset
// proportional to their distance from the center column.
func yshear(img *image.RGBA, region geometry.RectInt, center geometry.PointInt, factor float64) {
	y0 := region.Y
	y1 := region.Y + region.Height
	for x := region.X; x < region.X+region.Width; x++ {
		skew := int(factor * float64(x-center.X))
		if skew == 0 {
			continue
		}
		if skew > 0 {
			for y := y1 - 1; y >= y0; y-- {
				if dst := y + skew; dst < y1 {
					movePixel(img, x, dst, x, y)
				}
			}
			clearColumn(img, x, y0, min(y0+skew, y1))
		} else {
			for y := y0; y < y1; y++ {
				if dst := y + skew; dst >= y0 {
					movePixel(img, x, dst, x, y)
				}
			}
			clearColumn(img, x, max(y1+skew, y0), y1)
		}
	}
}

func movePixel(img *image.RGBA, dstX, dstY, srcX, srcY int) {
	d := img.PixOffset(dstX, dstY)
	s := img.PixOffset(srcX, srcY)
	copy(img.Pix[d:d+4], img.Pix[s:s+4])
}

// clearRow fills [x0,x1) of row y with opaque black.
func clearRow(img *image.RGBA, x0, x1, y int) {
	for x := x0; x < x1; x++ {
		o := img.PixOffset(x, y)
		img.Pix[o] = 0
		img.Pix[o+1] = 0
		img.Pix[o+2] = 0
		img.Pix[o+3] = 0xff
	}
}

// clearColumn fills [y0,y1) of column x with opaque black.
func clearColumn(img *image.RGBA, x, y0, y1 int) {
	for y := y0; y < y1; y++ {
		o := img.PixOffset(x, y)
		img.Pix[o] = 0
		img.Pix[o+1] = 0
		img.Pix[o+2] = 0
		img.Pix[o+3] = 0xff
	}
}
