package imaging

import (
	"image"
	"image/draw"

	"github.com/prescientmoon/shimmeringmoon-sub000/pkg/geometry"
)

// boundsRect converts an image's bounds to a RectInt.
func boundsRect(img image.Image) geometry.RectInt {
	b := img.Bounds()
	return geometry.NewRectInt(b.Min.X, b.Min.Y, b.Dx(), b.Dy())
}

// CropRGBA copies a rectangular region of an image into a fresh RGBA buffer
// with origin (0,0). The region is clamped to the source bounds; a region
// entirely outside the source yields a zero-sized image. The result never
// aliases the source, so callers may mutate it freely.
func CropRGBA(img image.Image, region geometry.RectInt) *image.RGBA {
	clip := region.Intersect(boundsRect(img))
	out := image.NewRGBA(image.Rect(0, 0, clip.Width, clip.Height))
	if clip.Empty() {
		return out
	}
	draw.Draw(out, out.Bounds(), img, image.Pt(clip.X, clip.Y), draw.Src)
	return out
}

// CropGray copies a rectangular region of a grayscale image into a fresh
// buffer with origin (0,0), clamped like CropRGBA.
func CropGray(img *image.Gray, region geometry.RectInt) *image.Gray {
	clip := region.Intersect(boundsRect(img))
	out := image.NewGray(image.Rect(0, 0, clip.Width, clip.Height))
	if clip.Empty() {
		return out
	}
	for y := 0; y < clip.Height; y++ {
		so := img.PixOffset(clip.X, clip.Y+y)
		do := out.PixOffset(0, y)
		copy(out.Pix[do:do+clip.Width], img.Pix[so:so+clip.Width])
	}
	return out
}
