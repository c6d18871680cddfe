// Package imaging provides pixel-level helpers for the recognition pipeline:
// grayscale conversion, region cropping, and in-place shear rotation.
package imaging

import (
	"image"
	"image/color"
)

// Luminance converts 16-bit RGB channel values (as returned by
// color.Color.RGBA) to an 8-bit BT.601 luma value. Same coefficients as the
// standard library's color.GrayModel.
func Luminance(r, g, b uint32) uint8 {
	return uint8((19595*r + 38470*g + 7471*b + 1<<15) >> 24)
}

// ToGray converts an image to 8-bit grayscale. The result may alias the
// input when it is already an *image.Gray.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}

	bounds := img.Bounds()
	gray := image.NewGray(bounds)

	switch src := img.(type) {
	case *image.RGBA:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			so := src.PixOffset(bounds.Min.X, y)
			do := gray.PixOffset(bounds.Min.X, y)
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				// 0x101 widens 8-bit channels to the 16-bit range RGBA()
				// reports, keeping both conversion paths bit-identical.
				r := uint32(src.Pix[so]) * 0x101
				g := uint32(src.Pix[so+1]) * 0x101
				b := uint32(src.Pix[so+2]) * 0x101
				gray.Pix[do] = Luminance(r, g, b)
				so += 4
				do++
			}
		}
	default:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				r, g, b, _ := img.At(x, y).RGBA()
				gray.SetGray(x, y, color.Gray{Y: Luminance(r, g, b)})
			}
		}
	}

	return gray
}
