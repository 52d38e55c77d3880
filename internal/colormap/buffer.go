package colormap

import (
	"image"
	"image/color"
)

// RGBBuffer is a packed height x width x 3 byte raster.
type RGBBuffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewRGBBuffer allocates a black buffer.
func NewRGBBuffer(width, height int) RGBBuffer {
	width = max(width, 0)
	height = max(height, 0)
	return RGBBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

// At returns the color at column x, row y.
func (b RGBBuffer) At(x, y int) RGB {
	i := (y*b.Width + x) * 3
	return RGB{b.Pix[i], b.Pix[i+1], b.Pix[i+2]}
}

// Image copies the buffer into an opaque *image.RGBA for encoders and textures.
func (b RGBBuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			c := b.At(x, y)
			img.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
	return img
}
