// Package export writes rendered terrain to image files.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"terragen/internal/colormap"
	"terragen/internal/profiling"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// Format names a supported raster encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// ErrUnknownFormat is returned for file extensions with no encoder.
var ErrUnknownFormat = errors.New("unknown image format")

// Options tune how a buffer is written.
type Options struct {
	// Upscale repeats every pixel Upscale x Upscale times. Values below 2 keep
	// the native size.
	Upscale int
}

// FormatFromPath picks the encoder from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Save encodes buf to path, choosing the format from the extension.
func Save(path string, buf colormap.RGBBuffer, opts Options) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	return writeFile(path, func(w io.Writer) error {
		return Encode(w, format, Scale(buf.Image(), opts.Upscale))
	})
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, format Format, img image.Image) error {
	defer profiling.Track("export." + string(format))()

	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Scale enlarges img by an integer factor with nearest-neighbour sampling.
func Scale(img image.Image, factor int) image.Image {
	if factor < 2 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// HeightImage stores a normalized field as 16-bit grayscale, 0 black and 1 white.
func HeightImage(n colormap.NormalizedField) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, n.Width, n.Height))
	for y := 0; y < n.Height; y++ {
		for x := 0; x < n.Width; x++ {
			img.SetGray16(x, y, color.Gray16{Y: uint16(n.At(x, y) * 0xffff)})
		}
	}
	return img
}

// SaveHeights writes n as a 16-bit grayscale image.
func SaveHeights(path string, n colormap.NormalizedField) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	return writeFile(path, func(w io.Writer) error {
		return Encode(w, format, HeightImage(n))
	})
}

func writeFile(path string, encode func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if err := encode(f); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
