package export

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"terragen/internal/colormap"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func testBuffer() colormap.RGBBuffer {
	return colormap.Colorize(colormap.NormalizedField{
		Width:  3,
		Height: 2,
		Values: []float64{0, 0.1, 0.3, 0.6, 0.85, 1},
	})
}

func TestFormatFromPath(t *testing.T) {
	cases := map[string]Format{
		"terrain.png": FormatPNG,
		"OUT.PNG":     FormatPNG,
		"a/b/map.bmp": FormatBMP,
		"height.tif":  FormatTIFF,
		"height.tiff": FormatTIFF,
	}
	for path, want := range cases {
		got, err := FormatFromPath(path)
		if err != nil || got != want {
			t.Errorf("FormatFromPath(%q) = %q, %v; expected %q", path, got, err, want)
		}
	}
	if _, err := FormatFromPath("terrain.gif"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat for .gif, got %v", err)
	}
}

// TestSaveRoundTrip verifies each format decodes back to the same pixels
func TestSaveRoundTrip(t *testing.T) {
	buf := testBuffer()
	dir := t.TempDir()

	decoders := map[string]func(*os.File) (image.Image, error){
		"out.png": func(f *os.File) (image.Image, error) { return png.Decode(f) },
		"out.bmp": func(f *os.File) (image.Image, error) { return bmp.Decode(f) },
		"out.tif": func(f *os.File) (image.Image, error) { return tiff.Decode(f) },
	}
	for name, decode := range decoders {
		path := filepath.Join(dir, name)
		if err := Save(path, buf, Options{}); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		img, err := decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", name, err)
		}
		assertPixels(t, name, img, buf, 1)
	}
}

// TestSaveUpscale verifies nearest-neighbour enlargement
func TestSaveUpscale(t *testing.T) {
	buf := testBuffer()
	path := filepath.Join(t.TempDir(), "big.png")
	if err := Save(path, buf, Options{Upscale: 4}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 12 || img.Bounds().Dy() != 8 {
		t.Fatalf("expected 12x8, got %v", img.Bounds())
	}
	assertPixels(t, "big.png", img, buf, 4)
}

func TestSaveUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jpg")
	if err := Save(path, testBuffer(), Options{}); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("no file should be created for an unknown format")
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	var b bytes.Buffer
	if err := Encode(&b, Format("gif"), image.NewRGBA(image.Rect(0, 0, 1, 1))); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

// TestSaveHeights verifies the grayscale export spans the full 16-bit range
func TestSaveHeights(t *testing.T) {
	n := colormap.NormalizedField{Width: 3, Height: 1, Values: []float64{0, 0.5, 1}}
	path := filepath.Join(t.TempDir(), "heights.png")
	if err := SaveHeights(path, n); err != nil {
		t.Fatalf("SaveHeights: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []uint32{0, 0x7fff, 0xffff}
	for x, w := range want {
		r, _, _, _ := img.At(x, 0).RGBA()
		if r != w {
			t.Errorf("pixel %d = %#x, expected %#x", x, r, w)
		}
	}
}

func assertPixels(t *testing.T, name string, img image.Image, buf colormap.RGBBuffer, factor int) {
	t.Helper()
	b := img.Bounds()
	for y := 0; y < buf.Height*factor; y++ {
		for x := 0; x < buf.Width*factor; x++ {
			want := buf.At(x/factor, y/factor)
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(bl>>8) != want.B {
				t.Errorf("%s pixel (%d,%d) = %d,%d,%d, expected %v", name, x, y, r>>8, g>>8, bl>>8, want)
			}
		}
	}
}
