package fitimage

import (
	"image"
	"image/color"
	"testing"

	"github.com/papdieo/papdieo/internal/config"
)

func solidImage(w, h int, c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestFitStretchExactDimensions(t *testing.T) {
	src := solidImage(100, 50, color.RGBA{R: 200, G: 100, B: 50, A: 255})
	out := Fit(src, 40, 40, config.FitStretch)
	if out.Bounds().Dx() != 40 || out.Bounds().Dy() != 40 {
		t.Fatalf("got %dx%d, want 40x40", out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestFitAlwaysOpaque(t *testing.T) {
	src := solidImage(20, 20, color.RGBA{R: 10, G: 10, B: 10, A: 0})
	for _, mode := range []config.FitMode{config.FitStretch, config.FitContain, config.FitCover} {
		out := Fit(src, 30, 15, mode)
		for i := 3; i < len(out.Pix); i += 4 {
			if out.Pix[i] != 255 {
				t.Fatalf("mode %v: pixel alpha at byte %d = %d, want 255", mode, i, out.Pix[i])
			}
		}
	}
}

func TestFitContainLettersWithOpaqueBlack(t *testing.T) {
	// A 100x10 source into a 10x10 output must letterbox vertically; the top
	// row should be the opaque-black border, not image content.
	src := solidImage(100, 10, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	out := fitContain(src, 10, 10)

	if out.Bounds().Dx() != 10 || out.Bounds().Dy() != 10 {
		t.Fatalf("got %dx%d, want 10x10", out.Bounds().Dx(), out.Bounds().Dy())
	}

	corner := out.RGBAAt(0, 0)
	if corner.R != 0 || corner.G != 0 || corner.B != 0 || corner.A != 255 {
		t.Fatalf("border pixel = %+v, want opaque black", corner)
	}
}

func TestFitCoverFillsOutputWithNoBorder(t *testing.T) {
	src := solidImage(100, 10, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	out := fitCover(src, 10, 10)

	if out.Bounds().Dx() != 10 || out.Bounds().Dy() != 10 {
		t.Fatalf("got %dx%d, want 10x10", out.Bounds().Dx(), out.Bounds().Dy())
	}
	// Cover never introduces a border; every pixel should retain the red channel.
	center := out.RGBAAt(5, 5)
	if center.R == 0 {
		t.Fatalf("center pixel = %+v, want some red retained from source", center)
	}
}

func TestContainSizePreservesAspect(t *testing.T) {
	rw, rh := containSize(200, 100, 50, 50)
	if rw != 50 || rh != 25 {
		t.Fatalf("containSize(200,100,50,50) = (%d,%d), want (50,25)", rw, rh)
	}
}
