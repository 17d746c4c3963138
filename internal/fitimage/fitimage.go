// Package fitimage implements the Image Fitter (spec.md §4.B): resizing a
// decoded still image into an exact output-sized RGBA frame under a fit
// policy, using Lanczos-3 resampling throughout.
package fitimage

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/gift"

	"github.com/papdieo/papdieo/internal/config"
)

// Fit transforms src into an outW x outH RGBA image under mode. The result
// is always exactly outW x outH with fully opaque alpha.
func Fit(src image.Image, outW, outH int, mode config.FitMode) *image.RGBA {
	switch mode {
	case config.FitStretch:
		return resizeExact(src, outW, outH)
	case config.FitCover:
		return fitCover(src, outW, outH)
	default: // FitContain
		return fitContain(src, outW, outH)
	}
}

func resizeExact(src image.Image, w, h int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	gift.New(gift.Resize(w, h, gift.LanczosResampling)).Draw(out, src)
	forceOpaque(out)
	return out
}

// fitContain preserves aspect so neither dimension exceeds the output,
// centres it on an opaque-black canvas.
func fitContain(src image.Image, outW, outH int) *image.RGBA {
	sb := src.Bounds()
	sw, sh := sb.Dx(), sb.Dy()

	rw, rh := containSize(sw, sh, outW, outH)
	resized := image.NewRGBA(image.Rect(0, 0, rw, rh))
	gift.New(gift.Resize(rw, rh, gift.LanczosResampling)).Draw(resized, src)

	canvas := image.NewRGBA(image.Rect(0, 0, outW, outH))
	fillOpaqueBlack(canvas)

	x := (outW - rw) / 2
	if x < 0 {
		x = 0
	}
	y := (outH - rh) / 2
	if y < 0 {
		y = 0
	}
	draw.Draw(canvas, image.Rect(x, y, x+rw, y+rh), resized, image.Point{}, draw.Src)
	forceOpaque(canvas)
	return canvas
}

func containSize(sw, sh, outW, outH int) (int, int) {
	if sw == 0 || sh == 0 {
		return outW, outH
	}
	scale := minFloat(float64(outW)/float64(sw), float64(outH)/float64(sh))
	rw := int(float64(sw)*scale + 0.5)
	rh := int(float64(sh)*scale + 0.5)
	if rw < 1 {
		rw = 1
	}
	if rh < 1 {
		rh = 1
	}
	return rw, rh
}

// fitCover scales to fully cover the output, cropping the centred window.
func fitCover(src image.Image, outW, outH int) *image.RGBA {
	sb := src.Bounds()
	sw, sh := sb.Dx(), sb.Dy()

	scale := 1.0
	if sw > 0 && sh > 0 {
		scale = maxFloat(float64(outW)/float64(sw), float64(outH)/float64(sh))
	}
	rw := ceilClamp(float64(sw)*scale, outW)
	rh := ceilClamp(float64(sh)*scale, outH)

	resized := image.NewRGBA(image.Rect(0, 0, rw, rh))
	gift.New(gift.Resize(rw, rh, gift.LanczosResampling)).Draw(resized, src)

	x := (rw - outW) / 2
	y := (rh - outH) / 2

	out := image.NewRGBA(image.Rect(0, 0, outW, outH))
	draw.Draw(out, out.Bounds(), resized, image.Point{X: x, Y: y}, draw.Src)
	forceOpaque(out)
	return out
}

func ceilClamp(v float64, min int) int {
	n := int(v)
	if float64(n) < v {
		n++
	}
	if n < min {
		n = min
	}
	return n
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func forceOpaque(img *image.RGBA) {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
}

func fillOpaqueBlack(img *image.RGBA) {
	black := color.RGBA{R: 0, G: 0, B: 0, A: 255}
	draw.Draw(img, img.Bounds(), &image.Uniform{C: black}, image.Point{}, draw.Src)
}
