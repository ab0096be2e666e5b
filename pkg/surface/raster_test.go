package surface

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"
)

func TestRasterFillsDisc(t *testing.T) {
	r := NewRaster(40, 40)
	r.SetFillColor(color.NRGBA{255, 0, 0, 255})
	r.BeginPath()
	r.Arc(20, 20, 10, 0, 2*math.Pi, true)
	r.ClosePath()
	r.Fill()

	img := r.Image()
	if got := rgba(img, 20, 20); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("centre pixel = %v, want opaque red", got)
	}
	if got := rgba(img, 20, 33); got.A != 0 {
		t.Errorf("pixel outside the disc = %v, want transparent", got)
	}
}

func TestRasterClipAndImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range src.Pix {
		src.Pix[i] = 0xff
	}

	r := NewRaster(40, 40)
	r.Save()
	r.BeginPath()
	r.Arc(20, 20, 5, 0, 2*math.Pi, true)
	r.ClosePath()
	r.Clip()
	r.DrawImage(src, 0, 0, 40, 40)
	r.Restore()

	img := r.Image()
	if got := rgba(img, 20, 20); got.A == 0 {
		t.Error("image not drawn inside the clip disc")
	}
	if got := rgba(img, 2, 2); got.A != 0 {
		t.Errorf("pixel outside the clip disc = %v, want transparent", got)
	}
}

func TestRasterEncodePNG(t *testing.T) {
	r := NewRaster(8, 6)
	r.Clear(color.White)

	var buf bytes.Buffer
	if err := r.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG() error: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Errorf("bounds = %v, want 8x6", b)
	}
}

func rgba(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func TestRasterRestoreDropsClip(t *testing.T) {
	r := NewRaster(40, 40)
	r.Save()
	r.BeginPath()
	r.Arc(20, 20, 5, 0, 2*math.Pi, true)
	r.ClosePath()
	r.Clip()
	r.Restore()

	r.SetFillColor(color.NRGBA{0, 0, 255, 255})
	r.BeginPath()
	r.MoveTo(0, 0)
	r.LineTo(40, 0)
	r.LineTo(40, 40)
	r.LineTo(0, 40)
	r.ClosePath()
	r.Fill()

	if got := rgba(r.Image(), 2, 2); got != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("pixel outside the restored clip = %v, want opaque blue", got)
	}
}

func TestRasterNestedClips(t *testing.T) {
	r := NewRaster(40, 40)
	r.Save()
	r.BeginPath()
	r.MoveTo(0, 0)
	r.LineTo(20, 0)
	r.LineTo(20, 40)
	r.LineTo(0, 40)
	r.ClosePath()
	r.Clip()

	r.Save()
	r.BeginPath()
	r.MoveTo(0, 0)
	r.LineTo(40, 0)
	r.LineTo(40, 20)
	r.LineTo(0, 20)
	r.ClosePath()
	r.Clip()
	r.Restore()

	r.Clear(color.Transparent)
	r.SetFillColor(color.NRGBA{0, 255, 0, 255})
	r.BeginPath()
	r.MoveTo(0, 0)
	r.LineTo(40, 0)
	r.LineTo(40, 40)
	r.LineTo(0, 40)
	r.ClosePath()
	r.Fill()
	r.Restore()

	img := r.Image()
	if got := rgba(img, 10, 30); got.A == 0 {
		t.Error("outer clip should still admit the lower left quarter")
	}
	if got := rgba(img, 30, 10); got.A != 0 {
		t.Errorf("pixel right of the outer clip = %v, want transparent", got)
	}
}
