package tracer

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fogleman/gg"
	"github.com/fogleman/pt/pt"
	lin "github.com/sgreben/piecewiselinear"
)

// Image is a linear RGB buffer stored row-major, top row first.
type Image struct {
	Width  int
	Height int
	Pix    []pt.Color
}

func NewImage(width, height int) *Image {
	return &Image{Width: width, Height: height, Pix: make([]pt.Color, width*height)}
}

func (im *Image) At(x, y int) pt.Color {
	return im.Pix[y*im.Width+x]
}

func (im *Image) Set(x, y int, c pt.Color) {
	im.Pix[y*im.Width+x] = c
}

func (im *Image) mapPixels(f func(pt.Color) pt.Color) *Image {
	out := NewImage(im.Width, im.Height)
	for i, c := range im.Pix {
		out.Pix[i] = f(c)
	}
	return out
}

// GammaCorrect raises every channel to 1/gamma. A gamma of 1 returns an
// unchanged copy.
func (im *Image) GammaCorrect(gamma float64) *Image {
	if gamma == 1 {
		return im.mapPixels(func(c pt.Color) pt.Color { return c })
	}
	inv := 1 / gamma
	return im.mapPixels(func(c pt.Color) pt.Color {
		return C(math.Pow(c.R, inv), math.Pow(c.G, inv), math.Pow(c.B, inv))
	})
}

// ToneCurve maps linear channel values through a piecewise-linear curve.
type ToneCurve struct {
	f lin.Function
}

// NewToneCurve builds a curve from input -> output control points. Inputs
// outside the control points take the value of the nearest end point.
func NewToneCurve(points map[float64]float64) (ToneCurve, error) {
	if len(points) < 2 {
		return ToneCurve{}, fmt.Errorf("tone curve needs at least 2 points, got %d", len(points))
	}
	xs := make([]float64, 0, len(points))
	for x := range points {
		xs = append(xs, x)
	}
	sort.Float64s(xs)
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = points[x]
	}
	return ToneCurve{f: lin.Function{X: xs, Y: ys}}, nil
}

func (tc ToneCurve) At(x float64) float64 {
	xs := tc.f.X
	if len(xs) == 0 {
		return x
	}
	return tc.f.At(clamp(x, xs[0], xs[len(xs)-1]))
}

func (im *Image) ApplyToneCurve(tc ToneCurve) *Image {
	return im.mapPixels(func(c pt.Color) pt.Color {
		return C(tc.At(c.R), tc.At(c.G), tc.At(c.B))
	})
}

func toByte(v float64) uint8 {
	return uint8(clamp(v*255+0.5, 0, 255))
}

// ToRGBA quantizes the buffer to 8 bits per channel.
func (im *Image) ToRGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, im.Width, im.Height))
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			c := im.At(x, y)
			out.SetRGBA(x, y, color.RGBA{R: toByte(c.R), G: toByte(c.G), B: toByte(c.B), A: 255})
		}
	}
	return out
}

// Float32 returns interleaved RGB channels in buffer order.
func (im *Image) Float32() []float32 {
	out := make([]float32, 0, 3*len(im.Pix))
	for _, c := range im.Pix {
		out = append(out, float32(c.R), float32(c.G), float32(c.B))
	}
	return out
}

// WriteImage saves a render. ".pfm" files hold 32-bit float HDR data and
// skip gamma correction; every other path is gamma corrected, quantized and
// written as PNG.
func WriteImage(path string, im *Image, gamma float64) error {
	if im == nil || len(im.Pix) == 0 {
		return fmt.Errorf("writing %s: no rendered image", path)
	}
	if strings.ToLower(filepath.Ext(path)) == ".pfm" {
		if err := writePFM(path, im); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		return nil
	}
	if err := gg.SavePNG(path, im.GammaCorrect(gamma).ToRGBA()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// writePFM writes a little-endian color Portable Float Map. PFM stores
// rows bottom-up.
func writePFM(path string, im *Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := fmt.Fprintf(w, "PF\n%d %d\n-1.0\n", im.Width, im.Height); err != nil {
		return err
	}
	row := make([]float32, 3*im.Width)
	for y := im.Height - 1; y >= 0; y-- {
		for x := 0; x < im.Width; x++ {
			c := im.At(x, y)
			row[3*x], row[3*x+1], row[3*x+2] = float32(c.R), float32(c.G), float32(c.B)
		}
		if err := binary.Write(w, binary.LittleEndian, row); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}
