package tracer

import (
	"image"
	"math"
	"sync"
	"sync/atomic"

	"github.com/fogleman/gg"
	"github.com/fogleman/pt/pt"
)

// Texture supplies a color for a surface point. Implementations are
// *SolidTexture and *ImageTexture.
type Texture interface {
	Value(uv UV, p pt.Vector) pt.Color
	ID() NodeID

	texture()
}

// SolidTexture returns Color⊙Gain+Bias everywhere.
type SolidTexture struct {
	node
	Color pt.Color
	Gain  pt.Color
	Bias  pt.Color
}

func (a *Arena) NewSolidTexture(color pt.Color) *SolidTexture {
	return &SolidTexture{
		node:  a.newNode("SolidTexture", ""),
		Color: color,
		Gain:  C(1, 1, 1),
	}
}

func (t *SolidTexture) texture() {}

func (t *SolidTexture) Value(UV, pt.Vector) pt.Color {
	return t.Color.Mul(t.Gain).Add(t.Bias)
}

// ImageTexture samples an image file with bilinear filtering. The file is
// decoded on first use, and again after the path changes.
type ImageTexture struct {
	node
	Gain pt.Color
	Bias pt.Color

	mu          sync.Mutex
	path        string
	flipX       bool
	flipY       bool
	img         image.Image
	needsReload atomic.Bool
	warnOnce    sync.Once
}

func (a *Arena) NewImageTexture(path string, flipX, flipY bool) *ImageTexture {
	t := &ImageTexture{
		node: a.newNode("ImageTexture", ""),
		Gain: C(1, 1, 1),
	}
	t.SetImagePath(path, flipX, flipY)
	return t
}

func (t *ImageTexture) texture() {}

// SetImagePath changes the image file. It is decoded lazily.
func (t *ImageTexture) SetImagePath(path string, flipX, flipY bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.path = path
	t.flipX = flipX
	t.flipY = flipY
	t.needsReload.Store(true)
}

func (t *ImageTexture) ImagePath() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.path
}

func (t *ImageTexture) loadIfNeeded() image.Image {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.needsReload.Load() {
		t.img = nil
		img, err := gg.LoadImage(t.path)
		if err != nil {
			logger.Errorf("ImageTexture: failed to read image %s: %v", t.path, err)
		} else {
			b := img.Bounds()
			logger.Infof("ImageTexture: read image %s (%dx%d)", t.path, b.Dx(), b.Dy())
			t.img = img
		}
		t.needsReload.Store(false)
	}
	return t.img
}

// Value returns Gain⊙texel+Bias at uv, which is clamped to [0, 1]. An image
// that failed to load, or is smaller than 2x2, yields Bias.
func (t *ImageTexture) Value(uv UV, _ pt.Vector) pt.Color {
	var img image.Image
	if t.needsReload.Load() {
		img = t.loadIfNeeded()
	} else {
		t.mu.Lock()
		img = t.img
		t.mu.Unlock()
	}
	if img == nil || img.Bounds().Dx() < 2 || img.Bounds().Dy() < 2 {
		t.warnOnce.Do(func() {
			logger.Warningf("ImageTexture: bad image dimensions (%s)", t.path)
		})
		return t.Bias
	}

	b := img.Bounds()
	u := clamp(uv.U, 0, 1)
	v := clamp(uv.V, 0, 1)
	x := u * float64(b.Dx()-1)
	y := v * float64(b.Dy()-1)
	if t.flipX {
		x = float64(b.Dx()-1) - x
	}
	if t.flipY {
		y = float64(b.Dy()-1) - y
	}
	return bilinear(img, x, y).Mul(t.Gain).Add(t.Bias)
}

// bilinear interpolates the four texels around (x, y), relative to the
// image origin.
func bilinear(img image.Image, x, y float64) pt.Color {
	b := img.Bounds()
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	x1 := min(x0+1, b.Dx()-1)
	y1 := min(y0+1, b.Dy()-1)
	fx := x - float64(x0)
	fy := y - float64(y0)

	at := func(px, py int) pt.Color {
		r, g, bl, _ := img.At(b.Min.X+px, b.Min.Y+py).RGBA()
		return C(float64(r)/0xffff, float64(g)/0xffff, float64(bl)/0xffff)
	}
	top := at(x0, y0).MulScalar(1 - fx).Add(at(x1, y0).MulScalar(fx))
	bottom := at(x0, y1).MulScalar(1 - fx).Add(at(x1, y1).MulScalar(fx))
	return top.MulScalar(1 - fy).Add(bottom.MulScalar(fy))
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
