package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
)

// Recorder turns canvas frames into an animated GIF.
type Recorder struct {
	width, height int
	frames        []*image.Paletted
}

const (
	charW = 8
	charH = 16
)

func NewRecorder(w, h int) *Recorder {
	return &Recorder{width: w, height: h, frames: make([]*image.Paletted, 0)}
}

func (r *Recorder) Len() int { return len(r.frames) }

// Capture rasterizes the lit dots of c in the current theme's layer
// colours. Dots outside the recorder's size are dropped.
func (r *Recorder) Capture(c *Canvas) {
	th := CurrentTheme()
	pal := color.Palette{color.Black}
	for _, l := range []Layer{LayerGrid, LayerTrail, LayerParticle} {
		pal = append(pal, hexRGBA(string(th.Color(l))))
	}

	img := image.NewPaletted(image.Rect(0, 0, r.width*charW, r.height*charH), pal)
	dotW, dotH := charW/2, charH/4
	for y := 0; y < min(r.height, c.Height)*4; y++ {
		for x := 0; x < min(r.width, c.Width)*2; x++ {
			l := c.At(x, y)
			if l == LayerNone {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, uint8(l))
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

// hexRGBA parses "#rrggbb". Anything else comes out white.
func hexRGBA(s string) color.RGBA {
	var c color.RGBA
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	c.A = 0xff
	return c
}

// Save writes the captured frames to path. Nothing is written when no frame
// was captured.
func (r *Recorder) Save(path string) error {
	if len(r.frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}
