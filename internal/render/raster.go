// Package render draws frame states into RGB rasters and turns rasters into
// terminal art or images.
package render

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/blur"
)

// Raster is an RGB canvas with lighten blending for lines.
type Raster struct {
	img *image.RGBA
}

// NewRaster creates a w×h raster filled with the background color.
func NewRaster(w, h int) *Raster {
	r := &Raster{img: image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))}
	r.Clear(Background)
	return r
}

func (r *Raster) Width() int  { return r.img.Rect.Dx() }
func (r *Raster) Height() int { return r.img.Rect.Dy() }

// Image returns the backing image. It is shared with the raster.
func (r *Raster) Image() *image.RGBA { return r.img }

// Resize reallocates the raster when the size changed and clears it.
func (r *Raster) Resize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	if r.Width() != w || r.Height() != h {
		r.img = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	r.Clear(Background)
}

// Clear fills the raster with c.
func (r *Raster) Clear(c color.RGBA) {
	pix := r.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, 255
	}
}

// At returns the color at (x, y), or the background outside the raster.
func (r *Raster) At(x, y int) color.RGBA {
	if !(image.Point{X: x, Y: y}.In(r.img.Rect)) {
		return Background
	}
	return r.img.RGBAAt(x, y)
}

// Set overwrites one pixel. Points outside the raster are ignored.
func (r *Raster) Set(x, y int, c color.RGBA) {
	if !(image.Point{X: x, Y: y}.In(r.img.Rect)) {
		return
	}
	r.img.SetRGBA(x, y, c)
}

// Plot keeps the brighter channel of the existing pixel and c.
func (r *Raster) Plot(x, y int, c color.RGBA) {
	if !(image.Point{X: x, Y: y}.In(r.img.Rect)) {
		return
	}
	cur := r.img.RGBAAt(x, y)
	r.img.SetRGBA(x, y, color.RGBA{R: max(cur.R, c.R), G: max(cur.G, c.G), B: max(cur.B, c.B), A: 255})
}

// Line draws a Bresenham line between two pixels.
func (r *Raster) Line(x0, y0, x1, y1 int, c color.RGBA) {
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy

	for {
		r.Plot(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Disc fills a circle of radius rad pixels around (cx, cy).
func (r *Raster) Disc(cx, cy, rad int, c color.RGBA) {
	for y := -rad; y <= rad; y++ {
		for x := -rad; x <= rad; x++ {
			if x*x+y*y <= rad*rad {
				r.Set(cx+x, cy+y, c)
			}
		}
	}
}

// Glow adds a blurred copy of the raster on top of itself.
func (r *Raster) Glow(radius, strength float64) {
	if radius <= 0 || strength <= 0 {
		return
	}
	blurred := blur.Gaussian(r.img, radius)
	pix, glow := r.img.Pix, blurred.Pix
	for i := 0; i < len(pix); i += 4 {
		for c := range 3 {
			v := float64(pix[i+c]) + strength*float64(glow[i+c])
			if v > 255 {
				v = 255
			}
			pix[i+c] = uint8(v)
		}
	}
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
