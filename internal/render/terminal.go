package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/olivier-w/fieldviz/internal/frame"
)

// Style selects how raster pixels become terminal cells.
type Style uint8

const (
	// HalfBlock packs two pixel rows per cell with "▀" and fg/bg colors.
	HalfBlock Style = iota
	// Braille packs a 2×4 dot grid per cell, colored by its brightest dot.
	Braille
	// ASCII maps brightness to characters and never writes escapes.
	ASCII
)

var styleNames = [...]string{"halfblock", "braille", "ascii"}

func (s Style) String() string {
	if int(s) < len(styleNames) {
		return styleNames[s]
	}
	return "unknown"
}

// ParseStyle accepts the names returned by Style.String.
func ParseStyle(s string) (Style, error) {
	for i, n := range styleNames {
		if n == s {
			return Style(i), nil
		}
	}
	return 0, fmt.Errorf("unknown render style %q", s)
}

// Braille dot positions (col, row) -> bit offset.
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

// brailleThreshold is the luminance above which a braille dot is lit.
const brailleThreshold = 40

const (
	springArrow = iota
	springScalar
)

// Terminal renders frame states as terminal art. Arrow and color scales are
// smoothed with a spring so autoscaling does not flicker during playback.
type Terminal struct {
	style   Style
	mode    ColorMode
	raster  *Raster
	springs springField
	sb      strings.Builder
}

// NewTerminal creates a renderer. fps is the expected call rate, used for
// scale smoothing. HalfBlock falls back to ASCII when colors are off.
func NewTerminal(style Style, mode ColorMode, fps int) *Terminal {
	if style == HalfBlock && mode == ColorOff {
		style = ASCII
	}
	return &Terminal{
		style:   style,
		mode:    mode,
		raster:  NewRaster(1, 1),
		springs: newSpringField(fps, 6, 1, 2),
	}
}

// Style returns the effective output style.
func (t *Terminal) Style() Style { return t.style }

// Reset drops the smoothed scales, for example after a seek or scene change.
func (t *Terminal) Reset() { t.springs.reset() }

// PixelSize returns the raster size used for a w×h cell block.
func (t *Terminal) PixelSize(w, h int) (int, int) {
	switch t.style {
	case Braille:
		return w * 2, h * 4
	default:
		return w, h * 2
	}
}

// Render draws st into a block of w×h cells.
func (t *Terminal) Render(st frame.State, w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	opt := Options{ArrowScale: t.springs.step(springArrow, st.MaxArrow())}
	if st.Scalar != nil {
		opt.ScalarScale = t.springs.step(springScalar, st.Scalar.MaxAbs())
	}

	pw, ph := t.PixelSize(w, h)
	t.raster.Resize(pw, ph)
	PaintWith(st, t.raster, opt)

	t.sb.Reset()
	t.sb.Grow(w * h * 24)
	switch t.style {
	case Braille:
		t.renderBraille(w, h)
	case ASCII:
		t.renderASCII(w, h)
	default:
		t.renderHalfBlock(w, h)
	}
	return t.sb.String()
}

// renderHalfBlock uses "▀" with fg = top pixel, bg = bottom pixel.
func (t *Terminal) renderHalfBlock(w, h int) {
	var lastFg, lastBg string
	for row := range h {
		for col := range w {
			fg := fgColorSeq(t.mode, t.raster.At(col, row*2))
			bg := bgColorSeq(t.mode, t.raster.At(col, row*2+1))
			if fg != lastFg {
				t.sb.WriteString(fg)
				lastFg = fg
			}
			if bg != lastBg {
				t.sb.WriteString(bg)
				lastBg = bg
			}
			t.sb.WriteString("▀")
		}
		t.sb.WriteString(ansiReset)
		lastFg, lastBg = "", ""
		if row < h-1 {
			t.sb.WriteByte('\n')
		}
	}
}

func (t *Terminal) renderBraille(w, h int) {
	state := ansiState{mode: t.mode, current: ^uint32(0)}
	for row := range h {
		for col := range w {
			var pattern uint
			var brightest color.RGBA
			var best uint8
			for dx := range 2 {
				for dy := range 4 {
					c := t.raster.At(col*2+dx, row*4+dy)
					lum := luminance(c)
					if lum <= brailleThreshold {
						continue
					}
					pattern |= 1 << brailleBits[dx][dy]
					if lum > best {
						best, brightest = lum, c
					}
				}
			}
			if pattern != 0 {
				state.set(&t.sb, brightest)
			}
			t.sb.WriteRune(rune(0x2800 + pattern))
		}
		state.reset(&t.sb)
		if row < h-1 {
			t.sb.WriteByte('\n')
		}
	}
}

// renderASCII maps the brighter of each cell's two pixels to a character.
func (t *Terminal) renderASCII(w, h int) {
	for row := range h {
		for col := range w {
			lum := max(luminance(t.raster.At(col, row*2)), luminance(t.raster.At(col, row*2+1)))
			t.sb.WriteByte(brightnessChar(lum))
		}
		if row < h-1 {
			t.sb.WriteByte('\n')
		}
	}
}

// ansiState writes a foreground escape only when the color changes.
type ansiState struct {
	mode    ColorMode
	current uint32
}

func (s *ansiState) set(sb *strings.Builder, c color.RGBA) {
	if s.mode == ColorOff {
		return
	}
	key := uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
	if key == s.current {
		return
	}
	sb.WriteString(fgColorSeq(s.mode, c))
	s.current = key
}

func (s *ansiState) reset(sb *strings.Builder) {
	if s.mode == ColorOff || s.current == ^uint32(0) {
		return
	}
	sb.WriteString(ansiReset)
	s.current = ^uint32(0)
}
