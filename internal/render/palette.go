package render

import (
	"fmt"
	"image/color"
	"os"
	"runtime"
	"strings"
	"sync"
)

// ASCII brightness ramp from darkest to brightest.
const asciiRamp = " .:-=+*#%@"

// ColorMode describes how colors are written to the terminal.
type ColorMode uint8

const (
	ColorOff     ColorMode = iota // NO_COLOR or dumb terminal
	ColorANSI16                   // basic 16-color
	ColorANSI256                  // 256-color
	ColorTrue                     // 24-bit truecolor
)

func (m ColorMode) String() string {
	switch m {
	case ColorANSI16:
		return "ansi16"
	case ColorANSI256:
		return "ansi256"
	case ColorTrue:
		return "truecolor"
	default:
		return "off"
	}
}

var (
	detectOnce sync.Once
	termColor  ColorMode
	seqCache   sync.Map
)

// DetectColorMode checks terminal capabilities once.
func DetectColorMode() ColorMode {
	detectOnce.Do(func() {
		termColor = colorModeFromEnv(os.LookupEnv)
	})
	return termColor
}

func colorModeFromEnv(lookup func(string) (string, bool)) ColorMode {
	if _, ok := lookup("NO_COLOR"); ok {
		return ColorOff
	}
	termRaw, _ := lookup("TERM")
	ctRaw, _ := lookup("COLORTERM")
	term := strings.ToLower(termRaw)
	ct := strings.ToLower(ctRaw)
	switch {
	case strings.Contains(ct, "truecolor"), strings.Contains(ct, "24bit"):
		return ColorTrue
	case strings.Contains(term, "256color"):
		return ColorANSI256
	case term == "dumb":
		return ColorOff
	case term == "" && runtime.GOOS == "windows":
		return ColorANSI16
	case term == "":
		return ColorOff
	default:
		return ColorANSI16
	}
}

// brightnessChar maps a 0-255 luminance to an ASCII character.
func brightnessChar(lum uint8) byte {
	idx := int(lum) * (len(asciiRamp) - 1) / 255
	return asciiRamp[idx]
}

// luminance computes perceived brightness (ITU-R BT.601).
func luminance(c color.RGBA) uint8 {
	return uint8((299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000)
}

const ansiReset = "\x1b[0m"

// fgColorSeq returns an ANSI foreground escape for c, or "" if colors are off.
func fgColorSeq(mode ColorMode, c color.RGBA) string {
	return colorSeq(mode, c, false)
}

// bgColorSeq returns an ANSI background escape for c.
func bgColorSeq(mode ColorMode, c color.RGBA) string {
	return colorSeq(mode, c, true)
}

func colorSeq(mode ColorMode, c color.RGBA, bg bool) string {
	key := uint32(mode)<<25 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
	if bg {
		key |= 1 << 24
	}
	if seq, ok := seqCache.Load(key); ok {
		return seq.(string)
	}

	layer := 38
	if bg {
		layer = 48
	}
	var seq string
	switch mode {
	case ColorTrue:
		seq = fmt.Sprintf("\x1b[%d;2;%d;%d;%dm", layer, c.R, c.G, c.B)
	case ColorANSI256:
		ri := int(c.R) * 5 / 255
		gi := int(c.G) * 5 / 255
		bi := int(c.B) * 5 / 255
		seq = fmt.Sprintf("\x1b[%d;5;%dm", layer, 16+36*ri+6*gi+bi)
	case ColorANSI16:
		seq = ansi16Approx(c, bg)
	}
	seqCache.Store(key, seq)
	return seq
}

// ansi16Approx maps c to the nearest ANSI 16 color.
func ansi16Approx(c color.RGBA, bg bool) string {
	best := 0
	bestDist := 1<<31 - 1
	for i, p := range ansi16Palette {
		dr := int(c.R) - int(p[0])
		dg := int(c.G) - int(p[1])
		db := int(c.B) - int(p[2])
		d := dr*dr + dg*dg + db*db
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	base := 30
	if bg {
		base = 40
	}
	if best < 8 {
		return fmt.Sprintf("\x1b[%dm", base+best)
	}
	return fmt.Sprintf("\x1b[%dm", base+60+best-8)
}

var ansi16Palette = [16][3]uint8{
	{0, 0, 0},       // black
	{205, 49, 49},   // red
	{13, 188, 121},  // green
	{229, 229, 16},  // yellow
	{36, 114, 200},  // blue
	{188, 63, 188},  // magenta
	{17, 168, 205},  // cyan
	{229, 229, 229}, // white
	{102, 102, 102}, // bright black
	{241, 76, 76},   // bright red
	{35, 209, 139},  // bright green
	{245, 245, 67},  // bright yellow
	{59, 142, 234},  // bright blue
	{214, 112, 214}, // bright magenta
	{41, 184, 219},  // bright cyan
	{255, 255, 255}, // bright white
}
