package render

import (
	"image/color"
	"math"

	"github.com/olivier-w/fieldviz/internal/field"
	"github.com/olivier-w/fieldviz/internal/frame"
)

var (
	Background = color.RGBA{R: 8, G: 10, B: 18, A: 255}

	componentColors = map[frame.ArrowRole]color.RGBA{
		frame.ComponentX: {R: 235, G: 80, B: 70, A: 255},
		frame.ComponentY: {R: 70, G: 210, B: 110, A: 255},
		frame.ComponentZ: {R: 80, G: 140, B: 245, A: 255},
		frame.SpinArrow:  {R: 255, G: 255, B: 255, A: 255},
		frame.TickArrow:  {R: 255, G: 170, B: 60, A: 255},
	}

	circleColors = map[frame.CircleRole]color.RGBA{
		frame.FrontCircle: {R: 255, G: 230, B: 92, A: 255},
		frame.RingCircle:  {R: 90, G: 96, B: 120, A: 255},
		frame.LoopCircle:  {R: 60, G: 110, B: 200, A: 255},
		frame.ShellCircle: {R: 90, G: 60, B: 120, A: 255},
	}

	segmentColor = color.RGBA{R: 140, G: 140, B: 150, A: 255}
	probeColor   = color.RGBA{R: 240, G: 240, B: 240, A: 255}
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lerpColor(a, b color.RGBA, t float64) color.RGBA {
	t = clamp01(t)
	return color.RGBA{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: 255,
	}
}

func rgbFromHSV(h, s, v float64) color.RGBA {
	h = math.Mod(h, 1)
	if h < 0 {
		h += 1
	}
	s = clamp01(s)
	v = clamp01(v)

	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return color.RGBA{R: uint8(r * 255), G: uint8(g * 255), B: uint8(b * 255), A: 255}
}

// heatColor maps [0, 1] from deep blue through cyan, green and yellow to red.
func heatColor(t float64) color.RGBA {
	t = clamp01(t)
	switch {
	case t < 0.25:
		return lerpColor(color.RGBA{R: 16, G: 25, B: 70}, color.RGBA{R: 0, G: 174, B: 255}, t/0.25)
	case t < 0.5:
		return lerpColor(color.RGBA{R: 0, G: 174, B: 255}, color.RGBA{R: 20, G: 255, B: 161}, (t-0.25)/0.25)
	case t < 0.75:
		return lerpColor(color.RGBA{R: 20, G: 255, B: 161}, color.RGBA{R: 255, G: 230, B: 92}, (t-0.5)/0.25)
	default:
		return lerpColor(color.RGBA{R: 255, G: 230, B: 92}, color.RGBA{R: 255, G: 80, B: 60}, (t-0.75)/0.25)
	}
}

// divergingColor maps [-1, 1] to blue, background, red.
func divergingColor(t float64) color.RGBA {
	if t < 0 {
		return lerpColor(Background, color.RGBA{R: 60, G: 120, B: 255}, math.Sqrt(-t))
	}
	return lerpColor(Background, color.RGBA{R: 255, G: 90, B: 60}, math.Sqrt(t))
}

// groupColor gives each field line group its own hue.
func groupColor(group int) color.RGBA {
	return rgbFromHSV(0.55+float64(group)*0.137, 0.55, 1)
}

func markerColor(m frame.Marker) color.RGBA {
	if m.Probe {
		return probeColor
	}
	switch m.Kind {
	case field.ElectricPoint:
		if m.Strength < 0 {
			return color.RGBA{R: 80, G: 150, B: 255, A: 255}
		}
		return color.RGBA{R: 255, G: 80, B: 70, A: 255}
	case field.MagneticWire:
		return color.RGBA{R: 255, G: 170, B: 60, A: 255}
	default:
		return color.RGBA{R: 200, G: 110, B: 255, A: 255}
	}
}
