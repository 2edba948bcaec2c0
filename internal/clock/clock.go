// Package clock maps animation frame indices to simulation time.
package clock

import (
	"fmt"
	"math"

	"github.com/olivier-w/fieldviz/internal/field"
)

// ErrInvalidClock reports a clock that cannot be built from its parameters.
var ErrInvalidClock = fmt.Errorf("%w: clock", field.ErrInvalidConfig)

// Mode selects the time mapping strategy.
type Mode int

const (
	Linear Mode = iota
	Sinusoidal
	Fixed
)

func (m Mode) String() string {
	switch m {
	case Sinusoidal:
		return "sinusoidal"
	case Fixed:
		return "fixed"
	default:
		return "linear"
	}
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{Linear, Sinusoidal, Fixed} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidClock, s)
}

// Clock is a pure mapping from frame index to simulation time. The zero value
// is not usable; build clocks with NewLinear, NewSinusoidal or NewFixed.
type Clock struct {
	mode   Mode
	frames int

	scale     float64 // linear
	amplitude float64 // sinusoidal
	cycles    float64 // sinusoidal, full periods per sequence
	value     float64 // fixed
}

// NewLinear returns a clock with Time(i) = scale·i.
func NewLinear(frames int, scale float64) (Clock, error) {
	c := Clock{mode: Linear, frames: frames, scale: scale}
	return c, c.validate(scale)
}

// NewSinusoidal returns a clock with Time(i) = amplitude·sin(Phase(i)), where
// the phase advances by multiplier full turns over the whole sequence.
func NewSinusoidal(frames int, amplitude, multiplier float64) (Clock, error) {
	c := Clock{mode: Sinusoidal, frames: frames, amplitude: amplitude, cycles: multiplier}
	return c, c.validate(amplitude, multiplier)
}

// NewFixed returns a clock that always reports value.
func NewFixed(frames int, value float64) (Clock, error) {
	c := Clock{mode: Fixed, frames: frames, value: value}
	return c, c.validate(value)
}

func (c Clock) validate(params ...float64) error {
	if c.frames <= 0 {
		return fmt.Errorf("%w: %s clock needs at least one frame, got %d", ErrInvalidClock, c.mode, c.frames)
	}
	for _, p := range params {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("%w: %s clock parameter %v is not finite", ErrInvalidClock, c.mode, p)
		}
	}
	return nil
}

func (c Clock) Mode() Mode  { return c.mode }
func (c Clock) Frames() int { return c.frames }

// Contains reports whether i is a valid frame index.
func (c Clock) Contains(i int) bool {
	return i >= 0 && i < c.frames
}

// Phase returns the oscillation phase of frame i in radians. Only sinusoidal
// clocks have a phase; the others report 0.
func (c Clock) Phase(i int) float64 {
	if c.mode != Sinusoidal || c.frames <= 0 {
		return 0
	}
	return c.cycles * 2 * math.Pi * float64(i) / float64(c.frames)
}

// Time returns the simulation time of frame i. Indices outside [0, Frames)
// are not rejected here; callers check Contains.
func (c Clock) Time(i int) float64 {
	switch c.mode {
	case Sinusoidal:
		return c.amplitude * math.Sin(c.Phase(i))
	case Fixed:
		return c.value
	default:
		return c.scale * float64(i)
	}
}

// Times returns Time for every frame in order.
func (c Clock) Times() []float64 {
	out := make([]float64, max(c.frames, 0))
	for i := range out {
		out[i] = c.Time(i)
	}
	return out
}

func (c Clock) String() string {
	switch c.mode {
	case Sinusoidal:
		return fmt.Sprintf("sinusoidal(amplitude=%g, cycles=%g, frames=%d)", c.amplitude, c.cycles, c.frames)
	case Fixed:
		return fmt.Sprintf("fixed(%g, frames=%d)", c.value, c.frames)
	default:
		return fmt.Sprintf("linear(%g, frames=%d)", c.scale, c.frames)
	}
}
