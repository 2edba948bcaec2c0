// Package field evaluates closed-form electromagnetic fields of single
// sources: Coulomb point charges, infinite straight conductors and ideal
// magnetic dipoles.
package field

import (
	"errors"
	"fmt"
	"math"

	"github.com/olivier-w/fieldviz/internal/geom"
)

// Physical constants in SI units.
const (
	K                = 8.99e9             // Coulomb constant, N·m²/C²
	ElementaryCharge = 1.602e-19          // C
	ElectronCharge   = -ElementaryCharge  // C
	Mu0              = 4 * math.Pi * 1e-7 // vacuum permeability, H/m
)

// Epsilon is the distance below which a sample coincides with its source.
const Epsilon = 1e-10

// MaxMagnitude caps magnitudes that would otherwise overflow.
const MaxMagnitude = math.MaxFloat64

// ErrInvalidConfig is the root of every configuration error in the core.
var ErrInvalidConfig = errors.New("invalid configuration")

// Kind selects the field formula of a Source.
type Kind uint8

const (
	ElectricPoint Kind = iota
	MagneticWire
	MagneticDipole
)

func (k Kind) String() string {
	switch k {
	case ElectricPoint:
		return "electric-point"
	case MagneticWire:
		return "magnetic-wire"
	case MagneticDipole:
		return "magnetic-dipole"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{ElectricPoint, MagneticWire, MagneticDipole} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown field kind %q", ErrInvalidConfig, s)
}

// Source describes one charge or current. Strength is signed: coulombs for
// point charges, amperes for wires, A·m² for dipoles. Axis is the conductor
// direction or the dipole moment direction.
type Source struct {
	Kind     Kind
	Position geom.Point3
	Axis     geom.Vector3
	Strength float64
}

// PointCharge returns a point charge of q coulombs at pos.
func PointCharge(pos geom.Point3, q float64) Source {
	return Source{Kind: ElectricPoint, Position: pos, Axis: geom.UnitZ, Strength: q}
}

// Wire returns an infinite straight conductor through pos along +Z carrying
// current amperes.
func Wire(pos geom.Point3, current float64) Source {
	return Source{Kind: MagneticWire, Position: pos, Axis: geom.UnitZ, Strength: current}
}

// Dipole returns a magnetic dipole of the given moment pointing along axis.
func Dipole(pos geom.Point3, axis geom.Vector3, moment float64) Source {
	return Source{Kind: MagneticDipole, Position: pos, Axis: axis, Strength: moment}
}

// WithPosition returns a copy of s moved to p.
func (s Source) WithPosition(p geom.Point3) Source {
	s.Position = p
	return s
}

// Validate rejects sources that no evaluator can handle.
func (s Source) Validate() error {
	if s.Kind > MagneticDipole {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, s.Kind)
	}
	if math.IsNaN(s.Strength) || math.IsInf(s.Strength, 0) {
		return fmt.Errorf("%w: non-finite source strength", ErrInvalidConfig)
	}
	if !s.Position.Vec().IsFinite() || !s.Axis.IsFinite() {
		return fmt.Errorf("%w: non-finite source geometry", ErrInvalidConfig)
	}
	if s.Kind != ElectricPoint && s.Axis.IsZero() {
		return fmt.Errorf("%w: %s needs an axis", ErrInvalidConfig, s.Kind)
	}
	return nil
}
