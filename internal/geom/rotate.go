package geom

import "math"

// Rotate turns v by angle radians about axis (right-hand rule).
// A zero axis leaves v unchanged.
func Rotate(v, axis Vector3, angle float64) Vector3 {
	k := axis.Unit()
	if k.IsZero() {
		return v
	}
	s, c := math.Sincos(angle)
	// Rodrigues: v cosθ + (k×v) sinθ + k (k·v)(1-cosθ)
	return v.Scale(c).Add(k.Cross(v).Scale(s)).Add(k.Scale(k.Dot(v) * (1 - c)))
}

// AlignZ maps a vector expressed in a local frame whose +Z is the world +Z
// onto the frame whose +Z is axis.
func AlignZ(v, axis Vector3) Vector3 {
	a := axis.Unit()
	if a.IsZero() {
		return v
	}
	cos := UnitZ.Dot(a)
	switch {
	case cos > 1-1e-12:
		return v
	case cos < -1+1e-12:
		return Vector3{v.X, -v.Y, -v.Z}
	}
	return Rotate(v, UnitZ.Cross(a), math.Acos(cos))
}
