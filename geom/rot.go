package geom

import "math"

// TwoPi is a full turn in radians.
const TwoPi = 2 * math.Pi

// Rot is an angle in radians.
//
// Add and Sub wrap into [0, 2π). The wrap count is not tracked, so callers that
// need an unwrapped angle must count turns themselves.
type Rot float64

// NewRot returns r wrapped into [0, 2π).
func NewRot(radians float64) Rot {
	return Rot(wrap(radians))
}

// NormRot maps a value in [0, 1) onto [0, 2π).
func NormRot(v float64) Rot {
	return NewRot(v * TwoPi)
}

// Radians returns the raw value.
func (r Rot) Radians() float64 {
	return float64(r)
}

// Add returns r + o wrapped into [0, 2π).
func (r Rot) Add(o Rot) Rot {
	return NewRot(float64(r) + float64(o))
}

// Sub returns r - o wrapped into [0, 2π).
func (r Rot) Sub(o Rot) Rot {
	return NewRot(float64(r) - float64(o))
}

// Scale multiplies the angle without wrapping.
func (r Rot) Scale(f float64) Rot {
	return Rot(float64(r) * f)
}

// Normalized returns the angle as a fraction of a full turn in [0, 1).
func (r Rot) Normalized() float64 {
	return wrap(float64(r)) / TwoPi
}

// wrap is a non-negative modulo by 2π.
func wrap(a float64) float64 {
	a = math.Mod(a, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	// -tiny + 2π rounds to exactly 2π in float64
	if a >= TwoPi {
		a = 0
	}
	return a
}
