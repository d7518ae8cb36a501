// Package geom provides immutable 2D vector and angle math plus the convex
// shapes used for collision and rendering.
package geom

import "math"

// Vec is an immutable 2D vector.
type Vec struct {
	X, Y float64
}

// Zero is the zero vector.
var Zero = Vec{}

// V is shorthand for Vec{X: x, Y: y}.
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// Unit returns the unit vector pointing at angle r.
func Unit(r Rot) Vec {
	return Vec{X: math.Cos(float64(r)), Y: math.Sin(float64(r))}
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v multiplied by f.
func (v Vec) Scale(f float64) Vec {
	return Vec{X: v.X * f, Y: v.Y * f}
}

// Dot returns the dot product of v and o.
func (v Vec) Dot(o Vec) float64 {
	return v.X*o.X + v.Y*o.Y
}

// SquareLength returns the squared euclidean length.
func (v Vec) SquareLength() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Length returns the euclidean length.
func (v Vec) Length() float64 {
	return math.Sqrt(v.SquareLength())
}

// Angle returns the direction of v.
func (v Vec) Angle() Rot {
	return NewRot(math.Atan2(v.Y, v.X))
}

// Restrict clamps both components into the given box.
func (v Vec) Restrict(minX, minY, maxX, maxY float64) Vec {
	return Vec{
		X: math.Min(maxX, math.Max(minX, v.X)),
		Y: math.Min(maxY, math.Max(minY, v.Y)),
	}
}

// Rotate returns v rotated by r around the origin.
func (v Vec) Rotate(r Rot) Vec {
	sin, cos := math.Sincos(float64(r))
	return Vec{X: v.X*cos - v.Y*sin, Y: v.X*sin + v.Y*cos}
}

// IsNaN reports whether either component is NaN.
func (v Vec) IsNaN() bool {
	return math.IsNaN(v.X) || math.IsNaN(v.Y)
}
