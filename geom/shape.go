package geom

import "math"

// Shape is a convex shape or a union of convex shapes.
type Shape interface {
	// Bounds returns the axis-aligned bounding box.
	Bounds() Rect
}

// Circle is a disc with center C and radius R.
type Circle struct {
	C Vec
	R float64
}

// Bounds implements Shape.
func (c Circle) Bounds() Rect {
	return Rect{Min: V(c.C.X-c.R, c.C.Y-c.R), Max: V(c.C.X+c.R, c.C.Y+c.R)}
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	Min, Max Vec
}

// RectXYWH builds a Rect from its top-left corner and size.
func RectXYWH(x, y, w, h float64) Rect {
	return Rect{Min: V(x, y), Max: V(x+w, y+h)}
}

// Bounds implements Shape.
func (r Rect) Bounds() Rect {
	return r
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Center returns the midpoint.
func (r Rect) Center() Vec {
	return V((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}

// Overlaps reports whether two rectangles share at least one point.
func (r Rect) Overlaps(o Rect) bool {
	return r.Min.X <= o.Max.X && o.Min.X <= r.Max.X &&
		r.Min.Y <= o.Max.Y && o.Min.Y <= r.Max.Y
}

// union returns the smallest rectangle containing r and o.
func (r Rect) union(o Rect) Rect {
	return Rect{
		Min: V(math.Min(r.Min.X, o.Min.X), math.Min(r.Min.Y, o.Min.Y)),
		Max: V(math.Max(r.Max.X, o.Max.X), math.Max(r.Max.Y, o.Max.Y)),
	}
}

func (r Rect) box() Box {
	return Box{C: r.Center(), HalfW: r.Width() / 2, HalfH: r.Height() / 2}
}

// Box is a rectangle centered on C with half extents HalfW x HalfH, rotated by
// Angle around its center.
type Box struct {
	C            Vec
	HalfW, HalfH float64
	Angle        Rot
}

// Axes returns the box's local x and y unit axes in world space.
func (b Box) Axes() (Vec, Vec) {
	ax := Unit(b.Angle)
	return ax, V(-ax.Y, ax.X)
}

// Corners returns the four corners in winding order.
func (b Box) Corners() [4]Vec {
	ax, ay := b.Axes()
	u := ax.Scale(b.HalfW)
	v := ay.Scale(b.HalfH)
	return [4]Vec{
		b.C.Sub(u).Sub(v),
		b.C.Add(u).Sub(v),
		b.C.Add(u).Add(v),
		b.C.Sub(u).Add(v),
	}
}

// Bounds implements Shape.
func (b Box) Bounds() Rect {
	ax, ay := b.Axes()
	ex := math.Abs(ax.X)*b.HalfW + math.Abs(ay.X)*b.HalfH
	ey := math.Abs(ax.Y)*b.HalfW + math.Abs(ay.Y)*b.HalfH
	return Rect{Min: V(b.C.X-ex, b.C.Y-ey), Max: V(b.C.X+ex, b.C.Y+ey)}
}

// Union is the union of its parts.
type Union []Shape

// Bounds implements Shape.
func (u Union) Bounds() Rect {
	if len(u) == 0 {
		return Rect{}
	}
	r := u[0].Bounds()
	for _, s := range u[1:] {
		r = r.union(s.Bounds())
	}
	return r
}

// Capsule builds the body of an individual: two circles of the given radius
// halfLength away from center along heading, joined by a box.
func Capsule(center Vec, halfLength, radius float64, heading Rot) Union {
	off := Unit(heading).Scale(halfLength)
	return Union{
		Circle{C: center.Sub(off), R: radius},
		Circle{C: center.Add(off), R: radius},
		Box{C: center, HalfW: halfLength, HalfH: radius, Angle: heading},
	}
}

// Intersects reports whether a and b share at least one point.
func Intersects(a, b Shape) bool {
	if ua, ok := a.(Union); ok {
		for _, s := range ua {
			if Intersects(s, b) {
				return true
			}
		}
		return false
	}
	if ub, ok := b.(Union); ok {
		for _, s := range ub {
			if Intersects(a, s) {
				return true
			}
		}
		return false
	}

	if !a.Bounds().Overlaps(b.Bounds()) {
		return false
	}

	switch sa := a.(type) {
	case Circle:
		switch sb := b.(type) {
		case Circle:
			r := sa.R + sb.R
			return sa.C.Sub(sb.C).SquareLength() <= r*r
		case Rect:
			return circleBox(sa, sb.box())
		case Box:
			return circleBox(sa, sb)
		}
	case Rect:
		switch sb := b.(type) {
		case Circle:
			return circleBox(sb, sa.box())
		case Rect:
			return true // bounds already overlap
		case Box:
			return boxBox(sa.box(), sb)
		}
	case Box:
		switch sb := b.(type) {
		case Circle:
			return circleBox(sb, sa)
		case Rect:
			return boxBox(sa, sb.box())
		case Box:
			return boxBox(sa, sb)
		}
	}
	return false
}

// circleBox clamps the circle center into the box's local frame.
func circleBox(c Circle, b Box) bool {
	local := c.C.Sub(b.C).Rotate(-b.Angle)
	nearest := local.Restrict(-b.HalfW, -b.HalfH, b.HalfW, b.HalfH)
	return local.Sub(nearest).SquareLength() <= c.R*c.R
}

// boxBox is a separating axis test over the four face normals.
func boxBox(a, b Box) bool {
	ca, cb := a.Corners(), b.Corners()
	ax1, ay1 := a.Axes()
	ax2, ay2 := b.Axes()
	for _, axis := range [4]Vec{ax1, ay1, ax2, ay2} {
		minA, maxA := project(ca, axis)
		minB, maxB := project(cb, axis)
		if maxA < minB || maxB < minA {
			return false
		}
	}
	return true
}

func project(pts [4]Vec, axis Vec) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		d := p.Dot(axis)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}
