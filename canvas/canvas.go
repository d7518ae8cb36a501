// Package canvas defines the drawing surface entities render onto.
package canvas

import (
	"fmt"
	"image/color"

	"github.com/pthm-cable/aipop/geom"
)

// Surface is a 2D drawing target in arena coordinates.
type Surface interface {
	FillCircle(c geom.Circle, col color.RGBA)
	StrokeCircle(c geom.Circle, thickness float64, col color.RGBA)
	FillBox(b geom.Box, col color.RGBA)
	Line(from, to geom.Vec, thickness float64, col color.RGBA)
	// Text draws s centered on at.
	Text(s string, at geom.Vec, size float64, col color.RGBA)
}

// FillShape fills every convex part of s.
func FillShape(dst Surface, s geom.Shape, col color.RGBA) {
	switch v := s.(type) {
	case geom.Union:
		for _, p := range v {
			FillShape(dst, p, col)
		}
	case geom.Circle:
		dst.FillCircle(v, col)
	case geom.Box:
		dst.FillBox(v, col)
	case geom.Rect:
		dst.FillBox(geom.Box{C: v.Center(), HalfW: v.Width() / 2, HalfH: v.Height() / 2}, col)
	}
}

// StrokeCapsule outlines a capsule built by geom.Capsule.
func StrokeCapsule(dst Surface, u geom.Union, thickness float64, col color.RGBA) {
	for _, p := range u {
		switch v := p.(type) {
		case geom.Circle:
			dst.StrokeCircle(v, thickness, col)
		case geom.Box:
			c := v.Corners()
			dst.Line(c[0], c[1], thickness, col)
			dst.Line(c[2], c[3], thickness, col)
		}
	}
}

// Op is one recorded draw call.
type Op struct {
	Kind  string
	Shape geom.Shape
	Text  string
	Color color.RGBA
}

func (o Op) String() string {
	if o.Text != "" {
		return fmt.Sprintf("%s(%q)", o.Kind, o.Text)
	}
	return fmt.Sprintf("%s(%v)", o.Kind, o.Shape)
}

// Recorder is a Surface that records draw calls.
type Recorder struct {
	Ops []Op
}

func (r *Recorder) FillCircle(c geom.Circle, col color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: "fill_circle", Shape: c, Color: col})
}

func (r *Recorder) StrokeCircle(c geom.Circle, _ float64, col color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: "stroke_circle", Shape: c, Color: col})
}

func (r *Recorder) FillBox(b geom.Box, col color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: "fill_box", Shape: b, Color: col})
}

func (r *Recorder) Line(from, to geom.Vec, _ float64, col color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: "line", Shape: geom.Rect{Min: from, Max: to}, Color: col})
}

func (r *Recorder) Text(s string, at geom.Vec, _ float64, col color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: "text", Shape: geom.Circle{C: at}, Text: s, Color: col})
}

// Count returns the number of recorded ops of the given kind.
func (r *Recorder) Count(kind string) int {
	n := 0
	for _, o := range r.Ops {
		if o.Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops all recorded ops.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}
