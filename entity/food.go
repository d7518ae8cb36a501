package entity

import (
	"github.com/pthm-cable/aipop/canvas"
	"github.com/pthm-cable/aipop/geom"
)

// foodColor is dark gray.
var foodColor = Color{V: 64.0 / 255}

// Food is a passive disc that grants energy when touched.
type Food struct {
	Body
	radius float64
}

// NewFood creates food at pos.
func NewFood(pos geom.Vec, radius float64) *Food {
	return &Food{Body: Body{pos: pos, color: foodColor}, radius: radius}
}

// Radius returns the disc radius.
func (f *Food) Radius() float64 { return f.radius }

// Shape implements Entity.
func (f *Food) Shape() geom.Shape {
	return f.cachedShape(func() geom.Shape {
		return geom.Circle{C: f.pos, R: f.radius}
	})
}

// Draw implements Entity.
func (f *Food) Draw(dst canvas.Surface, _ DrawOptions) {
	dst.FillCircle(geom.Circle{C: f.pos, R: f.radius}, f.color.RGBA())
}
