package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aipop/camera"
	"github.com/pthm-cable/aipop/geom"
)

// Camera2D converts cam to the raylib equivalent.
func Camera2D(cam *camera.Camera) rl.Camera2D {
	return rl.Camera2D{
		Offset: rl.Vector2{X: float32(cam.ViewportW / 2), Y: float32(cam.ViewportH / 2)},
		Target: vec2(cam.Center),
		Zoom:   float32(cam.Zoom),
	}
}

func vec2(v geom.Vec) rl.Vector2 {
	return rl.Vector2{X: float32(v.X), Y: float32(v.Y)}
}

// boxRect expresses b as the rectangle, pivot and rotation in degrees that
// rl.DrawRectanglePro expects. The pivot is the box center.
func boxRect(b geom.Box) (rl.Rectangle, rl.Vector2, float32) {
	rec := rl.Rectangle{
		X:      float32(b.C.X),
		Y:      float32(b.C.Y),
		Width:  float32(2 * b.HalfW),
		Height: float32(2 * b.HalfH),
	}
	origin := rl.Vector2{X: float32(b.HalfW), Y: float32(b.HalfH)}
	return rec, origin, float32(float64(b.Angle) * 180 / math.Pi)
}

// textOrigin is the top-left corner that centers text of size dim on at.
func textOrigin(at geom.Vec, dim rl.Vector2) rl.Vector2 {
	return rl.Vector2{X: float32(at.X) - dim.X/2, Y: float32(at.Y) - dim.Y/2}
}
