package renderer

import (
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aipop/camera"
	"github.com/pthm-cable/aipop/geom"
)

func TestCamera2D(t *testing.T) {
	cam := camera.New(1280, 800, 1280, 800)
	got := Camera2D(cam)

	want := rl.Camera2D{
		Offset: rl.Vector2{X: 640, Y: 400},
		Target: rl.Vector2{X: 640, Y: 400},
		Zoom:   1,
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestBoxRect(t *testing.T) {
	b := geom.Box{C: geom.V(100, 50), HalfW: 10, HalfH: 4, Angle: math.Pi / 2}
	rec, origin, deg := boxRect(b)

	if rec != (rl.Rectangle{X: 100, Y: 50, Width: 20, Height: 8}) {
		t.Errorf("rect: got %+v", rec)
	}
	if origin != (rl.Vector2{X: 10, Y: 4}) {
		t.Errorf("origin: got %+v", origin)
	}
	if math.Abs(float64(deg)-90) > 1e-4 {
		t.Errorf("rotation: got %v, want 90", deg)
	}
}

func TestTextOrigin(t *testing.T) {
	got := textOrigin(geom.V(100, 100), rl.Vector2{X: 40, Y: 16})
	if got != (rl.Vector2{X: 80, Y: 92}) {
		t.Errorf("got %+v, want (80, 92)", got)
	}
}
