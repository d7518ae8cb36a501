package camera

import (
	"math"
	"testing"

	"github.com/pthm-cable/aipop/geom"
)

func near(a, b geom.Vec) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestNew(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	if cam.Center != geom.V(1280, 720) {
		t.Errorf("got center %v, want (1280, 720)", cam.Center)
	}
	if cam.Zoom != 0.5 {
		t.Errorf("got zoom %v, want 0.5 so the arena fits", cam.Zoom)
	}
	if cam.MinZoom != 0.5 {
		t.Errorf("got min zoom %v, want 0.5", cam.MinZoom)
	}
}

func TestNewExactFit(t *testing.T) {
	cam := New(1280, 800, 1280, 800)
	if cam.Zoom != 1 {
		t.Errorf("got zoom %v, want 1", cam.Zoom)
	}
	if !near(cam.WorldToScreen(geom.V(0, 0)), geom.V(0, 0)) {
		t.Errorf("arena corner should map to screen corner, got %v", cam.WorldToScreen(geom.V(0, 0)))
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	if got := cam.WorldToScreen(geom.V(1280, 720)); !near(got, geom.V(640, 360)) {
		t.Errorf("got %v, want screen center (640, 360)", got)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(1.7)

	for _, s := range []geom.Vec{geom.V(640, 360), geom.V(100, 100), geom.V(1200, 600)} {
		if got := cam.WorldToScreen(cam.ScreenToWorld(s)); !near(got, s) {
			t.Errorf("roundtrip failed: %v -> %v", s, got)
		}
	}
}

func TestPanStaysInsideArena(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(1)

	cam.Pan(-5000, -5000)
	if cam.Center != geom.V(640, 360) {
		t.Errorf("got center %v, want (640, 360)", cam.Center)
	}
	cam.Pan(10000, 10000)
	if cam.Center != geom.V(1920, 1080) {
		t.Errorf("got center %v, want (1920, 1080)", cam.Center)
	}

	b := cam.VisibleWorldBounds()
	if b.Max.X != 2560 || b.Max.Y != 1440 {
		t.Errorf("view should end at the arena edge, got %v", b)
	}
}

func TestZoomedOutViewIsCentered(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(0.5)
	cam.Pan(300, 300)

	if cam.Center != geom.V(1280, 720) {
		t.Errorf("got center %v, want arena center", cam.Center)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	tests := []struct {
		name string
		zoom float64
		want float64
	}{
		{"below min", 0.1, 0.5},
		{"above max", 10, 4},
		{"in range", 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam.SetZoom(tt.zoom)
			if cam.Zoom != tt.want {
				t.Errorf("got %v, want %v", cam.Zoom, tt.want)
			}
		})
	}

	cam.SetZoom(1)
	cam.ZoomBy(2)
	if cam.Zoom != 2 {
		t.Errorf("ZoomBy: got %v, want 2", cam.Zoom)
	}
}

func TestResize(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(0.5)

	cam.Resize(2560, 1440)
	if cam.MinZoom != 1 || cam.Zoom != 1 {
		t.Errorf("got min %v zoom %v, want 1 and 1", cam.MinZoom, cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(2) // view is 640x360 around (1280, 720)

	tests := []struct {
		name string
		c    geom.Circle
		want bool
	}{
		{"center", geom.Circle{C: geom.V(1280, 720), R: 5}, true},
		{"far away", geom.Circle{C: geom.V(100, 100), R: 5}, false},
		{"overlapping edge", geom.Circle{C: geom.V(955, 720), R: 10}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cam.IsVisible(tt.c.Bounds()); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(3)
	cam.Pan(400, 200)

	cam.Reset()
	if cam.Zoom != 0.5 || cam.Center != geom.V(1280, 720) {
		t.Errorf("got zoom %v center %v", cam.Zoom, cam.Center)
	}
}
