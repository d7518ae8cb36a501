// Package camera maps the bounded arena onto the window with pan and zoom.
package camera

import "github.com/pthm-cable/aipop/geom"

// Camera controls the viewport into the arena.
type Camera struct {
	// Center of the view in arena coordinates
	Center geom.Vec

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float64

	ViewportW, ViewportH float64
	ArenaW, ArenaH       float64

	MinZoom, MaxZoom float64
}

// New creates a camera showing the whole arena, at 1:1 if it fits.
func New(viewportW, viewportH, arenaW, arenaH float64) *Camera {
	c := &Camera{
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		ArenaW:    arenaW,
		ArenaH:    arenaH,
		MaxZoom:   4.0,
	}
	c.MinZoom = c.fitZoom()
	c.Reset()
	return c
}

// fitZoom is the zoom at which the whole arena just fits the viewport.
func (c *Camera) fitZoom() float64 {
	return min(c.ViewportW/c.ArenaW, c.ViewportH/c.ArenaH, 1.0)
}

// WorldToScreen converts arena coordinates to screen coordinates.
func (c *Camera) WorldToScreen(p geom.Vec) geom.Vec {
	return geom.V(
		c.ViewportW/2+(p.X-c.Center.X)*c.Zoom,
		c.ViewportH/2+(p.Y-c.Center.Y)*c.Zoom,
	)
}

// ScreenToWorld converts screen coordinates to arena coordinates.
func (c *Camera) ScreenToWorld(s geom.Vec) geom.Vec {
	return geom.V(
		c.Center.X+(s.X-c.ViewportW/2)/c.Zoom,
		c.Center.Y+(s.Y-c.ViewportH/2)/c.Zoom,
	)
}

// IsVisible reports whether anything inside bounds could be on screen.
func (c *Camera) IsVisible(bounds geom.Rect) bool {
	return c.VisibleWorldBounds().Overlaps(bounds)
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float64) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = c.fitZoom()
	c.SetZoom(c.Zoom)
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float64) {
	c.Center = c.Center.Add(geom.V(dx/c.Zoom, dy/c.Zoom))
	c.clampCenter()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = max(c.MinZoom, min(zoom, c.MaxZoom))
	c.clampCenter()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

// Reset shows the whole arena again.
func (c *Camera) Reset() {
	c.Center = geom.V(c.ArenaW/2, c.ArenaH/2)
	c.SetZoom(c.fitZoom())
}

// VisibleWorldBounds returns the arena-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() geom.Rect {
	w := c.ViewportW / c.Zoom
	h := c.ViewportH / c.Zoom
	return geom.RectXYWH(c.Center.X-w/2, c.Center.Y-h/2, w, h)
}

// clampCenter keeps the view inside the arena. An axis on which the view is
// larger than the arena is centered instead.
func (c *Camera) clampCenter() {
	c.Center.X = clampAxis(c.Center.X, c.ViewportW/(2*c.Zoom), c.ArenaW)
	c.Center.Y = clampAxis(c.Center.Y, c.ViewportH/(2*c.Zoom), c.ArenaH)
}

func clampAxis(center, half, size float64) float64 {
	if 2*half >= size {
		return size / 2
	}
	return max(half, min(center, size-half))
}
