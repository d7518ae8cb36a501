package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aipop/geom"
)

// HandleInput applies pressed command keys and camera controls.
func (g *Game) HandleInput() {
	for _, cmd := range g.keymap.Poll(isKeyPressed) {
		g.Apply(cmd)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.handleResize()
	g.handleCameraInput()
	g.handleSelection()
}

func isKeyPressed(key int32) bool {
	return rl.IsKeyPressed(key)
}

// handleResize propagates window size changes to the camera.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	g.camera.Resize(float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()))
	g.inspector.Resize(int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()))
}

// handleSelection selects the individual under a left click and closes the
// inspector on a right click or its close button.
func (g *Game) handleSelection() {
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		g.inspector.Deselect()
		return
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}

	mouse := rl.GetMousePosition()
	if g.inspector.CloseButtonContains(mouse.X, mouse.Y) {
		g.inspector.Deselect()
		return
	}
	if g.inspector.PanelContains(mouse.X, mouse.Y) || g.hud.Contains(mouse.X, mouse.Y) {
		return
	}
	at := g.camera.ScreenToWorld(geom.V(float64(mouse.X), float64(mouse.Y)))
	g.inspector.Select(g.world.Individuals().All(), at)
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	// Pan speed in screen pixels, so it feels the same at every zoom
	const panSpeed = 8.0

	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 + float64(wheel)*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}
