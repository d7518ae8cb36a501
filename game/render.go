package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aipop/camera"
	"github.com/pthm-cable/aipop/inspector"
	"github.com/pthm-cable/aipop/renderer"
	"github.com/pthm-cable/aipop/ui"
)

const hudWidth = 230

// InitWindow sets up rendering state (must be called after raylib window is
// created).
func (g *Game) InitWindow() {
	g.mu.Lock()
	defer g.mu.Unlock()

	sw, sh := float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight())
	g.camera = camera.New(sw, sh, g.world.Width(), g.world.Height())
	g.surface = renderer.NewSurface(g.cfg.Render.FontPath, int(g.cfg.Render.FontSize))
	g.surface.Init()
	g.keymap = ui.NewKeymap()
	g.hud = ui.NewHUD(g.keymap, 10, 10, hudWidth)
	g.inspector = inspector.NewInspector(int32(sw), int32(sh), g.cfg.Driver.TicksPerSecond, g.cfg.Individual.MaxEnergy)
}

// Draw renders one frame. Commands from HUD clicks are applied after the
// frame is complete.
func (g *Game) Draw() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.perf.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.White)

	g.surface.Begin(g.camera)
	g.world.Draw(g.surface, g.show.generation)
	selected := g.inspector.Selected(g.world.Individuals().All())
	g.drawOverlays(g.surface)
	inspector.DrawSelectionHighlight(g.surface, selected)
	g.surface.End()

	cmds := g.hud.Draw(g.hudData())
	g.hud.DrawControls(int32(rl.GetScreenHeight()))
	g.inspector.Draw(selected)

	rl.EndDrawing()

	for _, cmd := range cmds {
		g.apply(cmd)
	}
}

func (g *Game) hudData() ui.HUDData {
	st := g.world.Status()
	return ui.HUDData{
		Tick:          st.Tick,
		Population:    st.Population,
		MinPopulation: g.world.MinPopulation(),
		MaxPopulation: g.world.MaxPopulation(),
		Food:          st.Food,
		MaxGeneration: st.MaxGeneration,
		TicksPerSec:   g.perf.Stats().TicksPerSecond,
		FPS:           rl.GetFPS(),
		Enabled:       g.enabled(),
	}
}

// enabled reports the state of every toggle command.
func (g *Game) enabled() map[ui.Command]bool {
	return map[ui.Command]bool{
		ui.TogglePause:         g.paused,
		ui.ToggleFastForward:   g.fastForward,
		ui.ToggleBest:          g.show.best,
		ui.ToggleOldest:        g.show.oldest,
		ui.ToggleGeneration:    g.show.generation,
		ui.ToggleMaxGeneration: g.show.maxGeneration,
	}
}

// Unload frees window resources.
func (g *Game) Unload() {
	if g.surface != nil {
		g.surface.Unload()
	}
}
