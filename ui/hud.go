package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds everything the HUD shows.
type HUDData struct {
	Tick          int64
	Population    int
	MinPopulation int
	MaxPopulation int
	Food          int
	MaxGeneration int64
	TicksPerSec   float64
	FPS           int32

	// Toggle state, keyed by command
	Enabled map[Command]bool
}

// HUD draws run status and a checkbox per keymap binding.
type HUD struct {
	theme  Theme
	keymap *Keymap
	x, y   int32
	width  int32
}

// NewHUD creates a HUD panel at (x, y) listing keymap's bindings.
func NewHUD(keymap *Keymap, x, y, width int32) *HUD {
	return &HUD{
		theme:  DefaultTheme(),
		keymap: keymap,
		x:      x,
		y:      y,
		width:  width,
	}
}

// Height returns the panel height for the current bindings.
func (h *HUD) Height() int32 {
	th := h.theme
	lines := int32(len(statusLines(HUDData{})) + len(h.keymap.All()) + 1)
	return lines*th.LineHeight + 2*th.Padding
}

// Contains reports whether the screen point lies on the panel.
func (h *HUD) Contains(x, y float32) bool {
	return int32(x) >= h.x && int32(x) <= h.x+h.width &&
		int32(y) >= h.y && int32(y) <= h.y+h.Height()
}

// Draw renders the HUD and returns the commands for checkboxes the user
// clicked this frame.
func (h *HUD) Draw(data HUDData) []Command {
	th := h.theme
	th.panel(h.x, h.y, h.width, h.Height())

	x := h.x + th.Padding
	y := h.y + th.Padding
	for _, l := range statusLines(data) {
		th.labelValue(x, &y, l.label, l.value)
	}

	th.header(x, &y, "Toggles")
	var cmds []Command
	for _, b := range h.keymap.All() {
		bounds := rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(th.CheckSize), Height: float32(th.CheckSize)}
		label := fmt.Sprintf("%s [%s]", b.Name, b.KeyLabel)
		was := data.Enabled[b.Command]
		if gui.CheckBox(bounds, label, was) != was {
			cmds = append(cmds, b.Command)
		}
		y += th.LineHeight
	}
	return cmds
}

type statusLine struct {
	label, value string
}

func statusLines(d HUDData) []statusLine {
	return []statusLine{
		{"Tick", fmt.Sprintf("%d", d.Tick)},
		{"Population", population(d)},
		{"Food", fmt.Sprintf("%d", d.Food)},
		{"Generation", fmt.Sprintf("%d", d.MaxGeneration)},
		{"Speed", fmt.Sprintf("%.0f t/s  %d fps", d.TicksPerSec, d.FPS)},
	}
}

// population shows the count with its bounds when they are known.
func population(d HUDData) string {
	if d.MaxPopulation == 0 {
		return fmt.Sprintf("%d", d.Population)
	}
	return fmt.Sprintf("%d (%d-%d)", d.Population, d.MinPopulation, d.MaxPopulation)
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32) {
	legend := ""
	for i, b := range h.keymap.All() {
		if i > 0 {
			legend += "  "
		}
		legend += fmt.Sprintf("[%s] %s", b.KeyLabel, b.Name)
	}
	rl.DrawText(legend, 10, screenHeight-25, h.theme.FontSize, rl.Gray)
}
