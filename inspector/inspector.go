// Package inspector shows the state and brain of one selected individual.
package inspector

import (
	"fmt"
	"image/color"
	"iter"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aipop/canvas"
	"github.com/pthm-cable/aipop/entity"
	"github.com/pthm-cable/aipop/geom"
)

// Panel dimensions
const (
	PanelWidth    = 320
	PanelPadding  = 10
	HeaderHeight  = 30
	NetworkHeight = 300
)

// Clicks this far outside an individual's body still select it.
const hitTolerance = 5.0

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorSection     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}

	selectionColor = color.RGBA{R: 0xe0, G: 0xb0, B: 0x00, A: 0xff}
)

// Inspector tracks the selected individual by ID and renders its panel.
type Inspector struct {
	selected    uint64
	hasSelected bool

	panelX int32
	panelY int32

	ticksPerSecond int
	maxEnergy      float64
}

// NewInspector creates an inspector whose panel hugs the right screen edge.
// ticksPerSecond converts ages to seconds; maxEnergy scales the energy bar.
func NewInspector(screenWidth, screenHeight int32, ticksPerSecond int, maxEnergy float64) *Inspector {
	ins := &Inspector{ticksPerSecond: ticksPerSecond, maxEnergy: maxEnergy}
	ins.Resize(screenWidth, screenHeight)
	return ins
}

// Resize moves the panel after a window size change.
func (ins *Inspector) Resize(screenWidth, _ int32) {
	ins.panelX = screenWidth - PanelWidth - 10
	ins.panelY = 10
}

// Select picks the live individual closest to the arena point p among those
// whose body is within reach of it. It keeps the current selection and
// returns false if there is none.
func (ins *Inspector) Select(inds iter.Seq[*entity.Individual], p geom.Vec) bool {
	var closest *entity.Individual
	closestDist := 0.0

	for ind := range inds {
		if ind.Dead() {
			continue
		}
		dist := ind.Pos().Sub(p).SquareLength()
		hit := ind.Radius() + ind.HalfLength() + hitTolerance
		if dist < hit*hit && (closest == nil || dist < closestDist) {
			closest, closestDist = ind, dist
		}
	}

	if closest == nil {
		return false
	}
	ins.selected = closest.ID()
	ins.hasSelected = true
	return true
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// SelectedID returns the ID of the selected individual.
func (ins *Inspector) SelectedID() (uint64, bool) {
	return ins.selected, ins.hasSelected
}

// Selected resolves the selection against inds. A selection that died or
// left the arena is cleared.
func (ins *Inspector) Selected(inds iter.Seq[*entity.Individual]) *entity.Individual {
	if !ins.hasSelected {
		return nil
	}
	for ind := range inds {
		if ind.ID() == ins.selected {
			if ind.Dead() {
				break
			}
			return ind
		}
	}
	ins.Deselect()
	return nil
}

// PanelContains reports whether the screen point lies on the open panel.
func (ins *Inspector) PanelContains(x, y float32) bool {
	if !ins.hasSelected {
		return false
	}
	return int32(x) >= ins.panelX && int32(x) <= ins.panelX+PanelWidth &&
		int32(y) >= ins.panelY && int32(y) <= ins.panelY+panelHeight()
}

// CloseButtonContains reports whether the screen point hits the close button.
func (ins *Inspector) CloseButtonContains(x, y float32) bool {
	if !ins.hasSelected {
		return false
	}
	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	return int32(x) >= closeX && int32(x) <= closeX+20 &&
		int32(y) >= closeY && int32(y) <= closeY+20
}

// Draw renders the panel for ind in screen space.
func (ins *Inspector) Draw(ind *entity.Individual) {
	if ind == nil {
		return
	}

	height := panelHeight()
	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, height, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(height)},
		1,
		ColorPanelBorder,
	)

	// Header
	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText("INSPECTOR", ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	y := ins.panelY + HeaderHeight + PanelPadding
	x := ins.panelX + PanelPadding

	rl.DrawText(fmt.Sprintf("ID: %d  Generation: %d", ind.ID(), ind.Generation()), x, y, 14, ColorHeaderText)
	y += 22

	rl.DrawLine(x, y, ins.panelX+PanelWidth-PanelPadding, y, ColorPanelBorder)
	y += 8

	pos, vel := ind.Pos(), ind.Velocity()
	y += DrawLabel(x, y, "Position", fmt.Sprintf("(%.0f, %.0f)", pos.X, pos.Y))
	y += DrawLabel(x, y, "Velocity", fmt.Sprintf("%.2f (%.2f, %.2f)", vel.Length(), vel.X, vel.Y))
	y += DrawLabel(x, y, "Heading", fmt.Sprintf("%.0f deg", ind.Heading().Normalized()*360))
	y += DrawBar(x, y, "Energy", float32(ind.Energy()), float32(ins.maxEnergy))
	y += DrawLabel(x, y, "Age", ins.formatAge(ind.Age()))
	y += DrawLabel(x, y, "Mutation", fmt.Sprintf("%.5f", ind.MutationRate()))
	y += DrawLabel(x, y, "Wants", wants(ind))

	y += 4
	rl.DrawLine(x, y, ins.panelX+PanelWidth-PanelPadding, y, ColorPanelBorder)
	y += 8

	ins.drawSectionHeader(x, y, "NEURAL NETWORK")
	y += 20

	// Leave room on both sides for the node labels.
	const labelRoom = 60
	DrawNetworkDiagram(x+labelRoom, y, PanelWidth-2*PanelPadding-2*labelRoom, NetworkHeight, ind.Brain(), ind.LastInput())
}

// drawSectionHeader renders a section title.
func (ins *Inspector) drawSectionHeader(x, y int32, title string) {
	rl.DrawRectangle(x-2, y-2, PanelWidth-2*PanelPadding+4, 18, ColorSection)
	rl.DrawText(title, x+2, y, 14, ColorSectionText)
}

// DrawSelectionHighlight circles ind in arena coordinates.
func DrawSelectionHighlight(dst canvas.Surface, ind *entity.Individual) {
	if ind == nil {
		return
	}
	r := (ind.Radius() + ind.HalfLength()) * 1.8
	dst.StrokeCircle(geom.Circle{C: ind.Pos(), R: r}, 2, selectionColor)
}

func (ins *Inspector) formatAge(ticks int64) string {
	if ins.ticksPerSecond <= 0 {
		return fmt.Sprintf("%d ticks", ticks)
	}
	return fmt.Sprintf("%.1fs", float64(ticks)/float64(ins.ticksPerSecond))
}

// wants lists the brain's current decisions.
func wants(ind *entity.Individual) string {
	switch {
	case ind.WantsToEat() && ind.WantsToReproduce():
		return "eat, reproduce"
	case ind.WantsToEat():
		return "eat"
	case ind.WantsToReproduce():
		return "reproduce"
	default:
		return "-"
	}
}

// panelHeight computes the fixed panel height.
func panelHeight() int32 {
	height := HeaderHeight + PanelPadding // header
	height += 22                          // ID line
	height += 8                           // separator
	height += 20 * 3                      // position, velocity, heading
	height += 18                          // energy bar
	height += 20 * 3                      // age, mutation, wants
	height += 12                          // separator
	height += 20                          // network header
	height += NetworkHeight
	height += PanelPadding
	return int32(height)
}
