package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Widget colors
var (
	ColorBarBg   = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorBarFill = rl.Color{R: 100, G: 180, B: 100, A: 255}
	ColorBarLow  = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorText    = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim = rl.Color{R: 150, G: 150, B: 150, A: 255}
)

// DrawLabel renders "name: value" and returns the height used.
func DrawLabel(x, y int32, name, value string) int32 {
	rl.DrawText(fmt.Sprintf("%s: %s", name, value), x, y, 16, ColorText)
	return 20
}

// DrawBar renders a horizontal progress bar and returns the height used.
func DrawBar(x, y int32, name string, value, maxVal float32) int32 {
	ratio := barRatio(value, maxVal)

	barWidth := int32(120)
	barHeight := int32(14)

	rl.DrawText(name, x, y, 14, ColorTextDim)

	barX := x + 80
	rl.DrawRectangle(barX, y, barWidth, barHeight, ColorBarBg)

	fillColor := ColorBarFill
	if ratio < 0.3 {
		fillColor = ColorBarLow
	}
	rl.DrawRectangle(barX, y, int32(float32(barWidth)*ratio), barHeight, fillColor)

	rl.DrawText(fmt.Sprintf("%.1f", value), barX+barWidth+5, y, 14, ColorTextDim)

	return 18
}

// barRatio returns value/maxVal clamped to [0, 1].
func barRatio(value, maxVal float32) float32 {
	if maxVal <= 0 {
		return 0
	}
	return min(max(value/maxVal, 0), 1)
}

// lerpColor interpolates between two colors.
func lerpColor(a, b rl.Color, t float32) rl.Color {
	return rl.Color{
		R: uint8(float32(a.R) + (float32(b.R)-float32(a.R))*t),
		G: uint8(float32(a.G) + (float32(b.G)-float32(a.G))*t),
		B: uint8(float32(a.B) + (float32(b.B)-float32(a.B))*t),
		A: 255,
	}
}
