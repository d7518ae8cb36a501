package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// panel fills and outlines a box.
func (th Theme) panel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, th.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, th.PanelBorder)
}

// header draws a section title at (x, *y) and moves *y to the next line.
func (th Theme) header(x int32, y *int32, title string) {
	rl.DrawText(title, x, *y, th.FontSize, th.SectionHeader)
	*y += th.LineHeight
}

// labelValue draws "label: value" in two columns and moves *y down a line.
func (th Theme) labelValue(x int32, y *int32, label, value string) {
	rl.DrawText(label+":", x, *y, th.FontSize, th.LabelColor)
	rl.DrawText(value, x+th.LabelWidth, *y, th.FontSize, th.ValueColor)
	*y += th.LineHeight
}
