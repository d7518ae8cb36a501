// Package ui maps keyboard and HUD input to commands and draws the HUD.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg       rl.Color
	PanelBorder   rl.Color
	SectionHeader rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color
	PausedColor   rl.Color
	Padding       int32
	LineHeight    int32
	LabelWidth    int32
	CheckSize     int32
	FontSize      int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:       rl.Color{R: 20, G: 25, B: 30, A: 200},
		PanelBorder:   rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader: rl.Yellow,
		LabelColor:    rl.LightGray,
		ValueColor:    rl.White,
		PausedColor:   rl.Yellow,
		Padding:       10,
		LineHeight:    20,
		LabelWidth:    90,
		CheckSize:     14,
		FontSize:      14,
	}
}
