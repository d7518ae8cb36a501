// Package renderer draws onto the raylib window.
package renderer

import (
	"image/color"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aipop/camera"
	"github.com/pthm-cable/aipop/canvas"
	"github.com/pthm-cable/aipop/geom"
)

const (
	circleSegments = 24
	textSpacing    = 1
)

// Surface implements canvas.Surface on the current raylib render target.
// Arena coordinates are mapped through rl.BeginMode2D, see Begin.
type Surface struct {
	font     rl.Font
	ownsFont bool

	fontPath string
	fontSize int32

	initialized bool
}

var _ canvas.Surface = (*Surface)(nil)

// NewSurface creates a surface that will load fontPath at fontSize.
func NewSurface(fontPath string, fontSize int) *Surface {
	return &Surface{fontPath: fontPath, fontSize: int32(fontSize)}
}

// Init loads the font (must be called after raylib window is created). A
// missing or unreadable font falls back to the raylib default.
func (s *Surface) Init() {
	if s.initialized {
		return
	}
	s.font, s.ownsFont = loadFont(s.fontPath, s.fontSize)
	s.initialized = true
}

func loadFont(path string, size int32) (rl.Font, bool) {
	if path == "" {
		return rl.GetFontDefault(), false
	}
	font := rl.LoadFontEx(path, size, nil)
	if font.Texture.ID == 0 {
		slog.Warn("font_load_failed", "path", path)
		return rl.GetFontDefault(), false
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font, true
}

// Begin starts drawing in arena coordinates as seen by cam.
func (s *Surface) Begin(cam *camera.Camera) {
	if !s.initialized {
		s.Init()
	}
	rl.BeginMode2D(Camera2D(cam))
}

// End returns to screen coordinates.
func (s *Surface) End() {
	rl.EndMode2D()
}

// Font returns the loaded font.
func (s *Surface) Font() rl.Font {
	return s.font
}

func (s *Surface) FillCircle(c geom.Circle, col color.RGBA) {
	rl.DrawCircleV(vec2(c.C), float32(c.R), col)
}

func (s *Surface) StrokeCircle(c geom.Circle, thickness float64, col color.RGBA) {
	inner := max(0, c.R-thickness/2)
	rl.DrawRing(vec2(c.C), float32(inner), float32(c.R+thickness/2), 0, 360, circleSegments, col)
}

func (s *Surface) FillBox(b geom.Box, col color.RGBA) {
	rec, origin, deg := boxRect(b)
	rl.DrawRectanglePro(rec, origin, deg, col)
}

func (s *Surface) Line(from, to geom.Vec, thickness float64, col color.RGBA) {
	rl.DrawLineEx(vec2(from), vec2(to), float32(thickness), col)
}

func (s *Surface) Text(str string, at geom.Vec, size float64, col color.RGBA) {
	dim := rl.MeasureTextEx(s.font, str, float32(size), textSpacing)
	rl.DrawTextEx(s.font, str, textOrigin(at, dim), float32(size), textSpacing, col)
}

// Unload frees resources.
func (s *Surface) Unload() {
	if s.initialized && s.ownsFont {
		rl.UnloadFont(s.font)
	}
	s.initialized = false
}
