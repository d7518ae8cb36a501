package ui

import (
	"slices"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestDefaultKeymap(t *testing.T) {
	k := NewKeymap()

	tests := []struct {
		key  int32
		want Command
	}{
		{rl.KeySpace, TogglePause},
		{rl.KeyF, ToggleFastForward},
		{rl.KeyB, ToggleBest},
		{rl.KeyO, ToggleOldest},
		{rl.KeyG, ToggleGeneration},
		{rl.KeyM, ToggleMaxGeneration},
	}
	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			got, ok := k.HandleKeyPress(tt.key)
			if !ok || got != tt.want {
				t.Errorf("got %q, %v; want %q", got, ok, tt.want)
			}
		})
	}

	if _, ok := k.HandleKeyPress(rl.KeyZ); ok {
		t.Error("unbound key should not map to a command")
	}
	if len(k.All()) != 6 {
		t.Errorf("got %d bindings, want 6", len(k.All()))
	}
}

func TestPollOrder(t *testing.T) {
	k := NewKeymap()
	down := map[int32]bool{rl.KeyM: true, rl.KeySpace: true}

	got := k.Poll(func(key int32) bool { return down[key] })
	want := []Command{TogglePause, ToggleMaxGeneration}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if got := k.Poll(func(int32) bool { return false }); got != nil {
		t.Errorf("got %v, want none", got)
	}
}

func TestRegisterOverrides(t *testing.T) {
	k := NewKeymap()
	k.Register(Binding{Command: ToggleBest, Name: "Best", Key: rl.KeySpace, KeyLabel: "Space"})

	if got, _ := k.HandleKeyPress(rl.KeySpace); got != ToggleBest {
		t.Errorf("got %q, want %q", got, ToggleBest)
	}
}

func TestHUDContains(t *testing.T) {
	h := NewHUD(NewKeymap(), 10, 10, 230)
	bottom := float32(10 + h.Height())

	tests := []struct {
		name string
		x, y float32
		want bool
	}{
		{"inside", 100, 20, true},
		{"left edge", 10, 10, true},
		{"right of panel", 241, 20, false},
		{"below panel", 100, bottom + 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPopulationLine(t *testing.T) {
	tests := []struct {
		name string
		data HUDData
		want string
	}{
		{"bounds unknown", HUDData{Population: 12}, "12"},
		{"with bounds", HUDData{Population: 12, MinPopulation: 10, MaxPopulation: 50}, "12 (10-50)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := population(tt.data); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
