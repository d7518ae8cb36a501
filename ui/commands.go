package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Command is a payload-free user intent.
type Command string

const (
	TogglePause         Command = "toggle_pause"
	ToggleFastForward   Command = "toggle_fast_forward"
	ToggleBest          Command = "toggle_best"
	ToggleOldest        Command = "toggle_oldest"
	ToggleGeneration    Command = "toggle_generation"
	ToggleMaxGeneration Command = "toggle_max_generation"
)

// Binding ties a command to a key and a HUD label.
type Binding struct {
	Command  Command
	Name     string // HUD label
	Key      int32  // raylib key code (0 = no key)
	KeyLabel string
}

// Keymap maps keys to commands in registration order.
type Keymap struct {
	bindings []Binding
	byKey    map[int32]Command
}

// NewKeymap creates a keymap with the default bindings.
func NewKeymap() *Keymap {
	k := &Keymap{byKey: make(map[int32]Command)}
	k.Register(Binding{Command: TogglePause, Name: "Pause", Key: rl.KeySpace, KeyLabel: "Space"})
	k.Register(Binding{Command: ToggleFastForward, Name: "Fast forward", Key: rl.KeyF, KeyLabel: "F"})
	k.Register(Binding{Command: ToggleBest, Name: "Best", Key: rl.KeyB, KeyLabel: "B"})
	k.Register(Binding{Command: ToggleOldest, Name: "Oldest", Key: rl.KeyO, KeyLabel: "O"})
	k.Register(Binding{Command: ToggleGeneration, Name: "Generations", Key: rl.KeyG, KeyLabel: "G"})
	k.Register(Binding{Command: ToggleMaxGeneration, Name: "Most evolved", Key: rl.KeyM, KeyLabel: "M"})
	return k
}

// Register adds a binding. A later binding for the same key wins.
func (k *Keymap) Register(b Binding) {
	k.bindings = append(k.bindings, b)
	if b.Key != 0 {
		k.byKey[b.Key] = b.Command
	}
}

// All returns all bindings in registration order.
func (k *Keymap) All() []Binding {
	return k.bindings
}

// HandleKeyPress returns the command bound to key, if any.
func (k *Keymap) HandleKeyPress(key int32) (Command, bool) {
	cmd, ok := k.byKey[key]
	return cmd, ok
}

// Poll returns the commands whose keys pressed reports as pressed, in
// registration order. Pass rl.IsKeyPressed in the window loop.
func (k *Keymap) Poll(pressed func(key int32) bool) []Command {
	var cmds []Command
	for _, b := range k.bindings {
		if b.Key != 0 && pressed(b.Key) {
			cmds = append(cmds, b.Command)
		}
	}
	return cmds
}
