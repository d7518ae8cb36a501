// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Individual IndividualConfig `yaml:"individual"`
	Energy     EnergyConfig     `yaml:"energy"`
	Food       FoodConfig       `yaml:"food"`
	Neural     NeuralConfig     `yaml:"neural"`
	Driver     DriverConfig     `yaml:"driver"`
	Persist    PersistConfig    `yaml:"persist"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Render     RenderConfig     `yaml:"render"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds arena size and population policy.
// Width/Height default to the screen size when zero.
type WorldConfig struct {
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	MinPopulation   int     `yaml:"min_population"`
	MaxPopulation   int     `yaml:"max_population"`
	FoodInterval    int64   `yaml:"food_interval"`    // ticks between food spawns
	LitterSize      int     `yaml:"litter_size"`      // children per voluntary reproduction
	ReproduceEnergy float64 `yaml:"reproduce_energy"` // minimum energy for voluntary reproduction
	Seed            uint64  `yaml:"seed"`             // 0 = time based
}

// PhysicsConfig holds movement parameters, in px and radians per tick.
type PhysicsConfig struct {
	MaxAcceleration        float64 `yaml:"max_acceleration"`
	MaxAngularAcceleration float64 `yaml:"max_angular_acceleration"`
	Friction               float64 `yaml:"friction"`         // velocity retained per tick
	AngularFriction        float64 `yaml:"angular_friction"` // angular velocity retained per tick
	CollisionDamping       float64 `yaml:"collision_damping"`
	WallMargin             float64 `yaml:"wall_margin"` // thickness of the band outside each wall
}

// IndividualConfig holds the body and genome defaults of a new individual.
type IndividualConfig struct {
	Radius          float64 `yaml:"radius"`
	HalfLength      float64 `yaml:"half_length"`
	InitialEnergy   float64 `yaml:"initial_energy"`
	MaxEnergy       float64 `yaml:"max_energy"`
	MutationRate    float64 `yaml:"mutation_rate"`
	MinMutationRate float64 `yaml:"min_mutation_rate"`
	MemorySize      int     `yaml:"memory_size"`
	Color           string  `yaml:"color"` // #RRGGBB
}

// EnergyConfig holds energy costs and gains.
type EnergyConfig struct {
	MovingCost    float64 `yaml:"moving_cost"`   // per squared speed
	RotationCost  float64 `yaml:"rotation_cost"` // per squared normalized angular speed
	UpkeepCost    float64 `yaml:"upkeep_cost"`   // per tick
	EatRate       float64 `yaml:"eat_rate"`      // fraction of own energy bitten per tick
	EatEfficiency float64 `yaml:"eat_efficiency"`
	FoodEnergy    float64 `yaml:"food_energy"`
}

// FoodConfig holds food parameters.
type FoodConfig struct {
	Radius float64 `yaml:"radius"`
}

// NeuralConfig holds brain topology.
type NeuralConfig struct {
	HiddenLayers []int   `yaml:"hidden_layers"`
	MaxWeight    float64 `yaml:"max_weight"`
}

// DriverConfig holds tick pacing.
type DriverConfig struct {
	TickRate         int `yaml:"tick_rate"`          // headless ticks per second, 0 = unthrottled
	FastForwardTicks int `yaml:"fast_forward_ticks"` // ticks per update while fast-forwarding
	TicksPerSecond   int `yaml:"ticks_per_second"`   // nominal rate used to display ages
}

// PersistConfig holds snapshot settings.
type PersistConfig struct {
	Interval    int64  `yaml:"interval"` // ticks between saves, 0 disables
	Path        string `yaml:"path"`     // JSON snapshot file
	ArchivePath string `yaml:"archive_path"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int64 `yaml:"stats_window"` // ticks per window
}

// RenderConfig holds window rendering options.
type RenderConfig struct {
	FontPath string  `yaml:"font_path"`
	FontSize float64 `yaml:"font_size"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ArenaW, ArenaH float64 // effective world size
	BrainInputs    int     // 12 sensor values + memory
	BrainOutputs   int     // 4 actions + memory
	BrainSizes     []int   // input, hidden..., output
}

// Sensor and action counts excluding memory.
const (
	SensorInputs  = 12
	ActionOutputs = 4
)

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	w, h := c.World.Width, c.World.Height
	if w == 0 {
		w = c.Screen.Width
	}
	if h == 0 {
		h = c.Screen.Height
	}
	c.Derived.ArenaW = float64(w)
	c.Derived.ArenaH = float64(h)

	c.Derived.BrainInputs = SensorInputs + c.Individual.MemorySize
	c.Derived.BrainOutputs = ActionOutputs + c.Individual.MemorySize
	sizes := make([]int, 0, len(c.Neural.HiddenLayers)+2)
	sizes = append(sizes, c.Derived.BrainInputs)
	sizes = append(sizes, c.Neural.HiddenLayers...)
	c.Derived.BrainSizes = append(sizes, c.Derived.BrainOutputs)
}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate rejects configurations the simulation cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Derived.ArenaW <= 0 || c.Derived.ArenaH <= 0:
		return fmt.Errorf("%w: arena size %vx%v", ErrInvalid, c.Derived.ArenaW, c.Derived.ArenaH)
	case c.World.MinPopulation < 1:
		return fmt.Errorf("%w: min_population must be positive", ErrInvalid)
	case c.World.MinPopulation > c.World.MaxPopulation:
		return fmt.Errorf("%w: min_population %d > max_population %d",
			ErrInvalid, c.World.MinPopulation, c.World.MaxPopulation)
	case c.World.FoodInterval <= 0:
		return fmt.Errorf("%w: food_interval must be positive", ErrInvalid)
	case c.World.LitterSize < 1:
		return fmt.Errorf("%w: litter_size must be positive", ErrInvalid)
	case len(c.Neural.HiddenLayers) == 0:
		return fmt.Errorf("%w: neural.hidden_layers is empty", ErrInvalid)
	case c.Individual.MemorySize < 0:
		return fmt.Errorf("%w: memory_size is negative", ErrInvalid)
	case c.Individual.MinMutationRate <= 0:
		return fmt.Errorf("%w: min_mutation_rate must be positive", ErrInvalid)
	case c.Driver.FastForwardTicks < 1:
		return fmt.Errorf("%w: fast_forward_ticks must be positive", ErrInvalid)
	}
	for i, n := range c.Neural.HiddenLayers {
		if n <= 0 {
			return fmt.Errorf("%w: hidden layer %d has size %d", ErrInvalid, i, n)
		}
	}
	if border := 2 * (c.Individual.Radius + c.Individual.HalfLength); c.Derived.ArenaW <= border || c.Derived.ArenaH <= border {
		return fmt.Errorf("%w: arena %vx%v too small for individuals", ErrInvalid, c.Derived.ArenaW, c.Derived.ArenaH)
	}
	if _, err := ParseHexColor(c.Individual.Color); err != nil {
		return fmt.Errorf("%w: individual.color: %v", ErrInvalid, err)
	}
	return nil
}

// ParseHexColor parses #RRGGBB into its components.
func ParseHexColor(s string) ([3]uint8, error) {
	var rgb [3]uint8
	if len(s) != 7 || s[0] != '#' {
		return rgb, fmt.Errorf("want #RRGGBB, got %q", s)
	}
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &rgb[0], &rgb[1], &rgb[2]); err != nil {
		return rgb, fmt.Errorf("parsing %q: %w", s, err)
	}
	return rgb, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
