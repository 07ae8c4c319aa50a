package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/sparks/internal/particle"
)

const (
	DefaultWidth      = 1280
	DefaultHeight     = 720
	DefaultFPS        = 60
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
	DefaultHistory    = 120
)

// MaxCapacity keeps the widest staging array (capacity*ColorStride floats)
// within int32 element counts.
const MaxCapacity = math.MaxInt32 / particle.ColorStride

var ErrInvalid = errors.New("config: invalid value")

// Config is the on-disk configuration of every sparks command.
type Config struct {
	Capacity int            `yaml:"capacity"`
	Seed     int64          `yaml:"seed"`
	Window   WindowConfig   `yaml:"window"`
	Terminal TerminalConfig `yaml:"terminal"`
	Spawn    SpawnConfig    `yaml:"spawn"`
}

type WindowConfig struct {
	Title      string     `yaml:"title"`
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	FPS        int        `yaml:"fps"`
	VSync      bool       `yaml:"vsync"`
	Resizable  bool       `yaml:"resizable"`
	Background [3]float32 `yaml:"background"`
	HUD        bool       `yaml:"hud"`
}

// TerminalConfig sizes the pixel surface that one character cell covers.
type TerminalConfig struct {
	CellWidth  int `yaml:"cell_width"`
	CellHeight int `yaml:"cell_height"`
	FPS        int `yaml:"fps"`
	History    int `yaml:"history"`
}

// SpawnConfig mirrors particle.SpawnPolicy.
type SpawnConfig struct {
	Rate        int     `yaml:"rate"`
	AngleMin    float64 `yaml:"angle_min"`
	AngleMax    float64 `yaml:"angle_max"`
	Speed       float64 `yaml:"speed"`
	AccAngleMax float64 `yaml:"acc_angle_max"`
	AccSpeedMin float64 `yaml:"acc_speed_min"`
	Scale       float64 `yaml:"scale"`
	GrowthMin   float64 `yaml:"growth_min"`
	GrowthMax   float64 `yaml:"growth_max"`
	HueRate     float64 `yaml:"hue_rate"`
	Chroma      float64 `yaml:"chroma"`
}

func DefaultConfig() *Config {
	p := particle.DefaultPolicy()
	return &Config{
		Capacity: particle.DefaultCapacity,
		Window: WindowConfig{
			Title:     "sparks",
			Width:     DefaultWidth,
			Height:    DefaultHeight,
			FPS:       DefaultFPS,
			VSync:     true,
			Resizable: true,
			HUD:       true,
		},
		Terminal: TerminalConfig{
			CellWidth:  DefaultCellWidth,
			CellHeight: DefaultCellHeight,
			FPS:        30,
			History:    DefaultHistory,
		},
		Spawn: SpawnConfig{
			Rate:        p.Rate,
			AngleMin:    p.AngleMin,
			AngleMax:    p.AngleMax,
			Speed:       p.Speed,
			AccAngleMax: p.AccAngleMax,
			AccSpeedMin: p.AccSpeedMin,
			Scale:       p.Scale,
			GrowthMin:   p.GrowthMin,
			GrowthMax:   p.GrowthMax,
			HueRate:     p.HueRate,
			Chroma:      p.Chroma,
		},
	}
}

// Load reads a config file on top of DefaultConfig.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto decodes a config file over cfg. Keys missing from the file keep
// their current values in cfg.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Save writes cfg as yaml.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate returns an error wrapping ErrInvalid for the first bad field.
func (c *Config) Validate() error {
	switch {
	case c.Capacity <= 0:
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalid, c.Capacity)
	case c.Capacity > MaxCapacity:
		return fmt.Errorf("%w: capacity %d exceeds %d", ErrInvalid, c.Capacity, MaxCapacity)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size must be positive, got %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Window.FPS <= 0:
		return fmt.Errorf("%w: window fps must be positive, got %d", ErrInvalid, c.Window.FPS)
	case c.Terminal.CellWidth <= 0 || c.Terminal.CellHeight <= 0:
		return fmt.Errorf("%w: terminal cell size must be positive", ErrInvalid)
	case c.Terminal.FPS <= 0:
		return fmt.Errorf("%w: terminal fps must be positive, got %d", ErrInvalid, c.Terminal.FPS)
	case c.Spawn.Rate < 0:
		return fmt.Errorf("%w: spawn rate must not be negative, got %d", ErrInvalid, c.Spawn.Rate)
	case c.Spawn.Rate > c.Capacity:
		return fmt.Errorf("%w: spawn rate %d exceeds capacity %d", ErrInvalid, c.Spawn.Rate, c.Capacity)
	case c.Spawn.AngleMin > c.Spawn.AngleMax:
		return fmt.Errorf("%w: angle_min above angle_max", ErrInvalid)
	case c.Spawn.GrowthMin > c.Spawn.GrowthMax:
		return fmt.Errorf("%w: growth_min above growth_max", ErrInvalid)
	case c.Spawn.Scale <= 0:
		return fmt.Errorf("%w: spawn scale must be positive, got %g", ErrInvalid, c.Spawn.Scale)
	}
	for _, v := range []float64{c.Spawn.Speed, c.Spawn.AccAngleMax, c.Spawn.AccSpeedMin, c.Spawn.HueRate, c.Spawn.Chroma} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: spawn parameters must be finite", ErrInvalid)
		}
	}
	return nil
}

func (c *Config) SpawnPolicy() particle.SpawnPolicy {
	return particle.SpawnPolicy{
		Rate:        c.Spawn.Rate,
		AngleMin:    c.Spawn.AngleMin,
		AngleMax:    c.Spawn.AngleMax,
		Speed:       c.Spawn.Speed,
		AccAngleMax: c.Spawn.AccAngleMax,
		AccSpeedMin: c.Spawn.AccSpeedMin,
		Scale:       c.Spawn.Scale,
		GrowthMin:   c.Spawn.GrowthMin,
		GrowthMax:   c.Spawn.GrowthMax,
		HueRate:     c.Spawn.HueRate,
		Chroma:      c.Spawn.Chroma,
	}
}
