// Package config loads the tutorial settings shared by the example programs.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all tutorial configuration values.
type Config struct {
	Window WindowConfig `yaml:"window"`
	Camera CameraConfig `yaml:"camera"`
	Render RenderConfig `yaml:"render"`
	Scene  SceneConfig  `yaml:"scene"`
}

type WindowConfig struct {
	Title         string `yaml:"title"`
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	CaptureCursor bool   `yaml:"capture_cursor"`
}

type CameraConfig struct {
	Position         []float32 `yaml:"position"`
	Yaw              float32   `yaml:"yaw"`
	Pitch            float32   `yaml:"pitch"`
	MoveSpeed        float32   `yaml:"move_speed"`
	MouseSensitivity float32   `yaml:"mouse_sensitivity"`
	Zoom             float32   `yaml:"zoom"`
	ConstrainPitch   bool      `yaml:"constrain_pitch"`
	Near             float32   `yaml:"near"`
	Far              float32   `yaml:"far"`
}

type RenderConfig struct {
	ClearColor    []float64 `yaml:"clear_color"`
	PresentMode   string    `yaml:"present_mode"`
	ForceSoftware bool      `yaml:"force_software"`
	Profiling     bool      `yaml:"profiling"`
}

type SceneConfig struct {
	// Texture is an image path; empty means a generated checkerboard.
	Texture     string `yaml:"texture"`
	FlipY       bool   `yaml:"flip_y"`
	WorkerCount int    `yaml:"worker_count"`
}

// Present modes accepted by RenderConfig.PresentMode.
const (
	PresentModeFifo      = "fifo"
	PresentModeImmediate = "immediate"
	PresentModeMailbox   = "mailbox"
)

// Default returns the settings used when no file is given or a key is absent.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:         "oxy-learn",
			Width:         800,
			Height:        600,
			CaptureCursor: true,
		},
		Camera: CameraConfig{
			Position:         []float32{0, 0, 3},
			Yaw:              -90,
			Pitch:            0,
			MoveSpeed:        2.5,
			MouseSensitivity: 0.1,
			Zoom:             45,
			ConstrainPitch:   true,
			Near:             0.1,
			Far:              100,
		},
		Render: RenderConfig{
			ClearColor:  []float64{0.2, 0.3, 0.3, 1.0},
			PresentMode: PresentModeFifo,
		},
		Scene: SceneConfig{
			FlipY:       true,
			WorkerCount: 4,
		},
	}
}

// Load reads a YAML file and overlays it onto Default. An empty path returns the defaults.
// Unknown keys are rejected.
//
// Parameters:
//   - path: the YAML file path, or "" for defaults
//
// Returns:
//   - *Config: the loaded configuration
//   - error: error if the file cannot be read, parsed or fails validation
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML bytes over Default and validates the result.
//
// Parameters:
//   - data: YAML document
//
// Returns:
//   - *Config: the decoded configuration
//   - error: error if decoding or validation fails
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges. All problems are reported in one error wrapping ErrInvalidConfig.
func (c *Config) Validate() error {
	var problems []string

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		problems = append(problems, fmt.Sprintf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if len(c.Camera.Position) != 3 {
		problems = append(problems, fmt.Sprintf("camera.position needs 3 components, got %d", len(c.Camera.Position)))
	}
	if c.Camera.MoveSpeed <= 0 {
		problems = append(problems, "camera.move_speed must be positive")
	}
	if c.Camera.MouseSensitivity <= 0 {
		problems = append(problems, "camera.mouse_sensitivity must be positive")
	}
	if c.Camera.Zoom < 1 || c.Camera.Zoom > 45 {
		problems = append(problems, fmt.Sprintf("camera.zoom %v outside [1, 45]", c.Camera.Zoom))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		problems = append(problems, fmt.Sprintf("camera clip range near=%v far=%v must satisfy 0 < near < far", c.Camera.Near, c.Camera.Far))
	}
	if len(c.Render.ClearColor) != 4 {
		problems = append(problems, fmt.Sprintf("render.clear_color needs 4 components, got %d", len(c.Render.ClearColor)))
	}
	switch c.Render.PresentMode {
	case PresentModeFifo, PresentModeImmediate, PresentModeMailbox:
	default:
		problems = append(problems, fmt.Sprintf("render.present_mode %q is not one of fifo, immediate, mailbox", c.Render.PresentMode))
	}
	if c.Scene.WorkerCount < 1 {
		problems = append(problems, "scene.worker_count must be at least 1")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
