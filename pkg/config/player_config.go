// Package config defines the player configuration and the storyboard
// coordinate-space constants shared by the rendering layer.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Storyboard coordinate space. Scripts position sprites in a 640x480
// logical space; widescreen storyboards render into an 854-wide canvas
// with the 640 space centered inside it.
const (
	StoryboardWidth  = 640
	StoryboardHeight = 480
	WidescreenWidth  = 854
)

// CanvasSize returns the logical canvas size for a storyboard.
func CanvasSize(widescreen bool) (int, int) {
	if widescreen {
		return WidescreenWidth, StoryboardHeight
	}
	return StoryboardWidth, StoryboardHeight
}

// XOffset returns the horizontal offset that re-centers the 640-wide
// script space inside the canvas. It is passed through to the state
// resolver untouched.
func XOffset(widescreen bool) float64 {
	if widescreen {
		return float64(WidescreenWidth-StoryboardWidth) / 2
	}
	return 0
}

// PlayerConfig is the player's yaml configuration file.
type PlayerConfig struct {
	// WindowWidth and WindowHeight are the initial window size in
	// physical pixels. The logical canvas scales into it.
	WindowWidth  int `yaml:"windowWidth"`
	WindowHeight int `yaml:"windowHeight"`

	// WindowTitle overrides the default window title.
	WindowTitle string `yaml:"windowTitle"`

	// BeatmapDir is the default beatmap folder opened when no -dir flag
	// is given and no last-used folder is stored.
	BeatmapDir string `yaml:"beatmapDir"`

	// SeekStepMs is the transport seek step for the arrow keys.
	SeekStepMs float64 `yaml:"seekStepMs"`

	// ShowProgressBar toggles the playback progress bar overlay.
	ShowProgressBar bool `yaml:"showProgressBar"`
}

// DefaultPlayerConfig returns the built-in defaults.
func DefaultPlayerConfig() *PlayerConfig {
	return &PlayerConfig{
		WindowWidth:     1280,
		WindowHeight:    720,
		WindowTitle:     "Storytor",
		SeekStepMs:      5000,
		ShowProgressBar: true,
	}
}

// LoadPlayerConfig reads a yaml config file, filling omitted fields from
// the defaults. A missing file is not an error: the defaults apply.
func LoadPlayerConfig(path string) (*PlayerConfig, error) {
	cfg := DefaultPlayerConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config '%s': %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config '%s': %w", path, err)
	}
	if cfg.WindowWidth <= 0 || cfg.WindowHeight <= 0 {
		def := DefaultPlayerConfig()
		cfg.WindowWidth = def.WindowWidth
		cfg.WindowHeight = def.WindowHeight
	}
	if cfg.SeekStepMs <= 0 {
		cfg.SeekStepMs = DefaultPlayerConfig().SeekStepMs
	}
	return cfg, nil
}
