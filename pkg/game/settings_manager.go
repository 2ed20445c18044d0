package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// PlayerSettings are the global player settings persisted across runs.
type PlayerSettings struct {
	// MusicVolume is the song playback volume, 0.0 ~ 1.0.
	MusicVolume float64 `yaml:"musicVolume"`

	// Muted silences the song without losing the stored volume.
	Muted bool `yaml:"muted"`

	// Fullscreen starts the player in fullscreen mode.
	Fullscreen bool `yaml:"fullscreen"`

	// LastBeatmapDir is the most recently opened beatmap folder; it is
	// reopened when no folder is given on the command line.
	LastBeatmapDir string `yaml:"lastBeatmapDir"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() *PlayerSettings {
	return &PlayerSettings{
		MusicVolume: 0.7,
		Muted:       false,
		Fullscreen:  false,
	}
}

// SettingsManager loads, holds and saves the player settings.
//
// Persistence goes through gdata so the settings file lands in the
// platform's standard app-data location. A nil gdata manager puts the
// manager in a degraded in-memory mode: settings still work for the
// session but are not persisted.
type SettingsManager struct {
	gdataManager *gdata.Manager
	settings     *PlayerSettings
}

// gdata storage keys.
const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// NewSettingsManager creates a settings manager and loads any previously
// saved settings. A load failure is not fatal: the defaults apply and the
// error is logged.
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}
	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}
	return sm, nil
}

// Load reads the settings from gdata. Missing storage or a nil gdata
// manager resets to defaults without error.
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}
	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	var loaded PlayerSettings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	sm.settings = &loaded
	return nil
}

// Save writes the settings to gdata. In degraded mode it is a no-op.
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// GetSettings returns the current settings.
func (sm *SettingsManager) GetSettings() *PlayerSettings {
	return sm.settings
}

// SetMusicVolume sets the music volume, clamped to 0.0 ~ 1.0.
// Only the in-memory settings change; call Save to persist.
func (sm *SettingsManager) SetMusicVolume(volume float64) {
	sm.settings.MusicVolume = clampVolume(volume)
}

// SetMuted toggles the mute flag.
func (sm *SettingsManager) SetMuted(muted bool) {
	sm.settings.Muted = muted
}

// SetFullscreen sets whether the player starts in fullscreen mode.
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// SetLastBeatmapDir records the most recently opened beatmap folder.
func (sm *SettingsManager) SetLastBeatmapDir(dir string) {
	sm.settings.LastBeatmapDir = dir
}

// EffectiveVolume is the volume the audio player should actually use,
// zero when muted.
func (sm *SettingsManager) EffectiveVolume() float64 {
	if sm.settings.Muted {
		return 0
	}
	return sm.settings.MusicVolume
}

func clampVolume(volume float64) float64 {
	if volume < 0.0 {
		return 0.0
	}
	if volume > 1.0 {
		return 1.0
	}
	return volume
}
