package game

import (
	"os"
	"testing"

	"github.com/quasilyte/gdata/v2"
)

// newTestGdata creates a gdata manager rooted in a temp directory so
// tests never touch the real app-data location.
func newTestGdata(t *testing.T) *gdata.Manager {
	t.Helper()
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	t.Cleanup(func() { os.Setenv("HOME", originalHome) })

	m, err := gdata.Open(gdata.Config{
		AppName: "storytor_test",
	})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return m
}

// TestDefaultSettings tests the built-in default values.
func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()
	if settings.MusicVolume != 0.7 {
		t.Errorf("MusicVolume: got %v, want 0.7", settings.MusicVolume)
	}
	if settings.Muted {
		t.Error("Muted: got true, want false")
	}
	if settings.Fullscreen {
		t.Error("Fullscreen: got true, want false")
	}
	if settings.LastBeatmapDir != "" {
		t.Errorf("LastBeatmapDir: got %q, want empty", settings.LastBeatmapDir)
	}
}

// TestSettingsManagerSaveLoad tests a save/load round trip through gdata.
func TestSettingsManagerSaveLoad(t *testing.T) {
	gdataManager := newTestGdata(t)

	sm, err := NewSettingsManager(gdataManager)
	if err != nil {
		t.Fatalf("NewSettingsManager() error: %v", err)
	}

	sm.SetMusicVolume(0.3)
	sm.SetMuted(true)
	sm.SetLastBeatmapDir("songs/123 artist - title")
	if err := sm.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	sm2, err := NewSettingsManager(gdataManager)
	if err != nil {
		t.Fatalf("NewSettingsManager() error: %v", err)
	}
	settings := sm2.GetSettings()
	if settings.MusicVolume != 0.3 {
		t.Errorf("MusicVolume: got %v, want 0.3", settings.MusicVolume)
	}
	if !settings.Muted {
		t.Error("Muted: got false, want true")
	}
	if settings.LastBeatmapDir != "songs/123 artist - title" {
		t.Errorf("LastBeatmapDir: got %q", settings.LastBeatmapDir)
	}
}

// TestSettingsManagerNilGdata tests the degraded in-memory mode.
func TestSettingsManagerNilGdata(t *testing.T) {
	sm, err := NewSettingsManager(nil)
	if err != nil {
		t.Fatalf("NewSettingsManager(nil) error: %v", err)
	}

	sm.SetMusicVolume(0.5)
	if err := sm.Save(); err != nil {
		t.Errorf("Save() in degraded mode should be a no-op, got %v", err)
	}
	if sm.GetSettings().MusicVolume != 0.5 {
		t.Errorf("in-memory settings lost: %v", sm.GetSettings().MusicVolume)
	}
}

// TestSetMusicVolumeClamp tests the volume clamp bounds.
func TestSetMusicVolumeClamp(t *testing.T) {
	sm, _ := NewSettingsManager(nil)

	tests := []struct {
		name  string
		input float64
		want  float64
	}{
		{"below range", -0.5, 0.0},
		{"lower bound", 0.0, 0.0},
		{"in range", 0.42, 0.42},
		{"upper bound", 1.0, 1.0},
		{"above range", 1.5, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm.SetMusicVolume(tt.input)
			if got := sm.GetSettings().MusicVolume; got != tt.want {
				t.Errorf("SetMusicVolume(%v): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// TestEffectiveVolume tests that muting zeroes the playback volume
// without losing the stored one.
func TestEffectiveVolume(t *testing.T) {
	sm, _ := NewSettingsManager(nil)
	sm.SetMusicVolume(0.6)

	if got := sm.EffectiveVolume(); got != 0.6 {
		t.Errorf("EffectiveVolume() = %v, want 0.6", got)
	}
	sm.SetMuted(true)
	if got := sm.EffectiveVolume(); got != 0 {
		t.Errorf("EffectiveVolume() muted = %v, want 0", got)
	}
	sm.SetMuted(false)
	if got := sm.EffectiveVolume(); got != 0.6 {
		t.Errorf("EffectiveVolume() unmuted = %v, want 0.6", got)
	}
}
