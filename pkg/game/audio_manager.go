package game

import (
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// AudioManager is the playback transport. The song position is the
// storyboard clock: the scene asks PositionMs every frame and resolves
// sprite states at that time.
//
// A beatmap folder without a playable song still gets a working
// transport; the manager then advances an internal clock instead of an
// audio player.
type AudioManager struct {
	settingsManager *SettingsManager
	player          *audio.Player

	// clockMs is the fallback clock used when player is nil.
	clockMs float64
	playing bool
}

// NewAudioManager creates a transport with no song attached. The
// settings manager supplies the playback volume and may be nil.
func NewAudioManager(sm *SettingsManager) *AudioManager {
	return &AudioManager{settingsManager: sm}
}

// AttachPlayer attaches the song player. Passing nil switches to the
// internal clock.
func (am *AudioManager) AttachPlayer(player *audio.Player) {
	am.player = player
	if player != nil {
		player.SetVolume(am.volume())
	}
}

// HasSong reports whether a song player is attached.
func (am *AudioManager) HasSong() bool {
	return am.player != nil
}

// Play starts or resumes playback.
func (am *AudioManager) Play() {
	am.playing = true
	if am.player != nil {
		am.player.SetVolume(am.volume())
		am.player.Play()
	}
}

// Pause pauses playback, keeping the position.
func (am *AudioManager) Pause() {
	am.playing = false
	if am.player != nil {
		am.player.Pause()
	}
}

// TogglePause flips between playing and paused.
func (am *AudioManager) TogglePause() {
	if am.IsPlaying() {
		am.Pause()
	} else {
		am.Play()
	}
}

// IsPlaying reports whether the transport is running.
func (am *AudioManager) IsPlaying() bool {
	if am.player != nil {
		return am.player.IsPlaying()
	}
	return am.playing
}

// PositionMs returns the current playback position in milliseconds.
func (am *AudioManager) PositionMs() float64 {
	if am.player != nil {
		return float64(am.player.Position()) / float64(time.Millisecond)
	}
	return am.clockMs
}

// SeekMs jumps to an absolute position in milliseconds, clamped at 0.
func (am *AudioManager) SeekMs(ms float64) {
	if ms < 0 {
		ms = 0
	}
	if am.player != nil {
		if err := am.player.SetPosition(time.Duration(ms * float64(time.Millisecond))); err != nil {
			log.Printf("[AudioManager] Warning: Failed to seek to %.0fms: %v", ms, err)
		}
		return
	}
	am.clockMs = ms
}

// SeekByMs seeks relative to the current position.
func (am *AudioManager) SeekByMs(deltaMs float64) {
	am.SeekMs(am.PositionMs() + deltaMs)
}

// Update advances the fallback clock and re-applies the volume so
// settings changes take effect immediately. deltaTime is in seconds.
func (am *AudioManager) Update(deltaTime float64) {
	if am.player != nil {
		am.player.SetVolume(am.volume())
		return
	}
	if am.playing {
		am.clockMs += deltaTime * 1000
	}
}

func (am *AudioManager) volume() float64 {
	if am.settingsManager == nil {
		return 1
	}
	return am.settingsManager.EffectiveVolume()
}
