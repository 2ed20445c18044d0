package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents one player screen (e.g. storyboard playback, loading).
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update advances the scene logic.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}

// SceneManager controls which scene is active; only the active scene's
// Update and Draw methods are called.
type SceneManager struct {
	currentScene Scene
}

// NewSceneManager creates a manager with no active scene; use SwitchTo
// to set the initial scene.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SwitchTo changes the active scene.
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.currentScene = scene
}

// CurrentScene returns the active scene, or nil.
func (sm *SceneManager) CurrentScene() Scene {
	return sm.currentScene
}

// Update advances the active scene.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the active scene.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
