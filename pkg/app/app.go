// Package app wires the player together: settings, resources, audio and
// the playback scene. main stays a thin flag-parsing shell around it.
package app

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/josepuma/Storytor/internal/osu"
	"github.com/josepuma/Storytor/internal/storyboard"
	"github.com/josepuma/Storytor/pkg/config"
	"github.com/josepuma/Storytor/pkg/game"
	"github.com/josepuma/Storytor/pkg/scenes"
)

// Config is the application startup configuration.
type Config struct {
	// Player is the loaded yaml player configuration.
	Player *config.PlayerConfig

	// Dir is the beatmap folder to open. Empty falls back to the last
	// opened folder, then to the configured default.
	Dir string

	// StartMs starts playback at this position instead of 0.
	StartMs float64

	// Verbose enables log output; otherwise logging is discarded.
	Verbose bool
}

// App is the player application, implementing ebiten.Game.
type App struct {
	cfg          *config.PlayerConfig
	sceneManager *game.SceneManager
	settings     *game.SettingsManager

	pendingWindowSizeReset   bool
	windowSizeResetCountdown int
}

// NewApp loads the beatmap folder and builds the playback scene.
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}
	if cfg.Player == nil {
		cfg.Player = config.DefaultPlayerConfig()
	}

	gdataManager, err := gdata.Open(gdata.Config{AppName: "storytor"})
	if err != nil {
		log.Printf("[App] Warning: settings storage unavailable: %v", err)
		gdataManager = nil
	}
	settings, err := game.NewSettingsManager(gdataManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create settings manager: %w", err)
	}

	dir := cfg.Dir
	if dir == "" {
		dir = settings.GetSettings().LastBeatmapDir
	}
	if dir == "" {
		dir = cfg.Player.BeatmapDir
	}
	if dir == "" {
		return nil, errors.New("no beatmap folder: pass -dir or set beatmapDir in the config")
	}

	audioContext := audio.NewContext(48000)
	resources, err := game.NewResourceManager(dir, audioContext)
	if err != nil {
		return nil, err
	}

	beatmap, sbScene, err := loadBeatmapFolder(dir)
	if err != nil {
		return nil, err
	}
	log.Printf("[App] Loaded %d sprites from %s", len(sbScene.Sprites), dir)

	if err := preloadTextures(resources, sbScene, beatmap); err != nil {
		return nil, fmt.Errorf("failed to preload textures: %w", err)
	}
	log.Printf("[App] Preloaded %d textures", resources.ImageCount())

	audioManager := game.NewAudioManager(settings)
	if beatmap != nil && beatmap.General.AudioFilename != "" {
		player, err := resources.LoadSongPlayer(beatmap.General.AudioFilename)
		if err != nil {
			log.Printf("[App] Warning: song unavailable, using internal clock: %v", err)
		} else {
			audioManager.AttachPlayer(player)
		}
	}

	widescreen := true
	title := filepath.Base(dir)
	var background *ebiten.Image
	if beatmap != nil {
		widescreen = beatmap.General.WidescreenStoryboard
		if beatmap.Metadata.Artist != "" || beatmap.Metadata.Title != "" {
			title = strings.TrimSpace(beatmap.Metadata.Artist + " - " + beatmap.Metadata.Title)
		}
		if beatmap.BackgroundFile != "" && !backgroundUsedBySprite(sbScene, beatmap.BackgroundFile) {
			background = resources.Image(beatmap.BackgroundFile)
		}
	}

	playerScene := scenes.NewPlayerScene(scenes.PlayerSceneConfig{
		Config:          cfg.Player,
		Resources:       resources,
		Audio:           audioManager,
		Settings:        settings,
		Scene:           sbScene,
		Widescreen:      widescreen,
		BackgroundImage: background,
		Title:           title,
	})

	audioManager.SeekMs(cfg.StartMs)
	audioManager.Play()

	settings.SetLastBeatmapDir(dir)
	if err := settings.Save(); err != nil {
		log.Printf("[App] Warning: failed to save settings: %v", err)
	}

	sceneManager := game.NewSceneManager()
	sceneManager.SwitchTo(playerScene)

	return &App{
		cfg:          cfg.Player,
		sceneManager: sceneManager,
		settings:     settings,
	}, nil
}

// loadBeatmapFolder reads the folder's .osu and .osb files and parses
// the merged storyboard. The .osb declarations come first so difficulty
// overrides from the .osu land later on the same layers.
func loadBeatmapFolder(dir string) (*osu.Beatmap, *storyboard.Scene, error) {
	var beatmap *osu.Beatmap
	osuFiles, _ := filepath.Glob(filepath.Join(dir, "*.osu"))
	sort.Strings(osuFiles)
	if len(osuFiles) > 0 {
		b, err := osu.ParseBeatmapFile(osuFiles[0])
		if err != nil {
			log.Printf("[App] Warning: skipping beatmap file: %v", err)
		} else {
			beatmap = b
		}
	}

	var lines []string
	osbFiles, _ := filepath.Glob(filepath.Join(dir, "*.osb"))
	sort.Strings(osbFiles)
	for _, f := range osbFiles {
		osbLines, err := storyboard.ReadScriptLines(f)
		if err != nil {
			log.Printf("[App] Warning: skipping storyboard file %s: %v", f, err)
			continue
		}
		lines = append(lines, osbLines...)
	}
	if beatmap != nil {
		lines = append(lines, beatmap.StoryboardLines...)
	}
	if len(lines) == 0 {
		return beatmap, nil, fmt.Errorf("no storyboard found in %s", dir)
	}

	return beatmap, storyboard.ParseScene(dir, lines), nil
}

// preloadTextures decodes every texture the storyboard can reference,
// including all frames of animated sprites and the background.
func preloadTextures(resources *game.ResourceManager, sbScene *storyboard.Scene, beatmap *osu.Beatmap) error {
	seen := make(map[string]bool)
	var paths []string
	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		paths = append(paths, p)
	}
	for _, sp := range sbScene.Sprites {
		if sp.IsAnimation {
			for frame := 0; frame < sp.FrameCount; frame++ {
				add(sp.FramePath(frame))
			}
		} else {
			add(sp.FilePath)
		}
	}
	if beatmap != nil {
		add(beatmap.BackgroundFile)
	}
	return resources.PreloadImages(paths)
}

// backgroundUsedBySprite reports whether the storyboard animates the
// beatmap background itself; the static background is hidden then.
func backgroundUsedBySprite(sbScene *storyboard.Scene, backgroundFile string) bool {
	for _, sp := range sbScene.Sprites {
		if strings.EqualFold(strings.ReplaceAll(sp.FilePath, `\`, "/"), backgroundFile) {
			return true
		}
	}
	return false
}

// Update advances the active scene and handles the global keys.
func (a *App) Update() error {
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.cfg.WindowWidth, a.cfg.WindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			// Window managers need a few frames after leaving
			// fullscreen before the size sticks.
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		} else {
			ebiten.SetFullscreen(true)
		}
		a.settings.SetFullscreen(ebiten.IsFullscreen())
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		if err := a.settings.Save(); err != nil {
			log.Printf("[App] Warning: failed to save settings: %v", err)
		}
		return ebiten.Termination
	}

	a.sceneManager.Update(1.0 / 60.0)
	return nil
}

// Draw renders the active scene.
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen letterboxes the game with a black background and
// linear filtering when the window and logical sizes differ.
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout returns the logical screen size.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.cfg.WindowWidth, a.cfg.WindowHeight
}

// Settings exposes the settings manager so main can persist on exit.
func (a *App) Settings() *game.SettingsManager {
	return a.settings
}
