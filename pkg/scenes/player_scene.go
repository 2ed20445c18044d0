// Package scenes holds the player's screens. PlayerScene is the main
// one: storyboard playback synced to the song.
package scenes

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/josepuma/Storytor/internal/storyboard"
	"github.com/josepuma/Storytor/pkg/config"
	"github.com/josepuma/Storytor/pkg/game"
)

// PlayerScene renders one storyboard against its song. Each frame it
// reads the transport position and composes every sprite's visual state
// at that time.
type PlayerScene struct {
	cfg       *config.PlayerConfig
	resources *game.ResourceManager
	audio     *game.AudioManager
	settings  *game.SettingsManager

	// managers are the sprite timeline managers in draw order: layer by
	// layer, declaration order within a layer.
	managers []*storyboard.TimelineManager

	// canvas is the offscreen the storyboard renders into; it is scaled
	// to the window in Draw.
	canvas  *ebiten.Image
	canvasW int
	canvasH int
	xOffset float64

	background *ebiten.Image

	// contentStart/contentEnd span every sprite's commands, for the
	// progress bar and the end-of-storyboard clamp.
	contentStart float64
	contentEnd   float64

	title string

	showDebug bool
}

// PlayerSceneConfig carries everything the scene needs at construction.
type PlayerSceneConfig struct {
	Config          *config.PlayerConfig
	Resources       *game.ResourceManager
	Audio           *game.AudioManager
	Settings        *game.SettingsManager
	Scene           *storyboard.Scene
	Widescreen      bool
	BackgroundImage *ebiten.Image

	// Title is shown in the debug overlay, typically "Artist - Title".
	Title string
}

// NewPlayerScene builds the timeline managers for every sprite and
// precomputes the draw order. This is the load barrier: after it
// returns, per-frame queries never mutate shared state.
func NewPlayerScene(psc PlayerSceneConfig) *PlayerScene {
	w, h := config.CanvasSize(psc.Widescreen)
	s := &PlayerScene{
		cfg:        psc.Config,
		resources:  psc.Resources,
		audio:      psc.Audio,
		settings:   psc.Settings,
		canvas:     ebiten.NewImage(w, h),
		canvasW:    w,
		canvasH:    h,
		xOffset:    config.XOffset(psc.Widescreen),
		background: psc.BackgroundImage,
		title:      psc.Title,
	}

	sprites := make([]*storyboard.Sprite, len(psc.Scene.Sprites))
	copy(sprites, psc.Scene.Sprites)
	sort.SliceStable(sprites, func(i, j int) bool {
		return sprites[i].Layer < sprites[j].Layer
	})

	first := true
	for _, sp := range sprites {
		m := storyboard.NewTimelineManager(sp)
		s.managers = append(s.managers, m)
		if len(sp.Commands) == 0 {
			continue
		}
		start, end := m.ContentTimeRange()
		if first {
			s.contentStart, s.contentEnd = start, end
			first = false
			continue
		}
		if start < s.contentStart {
			s.contentStart = start
		}
		if end > s.contentEnd {
			s.contentEnd = end
		}
	}
	return s
}

// ContentTimeRange returns the time span covered by the storyboard's
// commands, in milliseconds.
func (s *PlayerScene) ContentTimeRange() (start, end float64) {
	return s.contentStart, s.contentEnd
}

// Update handles the transport keys and advances the audio clock.
func (s *PlayerScene) Update(deltaTime float64) {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		s.audio.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		s.audio.SeekByMs(s.cfg.SeekStepMs)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		s.audio.SeekByMs(-s.cfg.SeekStepMs)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		s.settings.SetMusicVolume(s.settings.GetSettings().MusicVolume + 0.05)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		s.settings.SetMusicVolume(s.settings.GetSettings().MusicVolume - 0.05)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		s.settings.SetMuted(!s.settings.GetSettings().Muted)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		s.showDebug = !s.showDebug
	}

	s.audio.Update(deltaTime)
}

// Draw renders the storyboard at the current transport position.
func (s *PlayerScene) Draw(screen *ebiten.Image) {
	t := s.audio.PositionMs()

	s.canvas.Fill(color.Black)
	s.drawBackground()

	drawn := 0
	for _, m := range s.managers {
		if s.drawSprite(m, t) {
			drawn++
		}
	}

	s.blitCanvas(screen)

	if s.cfg.ShowProgressBar {
		s.drawProgressBar(screen, t)
	}
	if s.showDebug {
		msg := fmt.Sprintf("%s\n%.0fms  sprites %d/%d  vol %.0f%%",
			s.title, t, drawn, len(s.managers), s.settings.GetSettings().MusicVolume*100)
		ebitenutil.DebugPrint(screen, msg)
	}
}

// drawBackground stretches the beatmap background over the canvas.
func (s *PlayerScene) drawBackground() {
	if s.background == nil {
		return
	}
	bw := s.background.Bounds().Dx()
	bh := s.background.Bounds().Dy()
	if bw == 0 || bh == 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	op.GeoM.Scale(float64(s.canvasW)/float64(bw), float64(s.canvasH)/float64(bh))
	s.canvas.DrawImage(s.background, op)
}

// drawSprite composes and draws one sprite; reports whether it was drawn.
func (s *PlayerScene) drawSprite(m *storyboard.TimelineManager, t float64) bool {
	start, end, ok := m.DisplayTimeRange()
	if !ok || t < start || t > end {
		return false
	}
	state := m.StateAt(t, s.xOffset)
	if !state.Visible {
		return false
	}

	sp := m.Sprite()
	path := sp.FilePath
	if sp.IsAnimation {
		cs, _ := m.ContentTimeRange()
		path = sp.FramePath(sp.FrameAt(t, cs))
	}
	img := s.resources.Image(path)
	if img == nil {
		return false
	}

	w := float64(img.Bounds().Dx())
	h := float64(img.Bounds().Dy())
	ax, ay := sp.Origin.Anchor()

	sx, sy := state.ScaleX, state.ScaleY
	if state.FlipH {
		sx = -sx
	}
	if state.FlipV {
		sy = -sy
	}

	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	op.GeoM.Translate(-ax*w, -ay*h)
	op.GeoM.Scale(sx, sy)
	op.GeoM.Rotate(state.Rotation * math.Pi / 180)
	op.GeoM.Translate(state.X, state.Y)
	op.ColorScale.Scale(float32(state.R), float32(state.G), float32(state.B), 1)
	op.ColorScale.ScaleAlpha(float32(state.Opacity))
	if state.Additive {
		op.Blend = ebiten.BlendLighter
	}
	s.canvas.DrawImage(img, op)
	return true
}

// blitCanvas scales the storyboard canvas into the window, centered and
// letterboxed.
func (s *PlayerScene) blitCanvas(screen *ebiten.Image) {
	sw := float64(screen.Bounds().Dx())
	sh := float64(screen.Bounds().Dy())
	cw := float64(s.canvasW)
	ch := float64(s.canvasH)

	scale := sw / cw
	if alt := sh / ch; alt < scale {
		scale = alt
	}
	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate((sw-cw*scale)/2, (sh-ch*scale)/2)
	screen.DrawImage(s.canvas, op)
}

func (s *PlayerScene) drawProgressBar(screen *ebiten.Image, t float64) {
	if s.contentEnd <= s.contentStart {
		return
	}
	progress := (t - s.contentStart) / (s.contentEnd - s.contentStart)
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	sw := float32(screen.Bounds().Dx())
	sh := float32(screen.Bounds().Dy())
	const barHeight = 4
	vector.DrawFilledRect(screen, 0, sh-barHeight, sw, barHeight,
		color.RGBA{R: 40, G: 40, B: 40, A: 180}, false)
	vector.DrawFilledRect(screen, 0, sh-barHeight, sw*float32(progress), barHeight,
		color.RGBA{R: 255, G: 105, B: 180, A: 220}, false)
}
