package storyboard

import (
	"strconv"
	"strings"
)

// Layer is the render layer a sprite belongs to. Layers draw back to
// front in declaration order: Background, Fail, Pass, Foreground, Overlay.
type Layer int

const (
	LayerBackground Layer = iota
	LayerFail
	LayerPass
	LayerForeground
	LayerOverlay

	layerCount
)

var layerNames = [layerCount]string{
	LayerBackground: "Background",
	LayerFail:       "Fail",
	LayerPass:       "Pass",
	LayerForeground: "Foreground",
	LayerOverlay:    "Overlay",
}

// String returns the script name of the layer.
func (l Layer) String() string {
	if l < 0 || l >= layerCount {
		return "Background"
	}
	return layerNames[l]
}

// ParseLayer resolves a layer name case-insensitively.
// Unrecognized names default to Background.
func ParseLayer(name string) Layer {
	for i, n := range layerNames {
		if strings.EqualFold(name, n) {
			return Layer(i)
		}
	}
	return LayerBackground
}

// Origin is the anchor point of a sprite: one of nine compass positions
// the sprite's transforms pivot around.
type Origin int

const (
	OriginTopLeft Origin = iota
	OriginTopCentre
	OriginTopRight
	OriginCentreLeft
	OriginCentre
	OriginCentreRight
	OriginBottomLeft
	OriginBottomCentre
	OriginBottomRight

	originCount
)

var originNames = [originCount]string{
	OriginTopLeft:      "TopLeft",
	OriginTopCentre:    "TopCentre",
	OriginTopRight:     "TopRight",
	OriginCentreLeft:   "CentreLeft",
	OriginCentre:       "Centre",
	OriginCentreRight:  "CentreRight",
	OriginBottomLeft:   "BottomLeft",
	OriginBottomCentre: "BottomCentre",
	OriginBottomRight:  "BottomRight",
}

// String returns the script name of the origin.
func (o Origin) String() string {
	if o < 0 || o >= originCount {
		return "Centre"
	}
	return originNames[o]
}

// ParseOrigin resolves an origin name case-insensitively.
// Unrecognized names (including the "Custom" value some editors emit)
// default to Centre.
func ParseOrigin(name string) Origin {
	for i, n := range originNames {
		if strings.EqualFold(name, n) {
			return Origin(i)
		}
	}
	return OriginCentre
}

// Anchor returns the origin as normalized (x, y) factors over the sprite
// size: (0,0) is the top-left corner, (1,1) the bottom-right.
func (o Origin) Anchor() (float64, float64) {
	switch o {
	case OriginTopLeft:
		return 0, 0
	case OriginTopCentre:
		return 0.5, 0
	case OriginTopRight:
		return 1, 0
	case OriginCentreLeft:
		return 0, 0.5
	case OriginCentreRight:
		return 1, 0.5
	case OriginBottomLeft:
		return 0, 1
	case OriginBottomCentre:
		return 0.5, 1
	case OriginBottomRight:
		return 1, 1
	default:
		return 0.5, 0.5
	}
}

// LoopType is the frame-cycling mode of an animated sprite.
type LoopType int

const (
	// LoopForever cycles through the frames for the sprite's whole life.
	LoopForever LoopType = iota
	// LoopOnce plays the frame sequence once and locks on the last frame.
	LoopOnce
)

// String returns the script name of the loop type.
func (lt LoopType) String() string {
	if lt == LoopOnce {
		return "LoopOnce"
	}
	return "LoopForever"
}

// ParseLoopType resolves a loop type name case-insensitively.
// Unrecognized names default to LoopForever.
func ParseLoopType(name string) LoopType {
	if strings.EqualFold(name, "LoopOnce") {
		return LoopOnce
	}
	return LoopForever
}

// Sprite is one storyboard object: an image (or frame animation) with an
// ordered list of commands animating its properties. Identity and the
// initial position never change after parsing; the command list is
// appended to by the parser only.
type Sprite struct {
	// ID is a monotonically increasing integer assigned in parse order.
	ID int

	Layer  Layer
	Origin Origin

	// FilePath is the image path relative to the beatmap folder,
	// quotes already stripped.
	FilePath string

	// X, Y is the initial position in storyboard coordinates
	// (640x480 logical space).
	X, Y float64

	// Animation metadata. The timeline engine ignores these; the renderer
	// uses them to pick the frame image ("path0.png", "path1.png", ...).
	IsAnimation bool
	FrameCount  int
	FrameDelay  float64
	LoopType    LoopType

	// Commands is kept sorted by start time; the parser inserts in order.
	Commands []Command
}

// addCommand inserts cmd keeping the list sorted by start time.
// Insertion is stable: equal start times keep script order.
func (s *Sprite) addCommand(cmd Command) {
	i := len(s.Commands)
	for i > 0 && s.Commands[i-1].StartTime > cmd.StartTime {
		i--
	}
	s.Commands = append(s.Commands, Command{})
	copy(s.Commands[i+1:], s.Commands[i:])
	s.Commands[i] = cmd
}

// FramePath returns the image path of one animation frame. Animated
// sprites store frames as "<base><index><ext>"; plain sprites return
// FilePath unchanged.
func (s *Sprite) FramePath(frame int) string {
	if !s.IsAnimation {
		return s.FilePath
	}
	ext := ""
	base := s.FilePath
	if dot := strings.LastIndex(s.FilePath, "."); dot >= 0 {
		base, ext = s.FilePath[:dot], s.FilePath[dot:]
	}
	return base + strconv.Itoa(frame) + ext
}

// FrameAt returns the animation frame index for time t, measured from the
// sprite becoming active at startTime.
func (s *Sprite) FrameAt(t, startTime float64) int {
	if !s.IsAnimation || s.FrameCount <= 1 || s.FrameDelay <= 0 {
		return 0
	}
	elapsed := t - startTime
	if elapsed < 0 {
		return 0
	}
	frame := int(elapsed / s.FrameDelay)
	if s.LoopType == LoopOnce {
		if frame >= s.FrameCount {
			return s.FrameCount - 1
		}
		return frame
	}
	return frame % s.FrameCount
}

// Scene is a fully parsed storyboard: the ordered list of sprites in
// declaration order. A freshly loaded scene replaces the previous one
// wholesale.
type Scene struct {
	// Path is the source label used in diagnostics.
	Path string

	Sprites []*Sprite
}

// SpritesOnLayer returns the scene's sprites on one layer, preserving
// declaration order.
func (sc *Scene) SpritesOnLayer(layer Layer) []*Sprite {
	var out []*Sprite
	for _, sp := range sc.Sprites {
		if sp.Layer == layer {
			out = append(out, sp)
		}
	}
	return out
}
