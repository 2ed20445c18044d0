package storyboard

import "math"

// VisualState is the fully resolved set of rendering attributes of a
// sprite at one instant. It has no identity and is recomputed on every
// query: composing it from the timelines is cheap and always
// authoritative, so it must never be cached across query times.
type VisualState struct {
	// X, Y is the position in canvas coordinates, the caller-supplied
	// horizontal offset already applied.
	X, Y float64

	// ScaleX, ScaleY are the per-axis scale factors, default (1, 1).
	ScaleX, ScaleY float64

	// Rotation is in degrees. Scripts encode radians; the conversion is
	// degrees = radians * 180 / π.
	Rotation float64

	// Opacity is clamped to [0, 1]. A sprite without fade commands is
	// fully opaque, never invisible by default.
	Opacity float64

	// R, G, B are normalized tint channels in [0, 1], default white.
	// Transparency is governed by Opacity exclusively; tint alpha is
	// always 1.
	R, G, B float64

	FlipH    bool
	FlipV    bool
	Additive bool

	// Visible is false when the opacity or either scale axis resolved
	// to <= 0. The resolver performs no culling itself; this flag and
	// the manager's time bounds gate drawing.
	Visible bool
}

// StateAt composes the sprite's timelines into one visual state at time t.
// xOffset re-centers the 640-wide storyboard space inside a wider canvas;
// it is an external rendering concern passed through opaquely.
//
// StateAt is a pure function of the sprite, its timelines and t: the same
// query always yields the identical state.
func (m *TimelineManager) StateAt(t, xOffset float64) VisualState {
	state := VisualState{
		ScaleX:  1,
		ScaleY:  1,
		Opacity: 1,
		R:       1,
		G:       1,
		B:       1,
	}

	// Position. A per-axis move timeline overrides the combined move
	// timeline per axis; absent both, the sprite's initial position
	// from the header applies.
	x, y := m.sprite.X, m.sprite.Y
	if move := m.timelines[CommandMove]; move.HasCommands() {
		x = move.ValueAt(t, 0, m.sprite.X)
		y = move.ValueAt(t, 1, m.sprite.Y)
	}
	if moveX := m.timelines[CommandMoveX]; moveX.HasCommands() {
		x = moveX.ValueAt(t, 0, m.sprite.X)
	}
	if moveY := m.timelines[CommandMoveY]; moveY.HasCommands() {
		y = moveY.ValueAt(t, 0, m.sprite.Y)
	}
	state.X = x + xOffset
	state.Y = y

	// Scale. Vector scale wins over uniform scale.
	if vector := m.timelines[CommandVectorScale]; vector.HasCommands() {
		state.ScaleX = vector.ValueAt(t, 0, 1)
		state.ScaleY = vector.ValueAt(t, 1, 1)
	} else if scale := m.timelines[CommandScale]; scale.HasCommands() {
		s := scale.ValueAt(t, 0, 1)
		state.ScaleX = s
		state.ScaleY = s
	}

	state.Rotation = m.timelines[CommandRotate].ValueAt(t, 0, 0) * 180 / math.Pi
	state.Opacity = clamp01(m.timelines[CommandFade].ValueAt(t, 0, 1))

	if color := m.timelines[CommandColor]; color.HasCommands() {
		state.R = clamp01(color.ValueAt(t, 0, 255) / 255)
		state.G = clamp01(color.ValueAt(t, 1, 255) / 255)
		state.B = clamp01(color.ValueAt(t, 2, 255) / 255)
	}

	flipH, flipV, additive := m.activeParametersAt(t)
	state.FlipH = flipH
	state.FlipV = flipV
	state.Additive = additive

	state.Visible = state.Opacity > 0 && state.ScaleX > 0 && state.ScaleY > 0
	return state
}

// activeParametersAt returns the parameter flags in effect at t. A
// zero-length parameter command sticks from its start time for the rest
// of the sprite's life; a ranged one applies only inside [start, end).
func (m *TimelineManager) activeParametersAt(t float64) (flipH, flipV, additive bool) {
	tl := m.timelines[CommandParameter]
	for i := range tl.commands {
		cmd := &tl.commands[i]
		active := false
		if cmd.OpenEnded || cmd.StartTime == cmd.EndTime {
			active = t >= cmd.StartTime
		} else {
			active = t >= cmd.StartTime && t < cmd.EndTime
		}
		if !active {
			continue
		}
		switch cmd.Param {
		case ParamFlipH:
			flipH = true
		case ParamFlipV:
			flipV = true
		case ParamAdditive:
			additive = true
		}
	}
	return flipH, flipV, additive
}

// clamp01 clamps v to the [0, 1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
