// Package storyboard implements the osu! storyboard animation engine:
// the command data model, the script parser, per-type command timelines
// and the state resolver that composes them into one renderable frame.
//
// A storyboard script declares sprites and time-keyed commands; given a
// playback time, the engine deterministically computes the fully resolved
// visual state of every sprite. All times are milliseconds, stored as
// float64 for sub-frame precision.
package storyboard

// CommandType identifies the property a command animates.
type CommandType int

const (
	// CommandFade animates opacity (one channel, 0-1).
	CommandFade CommandType = iota
	// CommandMove animates both position axes together (two channels).
	CommandMove
	// CommandMoveX animates the x position only.
	CommandMoveX
	// CommandMoveY animates the y position only.
	CommandMoveY
	// CommandScale animates a uniform scale factor (one channel).
	CommandScale
	// CommandVectorScale animates the x and y scale independently (two channels).
	CommandVectorScale
	// CommandRotate animates rotation in radians (one channel).
	CommandRotate
	// CommandColor animates the tint, three channels in the 0-255 range.
	CommandColor
	// CommandParameter toggles a categorical flag (flip or additive blend).
	CommandParameter
	// CommandLoop is a group command holding nested commands with times
	// relative to the loop start. Loops never reach per-type timelines;
	// they are expanded into absolute-time clones of their children.
	CommandLoop

	commandTypeCount
)

// commandTypeNames maps command types to their script codes.
var commandTypeNames = [commandTypeCount]string{
	CommandFade:        "F",
	CommandMove:        "M",
	CommandMoveX:       "MX",
	CommandMoveY:       "MY",
	CommandScale:       "S",
	CommandVectorScale: "V",
	CommandRotate:      "R",
	CommandColor:       "C",
	CommandParameter:   "P",
	CommandLoop:        "L",
}

// String returns the script code of the command type, e.g. "MX".
func (ct CommandType) String() string {
	if ct < 0 || ct >= commandTypeCount {
		return "?"
	}
	return commandTypeNames[ct]
}

// Channels returns how many scalar value channels the command type carries.
func (ct CommandType) Channels() int {
	switch ct {
	case CommandMove, CommandVectorScale:
		return 2
	case CommandColor:
		return 3
	case CommandParameter, CommandLoop:
		return 0
	default:
		return 1
	}
}

// ParamKind is the categorical payload of a Parameter command.
type ParamKind byte

const (
	// ParamNone marks a non-Parameter command.
	ParamNone ParamKind = 0
	// ParamFlipH mirrors the sprite horizontally.
	ParamFlipH ParamKind = 'H'
	// ParamFlipV mirrors the sprite vertically.
	ParamFlipV ParamKind = 'V'
	// ParamAdditive switches the sprite to additive blending.
	ParamAdditive ParamKind = 'A'
)

// openEndEpsilon is the tolerance used to decide whether a command with an
// empty end-time field is a true hold (equal start/end values) or an
// instantaneous change. The exact value is an adopted heuristic, not part
// of the script format.
const openEndEpsilon = 0.001

// Command is one scripted change to one sprite property over a time
// interval. It is a closed tagged union: Type selects which fields are
// meaningful, and every consumer switches exhaustively over it.
//
// StartValues/EndValues hold up to three channels; the arity is fixed by
// Type (see Channels). Value payloads use a fixed array so loop expansion
// can clone commands by plain assignment.
type Command struct {
	Type   CommandType
	Easing EasingType

	// StartTime and EndTime bound the command interval in milliseconds.
	// When OpenEnded is true the command has no declared end: the property
	// holds the start value until a later command of the same type starts.
	StartTime float64
	EndTime   float64
	OpenEnded bool

	StartValues [3]float64
	EndValues   [3]float64

	// Param is set for CommandParameter only.
	Param ParamKind

	// Loop payload (CommandLoop only). Children times are relative to
	// LoopStartTime; LoopCount is the number of iterations.
	LoopStartTime float64
	LoopCount     int
	Children      []Command
}

// effectiveEndTime returns the concrete end of the command interval.
// Open-ended commands hold indefinitely, but for duration and bound
// calculations their extent collapses to the start time.
func (c *Command) effectiveEndTime() float64 {
	if c.OpenEnded {
		return c.StartTime
	}
	return c.EndTime
}

// contains reports whether t falls inside the command interval,
// treating an open end as +infinity.
func (c *Command) contains(t float64) bool {
	if t < c.StartTime {
		return false
	}
	return c.OpenEnded || t <= c.EndTime
}

// ValueAt evaluates the interpolation contract for one value channel:
// before the interval the start value holds, from the end onward the end
// value holds, and inside the interval the eased progress blends between
// the two. A zero-length interval snaps to the end value at the start
// instant.
func (c *Command) ValueAt(t float64, channel int) float64 {
	if t < c.StartTime || c.OpenEnded {
		return c.StartValues[channel]
	}
	if t >= c.EndTime {
		return c.EndValues[channel]
	}
	progress := (t - c.StartTime) / (c.EndTime - c.StartTime)
	if progress < 0 {
		progress = 0
	} else if progress > 1 {
		progress = 1
	}
	return Lerp(c.StartValues[channel], c.EndValues[channel], c.Easing.Ease(progress))
}

// resolveOpenEnd fixes up a command whose end-time field was empty in the
// script. If any value channel actually changes, the command cannot be a
// hold: it becomes an instantaneous change at its start time. Only truly
// flat commands stay open-ended.
func (c *Command) resolveOpenEnd() {
	if !c.OpenEnded {
		return
	}
	for i := 0; i < c.Type.Channels(); i++ {
		if diff := c.StartValues[i] - c.EndValues[i]; diff > openEndEpsilon || diff < -openEndEpsilon {
			c.OpenEnded = false
			c.EndTime = c.StartTime
			return
		}
	}
	c.EndTime = c.StartTime
}

// shifted returns a structural copy of the command with every time field
// moved by offset. Used by loop expansion so each iteration owns an
// independent command instance.
func (c *Command) shifted(offset float64) Command {
	clone := *c
	clone.Children = nil
	clone.StartTime += offset
	clone.EndTime += offset
	return clone
}
