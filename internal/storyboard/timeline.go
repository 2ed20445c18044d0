package storyboard

import (
	"math"
	"sort"
)

// Timeline is the sorted view over one sprite's commands restricted to one
// property kind. It is derived data: rebuilt deterministically from the
// sprite's command list during timeline-manager construction and never
// mutated afterwards, which is what makes concurrent state queries safe.
type Timeline struct {
	kind     CommandType
	commands []Command
}

func newTimeline(kind CommandType) *Timeline {
	return &Timeline{kind: kind}
}

// add inserts a command keeping the slice sorted ascending by start time.
// Insertion is stable so exact overlaps resolve last-one-wins by start
// time, then by insertion order.
func (tl *Timeline) add(cmd Command) {
	i := len(tl.commands)
	for i > 0 && tl.commands[i-1].StartTime > cmd.StartTime {
		i--
	}
	tl.commands = append(tl.commands, Command{})
	copy(tl.commands[i+1:], tl.commands[i:])
	tl.commands[i] = cmd
}

// HasCommands reports whether any command of this kind exists.
func (tl *Timeline) HasCommands() bool {
	return len(tl.commands) > 0
}

// Commands returns the sorted command slice. Callers must not mutate it.
func (tl *Timeline) Commands() []Command {
	return tl.commands
}

// lastStartedIndex returns the index of the last command whose start time
// is <= t, or -1 when t precedes every command. Binary search over the
// sorted start times; O(log n).
func (tl *Timeline) lastStartedIndex(t float64) int {
	return sort.Search(len(tl.commands), func(i int) bool {
		return tl.commands[i].StartTime > t
	}) - 1
}

// ActiveCommandAt returns the command governing the property at time t,
// or nil. The last command started by t wins: a later command always
// replaces an active open-ended one, and overlapping intervals resolve
// last-one-wins.
func (tl *Timeline) ActiveCommandAt(t float64) *Command {
	i := tl.lastStartedIndex(t)
	if i < 0 {
		return nil
	}
	if cmd := &tl.commands[i]; cmd.contains(t) {
		return cmd
	}
	return nil
}

// ValueAt resolves one value channel of the property at time t. Inside an
// active command the value interpolates per the command's easing; after
// all started commands finished, the most recent end value holds; before
// every command the first start value holds; with no commands at all the
// caller-supplied default applies.
func (tl *Timeline) ValueAt(t float64, channel int, def float64) float64 {
	i := tl.lastStartedIndex(t)
	if i < 0 {
		if len(tl.commands) > 0 {
			return tl.commands[0].StartValues[channel]
		}
		return def
	}
	cmd := &tl.commands[i]
	if cmd.contains(t) {
		return cmd.ValueAt(t, channel)
	}
	// The property holds its last computed value after its commands
	// finish.
	return cmd.EndValues[channel]
}

// visibilityKind reports whether a zero value of this property hides the
// sprite, which switches the display bounds to the value-positivity rule.
func (tl *Timeline) visibilityKind() bool {
	switch tl.kind {
	case CommandFade, CommandScale, CommandVectorScale:
		return true
	}
	return false
}

// positive reports whether every channel of the given values is > 0.
func (tl *Timeline) positive(values [3]float64) bool {
	for i := 0; i < tl.kind.Channels(); i++ {
		if values[i] <= 0 {
			return false
		}
	}
	return true
}

// DisplayStartTime returns the earliest time this timeline allows the
// sprite to be visible. For fade and scale kinds that is the first time
// the value is provably > 0: -Inf when the pre-command hold value is
// already positive, the command start when the value turns positive
// during a command, and ok=false when no command ever yields a positive
// value. Other kinds report the first command's start time.
func (tl *Timeline) DisplayStartTime() (float64, bool) {
	if len(tl.commands) == 0 {
		return 0, false
	}
	if !tl.visibilityKind() {
		return tl.commands[0].StartTime, true
	}
	if tl.positive(tl.commands[0].StartValues) {
		return math.Inf(-1), true
	}
	for i := range tl.commands {
		cmd := &tl.commands[i]
		if tl.positive(cmd.StartValues) || tl.positive(cmd.EndValues) {
			return cmd.StartTime, true
		}
	}
	return 0, false
}

// DisplayEndTime returns the latest time this timeline allows the sprite
// to be visible, mirroring DisplayStartTime: +Inf when the post-command
// hold value stays positive, the point where the value reaches zero or is
// overridden otherwise, ok=false when never positive. Other kinds report
// the last command's end time.
func (tl *Timeline) DisplayEndTime() (float64, bool) {
	n := len(tl.commands)
	if n == 0 {
		return 0, false
	}
	if !tl.visibilityKind() {
		return tl.commands[n-1].effectiveEndTime(), true
	}
	if tl.positive(tl.commands[n-1].EndValues) {
		return math.Inf(1), true
	}
	for i := n - 1; i >= 0; i-- {
		cmd := &tl.commands[i]
		if tl.positive(cmd.EndValues) {
			// The positive end value holds until the next command
			// overrides it with zero.
			return tl.commands[i+1].StartTime, true
		}
		if tl.positive(cmd.StartValues) {
			// The value decays to zero across this command.
			return cmd.EndTime, true
		}
	}
	return 0, false
}
