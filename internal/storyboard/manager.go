package storyboard

// TimelineManager owns one per-type timeline for each animatable property
// of one sprite. Construction iterates the sprite's commands exactly once,
// expanding loops into absolute-time clones and routing everything else
// into its matching timeline. After construction the manager is read-only,
// so state queries may run concurrently across sprites without locking.
type TimelineManager struct {
	sprite    *Sprite
	timelines [CommandLoop]*Timeline

	// commandsStart/commandsEnd span every routed command; both are 0
	// for a sprite with no commands at all.
	commandsStart float64
	commandsEnd   float64
	hasCommands   bool

	// displayStart/displayEnd narrow the command span by the fade and
	// scale timelines: a sprite kept at zero opacity or zero scale is
	// never displayed even while its commands run.
	displayStart float64
	displayEnd   float64
	neverVisible bool
}

// NewTimelineManager builds the per-type timelines for a sprite. This is
// the load barrier: it must complete before any state query runs.
func NewTimelineManager(sprite *Sprite) *TimelineManager {
	m := &TimelineManager{sprite: sprite}
	for kind := CommandType(0); kind < CommandLoop; kind++ {
		m.timelines[kind] = newTimeline(kind)
	}
	for i := range sprite.Commands {
		cmd := &sprite.Commands[i]
		if cmd.Type == CommandLoop {
			m.expandLoop(cmd)
		} else {
			m.route(*cmd)
		}
	}
	m.computeDisplayBounds()
	return m
}

// Sprite returns the sprite this manager animates.
func (m *TimelineManager) Sprite() *Sprite {
	return m.sprite
}

// Timeline returns the per-type timeline for one command kind.
// CommandLoop has no timeline; loops exist only pre-expansion.
func (m *TimelineManager) Timeline(kind CommandType) *Timeline {
	return m.timelines[kind]
}

// route inserts a command into its timeline and widens the command span.
func (m *TimelineManager) route(cmd Command) {
	if !m.hasCommands {
		m.commandsStart = cmd.StartTime
		m.commandsEnd = cmd.effectiveEndTime()
		m.hasCommands = true
	} else {
		if cmd.StartTime < m.commandsStart {
			m.commandsStart = cmd.StartTime
		}
		if end := cmd.effectiveEndTime(); end > m.commandsEnd {
			m.commandsEnd = end
		}
	}
	m.timelines[cmd.Type].add(cmd)
}

// expandLoop materializes a Loop command: every nested command is cloned
// once per iteration with its times shifted by
// loopStart + iteration*loopDuration, where the loop duration is the
// largest nested end time. The Loop command itself never reaches a
// timeline; its placeholder end time is fixed up here so the sprite's
// command list reflects the loop's real extent.
func (m *TimelineManager) expandLoop(loop *Command) {
	duration := 0.0
	for i := range loop.Children {
		if end := loop.Children[i].effectiveEndTime(); end > duration {
			duration = end
		}
	}
	loop.EndTime = loop.LoopStartTime + float64(loop.LoopCount)*duration
	for iteration := 0; iteration < loop.LoopCount; iteration++ {
		offset := loop.LoopStartTime + float64(iteration)*duration
		for i := range loop.Children {
			m.route(loop.Children[i].shifted(offset))
		}
	}
}

// computeDisplayBounds intersects the command span with the display
// bounds of each visibility-affecting timeline that has commands.
func (m *TimelineManager) computeDisplayBounds() {
	m.displayStart = m.commandsStart
	m.displayEnd = m.commandsEnd
	for _, kind := range [...]CommandType{CommandFade, CommandScale, CommandVectorScale} {
		tl := m.timelines[kind]
		if !tl.HasCommands() {
			continue
		}
		start, ok := tl.DisplayStartTime()
		if !ok {
			m.neverVisible = true
			return
		}
		if start > m.displayStart {
			m.displayStart = start
		}
		if end, _ := tl.DisplayEndTime(); end < m.displayEnd {
			m.displayEnd = end
		}
	}
}

// ContentTimeRange returns the time span covered by the sprite's
// commands, (0, 0) when it has none.
func (m *TimelineManager) ContentTimeRange() (start, end float64) {
	return m.commandsStart, m.commandsEnd
}

// DisplayTimeRange returns the span during which the sprite can be
// visible. ok is false for a sprite that is provably never visible.
func (m *TimelineManager) DisplayTimeRange() (start, end float64, ok bool) {
	return m.displayStart, m.displayEnd, !m.neverVisible
}

// IsActiveAt reports whether t falls inside the sprite's command span.
func (m *TimelineManager) IsActiveAt(t float64) bool {
	return t >= m.commandsStart && t <= m.commandsEnd
}

// IsVisibleAt reports whether the sprite should be drawn at t: inside the
// display bounds and with a visible composed state.
func (m *TimelineManager) IsVisibleAt(t float64) bool {
	if m.neverVisible || t < m.displayStart || t > m.displayEnd {
		return false
	}
	return m.StateAt(t, 0).Visible
}
