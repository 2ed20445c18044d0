package storyboard

import (
	"log"
	"strconv"
	"strings"
)

// Parser state for one script. Parsing is best effort: malformed lines are
// dropped and the scan continues, because real-world scripts from varied
// authoring tools contain stray or unsupported lines. The parser never
// fails on content; the worst outcome is a dropped command or sprite.
type parser struct {
	scene   *Scene
	current *Sprite
	group   *commandGroup
	dropped int
}

// commandGroup is an open loop or trigger group. Lines indented deeper
// than the group header are buffered as the group's nested commands until
// the indentation drops back, which closes and materializes the group.
type commandGroup struct {
	depth     int
	isLoop    bool
	loopStart float64
	loopCount int
	commands  []Command
}

// ParseScene converts raw script lines into a Scene. The path is only a
// label for diagnostics; reading the script from storage is the caller's
// concern (see ReadScriptLines).
func ParseScene(path string, lines []string) *Scene {
	p := &parser{scene: &Scene{Path: path}}
	for _, line := range lines {
		p.parseLine(line)
	}
	p.flushGroup()
	if p.dropped > 0 {
		log.Printf("[Parser] %s: dropped %d malformed line(s)", path, p.dropped)
	}
	return p.scene
}

func (p *parser) parseLine(line string) {
	line = strings.TrimRight(line, "\r\n")

	// Indentation depth is the count of leading space characters.
	// Underscores count as spaces; the official editor emits them.
	body := strings.TrimLeft(line, " _")
	if body == "" || strings.HasPrefix(body, "//") || strings.HasPrefix(body, "[") {
		return
	}
	depth := len(line) - len(body)

	// A group stays open only while lines keep nesting deeper than its
	// header; anything at or above the header depth closes it first.
	if p.group != nil && depth <= p.group.depth {
		p.flushGroup()
	}

	fields := strings.Split(body, ",")
	switch fields[0] {
	case "Sprite", "Animation":
		p.parseSprite(fields)
	case "L":
		p.openLoop(fields, depth)
	case "T":
		p.openTrigger(fields, depth)
	default:
		p.parseCommand(fields)
	}
}

// parseSprite starts a new sprite from a "Sprite" or "Animation" header.
// The previous sprite, if any, is complete as soon as its header's
// successor appears; sprites are appended to the scene in parse order.
func (p *parser) parseSprite(fields []string) {
	p.current = nil
	if len(fields) < 6 {
		p.dropped++
		return
	}
	x, errX := parseDecimal(fields[4])
	y, errY := parseDecimal(fields[5])
	if errX != nil || errY != nil {
		p.dropped++
		return
	}

	sprite := &Sprite{
		ID:       len(p.scene.Sprites),
		Layer:    ParseLayer(strings.TrimSpace(fields[1])),
		Origin:   ParseOrigin(strings.TrimSpace(fields[2])),
		FilePath: strings.Trim(strings.TrimSpace(fields[3]), `"`),
		X:        x,
		Y:        y,
	}

	if fields[0] == "Animation" {
		if len(fields) < 8 {
			p.dropped++
			return
		}
		frameCount, errC := strconv.Atoi(strings.TrimSpace(fields[6]))
		frameDelay, errD := parseDecimal(fields[7])
		if errC != nil || errD != nil || frameCount < 1 {
			p.dropped++
			return
		}
		sprite.IsAnimation = true
		sprite.FrameCount = frameCount
		sprite.FrameDelay = frameDelay
		if len(fields) > 8 {
			sprite.LoopType = ParseLoopType(strings.TrimSpace(fields[8]))
		}
	}

	p.scene.Sprites = append(p.scene.Sprites, sprite)
	p.current = sprite
}

// openLoop opens a loop group: "L,<startTime>,<loopCount>". Its nested
// commands carry times relative to the loop start and are materialized as
// one Loop command when the group closes.
func (p *parser) openLoop(fields []string, depth int) {
	// A loop header nested inside an open group would need loop-in-loop
	// semantics the format does not define; the line is dropped rather
	// than expanded with guessed timing.
	if p.current == nil || p.group != nil || len(fields) < 3 {
		p.dropped++
		return
	}
	start, errS := parseDecimal(fields[1])
	count, errC := strconv.Atoi(strings.TrimSpace(fields[2]))
	if errS != nil || errC != nil {
		p.dropped++
		return
	}
	if count < 1 {
		count = 1
	}
	p.group = &commandGroup{
		depth:     depth,
		isLoop:    true,
		loopStart: start,
		loopCount: count,
	}
}

// openTrigger opens a trigger group: "T,<triggerName>,<start>,<end>".
// Trigger semantics need hitsound correlation the timeline engine cannot
// see, so the buffered commands are flattened into ordinary sprite
// commands when the group closes. The trigger condition is discarded.
func (p *parser) openTrigger(fields []string, depth int) {
	if p.current == nil || p.group != nil || len(fields) < 2 {
		p.dropped++
		return
	}
	p.group = &commandGroup{depth: depth}
}

// flushGroup closes the open group, if any. Loop groups become a single
// Loop command carrying the buffered children; its own end time is a
// placeholder fixed up during timeline construction. Trigger groups emit
// their children directly.
func (p *parser) flushGroup() {
	group := p.group
	p.group = nil
	if group == nil || p.current == nil {
		return
	}
	if !group.isLoop {
		for _, cmd := range group.commands {
			p.current.addCommand(cmd)
		}
		return
	}
	if len(group.commands) == 0 {
		return
	}
	p.current.addCommand(Command{
		Type:          CommandLoop,
		StartTime:     group.loopStart,
		EndTime:       group.loopStart,
		LoopStartTime: group.loopStart,
		LoopCount:     group.loopCount,
		Children:      group.commands,
	})
}

// parseCommand parses one property command line:
// "<code>,<easing>,<start>,<end>,<values...>". An empty end field marks
// the command open-ended; resolveOpenEnd immediately decides whether that
// means a hold or an instantaneous change.
func (p *parser) parseCommand(fields []string) {
	if p.current == nil {
		return
	}
	cmdType, ok := commandTypeForCode(fields[0])
	if !ok || cmdType == CommandLoop || len(fields) < 4 {
		p.dropped++
		return
	}

	easing, errE := strconv.Atoi(strings.TrimSpace(fields[1]))
	start, errS := parseDecimal(fields[2])
	if errE != nil || errS != nil {
		p.dropped++
		return
	}

	cmd := Command{
		Type:      cmdType,
		Easing:    EasingType(easing),
		StartTime: start,
	}

	endField := strings.TrimSpace(fields[3])
	if endField == "" {
		cmd.OpenEnded = true
		cmd.EndTime = start
	} else {
		end, err := parseDecimal(endField)
		if err != nil {
			p.dropped++
			return
		}
		cmd.EndTime = end
		if cmd.EndTime < cmd.StartTime {
			cmd.EndTime = cmd.StartTime
		}
	}

	if cmdType == CommandParameter {
		if len(fields) < 5 {
			p.dropped++
			return
		}
		switch strings.TrimSpace(fields[4]) {
		case "H":
			cmd.Param = ParamFlipH
		case "V":
			cmd.Param = ParamFlipV
		case "A":
			cmd.Param = ParamAdditive
		default:
			p.dropped++
			return
		}
		cmd.resolveOpenEnd()
		p.appendCommand(cmd)
		return
	}

	// Start values are required; missing or unparsable ones drop the
	// whole line. End values are optional and default to the start value,
	// so a short line declares a flat property.
	channels := cmdType.Channels()
	if len(fields) < 4+channels {
		p.dropped++
		return
	}
	for i := 0; i < channels; i++ {
		v, err := parseDecimal(fields[4+i])
		if err != nil {
			p.dropped++
			return
		}
		cmd.StartValues[i] = v
		cmd.EndValues[i] = v
	}
	for i := 0; i < channels; i++ {
		idx := 4 + channels + i
		if idx >= len(fields) {
			break
		}
		if v, err := parseDecimal(fields[idx]); err == nil {
			cmd.EndValues[i] = v
		}
	}

	cmd.resolveOpenEnd()
	p.appendCommand(cmd)
}

// appendCommand routes a finished command either into the open group's
// buffer or straight into the current sprite.
func (p *parser) appendCommand(cmd Command) {
	if p.group != nil {
		p.group.commands = append(p.group.commands, cmd)
		return
	}
	p.current.addCommand(cmd)
}

// commandTypeForCode resolves a script command code ("F", "MX", ...).
func commandTypeForCode(code string) (CommandType, bool) {
	for i, name := range commandTypeNames {
		if code == name {
			return CommandType(i), true
		}
	}
	return 0, false
}

// parseDecimal parses a locale-independent decimal number.
func parseDecimal(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
