package storyboard

import (
	"strconv"
	"strings"
)

// SerializeScene renders a scene back into the script grammar, the exact
// inverse of ParseScene: reparsing the returned lines yields a
// field-for-field identical scene. Loop commands serialize as loop groups
// with their nested, relative-time children; expansion only ever happens
// inside timeline managers and is never written back.
func SerializeScene(sc *Scene) []string {
	var lines []string
	for _, sprite := range sc.Sprites {
		lines = append(lines, serializeSpriteHeader(sprite))
		for i := range sprite.Commands {
			cmd := &sprite.Commands[i]
			if cmd.Type == CommandLoop {
				lines = append(lines, " L,"+formatDecimal(cmd.LoopStartTime)+","+strconv.Itoa(cmd.LoopCount))
				for j := range cmd.Children {
					lines = append(lines, "  "+serializeCommand(&cmd.Children[j]))
				}
				continue
			}
			lines = append(lines, " "+serializeCommand(cmd))
		}
	}
	return lines
}

func serializeSpriteHeader(s *Sprite) string {
	fields := []string{
		"Sprite",
		s.Layer.String(),
		s.Origin.String(),
		`"` + s.FilePath + `"`,
		formatDecimal(s.X),
		formatDecimal(s.Y),
	}
	if s.IsAnimation {
		fields[0] = "Animation"
		fields = append(fields,
			strconv.Itoa(s.FrameCount),
			formatDecimal(s.FrameDelay),
			s.LoopType.String(),
		)
	}
	return strings.Join(fields, ",")
}

func serializeCommand(c *Command) string {
	fields := []string{
		c.Type.String(),
		strconv.Itoa(int(c.Easing)),
		formatDecimal(c.StartTime),
	}
	// An open-ended command keeps its empty end field so the hold
	// semantics survive the round trip.
	if c.OpenEnded {
		fields = append(fields, "")
	} else {
		fields = append(fields, formatDecimal(c.EndTime))
	}

	if c.Type == CommandParameter {
		return strings.Join(append(fields, string(rune(c.Param))), ",")
	}

	channels := c.Type.Channels()
	for i := 0; i < channels; i++ {
		fields = append(fields, formatDecimal(c.StartValues[i]))
	}
	for i := 0; i < channels; i++ {
		fields = append(fields, formatDecimal(c.EndValues[i]))
	}
	return strings.Join(fields, ",")
}

// formatDecimal renders a number in the shortest form that parses back to
// the identical float64.
func formatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
