// Package osu provides a minimal parser for the .osu beatmap metadata
// format, covering the sections a storyboard player needs: the audio
// file, display metadata, and the [Events] section with its background,
// breaks and inline storyboard declarations.
package osu

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Beatmap holds the subset of a .osu file relevant to storyboard playback.
type Beatmap struct {
	// FormatVersion is taken from the "osu file format vN" header.
	FormatVersion int

	General  General
	Metadata Metadata

	// BackgroundFile is the background image declared in [Events].
	BackgroundFile string

	// VideoFile is the background video declared in [Events], if any.
	VideoFile string

	// Breaks are the break periods declared in [Events], in milliseconds.
	Breaks []BreakPeriod

	// StoryboardLines are the raw storyboard event lines found in
	// [Events], in file order and with their indentation intact. They
	// are meant to be handed verbatim to the storyboard parser and
	// merged with the beatmap-set .osb.
	StoryboardLines []string
}

// General mirrors the [General] keys the player consumes.
type General struct {
	// AudioFilename is the song file, relative to the beatmap folder.
	AudioFilename string

	// AudioLeadIn is the silence prepended before the song, in ms.
	AudioLeadIn int

	// PreviewTime is the preview point in ms, -1 when unset.
	PreviewTime int

	// WidescreenStoryboard widens the storyboard canvas from 640 to 854
	// logical units.
	WidescreenStoryboard bool
}

// Metadata mirrors the [Metadata] keys shown in the player UI.
type Metadata struct {
	Title   string
	Artist  string
	Creator string
	Version string
}

// BreakPeriod is one break declared in [Events], in milliseconds.
type BreakPeriod struct {
	Start float64
	End   float64
}

type section int

const (
	secNone section = iota
	secGeneral
	secMetadata
	secEvents
)

// storyboardEventCodes are the [Events] line openers that belong to the
// storyboard rather than the beatmap.
var storyboardEventCodes = map[string]bool{
	"Sprite":    true,
	"Animation": true,
	"Sample":    true,
	"4":         true,
	"5":         true,
	"6":         true,
}

// ParseBeatmapFile reads and parses a .osu file.
func ParseBeatmapFile(path string) (*Beatmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open beatmap '%s': %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read beatmap '%s': %w", path, err)
	}
	b, err := ParseBeatmap(lines)
	if err != nil {
		return nil, fmt.Errorf("failed to parse beatmap '%s': %w", path, err)
	}
	return b, nil
}

// ParseBeatmap parses the lines of a .osu file. Unknown sections and keys
// are skipped; only a missing or malformed format header is an error.
func ParseBeatmap(lines []string) (*Beatmap, error) {
	b := &Beatmap{General: General{PreviewTime: -1}}

	i := 0
	header := ""
	for ; i < len(lines); i++ {
		header = strings.TrimSpace(strings.TrimPrefix(lines[i], "\uFEFF"))
		if header != "" {
			i++
			break
		}
	}
	lowered := strings.ToLower(header)
	if !strings.HasPrefix(lowered, "osu file format v") {
		return nil, fmt.Errorf("invalid beatmap header: %q", header)
	}
	version, err := strconv.Atoi(strings.TrimSpace(lowered[len("osu file format v"):]))
	if err != nil {
		return nil, fmt.Errorf("invalid beatmap version in header %q: %w", header, err)
	}
	b.FormatVersion = version

	sec := secNone
	for ; i < len(lines); i++ {
		raw := strings.TrimRight(lines[i], "\r")
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			switch strings.ToLower(line) {
			case "[general]":
				sec = secGeneral
			case "[metadata]":
				sec = secMetadata
			case "[events]":
				sec = secEvents
			default:
				sec = secNone
			}
			continue
		}

		switch sec {
		case secGeneral:
			b.parseGeneral(line)
		case secMetadata:
			b.parseMetadata(line)
		case secEvents:
			// Storyboard lines keep their raw indentation: leading
			// spaces and underscores carry the command grouping.
			b.parseEvent(raw, line)
		}
	}
	return b, nil
}

func (b *Beatmap) parseGeneral(line string) {
	key, value := splitKeyValue(line)
	switch strings.ToLower(key) {
	case "audiofilename":
		b.General.AudioFilename = strings.ReplaceAll(value, `\`, "/")
	case "audioleadin":
		b.General.AudioLeadIn = parseInt(value, 0)
	case "previewtime":
		b.General.PreviewTime = parseInt(value, -1)
	case "widescreenstoryboard":
		b.General.WidescreenStoryboard = value == "1"
	}
}

func (b *Beatmap) parseMetadata(line string) {
	key, value := splitKeyValue(line)
	switch strings.ToLower(key) {
	case "title":
		b.Metadata.Title = value
	case "artist":
		b.Metadata.Artist = value
	case "creator":
		b.Metadata.Creator = value
	case "version":
		b.Metadata.Version = value
	}
}

func (b *Beatmap) parseEvent(raw, line string) {
	if strings.HasPrefix(raw, " ") || strings.HasPrefix(raw, "_") {
		b.StoryboardLines = append(b.StoryboardLines, raw)
		return
	}
	fields := strings.Split(line, ",")
	switch fields[0] {
	case "0", "Background":
		if len(fields) >= 3 {
			b.BackgroundFile = cleanFilename(fields[2])
		}
	case "1", "Video":
		if len(fields) >= 3 {
			b.VideoFile = cleanFilename(fields[2])
		}
	case "2", "Break":
		if len(fields) >= 3 {
			start := parseFloat(fields[1], 0)
			end := parseFloat(fields[2], start)
			if end < start {
				end = start
			}
			b.Breaks = append(b.Breaks, BreakPeriod{Start: start, End: end})
		}
	default:
		if storyboardEventCodes[fields[0]] {
			b.StoryboardLines = append(b.StoryboardLines, raw)
		}
	}
}

func splitKeyValue(line string) (string, string) {
	key, value, found := strings.Cut(line, ":")
	if !found {
		return strings.TrimSpace(line), ""
	}
	return strings.TrimSpace(key), strings.TrimSpace(value)
}

func cleanFilename(s string) string {
	s = strings.Trim(strings.TrimSpace(s), `"`)
	return strings.ReplaceAll(s, `\`, "/")
}

func parseInt(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}

func parseFloat(s string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}
	return v
}
