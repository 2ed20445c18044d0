// inspect parses a storyboard script and prints its structure: sprite
// and command counts per layer, the content time range, and optionally
// every sprite's composed state at one point in time.
//
// Usage:
//
//	go run cmd/inspect/main.go <script.osb> [timeMs]
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/josepuma/Storytor/internal/storyboard"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: go run cmd/inspect/main.go <script.osb|script.osu> [timeMs]")
		os.Exit(1)
	}
	path := os.Args[1]

	lines, err := storyboard.ReadScriptLines(path)
	if err != nil {
		log.Fatalf("failed to read script: %v", err)
	}
	scene := storyboard.ParseScene(path, lines)

	fmt.Printf("script: %s\n", path)
	fmt.Printf("sprites: %d\n\n", len(scene.Sprites))

	layers := []storyboard.Layer{
		storyboard.LayerBackground,
		storyboard.LayerFail,
		storyboard.LayerPass,
		storyboard.LayerForeground,
		storyboard.LayerOverlay,
	}
	for _, layer := range layers {
		sprites := scene.SpritesOnLayer(layer)
		if len(sprites) == 0 {
			continue
		}
		commands := 0
		animations := 0
		for _, sp := range sprites {
			commands += len(sp.Commands)
			if sp.IsAnimation {
				animations++
			}
		}
		fmt.Printf("%-12s %5d sprites  %2d animations  %6d commands\n",
			layer, len(sprites), animations, commands)
	}

	managers := make([]*storyboard.TimelineManager, 0, len(scene.Sprites))
	first := true
	var start, end float64
	for _, sp := range scene.Sprites {
		m := storyboard.NewTimelineManager(sp)
		managers = append(managers, m)
		if len(sp.Commands) == 0 {
			continue
		}
		s, e := m.ContentTimeRange()
		if first {
			start, end = s, e
			first = false
			continue
		}
		if s < start {
			start = s
		}
		if e > end {
			end = e
		}
	}
	fmt.Printf("\ncontent range: %.0fms .. %.0fms\n", start, end)

	if len(os.Args) < 3 {
		return
	}
	t, err := strconv.ParseFloat(os.Args[2], 64)
	if err != nil {
		log.Fatalf("invalid time %q: %v", os.Args[2], err)
	}

	fmt.Printf("\nstates at %.0fms:\n", t)
	visible := 0
	for _, m := range managers {
		if !m.IsVisibleAt(t) {
			continue
		}
		visible++
		sp := m.Sprite()
		st := m.StateAt(t, 0)
		fmt.Printf("  #%-4d %-10s %-28s pos=(%7.1f,%7.1f) scale=(%.2f,%.2f) rot=%6.1f alpha=%.2f\n",
			sp.ID, sp.Layer, sp.FilePath, st.X, st.Y, st.ScaleX, st.ScaleY, st.Rotation, st.Opacity)
	}
	fmt.Printf("  %d visible of %d\n", visible, len(managers))
}
