package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/josepuma/Storytor/pkg/app"
	"github.com/josepuma/Storytor/pkg/config"
)

func main() {
	dir := flag.String("dir", "", "beatmap folder to open")
	startMs := flag.Float64("time", 0, "playback start position in milliseconds")
	configPath := flag.String("config", "storytor.yaml", "player config file")
	verbose := flag.Bool("verbose", false, "enable log output")
	flag.Parse()

	playerCfg, err := config.LoadPlayerConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	a, err := app.NewApp(app.Config{
		Player:  playerCfg,
		Dir:     *dir,
		StartMs: *startMs,
		Verbose: *verbose,
	})
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(playerCfg.WindowWidth, playerCfg.WindowHeight)
	ebiten.SetWindowTitle(playerCfg.WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if a.Settings().GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	if err := ebiten.RunGame(a); err != nil {
		log.Fatal(err)
	}
}
