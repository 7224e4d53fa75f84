// Command nesgo runs an iNES ROM in a window.
package main

import (
	"flag"
	"log"
	"path/filepath"

	"github.com/nesgo/nesgo/internal/cartridge"
	"github.com/nesgo/nesgo/internal/display"
	"github.com/nesgo/nesgo/internal/nes"
)

func main() {
	romPath := flag.String("rom", "", "path to an iNES ROM file")
	flag.Parse()

	if *romPath == "" {
		if flag.NArg() == 0 {
			log.Fatal("usage: nesgo -rom path/to/game.nes")
		}
		*romPath = flag.Arg(0)
	}

	cart, err := cartridge.LoadINES(*romPath)
	if err != nil {
		log.Fatalf("failed to load ROM: %v", err)
	}

	system := nes.New()
	system.LoadCartridge(cart)

	log.Printf("loaded %s", filepath.Base(*romPath))
	if err := display.Run(system, filepath.Base(*romPath)); err != nil {
		log.Fatalf("display error: %v", err)
	}
}
