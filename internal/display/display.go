// Package display is the one external collaborator the core emulator
// needs: a window that presents the 256x240 frame buffer and a keyboard
// poller that produces a joypad.ButtonState each tick.
package display

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/nesgo/nesgo/internal/joypad"
	"github.com/nesgo/nesgo/internal/nes"
)

const (
	nesWidth  = 256
	nesHeight = 240
)

// keyMap assigns the eight joypad buttons to a keyboard, following the
// arrow-keys-plus-ZX/Enter/Shift layout most NES emulators use.
var keyMap = map[ebiten.Key]joypad.Button{
	ebiten.KeyZ:          joypad.A,
	ebiten.KeyX:          joypad.B,
	ebiten.KeyShiftRight: joypad.Select,
	ebiten.KeyEnter:      joypad.Start,
	ebiten.KeyArrowUp:    joypad.Up,
	ebiten.KeyArrowDown:  joypad.Down,
	ebiten.KeyArrowLeft:  joypad.Left,
	ebiten.KeyArrowRight: joypad.Right,
}

// Game is an ebiten.Game that runs one NES frame per tick, polling the
// keyboard into controller 1 and blitting the resulting frame buffer.
type Game struct {
	system *nes.System
	image  *ebiten.Image
	pixels []byte
}

// NewGame wraps a loaded System for display with ebiten.
func NewGame(system *nes.System) *Game {
	return &Game{
		system: system,
		image:  ebiten.NewImage(nesWidth, nesHeight),
		pixels: make([]byte, nesWidth*nesHeight*4),
	}
}

// Update polls the keyboard and advances the system by exactly one frame.
func (g *Game) Update() error {
	var buttons joypad.ButtonState
	for key, button := range keyMap {
		if ebiten.IsKeyPressed(key) {
			buttons |= joypad.ButtonState(button)
		}
	}

	frame := g.system.RunFrame(buttons, 0)
	for i, pixel := range frame {
		g.pixels[i*4+0] = byte(pixel >> 16)
		g.pixels[i*4+1] = byte(pixel >> 8)
		g.pixels[i*4+2] = byte(pixel)
		g.pixels[i*4+3] = 0xFF
	}
	g.image.WritePixels(g.pixels)
	return nil
}

// Draw scales the NES frame to fill the window while preserving aspect
// ratio, centering it on a black background.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	bounds := screen.Bounds()
	windowW, windowH := float64(bounds.Dx()), float64(bounds.Dy())

	scale := windowW / nesWidth
	if alt := windowH / nesHeight; alt < scale {
		scale = alt
	}
	offsetX := (windowW - nesWidth*scale) / 2
	offsetY := (windowH - nesHeight*scale) / 2

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(offsetX, offsetY)
	screen.DrawImage(g.image, op)
}

// Layout makes the screen the same size as the window; Draw handles
// scaling the frame to fit it.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// Run opens a window titled with the ROM name and blocks until it closes.
func Run(system *nes.System, title string) error {
	ebiten.SetWindowSize(nesWidth*3, nesHeight*3)
	ebiten.SetWindowTitle(fmt.Sprintf("nesgo - %s", title))
	return ebiten.RunGame(NewGame(system))
}
