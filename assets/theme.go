package assets

import "github.com/gdamore/tcell/v2"

// ModeDef describes one selectable game mode on the start screen.
type ModeDef struct {
	ID       string
	Name     string
	Players  int
	Lore     string   // one-liner shown on the mode selection screen
	Controls []string // one line per control scheme
}

// Modes is the ordered list of selectable game modes.
var Modes = []ModeDef{
	{
		ID:      "solo",
		Name:    "Solo",
		Players: 1,
		Lore:    "One cell, one petri dish, fifteen hungry strangers.",
		Controls: []string{
			"P1  mouse to steer (arrows or wasd also work)  space/click split  e/right-click eject",
			"esc  quit",
		},
	},
	{
		ID:      "duo",
		Name:    "Duo",
		Players: 2,
		Lore:    "Two players, one keyboard. The camera keeps you both in frame.",
		Controls: []string{
			"P1  mouse / arrows to steer  space split  e eject",
			"P2  wasd to steer  q split  r eject",
			"esc  quit",
		},
	},
}

// PlayerNames are the display names given to the local owners.
var PlayerNames = [2]string{"You", "Friend"}

// PlayerColors are the fixed colors of the local owners.
var PlayerColors = [2]tcell.Color{tcell.ColorYellow, tcell.ColorAqua}

// Palette is the pool AI cells and food pellets draw their colors from.
var Palette = []tcell.Color{
	tcell.ColorRed,
	tcell.ColorFuchsia,
	tcell.ColorLime,
	tcell.ColorOrange,
	tcell.ColorViolet,
	tcell.ColorDeepPink,
	tcell.ColorSpringGreen,
	tcell.ColorDodgerBlue,
	tcell.ColorGold,
	tcell.ColorTomato,
}

// VirusColor is used for every virus.
const VirusColor = tcell.ColorGreen

// EjectedColor tints ejected blobs that lost their creator.
const EjectedColor = tcell.ColorSilver
