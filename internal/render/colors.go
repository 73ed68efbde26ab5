package render

import (
	"cell-arena/internal/sim"

	"github.com/gdamore/tcell/v2"
)

// Glyphs holds what one entity kind looks like on screen. Fill covers every
// terminal cell inside a large body; Dot is used when the body is smaller
// than a single cell.
type Glyphs struct {
	Fill rune
	Dot  rune
}

// KindGlyphs maps each entity kind to its glyphs.
var KindGlyphs = map[sim.Kind]Glyphs{
	sim.KindCell:    {Fill: '█', Dot: '●'},
	sim.KindFood:    {Fill: '•', Dot: '•'},
	sim.KindVirus:   {Fill: '▒', Dot: '✱'},
	sim.KindEjected: {Fill: '●', Dot: '∙'},
}

// Arena colors.
var (
	ColorBackground = tcell.NewRGBColor(16, 16, 24)
	ColorOutside    = tcell.NewRGBColor(40, 40, 48)
	ColorGridDot    = tcell.NewRGBColor(48, 48, 64)
	ColorHUD        = tcell.ColorGray
	ColorMessage    = tcell.ColorLightYellow
)

// gridSpacing is the world distance between background grid dots.
const gridSpacing = 100.0
