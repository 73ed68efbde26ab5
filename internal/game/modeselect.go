package game

import (
	"fmt"

	"cell-arena/assets"

	"github.com/gdamore/tcell/v2"
)

// runModeSelect shows the mode selection screen and blocks until the player
// picks a mode. Returns false if the player quits without selecting.
func (g *Game) runModeSelect() bool {
	selected := 0
	for i, m := range assets.Modes {
		if m.ID == g.mode.ID {
			selected = i
		}
	}
	n := len(assets.Modes)
	for {
		g.drawModeSelect(selected)
		ev, ok := g.nextEvent()
		if !ok {
			return false
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			g.screen.Sync()
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyUp:
				selected = (selected - 1 + n) % n
			case tcell.KeyDown:
				selected = (selected + 1) % n
			case tcell.KeyEnter:
				g.mode = assets.Modes[selected]
				return true
			case tcell.KeyEscape, tcell.KeyCtrlC:
				if g.confirmQuit() {
					return false
				}
			}
			switch ev.Rune() {
			case 'k', 'K', 'w', 'W':
				selected = (selected - 1 + n) % n
			case 'j', 'J', 's', 'S':
				selected = (selected + 1) % n
			case 'q', 'Q':
				if g.confirmQuit() {
					return false
				}
			case '1', '2':
				idx := int(ev.Rune() - '1')
				if idx < n {
					g.mode = assets.Modes[idx]
					return true
				}
			}
		}
	}
}

// drawModeSelect renders the mode selection UI.
func (g *Game) drawModeSelect(selected int) {
	g.screen.Clear()
	w, _ := g.screen.Size()

	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorLime).Bold(true)
	normalStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	dimStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	highlightStyle := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorLime)
	controlStyle := tcell.StyleDefault.Foreground(tcell.NewRGBColor(150, 220, 255))

	centerText := func(y int, text string) {
		x := max((w-len([]rune(text)))/2, 0)
		drawScreenText(g.screen, x, y, text, dimStyle)
	}

	title := "● CELL ARENA ●"
	drawScreenText(g.screen, max((w-len([]rune(title)))/2, 0), 1, title, titleStyle)
	centerText(2, "Eat or be eaten")

	// Each mode takes a name line, a lore line, its controls and a blank.
	y := 4
	for i, mode := range assets.Modes {
		prefix := "  "
		lineStyle := normalStyle
		if i == selected {
			prefix = "► "
			lineStyle = highlightStyle
		}
		drawScreenText(g.screen, 2, y, fmt.Sprintf("%s[%d] %s", prefix, i+1, mode.Name), lineStyle)
		drawScreenText(g.screen, 2, y+1, fmt.Sprintf("      \"%s\"", mode.Lore), dimStyle)
		for j, c := range mode.Controls {
			drawScreenText(g.screen, 2, y+2+j, "      "+c, controlStyle)
		}
		y += 3 + len(mode.Controls)
	}

	if g.best > 0 {
		centerText(y, fmt.Sprintf("Best score: %d", g.best))
		y += 2
	}
	centerText(y, "[↑/↓] Navigate   [1-2] Quick-select   [Enter] Confirm   [q] Quit")

	g.screen.Show()
}
