package game

import (
	"fmt"

	"cell-arena/internal/store"

	"github.com/gdamore/tcell/v2"
)

// historySize is how many past runs the end screen lists.
const historySize = 5

// showEndScreen renders the round summary and returns true if the player
// wants to play again, false to quit.
func (g *Game) showEndScreen() bool {
	var history []store.Run
	if g.opts.Store != nil {
		runs, err := g.opts.Store.TopRuns(historySize)
		if err != nil {
			g.log.Warn("end screen: cannot load history", "error", err)
		}
		history = runs
	}

	for {
		g.drawEndScreen(history)
		ev, ok := g.nextEvent()
		if !ok {
			return false
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			g.screen.Sync()
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEnter:
				return true
			case tcell.KeyEscape, tcell.KeyCtrlC:
				return false
			}
			switch ev.Rune() {
			case 'r', 'R':
				return true
			case 'q', 'Q':
				return false
			}
		}
	}
}

func (g *Game) drawEndScreen(history []store.Run) {
	white := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	gold := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	gray := tcell.StyleDefault.Foreground(tcell.ColorGray)
	dim := tcell.StyleDefault.Foreground(tcell.ColorLightYellow)
	green := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	red := tcell.StyleDefault.Foreground(tcell.ColorRed)

	g.screen.Clear()
	sw, _ := g.screen.Size()
	sep := func(y int) {
		for x := 0; x < sw; x++ {
			g.screen.SetContent(x, y, '─', nil, gray)
		}
	}
	// label prints a key at column 2 and its value at column 22.
	label := func(y int, l, v string) {
		drawScreenText(g.screen, 2, y, l, dim)
		drawScreenText(g.screen, 22, y, v, white)
	}

	snap := g.last
	y := 1
	sep(y)
	y += 2

	drawScreenText(g.screen, 2, y, "EVERYONE GOT EATEN", gold)
	if g.newBest {
		badge := "[NEW BEST]"
		drawScreenText(g.screen, sw-len(badge)-1, y, badge, green)
	}
	y += 2

	label(y, "Mode:", g.mode.Name)
	y++
	label(y, "Score:", fmt.Sprintf("%d", snap.Score))
	y++
	label(y, "Best:", fmt.Sprintf("%d", g.best))
	y++
	label(y, "Time:", formatDuration(snap.Elapsed.Seconds()))
	y += 2

	for _, ov := range snap.Owners {
		st := ov.Stats
		drawScreenText(g.screen, 2, y, fmt.Sprintf("%s (%s)", ov.Name, ov.Label), gold)
		y++
		label(y, "Peak Mass:", fmt.Sprintf("%d", int(st.PeakMass)))
		y++
		label(y, "Eaten At:", formatDuration(st.EliminatedAt.Seconds()))
		y++
		label(y, "Food / Cells:", fmt.Sprintf("%d / %d", st.FoodEaten, st.CellsEaten))
		y++
		label(y, "Splits / Ejects:", fmt.Sprintf("%d / %d", st.Splits, st.Ejections))
		y++
		label(y, "Viruses Hit:", fmt.Sprintf("%d", st.VirusesHit))
		y += 2
	}

	if len(history) > 0 {
		drawScreenText(g.screen, 2, y, "Top Runs", gold)
		y++
		for i, r := range history {
			line := fmt.Sprintf("%d. %-6d %-5s %s  %s", i+1, r.Score, r.Mode,
				formatDuration(r.Duration.Seconds()), r.EndedAt.Local().Format("2006-01-02"))
			drawScreenText(g.screen, 4, y, line, white)
			y++
		}
		y++
	}

	sep(y)
	y += 2
	drawScreenText(g.screen, 2, y, "[R] Play Again", green)
	drawScreenText(g.screen, 19, y, "[Q] Quit", red)
	g.screen.Show()
}

func formatDuration(secs float64) string {
	s := int(secs)
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}
