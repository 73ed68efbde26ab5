package render

import (
	"fmt"
	"time"

	"cell-arena/assets"
	"cell-arena/internal/sim"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// LeaderboardSize is how many cells the corner leaderboard lists.
const LeaderboardSize = 5

// DrawHUD renders the status bar, message log and leaderboard, then shows
// the frame.
func (r *Renderer) DrawHUD(snap sim.Snapshot, best int, messages []string) {
	screenW, screenH := r.screen.Size()
	hudY := screenH - HUDRows

	r.drawHLine(hudY, ColorHUD)

	// One status block per local owner.
	col := 0
	for i, ov := range snap.Owners {
		color := tcell.ColorWhite
		if i < len(assets.PlayerColors) {
			color = assets.PlayerColors[i]
		}
		status := fmt.Sprintf("[%s %s] mass %d  cells %d", ov.Label, ov.Name, int(ov.Mass), ov.Cells)
		if ov.Stats.Eliminated {
			status = fmt.Sprintf("[%s %s] eaten", ov.Label, ov.Name)
		}
		col = r.drawText(col, hudY+1, status, tcell.StyleDefault.Foreground(color)) + 3
	}

	right := fmt.Sprintf("Score %d  Best %d  %s", snap.Score, max(best, snap.Score), formatElapsed(snap.Elapsed))
	r.drawText(screenW-runewidth.StringWidth(right)-1, hudY+1, right, tcell.StyleDefault.Foreground(tcell.ColorWhite))

	// Message log (last 3 messages).
	start := max(len(messages)-3, 0)
	for i, msg := range messages[start:] {
		r.drawText(0, hudY+2+i, msg, tcell.StyleDefault.Foreground(ColorMessage))
	}

	r.drawLeaderboard(snap, screenW)
	r.screen.Show()
}

// drawLeaderboard lists the largest named cells in the top-right corner.
func (r *Renderer) drawLeaderboard(snap sim.Snapshot, screenW int) {
	top := snap.Leaderboard(LeaderboardSize)
	lines := make([]string, 0, len(top)+1)
	lines = append(lines, "Leaderboard")
	for i, e := range top {
		lines = append(lines, fmt.Sprintf("%d. %s %d", i+1, e.Name, int(e.Mass())))
	}
	width := 0
	for _, l := range lines {
		width = max(width, runewidth.StringWidth(l))
	}
	x := screenW - width - 2
	box := tcell.StyleDefault.Background(ColorOutside)
	for i, l := range lines {
		style := box.Foreground(tcell.ColorWhite)
		if i == 0 {
			style = style.Bold(true)
		} else if top[i-1].Owner != "" && top[i-1].Owner != "AI" {
			style = box.Foreground(tcell.ColorYellow)
		}
		for c := x - 1; c < screenW-1; c++ {
			r.screen.SetContent(c, i, ' ', nil, box)
		}
		r.drawText(x, i, l, style)
	}
}

func (r *Renderer) drawHLine(y int, color tcell.Color) {
	w, _ := r.screen.Size()
	style := tcell.StyleDefault.Foreground(color)
	for x := 0; x < w; x++ {
		r.screen.SetContent(x, y, '─', nil, style)
	}
}

func formatElapsed(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
