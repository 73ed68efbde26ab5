package game

import (
	"time"

	"cell-arena/internal/component"

	"github.com/gdamore/tcell/v2"
)

// Action represents a player-requested game action.
type Action uint8

const (
	ActionNone Action = iota
	ActionP1Up
	ActionP1Down
	ActionP1Left
	ActionP1Right
	ActionP1Split
	ActionP1Eject
	ActionP2Up
	ActionP2Down
	ActionP2Left
	ActionP2Right
	ActionP2Split
	ActionP2Eject
	ActionQuit
)

// keyHoldWindow is how long a direction key counts as held after its last
// press or auto-repeat. Terminals report no key-up events.
const keyHoldWindow = 500 * time.Millisecond

// keyToAction maps a tcell key event to a game action. Arrows, space and e
// belong to P1; wasd, q and r belong to P2.
func keyToAction(ev *tcell.EventKey) Action {
	// Named keys.
	switch ev.Key() {
	case tcell.KeyUp:
		return ActionP1Up
	case tcell.KeyDown:
		return ActionP1Down
	case tcell.KeyLeft:
		return ActionP1Left
	case tcell.KeyRight:
		return ActionP1Right
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	}

	// Rune keys.
	switch ev.Rune() {
	case ' ':
		return ActionP1Split
	case 'e', 'E':
		return ActionP1Eject
	case 'w', 'W':
		return ActionP2Up
	case 's', 'S':
		return ActionP2Down
	case 'a', 'A':
		return ActionP2Left
	case 'd', 'D':
		return ActionP2Right
	case 'q', 'Q':
		return ActionP2Split
	case 'r', 'R':
		return ActionP2Eject
	}
	return ActionNone
}

// remapSolo hands P2's keys to P1 when only one player is in the arena.
func remapSolo(a Action) Action {
	switch a {
	case ActionP2Up:
		return ActionP1Up
	case ActionP2Down:
		return ActionP1Down
	case ActionP2Left:
		return ActionP1Left
	case ActionP2Right:
		return ActionP1Right
	case ActionP2Split:
		return ActionP1Split
	case ActionP2Eject:
		return ActionP1Eject
	}
	return a
}

// actionOwner returns which player an action belongs to.
func actionOwner(a Action) (component.Owner, bool) {
	switch a {
	case ActionP1Up, ActionP1Down, ActionP1Left, ActionP1Right, ActionP1Split, ActionP1Eject:
		return component.OwnerPlayer1, true
	case ActionP2Up, ActionP2Down, ActionP2Left, ActionP2Right, ActionP2Split, ActionP2Eject:
		return component.OwnerPlayer2, true
	}
	return component.OwnerAI, false
}

// actionToDelta converts a movement action to (dx, dy).
func actionToDelta(a Action) (int, int) {
	switch a {
	case ActionP1Up, ActionP2Up:
		return 0, -1
	case ActionP1Down, ActionP2Down:
		return 0, 1
	case ActionP1Right, ActionP2Right:
		return 1, 0
	case ActionP1Left, ActionP2Left:
		return -1, 0
	}
	return 0, 0
}

// dirPad turns key presses into a held direction. Each of the four
// directions stays active for keyHoldWindow after its latest press.
type dirPad struct {
	last [4]time.Time // up, down, left, right
}

var padDeltas = [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

func (p *dirPad) press(dx, dy int, now time.Time) {
	for i, d := range padDeltas {
		if d[0] == dx && d[1] == dy {
			p.last[i] = now
			return
		}
	}
}

// vector sums the directions still held at now. Opposite keys cancel.
func (p *dirPad) vector(now time.Time) (float64, float64) {
	var x, y float64
	for i, t := range p.last {
		if t.IsZero() || now.Sub(t) > keyHoldWindow {
			continue
		}
		x += float64(padDeltas[i][0])
		y += float64(padDeltas[i][1])
	}
	return x, y
}

func (p *dirPad) release() { p.last = [4]time.Time{} }
