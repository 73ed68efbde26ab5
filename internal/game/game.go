// Package game is the terminal front-end: it owns a tcell screen, turns key
// and mouse events into arena commands and paces the simulation clock.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"cell-arena/assets"
	"cell-arena/internal/arena"
	"cell-arena/internal/component"
	"cell-arena/internal/render"
	"cell-arena/internal/sim"
	"cell-arena/internal/store"
	"cell-arena/internal/system"
	"cell-arena/internal/tuning"

	"github.com/gdamore/tcell/v2"
)

// maxMessages bounds the message log.
const maxMessages = 50

// Publisher receives every snapshot the game renders.
type Publisher interface {
	Publish(sim.Snapshot)
}

// Options configures a Game.
type Options struct {
	Players  int // 1 or 2; 0 shows the mode selection screen
	Tuning   tuning.Tuning
	Store    *store.Store // optional score and run history
	Observer Publisher    // optional
	Logger   *slog.Logger
	Seed     int64  // 0 seeds from the clock
	Name     string // optional display name for P1
}

// Game is the top-level orchestrator for one screen.
type Game struct {
	screen   tcell.Screen
	renderer *render.Renderer
	opts     Options
	log      *slog.Logger
	rng      *rand.Rand

	mode  assets.ModeDef
	arena *sim.Arena
	last  sim.Snapshot

	pads     [2]dirPad
	mouseX   int
	mouseY   int
	hasMouse bool
	buttons  tcell.ButtonMask

	messages  []string
	announced [2]bool
	best      int
	newBest   bool

	events chan tcell.Event
	done   chan struct{}
}

// New creates a Game on the local terminal.
func New(opts Options) (*Game, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	screen.EnableMouse()
	return NewWithScreen(screen, opts), nil
}

// NewWithScreen creates a Game on an already initialised screen. Run
// finalises the screen when it returns.
func NewWithScreen(screen tcell.Screen, opts Options) *Game {
	if opts.Tuning.WorldWidth <= 0 {
		opts.Tuning = tuning.Default()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	g := &Game{
		screen:   screen,
		renderer: render.NewRenderer(screen),
		opts:     opts,
		log:      opts.Logger,
		rng:      rand.New(rand.NewSource(opts.Seed)),
		mode:     modeFor(opts.Players),
	}
	if opts.Store != nil {
		best, err := opts.Store.BestScore()
		if err != nil {
			g.log.Warn("load best score", "error", err)
		}
		g.best = best
	}
	return g
}

// Run is the main loop. It supports consecutive rounds via Play Again and
// returns when the player quits or the screen goes away.
func (g *Game) Run() {
	defer g.screen.Fini()
	g.events = make(chan tcell.Event, 32)
	g.done = make(chan struct{})
	defer close(g.done)
	go g.pollEvents()

	for {
		if g.opts.Players == 0 && !g.runModeSelect() {
			return
		}
		g.startRound()
		if !g.playRound() {
			return
		}
		g.finishRound()
		if !g.showEndScreen() {
			return
		}
	}
}

// pollEvents forwards screen events until the screen is finalised or Run
// returns.
func (g *Game) pollEvents() {
	for {
		ev := g.screen.PollEvent()
		if ev == nil {
			close(g.events)
			return
		}
		select {
		case g.events <- ev:
		case <-g.done:
			return
		}
	}
}

func modeFor(players int) assets.ModeDef {
	for _, m := range assets.Modes {
		if m.Players == players {
			return m
		}
	}
	return assets.Modes[0]
}

// startRound builds a fresh arena for the selected mode.
func (g *Game) startRound() {
	g.arena = sim.NewArena(g.opts.Tuning, g.mode.Players, g.rng)
	g.arena.Rename(component.OwnerPlayer1, g.opts.Name)
	g.last = g.arena.Snapshot()
	g.messages = nil
	g.announced = [2]bool{}
	g.pads = [2]dirPad{}
	g.buttons = 0
	g.newBest = false
	g.renderer.Resize()
	for _, line := range g.mode.Controls {
		g.addMessage(line)
	}
	g.log.Info("round started", "mode", g.mode.ID, "seed", g.opts.Seed)
}

// playRound ticks the arena until it is over (true) or the player quits
// (false).
func (g *Game) playRound() bool {
	dt := g.opts.Tuning.TickDuration()
	ticker := time.NewTicker(dt)
	defer ticker.Stop()

	g.draw()
	for {
		select {
		case ev, ok := <-g.events:
			if !ok {
				return false
			}
			if !g.handleEvent(ev, time.Now()) {
				return false
			}
		case <-ticker.C:
			if g.step(dt, time.Now()) {
				return true
			}
		}
	}
}

// step feeds the held input to the arena, advances it by dt and redraws.
// It reports whether the round is over.
func (g *Game) step(dt time.Duration, now time.Time) bool {
	g.applyInput(now)
	snap := g.arena.Step(dt)
	g.last = snap

	for _, ev := range g.arena.Events() {
		if msg := eventMessage(ev, g.arena.Name(ev.Owner)); msg != "" {
			g.addMessage(msg)
		}
	}
	g.announceEliminations(snap)

	g.draw()
	if g.opts.Observer != nil {
		g.opts.Observer.Publish(snap)
	}
	return snap.Over
}

// applyInput pushes each owner's current steering to the arena.
func (g *Game) applyInput(now time.Time) {
	s := g.arena.State()
	g.renderer.CenterOn(g.last.Camera)
	for i, o := range s.Owners {
		ctl := s.Control(o)
		if ctl == nil {
			continue
		}
		switch ctl.Scheme {
		case arena.SchemePointer:
			if i == 0 && g.hasMouse {
				wx, wy := g.renderer.ScreenToWorld(g.mouseX, g.mouseY)
				g.arena.SetPointer(o, wx, wy)
			}
		case arena.SchemeDirection:
			dx, dy := g.pads[i].vector(now)
			g.arena.SetDirection(o, dx, dy)
		}
	}
}

// handleEvent processes one screen event. It returns false when the player
// confirmed quitting.
func (g *Game) handleEvent(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		g.screen.Sync()
		g.renderer.Resize()
		g.draw()
	case *tcell.EventMouse:
		g.handleMouse(ev)
	case *tcell.EventKey:
		action := keyToAction(ev)
		if !g.arena.State().TwoOwner() {
			action = remapSolo(action)
		}
		switch action {
		case ActionNone:
		case ActionQuit:
			if g.confirmQuit() {
				return false
			}
			g.draw()
		default:
			g.applyAction(action, now)
		}
	}
	return true
}

func (g *Game) applyAction(a Action, now time.Time) {
	o, ok := actionOwner(a)
	if !ok {
		return
	}
	switch a {
	case ActionP1Split, ActionP2Split:
		g.arena.Split(o)
	case ActionP1Eject, ActionP2Eject:
		g.arena.Eject(o)
	default:
		dx, dy := actionToDelta(a)
		g.pads[o].press(dx, dy, now)
		g.arena.SetScheme(o, arena.SchemeDirection)
	}
}

// handleMouse steers P1 toward the pointer. Buttons act on press only.
func (g *Game) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	moved := !g.hasMouse || x != g.mouseX || y != g.mouseY
	g.mouseX, g.mouseY, g.hasMouse = x, y, true

	buttons := ev.Buttons()
	pressed := buttons &^ g.buttons
	g.buttons = buttons

	p1 := component.OwnerPlayer1
	if moved {
		g.arena.SetScheme(p1, arena.SchemePointer)
		g.pads[0].release()
	}
	if pressed&tcell.ButtonPrimary != 0 {
		g.arena.Split(p1)
	}
	if pressed&tcell.ButtonSecondary != 0 {
		g.arena.Eject(p1)
	}
}

// announceEliminations logs each owner's elimination once.
func (g *Game) announceEliminations(snap sim.Snapshot) {
	for i, ov := range snap.Owners {
		if i >= len(g.announced) || !ov.Stats.Eliminated || g.announced[i] {
			continue
		}
		g.announced[i] = true
		if snap.Over {
			g.addMessage(fmt.Sprintf("%s was eaten.", ov.Name))
		} else {
			g.addMessage(fmt.Sprintf("%s was eaten! Keep going.", ov.Name))
		}
		g.log.Info("owner eliminated", "owner", ov.Label, "at", ov.Stats.EliminatedAt)
	}
}

// eventMessage renders an arena event for the message log. Merges are too
// frequent to be worth a line.
func eventMessage(ev system.Event, who string) string {
	switch ev.Kind {
	case system.EventAte:
		return fmt.Sprintf("%s ate %s.", who, ev.Other)
	case system.EventLost:
		return fmt.Sprintf("%s lost a cell to %s.", who, ev.Other)
	case system.EventExploded:
		return fmt.Sprintf("%s hit a virus!", who)
	case system.EventMerged:
		return ""
	}
	return ""
}

func (g *Game) draw() {
	g.renderer.DrawFrame(g.last)
	g.renderer.DrawHUD(g.last, g.best, g.messages)
}

func (g *Game) addMessage(msg string) {
	g.messages = append(g.messages, msg)
	if len(g.messages) > maxMessages {
		g.messages = g.messages[len(g.messages)-maxMessages:]
	}
}

// nextEvent blocks for the next screen event. ok is false once the screen
// is gone.
func (g *Game) nextEvent() (tcell.Event, bool) {
	ev, ok := <-g.events
	return ev, ok
}

// confirmQuit shows a "Quit? (y/n)" prompt over the current frame. The
// arena is paused while it is up.
func (g *Game) confirmQuit() bool {
	prompt := " Quit? (y/n) "
	width := len([]rune(prompt)) + 4
	hdrStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)

	draw := func() {
		sw, sh := g.screen.Size()
		boxH := 3
		x0 := (sw - width) / 2
		y0 := (sh - boxH) / 2
		for row := y0; row < y0+boxH; row++ {
			for col := x0; col < x0+width; col++ {
				g.screen.SetContent(col, row, ' ', nil, tcell.StyleDefault)
			}
		}
		for col := x0; col < x0+width; col++ {
			g.screen.SetContent(col, y0, '─', nil, borderStyle)
			g.screen.SetContent(col, y0+boxH-1, '─', nil, borderStyle)
		}
		for row := y0; row < y0+boxH; row++ {
			g.screen.SetContent(x0, row, '│', nil, borderStyle)
			g.screen.SetContent(x0+width-1, row, '│', nil, borderStyle)
		}
		g.screen.SetContent(x0, y0, '┌', nil, borderStyle)
		g.screen.SetContent(x0+width-1, y0, '┐', nil, borderStyle)
		g.screen.SetContent(x0, y0+boxH-1, '└', nil, borderStyle)
		g.screen.SetContent(x0+width-1, y0+boxH-1, '┘', nil, borderStyle)
		drawScreenText(g.screen, x0+2, y0+1, prompt, hdrStyle)
		g.screen.Show()
	}

	for {
		draw()
		ev, ok := g.nextEvent()
		if !ok {
			return true
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			g.screen.Sync()
			g.renderer.Resize()
			g.draw()
		case *tcell.EventKey:
			switch ev.Rune() {
			case 'y', 'Y':
				return true
			case 'n', 'N':
				return false
			}
			if ev.Key() == tcell.KeyEscape {
				return false
			}
		}
	}
}

// drawScreenText writes a string at (x, y), one column per rune.
func drawScreenText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	col := x
	for _, ch := range text {
		screen.SetContent(col, y, ch, nil, style)
		col++
	}
}
