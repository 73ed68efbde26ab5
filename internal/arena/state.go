// Package arena holds the explicit simulation state every system operates
// on. Nothing in here schedules work; the clock in package sim drives it.
package arena

import (
	"math"
	"math/rand"
	"time"

	"cell-arena/internal/component"
	"cell-arena/internal/ecs"
	"cell-arena/internal/tuning"
)

// Scheme is how a player owner steers.
type Scheme uint8

const (
	SchemePointer   Scheme = iota // steer toward a world-space pointer
	SchemeDirection               // steer along a held direction vector
)

// Control is the latest input for one player owner.
type Control struct {
	Scheme     Scheme
	PointerX   float64
	PointerY   float64
	HasPointer bool
	DirX       float64
	DirY       float64
}

// Camera is the viewport transform: world point at the screen center and
// the world-to-screen scale.
type Camera struct {
	X, Y float64
	Zoom float64
}

// OwnerStats accumulates per-owner counters for the end screen.
type OwnerStats struct {
	FoodEaten    int
	CellsEaten   int
	VirusesHit   int
	Splits       int
	Ejections    int
	PeakMass     float64
	Eliminated   bool
	EliminatedAt time.Duration
}

// State is everything one arena owns. It is mutated only by the goroutine
// running the tick.
type State struct {
	World  *ecs.World
	Tuning tuning.Tuning
	Rng    *rand.Rand

	Now  time.Duration // simulation time since start
	Tick uint64

	// Owners lists the active player owners (one or two).
	Owners   []component.Owner
	Controls [2]Control
	Stats    [2]OwnerStats
	Camera   Camera
}

// New creates a State for the given number of local players (1 or 2). The
// world is empty; sim.NewArena populates it.
func New(t tuning.Tuning, players int, rng *rand.Rand) *State {
	players = min(max(players, 1), 2)
	s := &State{
		World:  ecs.NewWorld(t.FoodTarget + t.AITarget + t.VirusTarget + 2*t.MaxCells + 64),
		Tuning: t,
		Rng:    rng,
		Owners: component.Players[:players],
		Camera: Camera{X: t.WorldWidth / 2, Y: t.WorldHeight / 2, Zoom: 1},
	}
	s.Controls[0].Scheme = SchemePointer
	s.Controls[1].Scheme = SchemeDirection
	return s
}

// TwoOwner reports whether two local players share this arena.
func (s *State) TwoOwner() bool { return len(s.Owners) == 2 }

// Control returns the input slot for a player owner, or nil for AI.
func (s *State) Control(o component.Owner) *Control {
	switch o {
	case component.OwnerPlayer1:
		return &s.Controls[0]
	case component.OwnerPlayer2:
		return &s.Controls[1]
	case component.OwnerAI:
		return nil
	}
	return nil
}

// StatsFor returns the counters for a player owner, or nil for AI.
func (s *State) StatsFor(o component.Owner) *OwnerStats {
	switch o {
	case component.OwnerPlayer1:
		return &s.Stats[0]
	case component.OwnerPlayer2:
		return &s.Stats[1]
	case component.OwnerAI:
		return nil
	}
	return nil
}

// OwnerOf returns the owner of cell id. ok is false for non-cells.
func (s *State) OwnerOf(id ecs.EntityID) (component.Owner, bool) {
	c := s.World.Get(id, component.CCell)
	if c == nil {
		return 0, false
	}
	return c.(component.Cell).Owner, true
}

// Cells returns every live cell of owner o.
func (s *State) Cells(o component.Owner) []ecs.EntityID {
	var out []ecs.EntityID
	for _, id := range s.World.Query(component.CCell) {
		if s.World.Get(id, component.CCell).(component.Cell).Owner == o {
			out = append(out, id)
		}
	}
	return out
}

// CellCount returns how many cells owner o has.
func (s *State) CellCount(o component.Owner) int {
	return len(s.Cells(o))
}

// Mass returns the total mass of owner o.
func (s *State) Mass(o component.Owner) float64 {
	total := 0.0
	for _, id := range s.Cells(o) {
		total += s.Body(id).Mass()
	}
	return total
}

// Pos returns an entity's position (zero value if missing).
func (s *State) Pos(id ecs.EntityID) component.Position {
	if c := s.World.Get(id, component.CPosition); c != nil {
		return c.(component.Position)
	}
	return component.Position{}
}

// Vel returns an entity's velocity (zero value if missing).
func (s *State) Vel(id ecs.EntityID) component.Velocity {
	if c := s.World.Get(id, component.CVelocity); c != nil {
		return c.(component.Velocity)
	}
	return component.Velocity{}
}

// Body returns an entity's body (zero value if missing).
func (s *State) Body(id ecs.EntityID) component.Body {
	if c := s.World.Get(id, component.CBody); c != nil {
		return c.(component.Body)
	}
	return component.Body{}
}

// Cooldown returns a cell's split/explosion record.
func (s *State) Cooldown(id ecs.EntityID) component.Cooldown {
	if c := s.World.Get(id, component.CCooldown); c != nil {
		return c.(component.Cooldown)
	}
	return component.Cooldown{}
}

// Heading returns the unit direction a cell of owner o at pos should split
// or eject toward. ok is false when the owner has no usable input.
func (s *State) Heading(o component.Owner, pos component.Position) (dx, dy float64, ok bool) {
	ctl := s.Control(o)
	if ctl == nil {
		return 0, 0, false
	}
	switch ctl.Scheme {
	case SchemePointer:
		if !ctl.HasPointer {
			return 0, 0, false
		}
		dx, dy = ctl.PointerX-pos.X, ctl.PointerY-pos.Y
	case SchemeDirection:
		dx, dy = ctl.DirX, ctl.DirY
	}
	l := math.Hypot(dx, dy)
	if l < 1e-9 {
		return 0, 0, false
	}
	return dx / l, dy / l, true
}

// RandomPoint returns a uniformly random point at least margin inside the
// world.
func (s *State) RandomPoint(margin float64) (float64, float64) {
	t := s.Tuning
	x := margin + s.Rng.Float64()*(t.WorldWidth-2*margin)
	y := margin + s.Rng.Float64()*(t.WorldHeight-2*margin)
	return x, y
}
