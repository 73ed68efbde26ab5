// Package sim drives an arena: it owns the per-tick pipeline and hands out
// read-only snapshots to whoever renders them.
package sim

import (
	"math/rand"
	"time"

	"cell-arena/assets"
	"cell-arena/internal/arena"
	"cell-arena/internal/component"
	"cell-arena/internal/factory"
	"cell-arena/internal/system"
	"cell-arena/internal/tuning"
)

// Arena is one running simulation.
type Arena struct {
	state    *arena.State
	over     bool
	peakMass float64
	events   []system.Event
	names    [2]string
}

// NewArena builds a populated arena for 1 or 2 local players.
func NewArena(t tuning.Tuning, players int, rng *rand.Rand) *Arena {
	s := arena.New(t, players, rng)
	spawnPlayers(s)
	system.Replenish(s)
	s.Camera.Zoom = system.TargetZoom(s, totalPlayerMass(s))
	if len(s.Owners) > 0 {
		p := s.Pos(s.Cells(s.Owners[0])[0])
		if !s.TwoOwner() {
			s.Camera.X, s.Camera.Y = p.X, p.Y
		}
	}
	a := &Arena{state: s, names: assets.PlayerNames}
	a.trackMass()
	return a
}

// spawnPlayers drops each owner's starting cell. Two owners start on
// opposite sides of the center line.
func spawnPlayers(s *arena.State) {
	t := s.Tuning
	for i, o := range s.Owners {
		x := t.WorldWidth / 2
		if s.TwoOwner() {
			x = t.WorldWidth * float64(i+1) / 3
		}
		factory.NewPlayerCell(s.World, o, x, t.WorldHeight/2, t.InitialRadius, s.Now)
	}
}

// State exposes the underlying state; callers must stay on the goroutine
// that calls Step.
func (a *Arena) State() *arena.State { return a.state }

// Over reports whether every local owner has been eliminated.
func (a *Arena) Over() bool { return a.over }

// Score is the peak combined player mass, rounded down.
func (a *Arena) Score() int { return int(a.peakMass) }

// SetPointer updates a pointer-steered owner's world-space target.
func (a *Arena) SetPointer(o component.Owner, x, y float64) {
	if ctl := a.control(o); ctl != nil {
		ctl.PointerX, ctl.PointerY, ctl.HasPointer = x, y, true
	}
}

// SetDirection updates a direction-steered owner's held vector. (0, 0)
// releases it.
func (a *Arena) SetDirection(o component.Owner, dx, dy float64) {
	if ctl := a.control(o); ctl != nil {
		ctl.DirX, ctl.DirY = dx, dy
	}
}

// SetScheme switches how an owner steers.
func (a *Arena) SetScheme(o component.Owner, scheme arena.Scheme) {
	if ctl := a.control(o); ctl != nil {
		ctl.Scheme = scheme
	}
}

// Rename sets the display name of a local owner and relabels its cells.
func (a *Arena) Rename(o component.Owner, name string) {
	if a.state == nil || name == "" || !a.active(o) {
		return
	}
	a.names[o] = name
	s := a.state
	for _, id := range s.Cells(o) {
		if c := s.World.Get(id, component.CRenderable); c != nil {
			r := c.(component.Renderable)
			r.Name = name
			s.World.Add(id, r)
		}
	}
}

// Name returns the display name of a local owner.
func (a *Arena) Name(o component.Owner) string {
	if o.IsPlayer() {
		return a.names[o]
	}
	return o.String()
}

// Split triggers a split for owner o.
func (a *Arena) Split(o component.Owner) int {
	if a.state == nil || a.over || !a.active(o) {
		return 0
	}
	return system.Split(a.state, o)
}

// Eject triggers an ejection for owner o.
func (a *Arena) Eject(o component.Owner) int {
	if a.state == nil || a.over || !a.active(o) {
		return 0
	}
	return system.Eject(a.state, o)
}

func (a *Arena) control(o component.Owner) *arena.Control {
	if a.state == nil || !a.active(o) {
		return nil
	}
	return a.state.Control(o)
}

func (a *Arena) active(o component.Owner) bool {
	for _, owner := range a.state.Owners {
		if owner == o {
			return true
		}
	}
	return false
}

// Step advances the simulation by dt and returns the resulting snapshot.
// A finished or uninitialised arena is not advanced.
func (a *Arena) Step(dt time.Duration) Snapshot {
	s := a.state
	if s == nil || s.World == nil || a.over {
		return a.Snapshot()
	}
	s.Now += dt
	s.Tick++

	system.UpdateMovement(s)
	a.events = system.ResolveCollisions(s)
	system.ProcessAI(s)
	system.Replenish(s)
	system.UpdateCamera(s)

	a.trackMass()
	a.checkEliminations()
	return a.Snapshot()
}

// Events returns what happened during the last Step.
func (a *Arena) Events() []system.Event { return a.events }

func (a *Arena) trackMass() {
	s := a.state
	total := 0.0
	for _, o := range s.Owners {
		m := s.Mass(o)
		total += m
		if st := s.StatsFor(o); st != nil && m > st.PeakMass {
			st.PeakMass = m
		}
	}
	a.peakMass = max(a.peakMass, total)
}

func (a *Arena) checkEliminations() {
	s := a.state
	alive := 0
	for _, o := range s.Owners {
		st := s.StatsFor(o)
		if s.CellCount(o) > 0 {
			alive++
			continue
		}
		if !st.Eliminated {
			st.Eliminated = true
			st.EliminatedAt = s.Now
		}
	}
	if alive == 0 {
		a.over = true
	}
}

func totalPlayerMass(s *arena.State) float64 {
	total := 0.0
	for _, o := range s.Owners {
		total += s.Mass(o)
	}
	return total
}
