package system

import (
	"math"

	"cell-arena/internal/arena"
	"cell-arena/internal/component"
	"cell-arena/internal/ecs"
	"cell-arena/internal/tuning"
)

const eatFactor = tuning.EatFactor

// Per-tick velocity factors.
const (
	idleDrag    = 0.9
	impulseDrag = 0.95
	ejectDrag   = 0.9
)

// UpdateMovement steers and integrates every cell, then every ejected blob.
func UpdateMovement(s *arena.State) {
	for _, id := range s.World.Query(component.CCell, component.CPosition, component.CVelocity) {
		tx, ty, ok := steerTarget(s, id)
		steerCell(s, id, tx, ty, ok)
	}
	for _, id := range s.World.Query(component.CEjected, component.CPosition, component.CVelocity) {
		moveEjected(s, id)
	}
}

// steerTarget returns the world point cell id is heading toward.
func steerTarget(s *arena.State, id ecs.EntityID) (float64, float64, bool) {
	owner, _ := s.OwnerOf(id)
	switch owner {
	case component.OwnerAI:
		c := s.World.Get(id, component.CAI)
		if c == nil {
			return 0, 0, false
		}
		ai := c.(component.AI)
		return ai.TargetX, ai.TargetY, true
	case component.OwnerPlayer1, component.OwnerPlayer2:
		ctl := s.Control(owner)
		switch ctl.Scheme {
		case arena.SchemePointer:
			return ctl.PointerX, ctl.PointerY, ctl.HasPointer
		case arena.SchemeDirection:
			if ctl.DirX == 0 && ctl.DirY == 0 {
				return 0, 0, false
			}
			pos := s.Pos(id)
			dx, dy := unit(ctl.DirX, ctl.DirY)
			// Far enough ahead that the cell never "arrives".
			reach := s.Tuning.WorldWidth + s.Tuning.WorldHeight
			return pos.X + dx*reach, pos.Y + dy*reach, true
		}
	}
	return 0, 0, false
}

// CellSpeed is the steering speed of a cell of radius r. Speed is inversely
// proportional to radius, so fragments smaller than a fresh cell outrun it.
func CellSpeed(t tuning.Tuning, r float64) float64 {
	if r <= 0 {
		return 0
	}
	return t.MaxSpeed * (t.InitialRadius / r) * t.SpeedScale
}

func steerCell(s *arena.State, id ecs.EntityID, tx, ty float64, hasTarget bool) {
	t := s.Tuning
	pos := s.Pos(id)
	vel := s.Vel(id)
	r := s.Body(id).Radius

	dx, dy := tx-pos.X, ty-pos.Y
	d := math.Hypot(dx, dy)
	speed := CellSpeed(t, r)
	switch {
	case math.Hypot(vel.X, vel.Y) > math.Max(t.MaxSpeed, speed):
		// Split impulse bleeds off before steering takes over.
		vel.X *= impulseDrag
		vel.Y *= impulseDrag
	case hasTarget && d > t.ArriveEpsilon:
		vel.X, vel.Y = dx/d*speed, dy/d*speed
	default:
		vel.X *= idleDrag
		vel.Y *= idleDrag
	}

	pos.X = clamp(pos.X+vel.X, r, t.WorldWidth-r)
	pos.Y = clamp(pos.Y+vel.Y, r, t.WorldHeight-r)
	s.World.Add(id, pos)
	s.World.Add(id, vel)
}

func moveEjected(s *arena.State, id ecs.EntityID) {
	t := s.Tuning
	pos := s.Pos(id)
	vel := s.Vel(id)
	r := s.Body(id).Radius

	pos.X += vel.X
	pos.Y += vel.Y
	vel.X *= ejectDrag
	vel.Y *= ejectDrag

	if pos.X < r || pos.X > t.WorldWidth-r {
		vel.X = -vel.X
		pos.X = clamp(pos.X, r, t.WorldWidth-r)
	}
	if pos.Y < r || pos.Y > t.WorldHeight-r {
		vel.Y = -vel.Y
		pos.Y = clamp(pos.Y, r, t.WorldHeight-r)
	}
	s.World.Add(id, pos)
	s.World.Add(id, vel)
}
