package system

import (
	"cell-arena/internal/arena"
	"cell-arena/internal/component"
	"cell-arena/internal/ecs"
	"cell-arena/internal/factory"
)

// Split halves every cell of owner that is large enough, launching the new
// half along the owner's heading. Returns the number of new cells.
// Preconditions that are not met make this a no-op.
func Split(s *arena.State, owner component.Owner) int {
	if !owner.IsPlayer() {
		return 0
	}
	t := s.Tuning
	cells := s.Cells(owner)
	count := len(cells)
	if count >= t.MaxCells {
		return 0
	}

	created := 0
	for _, id := range cells {
		if count >= t.MaxCells {
			break
		}
		body := s.Body(id)
		if body.Radius < t.MinSplitRadius {
			continue
		}
		pos := s.Pos(id)
		dx, dy, ok := s.Heading(owner, pos)
		if !ok {
			dx, dy = 1, 0
		}

		half := component.BodyWithMass(body.Mass() / 2)
		s.World.Add(id, half)
		markSplit(s, id)

		nx := clamp(pos.X+dx*half.Radius, half.Radius, t.WorldWidth-half.Radius)
		ny := clamp(pos.Y+dy*half.Radius, half.Radius, t.WorldHeight-half.Radius)
		nid := factory.CloneCell(s.World, id, nx, ny, half.Radius, s.Now)
		s.World.Add(nid, component.Velocity{X: dx * t.SplitVelocity, Y: dy * t.SplitVelocity})

		count++
		created++
	}
	if created > 0 {
		if st := s.StatsFor(owner); st != nil {
			st.Splits++
		}
	}
	return created
}

// markSplit restarts a cell's merge cooldown.
func markSplit(s *arena.State, id ecs.EntityID) {
	cd := s.Cooldown(id)
	cd.LastSplit = s.Now
	s.World.Add(id, cd)
}
