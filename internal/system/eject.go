package system

import (
	"cell-arena/internal/arena"
	"cell-arena/internal/component"
	"cell-arena/internal/factory"
)

// Eject makes every large-enough cell of owner shed a blob along the
// owner's heading. The cell pays EjectMassCost; the blob carries the smaller
// EjectMassValue. Returns the number of blobs created.
func Eject(s *arena.State, owner component.Owner) int {
	if !owner.IsPlayer() {
		return 0
	}
	t := s.Tuning
	created := 0
	for _, id := range s.Cells(owner) {
		body := s.Body(id)
		if body.Radius <= t.EjectMinRadius {
			continue
		}
		remaining := body.Mass() - t.EjectMassCost
		if remaining <= 0 {
			continue
		}
		pos := s.Pos(id)
		dx, dy, ok := s.Heading(owner, pos)
		if !ok {
			dx, dy = 1, 0
		}

		shrunk := component.BodyWithMass(remaining)
		s.World.Add(id, shrunk)

		blobR := component.BodyWithMass(t.EjectMassValue).Radius
		edge := shrunk.Radius + blobR
		bx := clamp(pos.X+dx*edge, blobR, t.WorldWidth-blobR)
		by := clamp(pos.Y+dy*edge, blobR, t.WorldHeight-blobR)
		factory.NewEjected(s.World, id, owner, bx, by, dx*t.EjectSpeed, dy*t.EjectSpeed, t.EjectMassValue)
		created++
	}
	if created > 0 {
		if st := s.StatsFor(owner); st != nil {
			st.Ejections += created
		}
	}
	return created
}
