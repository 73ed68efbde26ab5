package system

import (
	"math"
	"sort"

	"cell-arena/internal/arena"
	"cell-arena/internal/component"
	"cell-arena/internal/ecs"
	"cell-arena/internal/factory"
)

// EventKind classifies something noteworthy that happened during a tick.
type EventKind uint8

const (
	EventAte      EventKind = iota // a player cell ate another cell
	EventLost                      // a player cell was eaten
	EventExploded                  // a player cell hit a virus
	EventMerged                    // two player cells recombined
)

// Event is reported back to the front-end for the message log.
type Event struct {
	Kind  EventKind
	Owner component.Owner // the player owner involved
	Other string          // name of the other party, if any
}

type pairRule uint8

const (
	ruleEat pairRule = iota
	ruleMerge
)

// ruleFor decides how two cells interact from their owner tags.
func ruleFor(a, b component.Owner) pairRule {
	switch a {
	case component.OwnerPlayer1, component.OwnerPlayer2:
		if a == b {
			return ruleMerge
		}
		return ruleEat
	case component.OwnerAI:
		return ruleEat
	}
	return ruleEat
}

// ResolveCollisions runs every pairwise interaction for one tick: same-owner
// merges, virus explosions, food, cell-vs-cell eating, then ejected mass.
func ResolveCollisions(s *arena.State) []Event {
	var events []Event
	for _, o := range s.Owners {
		events = append(events, mergeOwner(s, o)...)
	}
	events = append(events, resolveViruses(s)...)
	resolveFood(s)
	events = append(events, resolveCells(s)...)
	resolveEjected(s)
	return events
}

// mergeOwner recombines overlapping cells of one owner whose cooldowns have
// both expired. The larger cell keeps its position and takes the mass.
func mergeOwner(s *arena.State, owner component.Owner) []Event {
	var events []Event
	window := s.Tuning.MergeCooldown
	cells := s.Cells(owner)
	for i := 0; i < len(cells); i++ {
		a := cells[i]
		if !s.World.Alive(a) || !s.Cooldown(a).MergeReady(s.Now, window) {
			continue
		}
		for j := i + 1; j < len(cells); j++ {
			b := cells[j]
			if !s.World.Alive(b) || !s.Cooldown(b).MergeReady(s.Now, window) {
				continue
			}
			ba, bb := s.Body(a), s.Body(b)
			if dist(s.Pos(a), s.Pos(b)) >= math.Max(ba.Radius, bb.Radius) {
				continue
			}
			keep, drop := a, b
			if bb.Radius > ba.Radius {
				keep, drop = b, a
			}
			s.World.Add(keep, component.BodyWithMass(ba.Mass()+bb.Mass()))
			s.World.DestroyEntity(drop)
			events = append(events, Event{Kind: EventMerged, Owner: owner})
			if drop == a {
				break
			}
		}
	}
	return events
}

// resolveViruses explodes cells that swallow a virus. The fragment ceiling
// is counted per owner, so the AI shares one budget.
func resolveViruses(s *arena.State) []Event {
	var events []Event
	t := s.Tuning
	viruses := s.World.Query(component.CTagVirus, component.CPosition)
	owners := append(append([]component.Owner(nil), s.Owners...), component.OwnerAI)
	for _, owner := range owners {
		for _, id := range s.Cells(owner) {
			for _, v := range viruses {
				if !s.World.Alive(v) || !s.World.Alive(id) {
					continue
				}
				body, vb := s.Body(id), s.Body(v)
				if body.Radius <= vb.Radius || body.Radius < t.VirusExplodeMinRadius {
					continue
				}
				if dist(s.Pos(id), s.Pos(v)) >= body.Radius {
					continue
				}
				if !s.Cooldown(id).ExplosionReady(s.Now, t.VirusCooldown) {
					continue
				}
				explode(s, owner, id, v)
				if owner.IsPlayer() {
					events = append(events, Event{Kind: EventExploded, Owner: owner})
				}
				break
			}
		}
	}
	return events
}

// explode destroys virus v and breaks cell id into equal-mass pieces: the
// original keeps one share and up to VirusMaxFragments new cells take the
// rest. At the cell ceiling the cell just absorbs the virus.
func explode(s *arena.State, owner component.Owner, id, v ecs.EntityID) {
	t := s.Tuning
	mass := s.Body(id).Mass()
	virusMass := s.Body(v).Mass()
	s.World.DestroyEntity(v)
	if st := s.StatsFor(owner); st != nil {
		st.VirusesHit++
	}

	n := min(t.MaxCells-s.CellCount(owner), t.VirusMaxFragments)
	if n <= 0 {
		s.World.Add(id, component.BodyWithMass(mass+virusMass))
		return
	}

	piece := component.BodyWithMass(mass / float64(n+1))
	s.World.Add(id, piece)
	stampExplosion(s, id)

	pos := s.Pos(id)
	offset := s.Rng.Float64() * 2 * math.Pi
	for k := 0; k < n; k++ {
		angle := offset + 2*math.Pi*float64(k)/float64(n)
		dx, dy := math.Cos(angle), math.Sin(angle)
		fx := clamp(pos.X+dx*piece.Radius, piece.Radius, t.WorldWidth-piece.Radius)
		fy := clamp(pos.Y+dy*piece.Radius, piece.Radius, t.WorldHeight-piece.Radius)
		fid := factory.CloneCell(s.World, id, fx, fy, piece.Radius, s.Now)
		s.World.Add(fid, component.Velocity{X: dx * t.VirusFragmentSpeed, Y: dy * t.VirusFragmentSpeed})
		stampExplosion(s, fid)
	}
}

func stampExplosion(s *arena.State, id ecs.EntityID) {
	cd := s.Cooldown(id)
	cd.LastSplit = s.Now
	cd.LastExplosion = s.Now
	cd.Exploded = true
	s.World.Add(id, cd)
}

// resolveFood lets every cell eat the pellets it covers.
func resolveFood(s *arena.State) {
	grid := newFoodGrid(s)
	mult := s.Tuning.FoodMassMultiplier
	for _, id := range s.World.Query(component.CCell, component.CPosition) {
		pos := s.Pos(id)
		body := s.Body(id)
		mass := body.Mass()
		eaten := 0
		grid.around(pos.X, pos.Y, body.Radius, func(f ecs.EntityID) bool {
			if !s.World.Alive(f) {
				return true
			}
			fb := s.Body(f)
			if !canEat(pos, body.Radius, s.Pos(f), fb.Radius) {
				return true
			}
			mass += fb.Mass() * mult
			s.World.DestroyEntity(f)
			eaten++
			return true
		})
		if eaten == 0 {
			continue
		}
		s.World.Add(id, component.BodyWithMass(mass))
		if owner, _ := s.OwnerOf(id); owner.IsPlayer() {
			s.StatsFor(owner).FoodEaten += eaten
		}
	}
}

// resolveCells applies the eating rule to every pair of cells that do not
// merge with each other. Larger cells are tested as predators first.
func resolveCells(s *arena.State) []Event {
	var events []Event
	cells := s.World.Query(component.CCell, component.CPosition)
	sort.SliceStable(cells, func(i, j int) bool {
		return s.Body(cells[i]).Radius > s.Body(cells[j]).Radius
	})
	for i := 0; i < len(cells); i++ {
		for j := i + 1; j < len(cells); j++ {
			a, b := cells[i], cells[j]
			if !s.World.Alive(a) {
				break
			}
			if !s.World.Alive(b) {
				continue
			}
			oa, _ := s.OwnerOf(a)
			ob, _ := s.OwnerOf(b)
			if ruleFor(oa, ob) == ruleMerge {
				continue
			}
			switch {
			case canEat(s.Pos(a), s.Body(a).Radius, s.Pos(b), s.Body(b).Radius):
				events = append(events, eatCell(s, a, b)...)
			case canEat(s.Pos(b), s.Body(b).Radius, s.Pos(a), s.Body(a).Radius):
				events = append(events, eatCell(s, b, a)...)
			}
		}
	}
	return events
}

// eatCell moves prey's exact mass into pred and destroys prey.
func eatCell(s *arena.State, pred, prey ecs.EntityID) []Event {
	var events []Event
	po, _ := s.OwnerOf(pred)
	qo, _ := s.OwnerOf(prey)
	if po.IsPlayer() {
		s.StatsFor(po).CellsEaten++
		events = append(events, Event{Kind: EventAte, Owner: po, Other: nameOf(s, prey)})
	}
	if qo.IsPlayer() {
		events = append(events, Event{Kind: EventLost, Owner: qo, Other: nameOf(s, pred)})
	}
	s.World.Add(pred, component.BodyWithMass(s.Body(pred).Mass()+s.Body(prey).Mass()))
	s.World.DestroyEntity(prey)
	return events
}

// resolveEjected lets cells absorb ejected blobs. A blob still moving fast is
// immune to its own owner's cells.
func resolveEjected(s *arena.State) {
	t := s.Tuning
	cells := s.World.Query(component.CCell, component.CPosition)
	for _, e := range s.World.Query(component.CEjected, component.CPosition) {
		ej := s.World.Get(e, component.CEjected).(component.Ejected)
		ev := s.Vel(e)
		fresh := math.Hypot(ev.X, ev.Y) > t.EjectImmunitySpeed
		epos, eb := s.Pos(e), s.Body(e)
		for _, id := range cells {
			if !s.World.Alive(id) {
				continue
			}
			owner, _ := s.OwnerOf(id)
			if fresh && owner == ej.Owner {
				continue
			}
			body := s.Body(id)
			if !canEat(s.Pos(id), body.Radius, epos, eb.Radius) {
				continue
			}
			s.World.Add(id, component.BodyWithMass(body.Mass()+ej.Value))
			s.World.DestroyEntity(e)
			break
		}
	}
}

func nameOf(s *arena.State, id ecs.EntityID) string {
	if c := s.World.Get(id, component.CRenderable); c != nil {
		if n := c.(component.Renderable).Name; n != "" {
			return n
		}
	}
	return "a cell"
}
