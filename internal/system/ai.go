package system

import (
	"math"
	"time"

	"cell-arena/internal/arena"
	"cell-arena/internal/component"
	"cell-arena/internal/ecs"
)

// DecisionInterval is how long an AI cell of radius r waits between
// decisions. Bigger cells think less often.
func DecisionInterval(base, perHundred time.Duration, r float64) time.Duration {
	return base + time.Duration(r/100*float64(perHundred))
}

// ProcessAI re-targets every AI cell whose decision time has come.
func ProcessAI(s *arena.State) {
	var grid *foodGrid
	for _, id := range s.World.Query(component.CAI, component.CPosition) {
		ai := s.World.Get(id, component.CAI).(component.AI)
		if s.Now < ai.NextDecision {
			continue
		}
		if grid == nil {
			grid = newFoodGrid(s)
		}
		decide(s, grid, id, &ai)
		r := s.Body(id).Radius
		ai.NextDecision = s.Now + DecisionInterval(s.Tuning.AIBaseDecision, s.Tuning.AISizeDecision, r)
		s.World.Add(id, ai)
	}
}

// decide applies the flee > chase > forage > wander priority.
func decide(s *arena.State, grid *foodGrid, id ecs.EntityID, ai *component.AI) {
	t := s.Tuning
	pos := s.Pos(id)
	r := s.Body(id).Radius

	var threat, prey ecs.EntityID
	threatDist, preyDist := math.MaxFloat64, math.MaxFloat64
	for _, other := range s.World.Query(component.CCell, component.CPosition) {
		if other == id {
			continue
		}
		or := s.Body(other).Radius
		d := dist(pos, s.Pos(other))
		if or > r*eatFactor && d < or*t.AIThreatRange && d < threatDist {
			threat, threatDist = other, d
		}
		if r > or*eatFactor && d < r*t.AIChaseRange && d < preyDist {
			prey, preyDist = other, d
		}
	}

	var tx, ty float64
	switch {
	case threat != ecs.NilEntity:
		tp := s.Pos(threat)
		dx, dy := unit(pos.X-tp.X, pos.Y-tp.Y)
		tx, ty = pos.X+dx*t.AIFleeDistance, pos.Y+dy*t.AIFleeDistance
		ai.Behavior = component.BehaviorFlee
	case prey != ecs.NilEntity && s.Rng.Float64() < t.AIChaseChance:
		pp := s.Pos(prey)
		tx, ty = pp.X, pp.Y
		ai.Behavior = component.BehaviorChase
	default:
		if food, ok := nearestFood(s, grid, pos, r*t.AIForageRange); ok {
			fp := s.Pos(food)
			tx, ty = fp.X, fp.Y
			ai.Behavior = component.BehaviorForage
		} else {
			tx, ty = s.RandomPoint(0)
			ai.Behavior = component.BehaviorWander
		}
	}

	m := t.AITargetMargin
	ai.TargetX = clamp(tx, m, t.WorldWidth-m)
	ai.TargetY = clamp(ty, m, t.WorldHeight-m)
}

func nearestFood(s *arena.State, grid *foodGrid, pos component.Position, reach float64) (ecs.EntityID, bool) {
	best := ecs.NilEntity
	bestDist := reach
	grid.around(pos.X, pos.Y, reach, func(f ecs.EntityID) bool {
		if d := dist(pos, s.Pos(f)); d < bestDist {
			best, bestDist = f, d
		}
		return true
	})
	return best, best != ecs.NilEntity
}
