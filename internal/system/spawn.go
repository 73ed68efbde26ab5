package system

import (
	"cell-arena/assets"
	"cell-arena/internal/arena"
	"cell-arena/internal/component"
	"cell-arena/internal/factory"
)

// maxVirusPlacementTries bounds the search for a spot away from players.
const maxVirusPlacementTries = 20

// Replenish tops food, AI and virus populations back up to their targets.
func Replenish(s *arena.State) {
	t := s.Tuning
	for n := s.World.Count(component.CTagFood); n < t.FoodTarget; n++ {
		SpawnFood(s)
	}
	for n := s.CellCount(component.OwnerAI); n < t.AITarget; n++ {
		SpawnAI(s)
	}
	for n := s.World.Count(component.CTagVirus); n < t.VirusTarget; n++ {
		SpawnVirus(s)
	}
}

// SpawnFood drops one pellet at a uniformly random position.
func SpawnFood(s *arena.State) {
	r := s.Tuning.FoodRadius
	x, y := s.RandomPoint(r)
	color := assets.Palette[s.Rng.Intn(len(assets.Palette))]
	factory.NewFood(s.World, x, y, r, color)
}

// SpawnAI creates one AI cell with a random size, look and wander target.
func SpawnAI(s *arena.State) {
	t := s.Tuning
	r := t.AIMinRadius + s.Rng.Float64()*(t.AIMaxRadius-t.AIMinRadius)
	x, y := s.RandomPoint(r)
	color := assets.Palette[s.Rng.Intn(len(assets.Palette))]
	name := assets.AINames[s.Rng.Intn(len(assets.AINames))]
	id := factory.NewAICell(s.World, x, y, r, color, name, s.Now)

	tx, ty := s.RandomPoint(t.AITargetMargin)
	ai := s.World.Get(id, component.CAI).(component.AI)
	ai.TargetX, ai.TargetY = tx, ty
	s.World.Add(id, ai)
}

// SpawnVirus places one virus, preferring spots clear of player cells.
func SpawnVirus(s *arena.State) {
	t := s.Tuning
	r := t.VirusRadius
	var x, y float64
	for try := 0; try < maxVirusPlacementTries; try++ {
		x, y = s.RandomPoint(r)
		if clearOfPlayers(s, component.Position{X: x, Y: y}, r+t.VirusSpawnClearance) {
			break
		}
	}
	factory.NewVirus(s.World, x, y, r)
}

func clearOfPlayers(s *arena.State, p component.Position, clearance float64) bool {
	for _, o := range s.Owners {
		for _, id := range s.Cells(o) {
			if dist(p, s.Pos(id)) < clearance+s.Body(id).Radius {
				return false
			}
		}
	}
	return true
}
