package system

import (
	"cell-arena/internal/arena"
	"cell-arena/internal/component"
	"cell-arena/internal/ecs"
)

// gridCellSize is about twice the largest pellet-eating reach a small cell
// has; bigger queries just touch more buckets.
const gridCellSize = 100.0

// foodGrid is a uniform bucket grid over food pellets for broad-phase
// lookups. It is rebuilt from the world whenever a system needs it.
type foodGrid struct {
	cols, rows int
	cells      [][]ecs.EntityID
}

func newFoodGrid(s *arena.State) *foodGrid {
	g := &foodGrid{
		cols: int(s.Tuning.WorldWidth/gridCellSize) + 1,
		rows: int(s.Tuning.WorldHeight/gridCellSize) + 1,
	}
	g.cells = make([][]ecs.EntityID, g.cols*g.rows)
	for _, id := range s.World.Query(component.CTagFood, component.CPosition) {
		p := s.Pos(id)
		i := g.index(g.col(p.X), g.row(p.Y))
		g.cells[i] = append(g.cells[i], id)
	}
	return g
}

func (g *foodGrid) col(x float64) int { return min(max(int(x/gridCellSize), 0), g.cols-1) }
func (g *foodGrid) row(y float64) int { return min(max(int(y/gridCellSize), 0), g.rows-1) }
func (g *foodGrid) index(c, r int) int { return r*g.cols + c }

// around calls fn for every pellet in buckets overlapping the square of
// half-size reach around (x, y). fn returning false stops the walk.
func (g *foodGrid) around(x, y, reach float64, fn func(ecs.EntityID) bool) {
	c0, c1 := g.col(x-reach), g.col(x+reach)
	r0, r1 := g.row(y-reach), g.row(y+reach)
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			for _, id := range g.cells[g.index(c, r)] {
				if !fn(id) {
					return
				}
			}
		}
	}
}
