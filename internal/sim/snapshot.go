package sim

import (
	"fmt"
	"sort"
	"time"

	"cell-arena/internal/arena"
	"cell-arena/internal/component"
	"cell-arena/internal/ecs"

	"github.com/gdamore/tcell/v2"
)

// Kind tells a renderer what an entity is.
type Kind string

const (
	KindCell    Kind = "cell"
	KindFood    Kind = "food"
	KindVirus   Kind = "virus"
	KindEjected Kind = "ejected"
)

// Entity is the render view of one live entity.
type Entity struct {
	ID     ecs.EntityID `json:"id"`
	Kind   Kind         `json:"kind"`
	Owner  string       `json:"owner,omitempty"`
	X      float64      `json:"x"`
	Y      float64      `json:"y"`
	Radius float64      `json:"r"`
	Color  tcell.Color  `json:"-"`
	Hex    string       `json:"color"`
	Name   string       `json:"name,omitempty"`
	Order  int          `json:"-"`
}

// Mass is the entity's π·r².
func (e Entity) Mass() float64 { return component.Body{Radius: e.Radius}.Mass() }

// OwnerView summarises one local owner for the HUD.
type OwnerView struct {
	Owner component.Owner  `json:"-"`
	Label string           `json:"owner"`
	Name  string           `json:"name"`
	Mass  float64          `json:"mass"`
	Cells int              `json:"cells"`
	Stats arena.OwnerStats `json:"stats"`
}

// Snapshot is an immutable copy of everything a renderer needs for one
// frame. Entities are sorted by render order.
type Snapshot struct {
	Tick        uint64        `json:"tick"`
	Elapsed     time.Duration `json:"elapsed"`
	WorldWidth  float64       `json:"world_width"`
	WorldHeight float64       `json:"world_height"`
	Camera      arena.Camera  `json:"camera"`
	Entities    []Entity      `json:"entities"`
	Owners      []OwnerView   `json:"owners"`
	Score       int           `json:"score"`
	Over        bool          `json:"over"`
}

// Snapshot copies the current state out of the arena.
func (a *Arena) Snapshot() Snapshot {
	s := a.state
	if s == nil || s.World == nil {
		return Snapshot{}
	}
	snap := Snapshot{
		Tick:        s.Tick,
		Elapsed:     s.Now,
		WorldWidth:  s.Tuning.WorldWidth,
		WorldHeight: s.Tuning.WorldHeight,
		Camera:      s.Camera,
		Score:       a.Score(),
		Over:        a.over,
	}

	ids := s.World.Query(component.CPosition, component.CBody)
	snap.Entities = make([]Entity, 0, len(ids))
	for _, id := range ids {
		snap.Entities = append(snap.Entities, entityView(s, id))
	}
	sort.SliceStable(snap.Entities, func(i, j int) bool {
		ei, ej := snap.Entities[i], snap.Entities[j]
		if ei.Order != ej.Order {
			return ei.Order < ej.Order
		}
		return ei.Radius < ej.Radius
	})

	for i, o := range s.Owners {
		cells := s.Cells(o)
		view := OwnerView{
			Owner: o,
			Label: o.String(),
			Name:  a.names[i],
			Cells: len(cells),
			Stats: *s.StatsFor(o),
		}
		for _, id := range cells {
			view.Mass += s.Body(id).Mass()
		}
		snap.Owners = append(snap.Owners, view)
	}
	return snap
}

func entityView(s *arena.State, id ecs.EntityID) Entity {
	p := s.Pos(id)
	e := Entity{ID: id, X: p.X, Y: p.Y, Radius: s.Body(id).Radius}
	if c := s.World.Get(id, component.CRenderable); c != nil {
		r := c.(component.Renderable)
		e.Color, e.Name, e.Order = r.Color, r.Name, r.RenderOrder
	}
	e.Hex = fmt.Sprintf("#%06x", e.Color.Hex()&0xffffff)
	switch {
	case s.World.Has(id, component.CCell):
		e.Kind = KindCell
		o, _ := s.OwnerOf(id)
		e.Owner = o.String()
	case s.World.Has(id, component.CTagFood):
		e.Kind = KindFood
	case s.World.Has(id, component.CTagVirus):
		e.Kind = KindVirus
	case s.World.Has(id, component.CEjected):
		e.Kind = KindEjected
	}
	return e
}

// Leaderboard returns the n largest named cells, biggest first.
func (snap Snapshot) Leaderboard(n int) []Entity {
	var cells []Entity
	for _, e := range snap.Entities {
		if e.Kind == KindCell && e.Name != "" {
			cells = append(cells, e)
		}
	}
	sort.SliceStable(cells, func(i, j int) bool { return cells[i].Radius > cells[j].Radius })
	if len(cells) > n {
		cells = cells[:n]
	}
	return cells
}
