package factory

import (
	"time"

	"cell-arena/assets"
	"cell-arena/internal/component"
	"cell-arena/internal/ecs"

	"github.com/gdamore/tcell/v2"
)

// Render orders: lower is drawn first.
const (
	OrderFood    = 1
	OrderEjected = 2
	OrderCell    = 5
	OrderVirus   = 8
)

// NewPlayerCell creates a cell controlled by a local player owner.
// now is stamped as its last split so a freshly spawned fragment honours the
// merge cooldown.
func NewPlayerCell(w *ecs.World, owner component.Owner, x, y, radius float64, now time.Duration) ecs.EntityID {
	name, color := "", tcell.ColorWhite
	switch owner {
	case component.OwnerPlayer1:
		name, color = assets.PlayerNames[0], assets.PlayerColors[0]
	case component.OwnerPlayer2:
		name, color = assets.PlayerNames[1], assets.PlayerColors[1]
	case component.OwnerAI:
		// AI cells go through NewAICell.
	}
	return newCell(w, owner, x, y, radius, now, component.Renderable{
		Name:        name,
		Color:       color,
		RenderOrder: OrderCell,
	})
}

// NewAICell creates an autonomous cell with its behavior entry due
// immediately.
func NewAICell(w *ecs.World, x, y, radius float64, color tcell.Color, name string, now time.Duration) ecs.EntityID {
	id := newCell(w, component.OwnerAI, x, y, radius, now, component.Renderable{
		Name:        name,
		Color:       color,
		RenderOrder: OrderCell,
	})
	w.Add(id, component.AI{Behavior: component.BehaviorWander, TargetX: x, TargetY: y, NextDecision: now})
	return id
}

// CloneCell creates a new cell with the same owner and look as src.
func CloneCell(w *ecs.World, src ecs.EntityID, x, y, radius float64, now time.Duration) ecs.EntityID {
	owner := w.Get(src, component.CCell).(component.Cell).Owner
	rend := component.Renderable{RenderOrder: OrderCell}
	if c := w.Get(src, component.CRenderable); c != nil {
		rend = c.(component.Renderable)
	}
	id := newCell(w, owner, x, y, radius, now, rend)
	if c := w.Get(src, component.CAI); c != nil {
		ai := c.(component.AI)
		ai.NextDecision = now
		w.Add(id, ai)
	}
	return id
}

func newCell(w *ecs.World, owner component.Owner, x, y, radius float64, now time.Duration, rend component.Renderable) ecs.EntityID {
	id := w.CreateEntity()
	w.Add(id, component.Position{X: x, Y: y})
	w.Add(id, component.Velocity{})
	w.Add(id, component.Body{Radius: radius})
	w.Add(id, component.Cell{Owner: owner})
	w.Add(id, component.Cooldown{LastSplit: now})
	w.Add(id, rend)
	return id
}

// NewFood creates a food pellet.
func NewFood(w *ecs.World, x, y, radius float64, color tcell.Color) ecs.EntityID {
	id := w.CreateEntity()
	w.Add(id, component.Position{X: x, Y: y})
	w.Add(id, component.Body{Radius: radius})
	w.Add(id, component.Renderable{Color: color, RenderOrder: OrderFood})
	w.Add(id, component.TagFood{})
	return id
}

// NewVirus creates a stationary virus.
func NewVirus(w *ecs.World, x, y, radius float64) ecs.EntityID {
	id := w.CreateEntity()
	w.Add(id, component.Position{X: x, Y: y})
	w.Add(id, component.Body{Radius: radius})
	w.Add(id, component.Renderable{Color: assets.VirusColor, RenderOrder: OrderVirus})
	w.Add(id, component.TagVirus{})
	return id
}

// NewEjected creates a blob of ejected mass moving at (vx, vy). The blob's
// radius follows from value and it takes the color of the cell that shed it.
func NewEjected(w *ecs.World, creator ecs.EntityID, owner component.Owner, x, y, vx, vy, value float64) ecs.EntityID {
	color := assets.EjectedColor
	if c := w.Get(creator, component.CRenderable); c != nil {
		color = c.(component.Renderable).Color
	}
	id := w.CreateEntity()
	w.Add(id, component.Position{X: x, Y: y})
	w.Add(id, component.Velocity{X: vx, Y: vy})
	w.Add(id, component.BodyWithMass(value))
	w.Add(id, component.Renderable{Color: color, RenderOrder: OrderEjected})
	w.Add(id, component.Ejected{Owner: owner, Value: value})
	return id
}
