package component

import "cell-arena/internal/ecs"

const (
	CPosition ecs.ComponentType = 1
	CVelocity ecs.ComponentType = 4
)

// Position is a world-space location in world units.
type Position struct {
	X, Y float64
}

func (Position) Type() ecs.ComponentType { return CPosition }

// Velocity is world units per tick.
type Velocity struct {
	X, Y float64
}

func (Velocity) Type() ecs.ComponentType { return CVelocity }
