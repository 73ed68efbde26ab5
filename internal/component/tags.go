package component

import "cell-arena/internal/ecs"

const (
	CTagFood  ecs.ComponentType = 9
	CTagVirus ecs.ComponentType = 10
	CEjected  ecs.ComponentType = 11
)

// TagFood marks a static pellet.
type TagFood struct{}

func (TagFood) Type() ecs.ComponentType { return CTagFood }

// TagVirus marks a stationary hazard.
type TagVirus struct{}

func (TagVirus) Type() ecs.ComponentType { return CTagVirus }

// Ejected is a blob of mass shed by a cell. Owner's cells cannot re-absorb
// it while it is fast. Value is the mass it gives to whoever absorbs it.
type Ejected struct {
	Owner Owner
	Value float64
}

func (Ejected) Type() ecs.ComponentType { return CEjected }
