package component

import (
	"math"

	"cell-arena/internal/ecs"
)

const CBody ecs.ComponentType = 2

// Body is the circular extent of a cell, pellet, virus or blob.
// Size is stored as radius; growth must go through Mass / BodyWithMass so
// that additions stay area-consistent.
type Body struct {
	Radius float64
}

func (Body) Type() ecs.ComponentType { return CBody }

// Mass returns π·r².
func (b Body) Mass() float64 { return math.Pi * b.Radius * b.Radius }

// BodyWithMass returns the body whose mass is m.
func BodyWithMass(m float64) Body {
	if m <= 0 {
		return Body{}
	}
	return Body{Radius: math.Sqrt(m / math.Pi)}
}
