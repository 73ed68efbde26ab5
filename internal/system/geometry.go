package system

import (
	"math"

	"cell-arena/internal/component"
)

func dist(a, b component.Position) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// unit returns the normalized (dx, dy). Degenerate vectors fall back to +X.
func unit(dx, dy float64) (float64, float64) {
	l := math.Hypot(dx, dy)
	if l < 1e-9 {
		return 1, 0
	}
	return dx / l, dy / l
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return (lo + hi) / 2
	}
	return min(max(v, lo), hi)
}

// canEat is the predator/prey predicate shared by every eating pair.
func canEat(predPos component.Position, predR float64, preyPos component.Position, preyR float64) bool {
	if predR <= preyR*eatFactor {
		return false
	}
	return dist(predPos, preyPos) < predR-preyR*0.5
}
