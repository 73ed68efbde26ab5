package component

import (
	"time"

	"cell-arena/internal/ecs"
)

const CAI ecs.ComponentType = 5

// AIBehavior is the branch chosen at the last decision.
type AIBehavior uint8

const (
	BehaviorWander AIBehavior = iota // random point in the world
	BehaviorForage                   // nearest food
	BehaviorChase                    // nearest edible cell
	BehaviorFlee                     // away from the nearest threat
)

func (b AIBehavior) String() string {
	switch b {
	case BehaviorForage:
		return "forage"
	case BehaviorChase:
		return "chase"
	case BehaviorFlee:
		return "flee"
	default:
		return "wander"
	}
}

// AI is the per-agent behavior entry: where it is heading and when it next
// gets to change its mind (simulation time).
type AI struct {
	Behavior     AIBehavior
	TargetX      float64
	TargetY      float64
	NextDecision time.Duration
}

func (AI) Type() ecs.ComponentType { return CAI }
