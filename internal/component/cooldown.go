package component

import (
	"time"

	"cell-arena/internal/ecs"
)

const CCooldown ecs.ComponentType = 6

// Cooldown records when a cell was last involved in a split or a virus
// explosion, in simulation time.
type Cooldown struct {
	LastSplit     time.Duration
	LastExplosion time.Duration
	Exploded      bool
}

func (Cooldown) Type() ecs.ComponentType { return CCooldown }

// MergeReady reports whether at least window has passed since the last split.
func (c Cooldown) MergeReady(now, window time.Duration) bool {
	return now-c.LastSplit >= window
}

// ExplosionReady reports whether the cell may be exploded by a virus again.
func (c Cooldown) ExplosionReady(now, window time.Duration) bool {
	return !c.Exploded || now-c.LastExplosion >= window
}
