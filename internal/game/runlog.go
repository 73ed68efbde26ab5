package game

import (
	"log/slog"
	"time"

	"cell-arena/internal/sim"
	"cell-arena/internal/store"
)

// runFromSnapshot summarises a finished round. Counters are summed across
// the local owners.
func runFromSnapshot(mode string, players int, snap sim.Snapshot, endedAt time.Time) store.Run {
	run := store.Run{
		Mode:     mode,
		Players:  players,
		Score:    snap.Score,
		Duration: snap.Elapsed,
		EndedAt:  endedAt,
	}
	for _, ov := range snap.Owners {
		run.FoodEaten += ov.Stats.FoodEaten
		run.CellsEaten += ov.Stats.CellsEaten
		run.VirusesHit += ov.Stats.VirusesHit
		run.Splits += ov.Stats.Splits
		run.Ejections += ov.Stats.Ejections
	}
	return run
}

// saveRun records the score and the run. Errors are logged but never end
// the session.
func saveRun(st *store.Store, run store.Run, logger *slog.Logger) (newBest bool) {
	if st == nil {
		return false
	}
	newBest, err := st.RecordScore(run.Score)
	if err != nil {
		logger.Warn("run log: cannot record best score", "error", err)
	}
	if err := st.RecordRun(run); err != nil {
		logger.Warn("run log: cannot record run", "error", err)
	}
	return newBest
}

// finishRound persists the round that just ended.
func (g *Game) finishRound() {
	run := runFromSnapshot(g.mode.ID, g.mode.Players, g.last, time.Now())
	g.newBest = saveRun(g.opts.Store, run, g.log)
	if g.opts.Store == nil && run.Score > g.best {
		g.newBest = true
	}
	g.best = max(g.best, run.Score)
	g.log.Info("round over", "mode", run.Mode, "score", run.Score, "elapsed", run.Duration)
}
