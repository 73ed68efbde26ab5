package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sub", "arena.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestBestScoreEmpty(t *testing.T) {
	s, _ := openTemp(t)
	best, err := s.BestScore()
	if err != nil {
		t.Fatalf("BestScore: %v", err)
	}
	if best != 0 {
		t.Fatalf("best = %d; want 0", best)
	}
}

func TestRecordScoreOnlyWhenBeaten(t *testing.T) {
	s, _ := openTemp(t)
	steps := []struct {
		score int
		saved bool
		best  int
	}{
		{1200, true, 1200},
		{800, false, 1200},
		{1200, false, 1200},
		{5000, true, 5000},
	}
	for _, st := range steps {
		saved, err := s.RecordScore(st.score)
		if err != nil {
			t.Fatalf("RecordScore(%d): %v", st.score, err)
		}
		if saved != st.saved {
			t.Errorf("RecordScore(%d) saved=%v; want %v", st.score, saved, st.saved)
		}
		best, err := s.BestScore()
		if err != nil {
			t.Fatalf("BestScore: %v", err)
		}
		if best != st.best {
			t.Errorf("after %d best=%d; want %d", st.score, best, st.best)
		}
	}
}

func TestBestScoreSurvivesReopen(t *testing.T) {
	s, path := openTemp(t)
	if _, err := s.RecordScore(4321); err != nil {
		t.Fatalf("RecordScore: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	again, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer again.Close()
	best, err := again.BestScore()
	if err != nil || best != 4321 {
		t.Fatalf("best after reopen = %d, %v; want 4321", best, err)
	}
}

func TestRecordRunAndTopRuns(t *testing.T) {
	s, _ := openTemp(t)
	ended := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, score := range []int{300, 900, 600} {
		err := s.RecordRun(Run{
			Mode:      "solo",
			Players:   1,
			Score:     score,
			Duration:  time.Duration(i+1) * time.Minute,
			FoodEaten: i,
			EndedAt:   ended,
		})
		if err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	top, err := s.TopRuns(2)
	if err != nil {
		t.Fatalf("TopRuns: %v", err)
	}
	if len(top) != 2 || top[0].Score != 900 || top[1].Score != 600 {
		t.Fatalf("unexpected top runs %+v", top)
	}
	if top[0].Duration != 2*time.Minute || top[0].FoodEaten != 1 || !top[0].EndedAt.Equal(ended) {
		t.Fatalf("run fields not round-tripped: %+v", top[0])
	}
}

func TestOpenEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestDefaultPathXDG(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath: %v", err)
	}
	if want := filepath.Join(tmp, "cell-arena", "arena.db"); path != want {
		t.Errorf("path = %q; want %q", path, want)
	}
}

func TestDefaultPathFallback(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")
	path, err := DefaultPath()
	if err != nil {
		t.Skip("skipping: no user home directory available in test environment")
	}
	if suffix := filepath.Join(".local", "share", "cell-arena", "arena.db"); !strings.HasSuffix(path, suffix) {
		t.Errorf("path %q does not end with %q", path, suffix)
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	_, path := openTemp(t)
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Fatalf("data dir not created: %v", err)
	}
}
