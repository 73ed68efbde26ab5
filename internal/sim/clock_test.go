package sim

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"cell-arena/internal/component"
	"cell-arena/internal/tuning"
)

const dt = 33 * time.Millisecond

func newTestArena(players int) *Arena {
	return NewArena(tuning.Default(), players, rand.New(rand.NewSource(7)))
}

func TestNewArenaPopulates(t *testing.T) {
	a := newTestArena(1)
	s := a.State()
	tu := s.Tuning

	if n := s.World.Count(component.CTagFood); n != tu.FoodTarget {
		t.Errorf("food = %d; want %d", n, tu.FoodTarget)
	}
	if n := s.CellCount(component.OwnerAI); n != tu.AITarget {
		t.Errorf("AI cells = %d; want %d", n, tu.AITarget)
	}
	if n := s.World.Count(component.CTagVirus); n != tu.VirusTarget {
		t.Errorf("viruses = %d; want %d", n, tu.VirusTarget)
	}
	cells := s.Cells(component.OwnerPlayer1)
	if len(cells) != 1 {
		t.Fatalf("player cells = %d; want 1", len(cells))
	}
	if r := s.Body(cells[0]).Radius; r != tu.InitialRadius {
		t.Errorf("starting radius = %v; want %v", r, tu.InitialRadius)
	}
	p := s.Pos(cells[0])
	if p.X != tu.WorldWidth/2 || p.Y != tu.WorldHeight/2 {
		t.Errorf("player spawned at (%v,%v); want world center", p.X, p.Y)
	}
	if s.CellCount(component.OwnerPlayer2) != 0 {
		t.Error("solo arena must not have a second player")
	}
}

func TestNewArenaTwoOwnersStartApart(t *testing.T) {
	a := newTestArena(2)
	s := a.State()
	p1 := s.Pos(s.Cells(component.OwnerPlayer1)[0])
	p2 := s.Pos(s.Cells(component.OwnerPlayer2)[0])
	if p1.Y != p2.Y || p2.X-p1.X < s.Tuning.WorldWidth/4 {
		t.Fatalf("players start too close: %+v %+v", p1, p2)
	}
	if s.Controls[0].Scheme == s.Controls[1].Scheme {
		t.Fatal("the two players should start on different control schemes")
	}
}

func TestPopulationFloorsHold(t *testing.T) {
	a := newTestArena(1)
	s := a.State()
	tu := s.Tuning
	for i := 0; i < 300; i++ {
		a.Step(dt)
		if n := s.World.Count(component.CTagFood); n < tu.FoodTarget {
			t.Fatalf("tick %d: food %d below target %d", i, n, tu.FoodTarget)
		}
		if n := s.CellCount(component.OwnerAI); n < tu.AITarget {
			t.Fatalf("tick %d: AI %d below target %d", i, n, tu.AITarget)
		}
		if n := s.World.Count(component.CTagVirus); n < tu.VirusTarget {
			t.Fatalf("tick %d: viruses %d below target %d", i, n, tu.VirusTarget)
		}
	}
}

func TestRandomInputKeepsInvariants(t *testing.T) {
	a := newTestArena(2)
	s := a.State()
	tu := s.Tuning
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 400 && !a.Over(); i++ {
		a.SetPointer(component.OwnerPlayer1, rng.Float64()*tu.WorldWidth, rng.Float64()*tu.WorldHeight)
		a.SetDirection(component.OwnerPlayer2, rng.Float64()*2-1, rng.Float64()*2-1)
		for _, o := range component.Players {
			switch rng.Intn(6) {
			case 0:
				a.Split(o)
			case 1:
				a.Eject(o)
			}
		}
		snap := a.Step(dt)

		for _, o := range s.Owners {
			if n := s.CellCount(o); n > tu.MaxCells {
				t.Fatalf("tick %d: %v has %d cells; ceiling is %d", i, o, n, tu.MaxCells)
			}
		}
		for _, e := range snap.Entities {
			if e.X < 0 || e.X > tu.WorldWidth || e.Y < 0 || e.Y > tu.WorldHeight {
				t.Fatalf("tick %d: %s at (%v,%v) left the world", i, e.Kind, e.X, e.Y)
			}
			if e.Radius <= 0 || math.IsNaN(e.Radius) {
				t.Fatalf("tick %d: %s has radius %v", i, e.Kind, e.Radius)
			}
		}
		if snap.Score < int(s.Mass(component.OwnerPlayer1)+s.Mass(component.OwnerPlayer2)) {
			t.Fatalf("tick %d: score %d below current combined mass", i, snap.Score)
		}
	}
}

func TestGameOverWhenPlayerCellsGone(t *testing.T) {
	a := newTestArena(1)
	s := a.State()
	start := a.Score()
	if want := int(math.Pi * s.Tuning.InitialRadius * s.Tuning.InitialRadius); start != want {
		t.Fatalf("initial score = %d; want %d", start, want)
	}

	for _, id := range s.Cells(component.OwnerPlayer1) {
		s.World.DestroyEntity(id)
	}
	snap := a.Step(dt)
	if !a.Over() || !snap.Over {
		t.Fatal("arena should be over once the player has no cells")
	}
	if !s.Stats[0].Eliminated || s.Stats[0].EliminatedAt != dt {
		t.Fatalf("unexpected elimination stats %+v", s.Stats[0])
	}
	if a.Score() != start {
		t.Fatalf("score = %d; want peak %d", a.Score(), start)
	}

	tick := s.Tick
	a.Step(dt)
	if s.Tick != tick {
		t.Fatal("a finished arena must not advance")
	}
	if a.Split(component.OwnerPlayer1) != 0 || a.Eject(component.OwnerPlayer1) != 0 {
		t.Fatal("commands after game over must be ignored")
	}
}

func TestDuoContinuesAfterOneElimination(t *testing.T) {
	a := newTestArena(2)
	s := a.State()
	for _, id := range s.Cells(component.OwnerPlayer1) {
		s.World.DestroyEntity(id)
	}
	a.Step(dt)
	if a.Over() {
		t.Fatal("game should continue while P2 has cells")
	}
	if !s.Stats[0].Eliminated || s.Stats[1].Eliminated {
		t.Fatalf("elimination flags wrong: %+v %+v", s.Stats[0], s.Stats[1])
	}

	for _, id := range s.Cells(component.OwnerPlayer2) {
		s.World.DestroyEntity(id)
	}
	a.Step(dt)
	if !a.Over() {
		t.Fatal("game should end once both owners are gone")
	}
}

func TestSoloIgnoresSecondPlayer(t *testing.T) {
	a := newTestArena(1)
	a.SetPointer(component.OwnerPlayer2, 10, 10)
	a.SetDirection(component.OwnerPlayer2, 1, 0)
	if a.Split(component.OwnerPlayer2) != 0 {
		t.Fatal("P2 split in a solo arena")
	}
	if c := a.State().Controls[1]; c.HasPointer || c.DirX != 0 {
		t.Fatalf("P2 control changed in solo arena: %+v", c)
	}
}

func TestSplitCommandReachesSystem(t *testing.T) {
	tu := tuning.Default()
	tu.InitialRadius = 40
	a := NewArena(tu, 1, rand.New(rand.NewSource(1)))
	if n := a.Split(component.OwnerPlayer1); n != 1 {
		t.Fatalf("split created %d cells; want 1", n)
	}
	if got := a.State().Stats[0].Splits; got != 1 {
		t.Fatalf("Splits = %d; want 1", got)
	}
}

func TestSimulationTimeAdvances(t *testing.T) {
	a := newTestArena(1)
	for range 10 {
		a.Step(dt)
	}
	s := a.State()
	if s.Now != 10*dt || s.Tick != 10 {
		t.Fatalf("Now=%v Tick=%d; want %v and 10", s.Now, s.Tick, 10*dt)
	}
}

func TestRenameRelabelsCellsAndSnapshot(t *testing.T) {
	tu := tuning.Default()
	tu.InitialRadius = 40
	a := NewArena(tu, 2, rand.New(rand.NewSource(1)))
	a.Rename(component.OwnerPlayer1, "alice")
	a.Split(component.OwnerPlayer1)

	snap := a.Snapshot()
	if snap.Owners[0].Name != "alice" || snap.Owners[1].Name != "Friend" {
		t.Fatalf("owner names = %q, %q", snap.Owners[0].Name, snap.Owners[1].Name)
	}
	n := 0
	for _, e := range snap.Entities {
		if e.Owner == "P1" {
			n++
			if e.Name != "alice" {
				t.Errorf("P1 cell named %q", e.Name)
			}
		}
	}
	if n != 2 {
		t.Errorf("P1 has %d cells; want 2", n)
	}
	if a.Name(component.OwnerPlayer1) != "alice" || a.Name(component.OwnerAI) != "AI" {
		t.Errorf("Name = %q, %q", a.Name(component.OwnerPlayer1), a.Name(component.OwnerAI))
	}

	a.Rename(component.OwnerPlayer2, "")
	if a.Name(component.OwnerPlayer2) != "Friend" {
		t.Error("an empty name should be ignored")
	}
}
