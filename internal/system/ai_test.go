package system

import (
	"math"
	"testing"
	"time"

	"cell-arena/internal/arena"
	"cell-arena/internal/component"
	"cell-arena/internal/ecs"
	"cell-arena/internal/factory"
)

func aiOf(s *arena.State, id ecs.EntityID) component.AI {
	return s.World.Get(id, component.CAI).(component.AI)
}

func TestAIFleesLargerThreat(t *testing.T) {
	s := newTestState(1)
	ai := addCell(s, component.OwnerAI, 1000, 1000, 20)
	addCell(s, component.OwnerPlayer1, 1150, 1000, 40)
	factory.NewFood(s.World, 1010, 1000, s.Tuning.FoodRadius, 0)

	ProcessAI(s)

	got := aiOf(s, ai)
	if got.Behavior != component.BehaviorFlee {
		t.Fatalf("behavior = %v; want flee", got.Behavior)
	}
	if math.Abs(got.TargetX-500) > eps || math.Abs(got.TargetY-1000) > eps {
		t.Fatalf("flee target = (%v,%v); want (500,1000)", got.TargetX, got.TargetY)
	}
}

func TestAIIgnoresDistantThreat(t *testing.T) {
	s := newTestState(1)
	ai := addCell(s, component.OwnerAI, 1000, 1000, 20)
	addCell(s, component.OwnerPlayer1, 1250, 1000, 40) // outside 5×40

	ProcessAI(s)

	if b := aiOf(s, ai).Behavior; b == component.BehaviorFlee {
		t.Fatal("threat beyond range should not trigger flee")
	}
}

func TestAIChasesSmallerCell(t *testing.T) {
	s := newTestState(1)
	s.Tuning.AIChaseChance = 1
	ai := addCell(s, component.OwnerAI, 1000, 1000, 40)
	addCell(s, component.OwnerPlayer1, 1100, 1000, 20)

	ProcessAI(s)

	got := aiOf(s, ai)
	if got.Behavior != component.BehaviorChase {
		t.Fatalf("behavior = %v; want chase", got.Behavior)
	}
	if got.TargetX != 1100 || got.TargetY != 1000 {
		t.Fatalf("chase target = (%v,%v); want (1100,1000)", got.TargetX, got.TargetY)
	}
}

func TestAIChaseChanceZeroForages(t *testing.T) {
	s := newTestState(1)
	s.Tuning.AIChaseChance = 0
	ai := addCell(s, component.OwnerAI, 1000, 1000, 40)
	addCell(s, component.OwnerPlayer1, 1100, 1000, 20)
	factory.NewFood(s.World, 900, 1000, s.Tuning.FoodRadius, 0)

	ProcessAI(s)

	got := aiOf(s, ai)
	if got.Behavior != component.BehaviorForage || got.TargetX != 900 {
		t.Fatalf("expected forage toward (900,1000), got %v (%v,%v)", got.Behavior, got.TargetX, got.TargetY)
	}
}

func TestAIForagesNearestFood(t *testing.T) {
	s := newTestState(1)
	ai := addCell(s, component.OwnerAI, 1000, 1000, 20)
	factory.NewFood(s.World, 1150, 1000, s.Tuning.FoodRadius, 0)
	factory.NewFood(s.World, 1000, 1100, s.Tuning.FoodRadius, 0)

	ProcessAI(s)

	got := aiOf(s, ai)
	if got.Behavior != component.BehaviorForage {
		t.Fatalf("behavior = %v; want forage", got.Behavior)
	}
	if got.TargetX != 1000 || got.TargetY != 1100 {
		t.Fatalf("forage target = (%v,%v); want nearest pellet (1000,1100)", got.TargetX, got.TargetY)
	}
}

func TestAIWandersInsideMargin(t *testing.T) {
	s := newTestState(1)
	ai := addCell(s, component.OwnerAI, 1000, 1000, 20)
	m := s.Tuning.AITargetMargin

	for i := 0; i < 50; i++ {
		s.Now += 10 * time.Second
		ProcessAI(s)
		got := aiOf(s, ai)
		if got.Behavior != component.BehaviorWander {
			t.Fatalf("behavior = %v; want wander", got.Behavior)
		}
		if got.TargetX < m || got.TargetX > s.Tuning.WorldWidth-m ||
			got.TargetY < m || got.TargetY > s.Tuning.WorldHeight-m {
			t.Fatalf("wander target (%v,%v) outside margin", got.TargetX, got.TargetY)
		}
	}
}

func TestAIFleeTargetClampedToMargin(t *testing.T) {
	s := newTestState(1)
	ai := addCell(s, component.OwnerAI, 100, 1000, 20)
	addCell(s, component.OwnerPlayer1, 200, 1000, 40)

	ProcessAI(s)

	if got := aiOf(s, ai); got.TargetX != s.Tuning.AITargetMargin {
		t.Fatalf("flee target x = %v; want clamp to %v", got.TargetX, s.Tuning.AITargetMargin)
	}
}

func TestAIWaitsForNextDecision(t *testing.T) {
	s := newTestState(1)
	ai := addCell(s, component.OwnerAI, 1000, 1000, 20)

	ProcessAI(s)
	first := aiOf(s, ai)
	want := DecisionInterval(s.Tuning.AIBaseDecision, s.Tuning.AISizeDecision, 20)
	if first.NextDecision != want {
		t.Fatalf("NextDecision = %v; want %v", first.NextDecision, want)
	}

	// A threat appears, but the cell keeps its plan until the interval elapses.
	addCell(s, component.OwnerPlayer1, 1100, 1000, 40)
	s.Now = want - time.Millisecond
	ProcessAI(s)
	if got := aiOf(s, ai); got != first {
		t.Fatalf("AI re-decided early: %+v", got)
	}

	s.Now = want
	ProcessAI(s)
	if got := aiOf(s, ai); got.Behavior != component.BehaviorFlee {
		t.Fatalf("behavior = %v; want flee once the interval elapsed", got.Behavior)
	}
}

func TestDecisionIntervalGrowsWithSize(t *testing.T) {
	base, per := 500*time.Millisecond, 1500*time.Millisecond
	cases := []struct {
		r    float64
		want time.Duration
	}{
		{0, 500 * time.Millisecond},
		{50, 1250 * time.Millisecond},
		{100, 2 * time.Second},
	}
	for _, tc := range cases {
		if got := DecisionInterval(base, per, tc.r); got != tc.want {
			t.Errorf("DecisionInterval(r=%v) = %v; want %v", tc.r, got, tc.want)
		}
	}
}
