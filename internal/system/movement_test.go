package system

import (
	"math"
	"math/rand"
	"testing"

	"cell-arena/internal/arena"
	"cell-arena/internal/component"
	"cell-arena/internal/ecs"
	"cell-arena/internal/factory"
	"cell-arena/internal/tuning"
)

const eps = 1e-6

// newTestState returns an empty arena (no food, AI or viruses) so tests
// control every entity.
func newTestState(players int) *arena.State {
	t := tuning.Default()
	t.FoodTarget, t.AITarget, t.VirusTarget = 0, 0, 0
	return arena.New(t, players, rand.New(rand.NewSource(1)))
}

func addCell(s *arena.State, owner component.Owner, x, y, r float64) ecs.EntityID {
	if owner == component.OwnerAI {
		return factory.NewAICell(s.World, x, y, r, 0, "ai", s.Now)
	}
	return factory.NewPlayerCell(s.World, owner, x, y, r, s.Now)
}

func totalMass(s *arena.State, o component.Owner) float64 { return s.Mass(o) }

func TestSteerTowardPointer(t *testing.T) {
	s := newTestState(1)
	id := addCell(s, component.OwnerPlayer1, 500, 500, s.Tuning.InitialRadius)
	s.Controls[0].PointerX, s.Controls[0].PointerY, s.Controls[0].HasPointer = 600, 500, true

	UpdateMovement(s)

	pos := s.Pos(id)
	want := 500 + s.Tuning.MaxSpeed
	if math.Abs(pos.X-want) > eps || math.Abs(pos.Y-500) > eps {
		t.Fatalf("expected position (%.1f,500), got (%.3f,%.3f)", want, pos.X, pos.Y)
	}
}

func TestLargerCellsMoveSlower(t *testing.T) {
	tu := tuning.Default()
	cases := []struct {
		radius float64
		want   float64
	}{
		{tu.InitialRadius / 2, tu.MaxSpeed * 2},
		{tu.InitialRadius, tu.MaxSpeed},
		{tu.InitialRadius * 2, tu.MaxSpeed / 2},
		{tu.InitialRadius * 4, tu.MaxSpeed / 4},
	}
	for _, tc := range cases {
		if got := CellSpeed(tu, tc.radius); math.Abs(got-tc.want) > eps {
			t.Errorf("CellSpeed(r=%v) = %v; want %v", tc.radius, got, tc.want)
		}
	}
}

func TestSmallCellSteersFasterThanMaxSpeed(t *testing.T) {
	s := newTestState(1)
	id := addCell(s, component.OwnerPlayer1, 500, 500, 15)
	s.Controls[0].PointerX, s.Controls[0].PointerY, s.Controls[0].HasPointer = 1500, 500, true

	UpdateMovement(s)

	// 6 * 20/15 = 8 per tick: steering, not an impulse being damped.
	want := 500 + s.Tuning.MaxSpeed*s.Tuning.InitialRadius/15
	if pos := s.Pos(id); math.Abs(pos.X-want) > eps {
		t.Fatalf("expected x=%v, got %v", want, pos.X)
	}
	UpdateMovement(s)
	if v := s.Vel(id); math.Abs(v.X-CellSpeed(s.Tuning, 15)) > eps {
		t.Fatalf("steering speed should hold at %v, got %v", CellSpeed(s.Tuning, 15), v.X)
	}
}

func TestIdleVelocityDecays(t *testing.T) {
	s := newTestState(1)
	id := addCell(s, component.OwnerPlayer1, 500, 500, 20)
	s.World.Add(id, component.Velocity{X: 2, Y: 0})

	UpdateMovement(s)

	if v := s.Vel(id); math.Abs(v.X-1.8) > eps {
		t.Fatalf("expected vx=1.8 after idle decay, got %v", v.X)
	}
}

func TestSplitImpulseIsDamped(t *testing.T) {
	s := newTestState(1)
	id := addCell(s, component.OwnerPlayer1, 500, 500, 20)
	s.World.Add(id, component.Velocity{X: 20, Y: 0})
	// A pointer target must not override the impulse while it is above cap.
	s.Controls[0].PointerX, s.Controls[0].PointerY, s.Controls[0].HasPointer = 500, 900, true

	UpdateMovement(s)

	v := s.Vel(id)
	if math.Abs(v.X-19) > eps || v.Y != 0 {
		t.Fatalf("expected velocity (19,0), got (%v,%v)", v.X, v.Y)
	}
}

func TestCellClampedInsideWorld(t *testing.T) {
	s := newTestState(1)
	r := 30.0
	id := addCell(s, component.OwnerPlayer1, r+1, s.Tuning.WorldHeight-r-1, r)
	s.World.Add(id, component.Velocity{X: -25, Y: 25})

	UpdateMovement(s)

	pos := s.Pos(id)
	if pos.X != r || pos.Y != s.Tuning.WorldHeight-r {
		t.Fatalf("expected clamp to (%v,%v), got (%v,%v)", r, s.Tuning.WorldHeight-r, pos.X, pos.Y)
	}
}

func TestDirectionSchemeSteers(t *testing.T) {
	s := newTestState(2)
	id := addCell(s, component.OwnerPlayer2, 500, 500, s.Tuning.InitialRadius)
	s.Controls[1].DirX, s.Controls[1].DirY = 0, -1

	UpdateMovement(s)

	pos := s.Pos(id)
	if math.Abs(pos.Y-(500-s.Tuning.MaxSpeed)) > eps || math.Abs(pos.X-500) > eps {
		t.Fatalf("expected to move straight up, got (%v,%v)", pos.X, pos.Y)
	}
}

func TestEjectedBouncesOffWall(t *testing.T) {
	s := newTestState(1)
	w := s.Tuning.WorldWidth
	id := factory.NewEjected(s.World, ecs.NilEntity, component.OwnerPlayer1, w-10, 500, 20, 0, s.Tuning.EjectMassValue)

	UpdateMovement(s)

	v := s.Vel(id)
	if v.X >= 0 {
		t.Fatalf("expected vx to flip negative, got %v", v.X)
	}
	if math.Abs(v.X+18) > eps {
		t.Fatalf("expected |vx| decayed to 18, got %v", v.X)
	}
	r := s.Body(id).Radius
	if pos := s.Pos(id); pos.X > w-r+eps {
		t.Fatalf("blob escaped the world: x=%v", pos.X)
	}
}
