package system

import (
	"math"
	"testing"

	"cell-arena/internal/component"
)

func TestEjectPaysCostAndSpawnsBlob(t *testing.T) {
	s := newTestState(1)
	id := addCell(s, component.OwnerPlayer1, 1000, 1000, 40)
	before := s.Body(id).Mass()
	s.Controls[0].PointerX, s.Controls[0].PointerY, s.Controls[0].HasPointer = 1000, 500, true

	if n := Eject(s, component.OwnerPlayer1); n != 1 {
		t.Fatalf("expected 1 blob, got %d", n)
	}

	after := s.Body(id).Mass()
	if math.Abs(before-after-s.Tuning.EjectMassCost) > 1e-6 {
		t.Fatalf("cell paid %v; want %v", before-after, s.Tuning.EjectMassCost)
	}

	blobs := s.World.Query(component.CEjected)
	if len(blobs) != 1 {
		t.Fatalf("expected 1 ejected blob, got %d", len(blobs))
	}
	blob := blobs[0]
	ej := s.World.Get(blob, component.CEjected).(component.Ejected)
	if ej.Value != s.Tuning.EjectMassValue || ej.Owner != component.OwnerPlayer1 {
		t.Fatalf("unexpected ejected record %+v", ej)
	}
	if ej.Value >= s.Tuning.EjectMassCost {
		t.Fatal("ejecting must be lossy")
	}

	// Launched upward from the cell's edge.
	bp := s.Pos(blob)
	edge := s.Body(id).Radius + s.Body(blob).Radius
	if math.Abs(bp.X-1000) > eps || math.Abs(bp.Y-(1000-edge)) > eps {
		t.Fatalf("blob at (%v,%v); want (1000,%v)", bp.X, bp.Y, 1000-edge)
	}
	if v := s.Vel(blob); math.Abs(v.Y+s.Tuning.EjectSpeed) > eps {
		t.Fatalf("blob velocity %+v; want (0,-%v)", v, s.Tuning.EjectSpeed)
	}
	if s.Stats[0].Ejections != 1 {
		t.Fatalf("Ejections = %d; want 1", s.Stats[0].Ejections)
	}
}

func TestEjectSmallCellIsNoop(t *testing.T) {
	s := newTestState(1)
	id := addCell(s, component.OwnerPlayer1, 1000, 1000, s.Tuning.EjectMinRadius)
	before := s.Body(id).Radius

	if n := Eject(s, component.OwnerPlayer1); n != 0 {
		t.Fatalf("expected no blob, got %d", n)
	}
	if s.Body(id).Radius != before {
		t.Fatal("cell must not shrink when eject is refused")
	}
	if len(s.World.Query(component.CEjected)) != 0 {
		t.Fatal("no blob should exist")
	}
}
