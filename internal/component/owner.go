package component

import "cell-arena/internal/ecs"

const CCell ecs.ComponentType = 8

// Owner is the closed set of cell controllers.
type Owner uint8

const (
	OwnerPlayer1 Owner = iota
	OwnerPlayer2
	OwnerAI
)

// Players lists the player owners in control order.
var Players = [2]Owner{OwnerPlayer1, OwnerPlayer2}

// IsPlayer reports whether o is a locally controlled owner.
func (o Owner) IsPlayer() bool {
	switch o {
	case OwnerPlayer1, OwnerPlayer2:
		return true
	case OwnerAI:
		return false
	}
	return false
}

func (o Owner) String() string {
	switch o {
	case OwnerPlayer1:
		return "P1"
	case OwnerPlayer2:
		return "P2"
	case OwnerAI:
		return "AI"
	}
	return "?"
}

// Cell marks a steerable mass unit and who controls it.
type Cell struct {
	Owner Owner
}

func (Cell) Type() ecs.ComponentType { return CCell }
