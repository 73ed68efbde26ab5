package ecs

// EntityID is a stable handle into the World's slot arena.
// The low 32 bits hold the slot index plus one, the high 32 bits hold the
// slot's generation, so a handle to a destroyed entity never aliases the
// entity that later reuses its slot.
type EntityID uint64

// NilEntity is the zero value. No valid entity has this ID.
const NilEntity EntityID = 0

func makeID(index, gen uint32) EntityID {
	return EntityID(uint64(gen)<<32 | uint64(index+1))
}

// Index returns the arena slot the handle points at.
func (id EntityID) Index() int { return int(uint32(id)) - 1 }

// Generation returns the slot generation encoded in the handle.
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }

// ComponentType is a small integer key used to store/retrieve components.
type ComponentType uint8

// Component is implemented by every data struct stored in the world.
type Component interface {
	Type() ComponentType
}
