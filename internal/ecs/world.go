package ecs

type slot struct {
	gen   uint32
	alive bool
}

// World is the central entity registry and component store.
// Entities live in a slot arena; destroyed slots go on a free list and are
// reused with a bumped generation.
type World struct {
	slots      []slot
	free       []uint32
	live       int
	components map[ComponentType][]Component
}

// NewWorld creates an empty World with room for capacity entities before
// the arena has to grow.
func NewWorld(capacity int) *World {
	return &World{
		slots:      make([]slot, 0, capacity),
		components: make(map[ComponentType][]Component),
	}
}

// CreateEntity mints a new entity handle and marks it alive.
func (w *World) CreateEntity() EntityID {
	var idx uint32
	if n := len(w.free); n > 0 {
		idx = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		idx = uint32(len(w.slots))
		w.slots = append(w.slots, slot{gen: 1})
	}
	w.slots[idx].alive = true
	w.live++
	return makeID(idx, w.slots[idx].gen)
}

// DestroyEntity marks the entity dead and removes all its components.
// Stale or already-destroyed handles are ignored.
func (w *World) DestroyEntity(id EntityID) {
	if !w.Alive(id) {
		return
	}
	idx := id.Index()
	for _, store := range w.components {
		if idx < len(store) {
			store[idx] = nil
		}
	}
	w.slots[idx].alive = false
	w.slots[idx].gen++
	w.free = append(w.free, uint32(idx))
	w.live--
}

// Alive reports whether the handle refers to a live entity.
func (w *World) Alive(id EntityID) bool {
	idx := id.Index()
	if id == NilEntity || idx < 0 || idx >= len(w.slots) {
		return false
	}
	s := w.slots[idx]
	return s.alive && s.gen == id.Generation()
}

// Len returns the number of live entities.
func (w *World) Len() int { return w.live }

// Add attaches (or replaces) a component on a live entity.
func (w *World) Add(id EntityID, c Component) {
	if !w.Alive(id) {
		return
	}
	t := c.Type()
	store := w.components[t]
	idx := id.Index()
	if idx >= len(store) {
		grown := make([]Component, len(w.slots), cap(w.slots))
		copy(grown, store)
		store = grown
		w.components[t] = store
	}
	store[idx] = c
}

// Get returns the component of the given type for entity id, or nil.
func (w *World) Get(id EntityID, t ComponentType) Component {
	if !w.Alive(id) {
		return nil
	}
	store := w.components[t]
	idx := id.Index()
	if idx >= len(store) {
		return nil
	}
	return store[idx]
}

// Has reports whether entity id has a component of the given type.
func (w *World) Has(id EntityID, t ComponentType) bool {
	return w.Get(id, t) != nil
}

// Query returns all alive entities that have every listed component type,
// in arena order.
func (w *World) Query(types ...ComponentType) []EntityID {
	if len(types) == 0 {
		return nil
	}
	first := w.components[types[0]]
	var result []EntityID
	for idx, c := range first {
		if c == nil || !w.slots[idx].alive {
			continue
		}
		match := true
		for _, t := range types[1:] {
			store := w.components[t]
			if idx >= len(store) || store[idx] == nil {
				match = false
				break
			}
		}
		if match {
			result = append(result, makeID(uint32(idx), w.slots[idx].gen))
		}
	}
	return result
}

// Count returns how many live entities carry a component of type t.
func (w *World) Count(t ComponentType) int {
	n := 0
	for idx, c := range w.components[t] {
		if c != nil && w.slots[idx].alive {
			n++
		}
	}
	return n
}
