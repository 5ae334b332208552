package engine

import "github.com/roach88/fleetlot/internal/fleet"

// AddTruck places a new, empty truck into the waiting section of the lot
// with the largest capacity key <= capacity that has room.
//
// The exact lot is tried first. Otherwise the search starts from the
// nearest smaller lot believed to accept trucks and then walks strictly
// downward through every lot. Returns the destination key or NotFound.
func (e *Engine) AddTruck(id, capacity int) int {
	t := fleet.NewTruck(id, capacity)

	key := capacity
	if _, exists := e.lots[key]; !exists {
		key = e.acceptsWaiting.Predecessor(capacity)
	}

	for key != NotFound {
		if e.lots[key].TryEnqueueWaiting(t) {
			e.hasWaiting.Insert(key)
			return key
		}
		// Full: the hint was stale. A later PopReady re-inserts it.
		e.acceptsWaiting.Delete(key)
		key = e.all.Predecessor(key)
	}

	return NotFound
}

// findDestination returns the largest lot key <= target with spare room,
// probing downward through every lot, or NotFound.
func (e *Engine) findDestination(target int) int {
	key := target
	if _, exists := e.lots[key]; !exists {
		key = e.all.Predecessor(target)
	}

	for key != NotFound {
		if e.lots[key].HasSpare() {
			return key
		}
		key = e.all.Predecessor(key)
	}
	return NotFound
}
