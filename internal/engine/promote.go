package engine

// Ready moves one waiting truck to the ready section of the nearest lot
// with capacity key >= capacity that actually holds a waiting truck.
//
// The exact lot is tried first; otherwise the search starts at the next
// lot in hasWaiting. Stale hasWaiting keys met along the way are removed.
// Returns false if no lot could promote a truck.
func (e *Engine) Ready(capacity int) (Promotion, bool) {
	key := capacity
	if _, exists := e.lots[key]; !exists {
		key = e.hasWaiting.Successor(capacity)
	}

	for key != NotFound {
		if lot := e.lots[key]; lot != nil {
			if t, ok := lot.PromoteOneWaiting(); ok {
				e.hasReady.Insert(key)
				if lot.WaitingLen() == 0 {
					e.hasWaiting.Delete(key)
				}
				return Promotion{TruckID: t.ID, Lot: key}, true
			}
		}

		e.hasWaiting.Delete(key)
		key = e.hasWaiting.Successor(key)
	}

	return Promotion{}, false
}
