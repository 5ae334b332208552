package engine

// Load distributes amount units of load over ready trucks in lots with
// capacity key >= capacity, in ascending key order.
//
// Each served truck receives min(remaining capacity, amount left, lot key)
// and is then re-placed: a truck that became full is emptied and re-placed
// by its maximum capacity, a partially loaded truck by its remaining
// capacity. A truck that fits nowhere is discarded and reported with
// Destination NotFound.
//
// Returns the assignments in service order, or false if no truck was served.
func (e *Engine) Load(capacity, amount int) ([]Assignment, bool) {
	key := capacity
	if !e.hasReady.Contains(key) {
		key = e.hasReady.Successor(capacity)
	}

	var out []Assignment
	for amount > 0 && key != NotFound {
		lot := e.lots[key]
		if lot == nil || lot.ReadyLen() == 0 {
			e.hasReady.Delete(key)
			key = e.hasReady.Successor(key)
			continue
		}

		for lot.ReadyLen() > 0 && amount > 0 {
			t, _ := lot.PopReady()
			e.acceptsWaiting.Insert(key)
			if lot.ReadyLen() == 0 {
				e.hasReady.Delete(key)
			}

			chunk := min(t.RemainingCapacity(), amount, key)
			t.Load += chunk
			amount -= chunk

			target := t.RemainingCapacity()
			if t.Load == t.MaxCapacity {
				t.Load = 0
				target = t.MaxCapacity
			}

			dest := e.findDestination(target)
			if dest != NotFound && e.lots[dest].TryEnqueueWaiting(t) {
				e.hasWaiting.Insert(dest)
			} else {
				dest = NotFound
				e.logger.Debug("truck discarded: no lot with room",
					"truck", t.ID,
					"target", target,
				)
			}

			out = append(out, Assignment{TruckID: t.ID, Destination: dest})
		}

		if lot.ReadyLen() == 0 {
			e.hasReady.Delete(key)
		}
		if amount > 0 {
			key = e.hasReady.Successor(key)
		}
	}

	return out, len(out) > 0
}
