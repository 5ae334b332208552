package engine

import "fmt"

// CheckInvariants verifies the engine's structural invariants and returns
// the first violation found, or nil.
//
// It is O(n log n) in the number of lots and intended for tests and
// debugging, not for the hot path.
func (e *Engine) CheckInvariants() error {
	if got, want := e.all.Len(), len(e.lots); got != want {
		return &InvariantError{
			Code:    ErrCodeIndexMismatch,
			Lot:     NotFound,
			Message: fmt.Sprintf("all index holds %d keys, registry holds %d lots", got, want),
		}
	}

	for key, lot := range e.lots {
		if !e.all.Contains(key) {
			return &InvariantError{Code: ErrCodeIndexMismatch, Lot: key, Message: "lot missing from all index"}
		}
		if lot.Occupancy() > lot.Limit {
			return &InvariantError{
				Code:    ErrCodeLimitExceeded,
				Lot:     key,
				Message: fmt.Sprintf("occupancy %d exceeds limit %d", lot.Occupancy(), lot.Limit),
			}
		}
		if lot.HasSpare() && !e.acceptsWaiting.Contains(key) {
			return &InvariantError{Code: ErrCodeMissingHint, Lot: key, Message: "lot has room but is not in acceptsWaiting"}
		}
		if lot.WaitingLen() > 0 && !e.hasWaiting.Contains(key) {
			return &InvariantError{Code: ErrCodeMissingHint, Lot: key, Message: "lot has waiting trucks but is not in hasWaiting"}
		}
		if lot.ReadyLen() > 0 && !e.hasReady.Contains(key) {
			return &InvariantError{Code: ErrCodeMissingHint, Lot: key, Message: "lot has ready trucks but is not in hasReady"}
		}
	}

	return nil
}
