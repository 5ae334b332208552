package engine

import (
	"log/slog"

	"github.com/roach88/fleetlot/internal/fleet"
	"github.com/roach88/fleetlot/internal/keyindex"
)

// NotFound is the universal "no such lot / operation failed" sentinel.
const NotFound = keyindex.NotFound

// Promotion is the result of a successful Ready call.
type Promotion struct {
	TruckID int
	Lot     int
}

// Assignment records where a truck went after receiving load.
// Destination is NotFound when no lot could take the truck and it was
// discarded.
type Assignment struct {
	TruckID     int
	Destination int
}

// LotSnapshot is a read-only copy of a lot's state.
type LotSnapshot struct {
	Capacity int   `json:"capacity"`
	Limit    int   `json:"limit"`
	Waiting  []int `json:"waiting"`
	Ready    []int `json:"ready"`
}

// Engine is the capacity-indexed matching engine.
//
// INVARIANTS:
//   - every lot holds at most Limit trucks
//   - all.Keys() equals the registry key set
//   - acceptsWaiting, hasWaiting and hasReady have no false negatives
type Engine struct {
	lots map[int]*fleet.Lot

	all            *keyindex.Index
	acceptsWaiting *keyindex.Index
	hasWaiting     *keyindex.Index
	hasReady       *keyindex.Index

	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug diagnostics.
// Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an empty engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		lots:           make(map[int]*fleet.Lot),
		all:            keyindex.New(),
		acceptsWaiting: keyindex.New(),
		hasWaiting:     keyindex.New(),
		hasReady:       keyindex.New(),
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// CreateLot adds an empty lot with the given capacity key and truck limit.
// It is a no-op (returning false) if the key already exists or is negative.
func (e *Engine) CreateLot(capacity, limit int) bool {
	if capacity < 0 {
		e.logger.Debug("lot rejected: negative capacity", "capacity", capacity)
		return false
	}
	if _, exists := e.lots[capacity]; exists {
		return false
	}

	e.lots[capacity] = fleet.NewLot(capacity, limit)
	e.all.Insert(capacity)
	// New lots start empty, hence accepting.
	e.acceptsWaiting.Insert(capacity)

	e.logger.Debug("lot created", "capacity", capacity, "limit", limit)
	return true
}

// DeleteLot removes the lot with the given capacity key. Trucks still
// queued in the lot are discarded, not migrated. Returns false if the lot
// does not exist.
func (e *Engine) DeleteLot(capacity int) bool {
	lot, exists := e.lots[capacity]
	if !exists {
		return false
	}

	delete(e.lots, capacity)
	e.all.Delete(capacity)
	e.acceptsWaiting.Delete(capacity)
	e.hasWaiting.Delete(capacity)
	e.hasReady.Delete(capacity)

	dropped := lot.Discard()
	e.logger.Debug("lot deleted", "capacity", capacity, "discarded_trucks", dropped)
	return true
}

// Count returns the number of trucks, waiting or ready, in every lot whose
// capacity key is strictly greater than threshold.
func (e *Engine) Count(threshold int) int {
	total := 0
	for key := range e.all.RangeFrom(threshold + 1) {
		total += e.lots[key].Occupancy()
	}
	return total
}

// Len returns the number of lots.
func (e *Engine) Len() int {
	return len(e.lots)
}

// Lot returns a snapshot of the lot with the given capacity key.
func (e *Engine) Lot(capacity int) (LotSnapshot, bool) {
	lot, ok := e.lots[capacity]
	if !ok {
		return LotSnapshot{}, false
	}
	return snapshotOf(lot), true
}

// Lots returns snapshots of every lot in ascending capacity order.
func (e *Engine) Lots() []LotSnapshot {
	out := make([]LotSnapshot, 0, len(e.lots))
	for key := range e.all.RangeFrom(0) {
		out = append(out, snapshotOf(e.lots[key]))
	}
	return out
}

func snapshotOf(lot *fleet.Lot) LotSnapshot {
	return LotSnapshot{
		Capacity: lot.Key,
		Limit:    lot.Limit,
		Waiting:  lot.WaitingIDs(),
		Ready:    lot.ReadyIDs(),
	}
}
