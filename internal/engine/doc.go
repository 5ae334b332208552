// Package engine implements the capacity-indexed matching engine.
//
// The engine places trucks into parking lots keyed by capacity, promotes
// them from waiting to ready, and distributes load over ready trucks,
// recycling each truck into a new lot once it has been loaded.
//
// ARCHITECTURE:
//
// Registry:
// A map from capacity key to *fleet.Lot is the authoritative set of lots.
//
// Ordered indices:
// Four keyindex.Index instances answer nearest-capacity queries.
//   - all: exactly the registry keys (authoritative)
//   - acceptsWaiting: lots believed to have room for another truck
//   - hasWaiting: lots believed to hold a waiting truck
//   - hasReady: lots believed to hold a ready truck
//
// Lazy invalidation:
// The three hint indices never miss a lot whose predicate holds, but they
// may keep a key after the predicate turns false. A stale key is removed
// the first time a query visits it. Hints are not eagerly synchronised on
// every truck move, so a move costs no tree deletion.
//
// Sentinel:
// Not-found results are reported as NotFound (-1), never as errors. The
// engine stays usable after any failed query.
//
// CONCURRENCY:
//
// The engine is a synchronous single-writer state machine. Index and queue
// mutations inside one operation are not atomic with respect to each other,
// so callers sharing an Engine across goroutines must serialise every
// top-level operation (see internal/httpapi).
package engine
