// Package journal provides SQLite-backed durable storage for processed
// command lines.
//
// The journal is an append-only log with:
//   - Runs: one row per processed input stream, identified by a UUIDv7
//   - Entries: one row per processed line, with the output it produced
//
// # Ordering
//
// Entries are ordered by the logical seq stamped by the runner's clock,
// never by wall-clock time. Every read uses ORDER BY seq ASC so replays
// see lines in the order they were processed.
//
// # Identity
//
// Each entry carries a content-addressed ID: SHA-256 over a
// domain-separated payload of run ID, seq and the NFC-normalised line
// (see EntryID). Re-appending the same (run, seq) is a no-op.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package journal
