// Package keyindex provides an ordered set of non-negative integer keys
// backed by a height-balanced (AVL) binary search tree.
//
// The index answers membership, predecessor (largest key strictly less
// than x) and successor (smallest key strictly greater than x) queries in
// O(log n), and yields ascending ranges starting at a lower bound.
//
// # Storage
//
// Nodes live in a single arena slice and refer to each other by index.
// Rotations only rewrite child indices, so no node is ever shared between
// two parents. Insert and delete are recursive and return the (possibly
// new) subtree root, which the caller stores back into its child slot.
// Slots freed by Delete are recycled by later inserts.
//
// # Sentinel
//
// Keys are constrained to be >= 0. Queries that find nothing return
// NotFound (-1), which can never collide with a stored key.
//
// An Index is not safe for concurrent use.
package keyindex
