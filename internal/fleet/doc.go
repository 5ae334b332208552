// Package fleet holds the per-lot state of the matching engine: trucks and
// the parking lots that queue them.
//
// A Lot owns two FIFO sections, waiting and ready. Trucks are stored by
// value, so moving a truck from one section (or lot) to another is a move:
// after the pop the source no longer holds it. A truck is never present in
// two sections at once.
//
// The combined size of both sections never exceeds the lot's limit.
package fleet
