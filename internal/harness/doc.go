// Package harness runs YAML conformance scenarios against a fresh engine.
//
// A scenario seeds lots, feeds command lines one at a time, checks each
// line's output against an expected string, and finally evaluates
// assertions on the engine's end state:
//
//	name: reference_load
//	description: truck is recycled into a smaller lot after a partial load
//	lots:
//	  - {capacity: 10, limit: 2}
//	  - {capacity: 5, limit: 2}
//	steps:
//	  - {cmd: "add_truck 1 10", expect: "10"}
//	  - {cmd: "ready 10", expect: "1 10"}
//	  - {cmd: "load 10 5", expect: "1 5"}
//	assertions:
//	  - {type: count, threshold: 0, value: 1}
//	  - {type: invariants}
//
// Every scenario runs on its own engine and its own in-memory journal,
// with a run ID derived from the scenario name, so transcripts are
// reproducible and can be compared against golden files (see RunWithGolden).
package harness
