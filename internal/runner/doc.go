// Package runner drives an engine from a line-oriented command stream.
//
// Each input line is parsed, executed and its result written before the
// next line is read. Processed lines are stamped by a logical Clock and
// optionally journaled through a Recorder.
package runner
