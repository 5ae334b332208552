// Package command parses the line-oriented command vocabulary and applies
// parsed commands to an engine.
//
// Each line holds one command followed by space-separated integer fields:
//
//	create_parking_lot <capacity> <limit>
//	delete_parking_lot <capacity>
//	add_truck <id> <capacity>
//	ready <capacity>
//	load <capacity> <amount>
//	count <threshold>
//
// Parse errors fall into two classes. An unknown command name is
// recoverable (ErrUnknownCommand): callers report it and move on. A
// missing or non-numeric field is a *ParseError and is fatal to the run.
package command
