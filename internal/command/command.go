package command

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies a command.
type Kind int

const (
	KindCreateLot Kind = iota + 1
	KindDeleteLot
	KindAddTruck
	KindReady
	KindLoad
	KindCount
)

// Command names as they appear on the wire.
const (
	NameCreateLot = "create_parking_lot"
	NameDeleteLot = "delete_parking_lot"
	NameAddTruck  = "add_truck"
	NameReady     = "ready"
	NameLoad      = "load"
	NameCount     = "count"
)

type shape struct {
	kind   Kind
	fields []string
}

var vocabulary = map[string]shape{
	NameCreateLot: {KindCreateLot, []string{"capacity", "limit"}},
	NameDeleteLot: {KindDeleteLot, []string{"capacity"}},
	NameAddTruck:  {KindAddTruck, []string{"id", "capacity"}},
	NameReady:     {KindReady, []string{"capacity"}},
	NameLoad:      {KindLoad, []string{"capacity", "amount"}},
	NameCount:     {KindCount, []string{"threshold"}},
}

var kindNames = map[Kind]string{
	KindCreateLot: NameCreateLot,
	KindDeleteLot: NameDeleteLot,
	KindAddTruck:  NameAddTruck,
	KindReady:     NameReady,
	KindLoad:      NameLoad,
	KindCount:     NameCount,
}

// String returns the wire name of the command kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// HasOutput reports whether commands of this kind write a result line.
func (k Kind) HasOutput() bool {
	switch k {
	case KindAddTruck, KindReady, KindLoad, KindCount:
		return true
	default:
		return false
	}
}

// Command is a parsed input line.
type Command struct {
	Kind Kind
	Args []int
}

// Name returns the wire name of the command.
func (c Command) Name() string {
	return c.Kind.String()
}

// Arg returns the i-th integer argument.
func (c Command) Arg(i int) int {
	return c.Args[i]
}

// String renders the command in wire form.
func (c Command) String() string {
	var b strings.Builder
	b.WriteString(c.Name())
	for _, a := range c.Args {
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(a))
	}
	return b.String()
}

// Parse parses one input line.
//
// Fields are separated by runs of whitespace. Fields beyond those the
// command takes are ignored. Returns ErrBlankLine for an empty line,
// an error wrapping ErrUnknownCommand for an unknown name, and a
// *ParseError for missing or non-integer fields.
func Parse(line string) (Command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Command{}, ErrBlankLine
	}

	name := parts[0]
	sh, ok := vocabulary[name]
	if !ok {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}

	args := make([]int, len(sh.fields))
	for i, field := range sh.fields {
		if i+1 >= len(parts) {
			return Command{}, &ParseError{Code: ErrCodeMissingField, Command: name, Field: field}
		}
		v, err := strconv.Atoi(parts[i+1])
		if err != nil {
			return Command{}, &ParseError{
				Code:    ErrCodeMalformedNumber,
				Command: name,
				Field:   field,
				Value:   parts[i+1],
				Err:     err,
			}
		}
		args[i] = v
	}

	return Command{Kind: sh.kind, Args: args}, nil
}
