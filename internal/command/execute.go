package command

import (
	"strconv"
	"strings"

	"github.com/roach88/fleetlot/internal/engine"
)

// Failed is the output written when a query finds nothing.
const Failed = "-1"

// Result is the outcome of executing one command.
type Result struct {
	// Output is the result line without its terminator.
	Output string

	// HasOutput is false for commands that write nothing.
	HasOutput bool
}

// Execute applies c to e and renders the result line.
func Execute(e *engine.Engine, c Command) Result {
	switch c.Kind {
	case KindCreateLot:
		e.CreateLot(c.Arg(0), c.Arg(1))
		return Result{}

	case KindDeleteLot:
		e.DeleteLot(c.Arg(0))
		return Result{}

	case KindAddTruck:
		return output(strconv.Itoa(e.AddTruck(c.Arg(0), c.Arg(1))))

	case KindReady:
		p, ok := e.Ready(c.Arg(0))
		if !ok {
			return output(Failed)
		}
		return output(FormatPromotion(p))

	case KindLoad:
		as, ok := e.Load(c.Arg(0), c.Arg(1))
		if !ok {
			return output(Failed)
		}
		return output(FormatAssignments(as))

	case KindCount:
		return output(strconv.Itoa(e.Count(c.Arg(0))))
	}

	return Result{}
}

// FormatPromotion renders "<truckID> <lot>".
func FormatPromotion(p engine.Promotion) string {
	return strconv.Itoa(p.TruckID) + " " + strconv.Itoa(p.Lot)
}

// FormatAssignments renders "<id> <dest> - <id> <dest> - ...".
func FormatAssignments(as []engine.Assignment) string {
	var b strings.Builder
	for i, a := range as {
		if i > 0 {
			b.WriteString(" - ")
		}
		b.WriteString(strconv.Itoa(a.TruckID))
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(a.Destination))
	}
	return b.String()
}

func output(s string) Result {
	return Result{Output: s, HasOutput: true}
}
