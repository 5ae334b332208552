package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/fleetlot/internal/engine"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions checks every assertion against e and returns the
// failure messages. An empty slice means all assertions passed.
func EvaluateAssertions(e *engine.Engine, assertions []Assertion) []string {
	var failures []string
	for _, a := range assertions {
		if err := evaluateAssertion(e, a); err != nil {
			failures = append(failures, err.Error())
		}
	}
	return failures
}

func evaluateAssertion(e *engine.Engine, a Assertion) error {
	switch a.Type {
	case AssertCount:
		return assertCount(e, a)
	case AssertInvariants:
		return assertInvariants(e)
	case AssertLotState:
		return assertLotState(e, a)
	case AssertAbsent:
		return assertAbsent(e, a)
	default:
		return &AssertionError{
			Type:     a.Type,
			Expected: "known assertion type",
			Actual:   fmt.Sprintf("unknown type %q", a.Type),
		}
	}
}

func assertCount(e *engine.Engine, a Assertion) error {
	got := e.Count(a.Threshold)
	if got == a.Value {
		return nil
	}
	return &AssertionError{
		Type:     AssertCount,
		Expected: fmt.Sprintf("count %d = %d", a.Threshold, a.Value),
		Actual:   fmt.Sprintf("count %d = %d", a.Threshold, got),
	}
}

func assertInvariants(e *engine.Engine) error {
	if err := e.CheckInvariants(); err != nil {
		return &AssertionError{
			Type:     AssertInvariants,
			Expected: "all invariants hold",
			Actual:   err.Error(),
		}
	}
	return nil
}

func assertLotState(e *engine.Engine, a Assertion) error {
	lot, ok := e.Lot(a.Capacity)
	if !ok {
		return &AssertionError{
			Type:     AssertLotState,
			Expected: fmt.Sprintf("lot %d exists", a.Capacity),
			Actual:   "lot not found",
		}
	}

	if a.Waiting != nil && len(lot.Waiting) != *a.Waiting {
		return &AssertionError{
			Type:     AssertLotState,
			Expected: fmt.Sprintf("lot %d has %d waiting", a.Capacity, *a.Waiting),
			Actual:   fmt.Sprintf("waiting %v", lot.Waiting),
		}
	}
	if a.Ready != nil && len(lot.Ready) != *a.Ready {
		return &AssertionError{
			Type:     AssertLotState,
			Expected: fmt.Sprintf("lot %d has %d ready", a.Capacity, *a.Ready),
			Actual:   fmt.Sprintf("ready %v", lot.Ready),
		}
	}
	return nil
}

func assertAbsent(e *engine.Engine, a Assertion) error {
	if _, ok := e.Lot(a.Capacity); ok {
		return &AssertionError{
			Type:     AssertAbsent,
			Expected: fmt.Sprintf("lot %d does not exist", a.Capacity),
			Actual:   "lot found",
		}
	}
	return nil
}
