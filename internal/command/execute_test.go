package command

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fleetlot/internal/engine"
)

func run(t *testing.T, e *engine.Engine, line string) Result {
	t.Helper()
	c, err := Parse(line)
	require.NoError(t, err)
	return Execute(e, c)
}

func TestExecute_ReferenceScenario(t *testing.T) {
	e := engine.New(engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	steps := []struct {
		line string
		want Result
	}{
		{"create_parking_lot 10 2", Result{}},
		{"create_parking_lot 5 2", Result{}},
		{"add_truck 1 10", Result{Output: "10", HasOutput: true}},
		{"add_truck 2 7", Result{Output: "5", HasOutput: true}},
		{"ready 10", Result{Output: "1 10", HasOutput: true}},
		{"load 10 5", Result{Output: "1 5", HasOutput: true}},
		{"count 0", Result{Output: "2", HasOutput: true}},
		{"ready 20", Result{Output: "-1", HasOutput: true}},
		{"load 20 5", Result{Output: "-1", HasOutput: true}},
		{"add_truck 3 4", Result{Output: "-1", HasOutput: true}},
		{"delete_parking_lot 5", Result{}},
		{"count 0", Result{Output: "0", HasOutput: true}},
	}

	for _, s := range steps {
		assert.Equal(t, s.want, run(t, e, s.line), s.line)
	}
}

func TestFormatAssignments(t *testing.T) {
	got := FormatAssignments([]engine.Assignment{
		{TruckID: 1, Destination: 5},
		{TruckID: 2, Destination: engine.NotFound},
		{TruckID: 3, Destination: 10},
	})
	assert.Equal(t, "1 5 - 2 -1 - 3 10", got)
	assert.Equal(t, "", FormatAssignments(nil))
}

func TestFormatPromotion(t *testing.T) {
	assert.Equal(t, "4 20", FormatPromotion(engine.Promotion{TruckID: 4, Lot: 20}))
}
