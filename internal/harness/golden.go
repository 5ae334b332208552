package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// GoldenDir is where RunWithGolden keeps transcripts, relative to the
// test's package directory.
const GoldenDir = "testdata/golden"

// RenderTranscript renders a result as the deterministic text stored in
// golden files:
//
//	# scenario <name>
//	<seq> <line>[ => <output>]
//	...
//	# lots
//	<capacity> limit=<n> waiting=[ids] ready=[ids]
func RenderTranscript(name string, result *Result) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# scenario %s\n", name)
	for _, l := range result.Transcript {
		fmt.Fprintf(&b, "%d %s", l.Seq, l.Line)
		if l.HasOutput {
			fmt.Fprintf(&b, " => %s", l.Output)
		}
		b.WriteByte('\n')
	}

	b.WriteString("# lots\n")
	for _, lot := range result.Lots {
		fmt.Fprintf(&b, "%d limit=%d waiting=%s ready=%s\n",
			lot.Capacity, lot.Limit, formatIDs(lot.Waiting), formatIDs(lot.Ready))
	}

	return []byte(b.String())
}

func formatIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// RunWithGolden executes a scenario and compares its transcript against
// testdata/golden/<name>.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an already computed result against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, RenderTranscript(name, result))
}
