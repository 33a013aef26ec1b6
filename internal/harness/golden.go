package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/scrollguard/internal/wheel"
)

// RunWithGolden executes a scenario and compares its rendered trace against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can make further assertions.
func RunWithGolden(t *testing.T, scenario *Scenario, base wheel.Config) (*Result, error) {
	t.Helper()

	result, err := Run(scenario, base)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(result.Render()))
}
