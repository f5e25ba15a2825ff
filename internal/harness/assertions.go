package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChallenHB/mill/internal/eval"
)

// Assertion is one expectation against a run's report.
//
// Types:
//   - "value": the root target's serialized value equals the JSON form
//     of Value (only valid for targets requested as roots of the run)
//   - "status": the root target's status equals Status
//   - "evaluated" / "not_evaluated": whether the target's evaluate ran
//   - "changed" / "not_changed": whether the target is in the changed set
type Assertion struct {
	Type   string `yaml:"type"`
	Target string `yaml:"target"`
	Value  any    `yaml:"value,omitempty"`
	Status string `yaml:"status,omitempty"`
}

// CheckAssertions validates every assertion of a run against its report.
func CheckAssertions(t *testing.T, run Run, report *eval.Report) {
	t.Helper()
	for _, a := range run.Expect {
		checkAssertion(t, a, report)
	}
}

func checkAssertion(t *testing.T, a Assertion, report *eval.Report) {
	t.Helper()
	id := ident(a.Target)

	switch a.Type {
	case "value":
		res := report.Result(id)
		require.NotNil(t, res, "target %s must be a root of the run for value assertions", a.Target)
		require.Equal(t, eval.StatusSucceeded, res.Status, "target %s did not succeed", a.Target)
		expected, err := json.Marshal(a.Value)
		require.NoError(t, err, "marshal expected value for %s", a.Target)
		assert.Equal(t, string(expected), string(res.Serialized),
			"target %s produced wrong value", a.Target)

	case "status":
		res := report.Result(id)
		require.NotNil(t, res, "target %s must be a root of the run for status assertions", a.Target)
		assert.Equal(t, eval.Status(a.Status), res.Status, "target %s has wrong status", a.Target)

	case "evaluated":
		assert.True(t, report.WasEvaluated(id), "target %s should have been evaluated", a.Target)

	case "not_evaluated":
		assert.False(t, report.WasEvaluated(id), "target %s should not have been evaluated", a.Target)

	case "changed":
		assert.True(t, report.WasChanged(id), "target %s should be in the changed set", a.Target)

	case "not_changed":
		assert.False(t, report.WasChanged(id), "target %s should not be in the changed set", a.Target)

	default:
		t.Fatalf("unknown assertion type %q", a.Type)
	}
}

// RunAndCheck builds the scenario, executes every run, and checks all
// assertions. It is the one-call entry point for scenario tests.
func RunAndCheck(t *testing.T, s *Scenario) {
	t.Helper()

	h, err := New(s)
	require.NoError(t, err, "build scenario %s", s.Name)

	for i, run := range s.Runs {
		report, err := h.ExecuteRun(context.Background(), run)
		require.NoError(t, err, "scenario %s run %d", s.Name, i+1)
		if !assertRun(t, run, report, fmt.Sprintf("%s run %d", s.Name, i+1)) {
			return
		}
	}
}

// assertRun checks one run's assertions, reporting the run label on
// failure. Returns false when the run already failed, so later runs
// (which depend on earlier cache state) are not checked misleadingly.
func assertRun(t *testing.T, run Run, report *eval.Report, label string) bool {
	t.Helper()
	before := t.Failed()
	for _, a := range run.Expect {
		checkAssertion(t, a, report)
	}
	if !before && t.Failed() {
		t.Logf("first failure in %s", label)
		return false
	}
	return true
}
