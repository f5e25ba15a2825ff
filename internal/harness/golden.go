package harness

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/ChallenHB/mill/internal/eval"
)

// RunSnapshot captures one run's report in a deterministic, diffable
// form. Run tokens are fixed by the harness, so snapshots are stable.
type RunSnapshot struct {
	RunToken  string           `json:"run_token"`
	Roots     []TargetSnapshot `json:"roots"`
	Evaluated []string         `json:"evaluated"`
	Changed   []string         `json:"changed"`
}

// TargetSnapshot is one root target's outcome in a snapshot.
type TargetSnapshot struct {
	Target string `json:"target"`
	Status string `json:"status"`
	Value  string `json:"value,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ScenarioSnapshot is the full golden payload: one snapshot per run.
type ScenarioSnapshot struct {
	Scenario string        `json:"scenario"`
	Runs     []RunSnapshot `json:"runs"`
}

// snapshot flattens a report deterministically: roots in request
// order, evaluated and changed in walk order.
func snapshot(report *eval.Report) RunSnapshot {
	s := RunSnapshot{
		RunToken:  report.RunToken,
		Evaluated: []string{},
		Changed:   []string{},
	}
	for _, id := range report.Evaluated {
		s.Evaluated = append(s.Evaluated, id.String())
	}
	for _, id := range report.Changed {
		s.Changed = append(s.Changed, id.String())
	}
	for _, id := range report.Roots {
		res := report.Results[id]
		ts := TargetSnapshot{
			Target: id.String(),
			Status: string(res.Status),
		}
		if res.Status == eval.StatusSucceeded {
			ts.Value = string(res.Serialized)
		} else if res.Err != nil {
			ts.Error = res.Err.Error()
		}
		s.Roots = append(s.Roots, ts)
	}
	return s
}

// RunWithGolden executes every run of a scenario and compares the
// snapshots against testdata/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, s *Scenario) {
	t.Helper()

	h, err := New(s)
	require.NoError(t, err, "build scenario %s", s.Name)

	reports, err := h.ExecuteAll(context.Background())
	require.NoError(t, err, "execute scenario %s", s.Name)

	full := ScenarioSnapshot{Scenario: s.Name}
	for _, report := range reports {
		full.Runs = append(full.Runs, snapshot(report))
	}

	data, err := json.MarshalIndent(full, "", "  ")
	require.NoError(t, err, "marshal snapshot for %s", s.Name)

	g := goldie.New(t)
	g.Assert(t, s.Name, data)
}
