package harness

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/fpstack/internal/trace"
)

// TraceSnapshot is the golden-file shape: one scenario execution's full
// event stream. Sessions are fixed and sequence numbers logical, so the
// serialization is byte-stable across runs and machines.
type TraceSnapshot struct {
	Scenario string        `json:"scenario"`
	Backend  string        `json:"backend"`
	Trace    []trace.Event `json:"trace"`
}

// RunWithGolden executes the scenario on one backend and compares the
// trace against testdata/{scenario.Name}_{backend}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, s *Scenario, backend string) {
	t.Helper()

	res, err := Run(s, backend)
	if err != nil {
		t.Fatalf("run scenario: %v", err)
	}
	if !res.Passed() {
		t.Fatalf("scenario %s failed: %v", s.Name, res.Failures)
	}

	snap := TraceSnapshot{Scenario: s.Name, Backend: backend, Trace: res.Trace}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}

	g := goldie.New(t)
	g.Assert(t, fmt.Sprintf("%s_%s", s.Name, backend), data)
}
