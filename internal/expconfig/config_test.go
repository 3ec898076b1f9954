package expconfig

import (
	"os"
	"testing"

	"github.com/TheBuccaneer/fgt-nvme-robustness/internal/core"
)

func TestLoadAndExpand(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/matrix.yaml"
	content := `
seeds:
  - seedA.json
  - seedB.json
policies:
  - FIFO
  - RANDOM
bounds:
  - "0"
  - "inf"
faults:
  - NONE
  - TIMEOUT
schedule_seeds:
  - "1-3"
  - "10"
scheduler_version: v1
git_commit: abc123
`
	if err := writeFile(path, content); err != nil {
		t.Fatalf("writeFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Seeds) != 2 {
		t.Errorf("len(Seeds) = %d, want 2", len(cfg.Seeds))
	}

	seeds, err := cfg.ExpandScheduleSeeds()
	if err != nil {
		t.Fatalf("ExpandScheduleSeeds: %v", err)
	}
	want := []uint64{1, 2, 3, 10}
	if len(seeds) != len(want) {
		t.Fatalf("ExpandScheduleSeeds() = %v, want %v", seeds, want)
	}
	for i, w := range want {
		if seeds[i] != w {
			t.Errorf("seeds[%d] = %d, want %d", i, seeds[i], w)
		}
	}
}

func TestParseBoundK(t *testing.T) {
	inf, err := ParseBoundK("inf")
	if err != nil || !inf.Infinite {
		t.Errorf("ParseBoundK(inf) = %v, %v", inf, err)
	}
	k, err := ParseBoundK("3")
	if err != nil || k.Infinite || k.K != 3 {
		t.Errorf("ParseBoundK(3) = %v, %v", k, err)
	}
	if _, err := ParseBoundK("bogus"); err == nil {
		t.Error("expected error for bogus bound_k")
	}
}

func TestParseSubmitWindow(t *testing.T) {
	inf, err := ParseSubmitWindow("inf")
	if err != nil || !inf.Infinite {
		t.Errorf("ParseSubmitWindow(inf) = %v, %v", inf, err)
	}
	w, err := ParseSubmitWindow("5")
	if err != nil || w.Infinite || w.N != 5 {
		t.Errorf("ParseSubmitWindow(5) = %v, %v", w, err)
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("FIFO")
	if err != nil || p != core.PolicyFIFO {
		t.Errorf("ParsePolicy(FIFO) = %v, %v", p, err)
	}
	if _, err := ParsePolicy("NOT_A_POLICY"); err == nil {
		t.Error("expected error for unknown policy")
	}
}

func TestParseFaultMode(t *testing.T) {
	f, err := ParseFaultMode("")
	if err != nil || f != core.FaultNone {
		t.Errorf("ParseFaultMode(\"\") = %v, %v", f, err)
	}
	f, err = ParseFaultMode("RESET")
	if err != nil || f != core.FaultReset {
		t.Errorf("ParseFaultMode(RESET) = %v, %v", f, err)
	}
	if _, err := ParseFaultMode("BOGUS"); err == nil {
		t.Error("expected error for unknown fault mode")
	}
}

func TestResolveGitCommitLiteral(t *testing.T) {
	got, err := ResolveGitCommit("deadbeef")
	if err != nil {
		t.Fatalf("ResolveGitCommit: %v", err)
	}
	if got != "deadbeef" {
		t.Errorf("ResolveGitCommit(deadbeef) = %q, want deadbeef", got)
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
