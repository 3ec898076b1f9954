package nvmesim

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunID(t *testing.T) {
	cfg := RunConfig{
		SeedID:       "seedA",
		Policy:       PolicyFIFO,
		BoundK:       Finite(3),
		ScheduleSeed: 7,
		FaultMode:    FaultNone,
	}
	want := "seedA_FIFO_3_7_NONE"
	if got := RunID(cfg); got != want {
		t.Errorf("RunID() = %q, want %q", got, want)
	}
}

func TestRunOneProducesWellFormedLog(t *testing.T) {
	seed := Seed{
		SeedID: "seedA",
		Commands: []Command{
			{Type: CmdWrite, LBA: 0, Len: 1, Pattern: 7},
			{Type: CmdRead, LBA: 0, Len: 1},
		},
	}
	cfg := RunConfig{
		SeedID: "seedA", Policy: PolicyFIFO, BoundK: Finite(0),
		FaultMode: FaultNone, SubmitWindow: InfiniteWindow, ScheduleSeed: 0,
	}

	var buf bytes.Buffer
	stats, err := RunOne(&buf, seed, cfg)
	if err != nil {
		t.Fatalf("RunOne: %v", err)
	}
	if stats.PendingLeft != 0 {
		t.Errorf("PendingLeft = %d, want 0", stats.PendingLeft)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if !strings.HasPrefix(lines[0], "RUN_HEADER(") {
		t.Errorf("first line = %q, want RUN_HEADER prefix", lines[0])
	}
	if !strings.HasPrefix(lines[len(lines)-1], "RUN_END(") {
		t.Errorf("last line = %q, want RUN_END prefix", lines[len(lines)-1])
	}
}

func TestRunOneDefaultsSchedulerVersion(t *testing.T) {
	seed := Seed{SeedID: "seedZ", Commands: []Command{{Type: CmdFence}}}
	cfg := RunConfig{SeedID: "seedZ", Policy: PolicyFIFO, BoundK: InfiniteBound, SubmitWindow: InfiniteWindow}

	var buf bytes.Buffer
	if _, err := RunOne(&buf, seed, cfg); err != nil {
		t.Fatalf("RunOne: %v", err)
	}
	if !strings.Contains(buf.String(), "scheduler_version="+DefaultSchedulerVersion) {
		t.Errorf("expected default scheduler_version in header, got:\n%s", buf.String())
	}
}
