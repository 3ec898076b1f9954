// Package eventlog is the sink-agnostic event emitter for the simulator's
// fixed, parseable event grammar. This is the oracle's output contract: line
// shape, field order, and spacing are load-bearing and must not drift,
// unlike internal/logging which is ordinary operator-facing diagnostic
// output.
package eventlog

import (
	"bufio"
	"fmt"
	"io"

	"github.com/TheBuccaneer/fgt-nvme-robustness/internal/core"
)

// Logger serializes run events to a text stream. A Logger is owned by
// exactly one run and is not safe for concurrent use.
type Logger struct {
	w       *bufio.Writer
	flusher func() error
}

// New wraps w as an event log sink.
func New(w io.Writer) *Logger {
	bw := bufio.NewWriter(w)
	return &Logger{w: bw, flusher: bw.Flush}
}

func (l *Logger) emit(line string) error {
	if _, err := l.w.WriteString(line); err != nil {
		return err
	}
	return l.w.WriteByte('\n')
}

// RunHeader emits the single, first RUN_HEADER line of a run.
func (l *Logger) RunHeader(runID string, cfg core.RunConfig, nCmds int) error {
	return l.emit(fmt.Sprintf(
		"RUN_HEADER(run_id=%s, seed_id=%s, schedule_seed=%d, policy=%s, bound_k=%s, fault_mode=%s, n_cmds=%d, submit_window=%s, scheduler_version=%s, git_commit=%s)",
		runID, cfg.SeedID, cfg.ScheduleSeed, cfg.Policy, cfg.BoundK, cfg.FaultMode, nCmds, cfg.SubmitWindow, cfg.SchedulerVersion, cfg.GitCommit,
	))
}

// Submit emits a SUBMIT event.
func (l *Logger) Submit(cmdID uint32, cmdType core.CommandType) error {
	return l.emit(fmt.Sprintf("SUBMIT(cmd_id=%d, cmd_type=%s)", cmdID, cmdType))
}

// Fence emits a FENCE event, immediately following the SUBMIT of a FENCE
// command.
func (l *Logger) Fence(fenceID uint32) error {
	return l.emit(fmt.Sprintf("FENCE(fence_id=%d)", fenceID))
}

// Complete emits a COMPLETE event.
func (l *Logger) Complete(cmdID uint32, status core.Status, out uint32) error {
	return l.emit(fmt.Sprintf("COMPLETE(cmd_id=%d, status=%s, out=%d)", cmdID, status, out))
}

// Reset emits a RESET event.
func (l *Logger) Reset(reason string, pendingBefore uint32) error {
	return l.emit(fmt.Sprintf("RESET(reason=%s, pending_before=%d)", reason, pendingBefore))
}

// RunEnd emits the single, last RUN_END line of a run and flushes the sink.
func (l *Logger) RunEnd(pendingLeft, pendingPeak uint32) error {
	if err := l.emit(fmt.Sprintf("RUN_END(pending_left=%d, pending_peak=%d)", pendingLeft, pendingPeak)); err != nil {
		return err
	}
	return l.flusher()
}
