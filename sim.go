package nvmesim

import (
	"fmt"
	"io"

	"github.com/TheBuccaneer/fgt-nvme-robustness/internal/core"
	"github.com/TheBuccaneer/fgt-nvme-robustness/internal/eventlog"
	"github.com/TheBuccaneer/fgt-nvme-robustness/internal/runner"
)

// Re-exported domain types, so callers never need to import internal/core.
type (
	Command         = core.Command
	CommandType     = core.CommandType
	Seed            = core.Seed
	PendingCommand  = core.PendingCommand
	BoundK          = core.BoundK
	SubmitWindow    = core.SubmitWindow
	Policy          = core.Policy
	FaultMode       = core.FaultMode
	Status          = core.Status
	RunConfig       = core.RunConfig
	RunStats        = runner.Stats
)

const (
	CmdWrite        = core.CmdWrite
	CmdRead         = core.CmdRead
	CmdFence        = core.CmdFence
	CmdWriteVisible = core.CmdWriteVisible

	PolicyFIFO        = core.PolicyFIFO
	PolicyRandom      = core.PolicyRandom
	PolicyAdversarial = core.PolicyAdversarial
	PolicyBatched     = core.PolicyBatched

	FaultNone    = core.FaultNone
	FaultTimeout = core.FaultTimeout
	FaultReset   = core.FaultReset

	StatusOK      = core.StatusOK
	StatusErr     = core.StatusErr
	StatusTimeout = core.StatusTimeout
)

var (
	Finite         = core.Finite
	InfiniteBound  = core.InfiniteBound
	FiniteWindow   = core.FiniteWindow
	InfiniteWindow = core.InfiniteWindow
)

// RunID computes the canonical run identifier used both in RUN_HEADER and
// as the matrix log filename:
// <seed_id>_<policy>_<bound_k>_<schedule_seed>_<fault_mode>.
func RunID(cfg RunConfig) string {
	return fmt.Sprintf("%s_%s_%s_%d_%s", cfg.SeedID, cfg.Policy, cfg.BoundK, cfg.ScheduleSeed, cfg.FaultMode)
}

// RunOne executes a single run to completion, writing its event log to w.
// The seed and cfg are caller-owned and immutable; RunOne neither mutates
// nor retains them.
func RunOne(w io.Writer, seed Seed, cfg RunConfig) (RunStats, error) {
	if cfg.SchedulerVersion == "" {
		cfg.SchedulerVersion = DefaultSchedulerVersion
	}

	log := eventlog.New(w)
	r := runner.New(runner.Config{
		RunID:  RunID(cfg),
		Seed:   seed,
		Params: cfg,
		Logger: log,
	})
	return r.Run()
}
