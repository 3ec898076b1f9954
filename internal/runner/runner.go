// Package runner implements the step loop tying the device model, the
// scheduler, and the event log together: submit/complete interleaving,
// fault-injection triggering, BATCHED burst state, and terminal accounting.
// A single-threaded deterministic model has no in-flight kernel commands to
// track, only a pending set the model already owns.
package runner

import (
	"math"

	"github.com/TheBuccaneer/fgt-nvme-robustness/internal/core"
	"github.com/TheBuccaneer/fgt-nvme-robustness/internal/eventlog"
	"github.com/TheBuccaneer/fgt-nvme-robustness/internal/logging"
	"github.com/TheBuccaneer/fgt-nvme-robustness/internal/model"
	"github.com/TheBuccaneer/fgt-nvme-robustness/internal/scheduler"
)

// Stats summarizes a completed run for callers that don't want to re-parse
// the event log.
type Stats struct {
	RunID               string
	StepCount           int
	PendingLeft         uint32
	PendingPeak         uint32
	HadReset            bool
	CommandsLostToReset uint32
	FaultInjected       bool
}

// Config is the immutable input to a single run.
type Config struct {
	RunID  string
	Seed   core.Seed
	Params core.RunConfig
	Logger *eventlog.Logger
}

// Runner owns one Model, one Scheduler, and one Logger for the duration of
// a single run; none of the three are shared with any other run.
type Runner struct {
	cfg   Config
	model *model.Model
	sched *scheduler.Scheduler
	log   *eventlog.Logger
}

// New constructs a Runner. It does not emit RUN_HEADER yet; that happens on
// the first call to Run.
func New(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		model: model.New(),
		sched: scheduler.New(cfg.Params.Policy, cfg.Params.BoundK, cfg.Params.ScheduleSeed),
		log:   cfg.Logger,
	}
}

// Run executes the full step loop to completion and returns the final
// accounting. Run must be called exactly once per Runner.
func (r *Runner) Run() (Stats, error) {
	seed := r.cfg.Seed
	params := r.cfg.Params
	n := len(seed.Commands)

	if err := r.log.RunHeader(r.cfg.RunID, params, n); err != nil {
		return Stats{}, err
	}

	faultStep := math.MaxInt
	if params.FaultMode != core.FaultNone {
		faultStep = n / 2
	}

	nextCmd := 0
	stepCount := 0
	stopSubmits := false
	faultInjected := false
	batchRemaining := 0

	logging.Default().Debugf("run %s: starting step loop, n_cmds=%d, fault_step=%d", r.cfg.RunID, n, faultStep)

runLoop:
	for {
		pendingCount := r.model.PendingCount()
		submitOK := params.SubmitWindow.Allows(pendingCount) && nextCmd < n && !stopSubmits
		completeOK := pendingCount > 0

		if !submitOK && !completeOK {
			break
		}

		doComplete := false
		switch {
		case params.Policy == core.PolicyBatched && batchRemaining > 0:
			doComplete = true
		case submitOK && completeOK:
			doComplete = r.sched.NextBit() == 1
		default:
			doComplete = completeOK
		}

		if doComplete {
			if !faultInjected && stepCount >= faultStep {
				switch params.FaultMode {
				case core.FaultTimeout:
					pending := r.model.PendingCanonical()
					target := pending[0].CmdID
					status := core.StatusTimeout
					res := r.model.Complete(target, &status)
					if err := r.log.Complete(res.CmdID, res.Status, res.Out); err != nil {
						return Stats{}, err
					}
					faultInjected = true
					stopSubmits = true
					stepCount++
					continue runLoop

				case core.FaultReset:
					before := r.model.Reset()
					if err := r.log.Reset("INJECTED", before); err != nil {
						return Stats{}, err
					}
					faultInjected = true
					break runLoop
				}
			}

			pending := r.model.PendingCanonical()
			if params.Policy == core.PolicyBatched && batchRemaining == 0 {
				batchRemaining = min(len(pending), r.sched.BatchSize())
			}

			decision := r.sched.Pick(pending)
			res := r.model.Complete(decision.CmdID, nil)
			if err := r.log.Complete(res.CmdID, res.Status, res.Out); err != nil {
				return Stats{}, err
			}
			if params.Policy == core.PolicyBatched {
				batchRemaining--
			}
			stepCount++
		} else {
			cmd := seed.Commands[nextCmd]
			pc := r.model.Submit(cmd)
			if err := r.log.Submit(pc.CmdID, cmd.Type); err != nil {
				return Stats{}, err
			}
			if pc.FenceID != nil {
				if err := r.log.Fence(*pc.FenceID); err != nil {
					return Stats{}, err
				}
			}
			nextCmd++
		}
	}

	pendingLeft := uint32(r.model.PendingCount())
	pendingPeak := r.model.PendingPeak()
	if err := r.log.RunEnd(pendingLeft, pendingPeak); err != nil {
		return Stats{}, err
	}

	return Stats{
		RunID:               r.cfg.RunID,
		StepCount:           stepCount,
		PendingLeft:         pendingLeft,
		PendingPeak:         pendingPeak,
		HadReset:            r.model.HadReset(),
		CommandsLostToReset: r.model.CommandsLostToReset(),
		FaultInjected:       faultInjected,
	}, nil
}
