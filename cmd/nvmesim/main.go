// Command nvmesim runs the deterministic host/device command-queue
// simulator, either as a single run (run-one) or as a parameter sweep
// across seeds, policies, bounds, and fault modes (run-matrix).
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	nvmesim "github.com/TheBuccaneer/fgt-nvme-robustness"
	"github.com/TheBuccaneer/fgt-nvme-robustness/internal/expconfig"
	"github.com/TheBuccaneer/fgt-nvme-robustness/internal/logging"
	"github.com/TheBuccaneer/fgt-nvme-robustness/internal/seed"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "run-one":
		err = runOneCmd(os.Args[2:])
	case "run-matrix":
		err = runMatrixCmd(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "nvmesim: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: nvmesim <run-one|run-matrix> [flags]")
}

func runOneCmd(args []string) error {
	fs := flag.NewFlagSet("run-one", flag.ContinueOnError)
	seedFile := fs.String("seed-file", "", "path to the JSON seed file")
	scheduleSeed := fs.Uint64("schedule-seed", 0, "RNG seed for the scheduler")
	policyStr := fs.String("policy", "FIFO", "FIFO | RANDOM | ADVERSARIAL | BATCHED")
	boundKStr := fs.String("bound-k", "inf", "bound_k: \"inf\" or a non-negative integer")
	faultStr := fs.String("fault-mode", "NONE", "NONE | TIMEOUT | RESET")
	submitWindowStr := fs.String("submit-window", "inf", "submit_window: \"inf\" or a non-negative integer")
	outLog := fs.String("out-log", "", "path to write the run's event log")
	schedulerVersion := fs.String("scheduler-version", nvmesim.DefaultSchedulerVersion, "scheduler_version recorded in RUN_HEADER")
	gitCommitFlag := fs.String("git-commit", "unknown", "git_commit recorded in RUN_HEADER, or \"auto\"")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *seedFile == "" || *outLog == "" {
		return nvmesim.NewError("run-one", nvmesim.ErrCodeOutOfRangeInteger, "--seed-file and --out-log are required")
	}

	cfg, s, err := buildRunConfig(*seedFile, *scheduleSeed, *policyStr, *boundKStr, *faultStr, *submitWindowStr, *schedulerVersion, *gitCommitFlag)
	if err != nil {
		return err
	}

	stats, err := runOneToFile(*outLog, s, cfg)
	if err != nil {
		return err
	}

	logging.Default().Info("run complete", "run_id", stats.RunID, "steps", stats.StepCount, "pending_left", stats.PendingLeft)
	return nil
}

func runMatrixCmd(args []string) error {
	fs := flag.NewFlagSet("run-matrix", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to the YAML experiment config")
	outDir := fs.String("out-dir", "", "directory to write per-run log files into")
	scheduleSeedsOverride := fs.String("schedule-seeds", "", "override the config's schedule_seeds range")
	submitWindowStr := fs.String("submit-window", "inf", "submit_window applied to every run in the matrix")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *configPath == "" || *outDir == "" {
		return nvmesim.NewError("run-matrix", nvmesim.ErrCodeOutOfRangeInteger, "--config and --out-dir are required")
	}

	matrixCfg, err := expconfig.Load(*configPath)
	if err != nil {
		return nvmesim.WrapError("run-matrix", nvmesim.ErrCodeMalformedYAML, err)
	}
	if *scheduleSeedsOverride != "" {
		matrixCfg.ScheduleSeeds = []string{*scheduleSeedsOverride}
	}

	submitWindow, err := expconfig.ParseSubmitWindow(*submitWindowStr)
	if err != nil {
		return nvmesim.WrapError("run-matrix", nvmesim.ErrCodeOutOfRangeInteger, err)
	}

	gitCommit, err := expconfig.ResolveGitCommit(matrixCfg.GitCommit)
	if err != nil {
		return nvmesim.WrapError("run-matrix", nvmesim.ErrCodeRunFailed, err)
	}

	scheduleSeeds, err := matrixCfg.ExpandScheduleSeeds()
	if err != nil {
		return nvmesim.WrapError("run-matrix", nvmesim.ErrCodeOutOfRangeInteger, err)
	}

	metrics := nvmesim.NewMatrixMetrics()
	observer := nvmesim.NewMetricsObserver(metrics)

	anyFailed := false
	for _, seedPath := range matrixCfg.Seeds {
		s, err := seed.Load(seedPath)
		if err != nil {
			logging.Default().Error("failed to load seed", "seed_file", seedPath, "error", err)
			anyFailed = true
			continue
		}

		for _, policyStr := range matrixCfg.Policies {
			policy, err := expconfig.ParsePolicy(policyStr)
			if err != nil {
				logging.Default().Error("invalid policy", "policy", policyStr, "error", err)
				anyFailed = true
				continue
			}

			for _, boundKStr := range matrixCfg.Bounds {
				boundK, err := expconfig.ParseBoundK(boundKStr)
				if err != nil {
					logging.Default().Error("invalid bound_k", "bound_k", boundKStr, "error", err)
					anyFailed = true
					continue
				}

				for _, faultStr := range matrixCfg.Faults {
					faultMode, err := expconfig.ParseFaultMode(faultStr)
					if err != nil {
						logging.Default().Error("invalid fault_mode", "fault_mode", faultStr, "error", err)
						anyFailed = true
						continue
					}

					for _, scheduleSeed := range scheduleSeeds {
						cfg := nvmesim.RunConfig{
							SeedID:           s.SeedID,
							ScheduleSeed:     scheduleSeed,
							Policy:           policy,
							BoundK:           boundK,
							FaultMode:        faultMode,
							SubmitWindow:     submitWindow,
							SchedulerVersion: matrixCfg.SchedulerVersion,
							GitCommit:        gitCommit,
						}
						if cfg.SchedulerVersion == "" {
							cfg.SchedulerVersion = nvmesim.DefaultSchedulerVersion
						}

						runID := nvmesim.RunID(cfg)
						logPath := filepath.Join(*outDir, runID+".log")

						stats, err := runOneToFile(logPath, s, cfg)
						observer.ObserveRun(runID, stats, err)
						if err != nil {
							logging.Default().Error("run failed", "run_id", runID, "error", err)
							anyFailed = true
							continue
						}
						logging.Default().Info("run complete", "run_id", runID, "steps", stats.StepCount)
					}
				}
			}
		}
	}

	snap := metrics.Snapshot()
	logging.Default().Info("matrix complete", "runs_started", snap.RunsStarted, "runs_completed", snap.RunsCompleted, "runs_failed", snap.RunsFailed)

	if anyFailed {
		return nvmesim.NewError("run-matrix", nvmesim.ErrCodeRunFailed, "one or more runs in the matrix failed")
	}
	return nil
}

func buildRunConfig(seedFile string, scheduleSeed uint64, policyStr, boundKStr, faultStr, submitWindowStr, schedulerVersion, gitCommit string) (nvmesim.RunConfig, nvmesim.Seed, error) {
	s, err := seed.Load(seedFile)
	if err != nil {
		return nvmesim.RunConfig{}, nvmesim.Seed{}, nvmesim.WrapError("run-one", nvmesim.ErrCodeMalformedJSON, err)
	}

	policy, err := expconfig.ParsePolicy(policyStr)
	if err != nil {
		return nvmesim.RunConfig{}, nvmesim.Seed{}, nvmesim.WrapError("run-one", nvmesim.ErrCodeUnknownEnumValue, err)
	}
	boundK, err := expconfig.ParseBoundK(boundKStr)
	if err != nil {
		return nvmesim.RunConfig{}, nvmesim.Seed{}, nvmesim.WrapError("run-one", nvmesim.ErrCodeOutOfRangeInteger, err)
	}
	faultMode, err := expconfig.ParseFaultMode(faultStr)
	if err != nil {
		return nvmesim.RunConfig{}, nvmesim.Seed{}, nvmesim.WrapError("run-one", nvmesim.ErrCodeUnknownEnumValue, err)
	}
	submitWindow, err := expconfig.ParseSubmitWindow(submitWindowStr)
	if err != nil {
		return nvmesim.RunConfig{}, nvmesim.Seed{}, nvmesim.WrapError("run-one", nvmesim.ErrCodeOutOfRangeInteger, err)
	}
	resolvedGitCommit, err := expconfig.ResolveGitCommit(gitCommit)
	if err != nil {
		return nvmesim.RunConfig{}, nvmesim.Seed{}, nvmesim.WrapError("run-one", nvmesim.ErrCodeRunFailed, err)
	}

	cfg := nvmesim.RunConfig{
		SeedID:           s.SeedID,
		ScheduleSeed:     scheduleSeed,
		Policy:           policy,
		BoundK:           boundK,
		FaultMode:        faultMode,
		SubmitWindow:     submitWindow,
		SchedulerVersion: schedulerVersion,
		GitCommit:        resolvedGitCommit,
	}
	return cfg, s, nil
}

func runOneToFile(path string, s nvmesim.Seed, cfg nvmesim.RunConfig) (nvmesim.RunStats, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nvmesim.RunStats{}, nvmesim.WrapError("run-one", nvmesim.ErrCodeFileNotFound, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nvmesim.RunStats{}, nvmesim.WrapError("run-one", nvmesim.ErrCodeFileNotFound, err)
	}
	defer f.Close()

	stats, err := nvmesim.RunOne(f, s, cfg)
	if err != nil {
		return stats, nvmesim.WrapError("run-one", nvmesim.ErrCodeRunFailed, err)
	}
	return stats, nil
}
