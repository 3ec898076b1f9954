// Package expconfig loads the YAML experiment matrix consumed by the
// run-matrix subcommand and expands its ranges into the concrete per-run
// parameter sets that drive internal/runner.
package expconfig

import (
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/TheBuccaneer/fgt-nvme-robustness/internal/core"
)

// Config is the raw, unexpanded experiment matrix.
type Config struct {
	Seeds            []string `yaml:"seeds"`
	Policies         []string `yaml:"policies"`
	Bounds           []string `yaml:"bounds"`
	Faults           []string `yaml:"faults"`
	ScheduleSeeds    []string `yaml:"schedule_seeds"`
	SchedulerVersion string   `yaml:"scheduler_version"`
	GitCommit        string   `yaml:"git_commit"`
}

// Load reads and parses the experiment config at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "expconfig: read %s", path)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "expconfig: parse %s", path)
	}
	return cfg, nil
}

// ExpandScheduleSeeds turns each entry of ScheduleSeeds — a single integer
// or a "start-end" inclusive range — into the flat list of schedule_seed
// values the matrix should run.
func (c Config) ExpandScheduleSeeds() ([]uint64, error) {
	var out []uint64
	for _, entry := range c.ScheduleSeeds {
		lo, hi, err := parseRange(entry)
		if err != nil {
			return nil, errors.Wrapf(err, "expconfig: schedule_seeds entry %q", entry)
		}
		for v := lo; v <= hi; v++ {
			out = append(out, v)
		}
	}
	return out, nil
}

func parseRange(s string) (uint64, uint64, error) {
	if idx := strings.IndexByte(s, '-'); idx > 0 {
		lo, err := strconv.ParseUint(s[:idx], 10, 64)
		if err != nil {
			return 0, 0, errors.Wrap(err, "invalid range start")
		}
		hi, err := strconv.ParseUint(s[idx+1:], 10, 64)
		if err != nil {
			return 0, 0, errors.Wrap(err, "invalid range end")
		}
		if hi < lo {
			return 0, 0, errors.Errorf("range end %d before start %d", hi, lo)
		}
		return lo, hi, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, 0, errors.Wrap(err, "invalid schedule_seed value")
	}
	return v, v, nil
}

// ParseBoundK parses a bound_k string: "inf" or a non-negative integer.
func ParseBoundK(s string) (core.BoundK, error) {
	if s == "inf" {
		return core.InfiniteBound, nil
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return core.BoundK{}, errors.Wrapf(err, "invalid bound_k %q", s)
	}
	return core.Finite(uint32(v)), nil
}

// ParseSubmitWindow parses a submit_window string: "inf" or a non-negative
// integer.
func ParseSubmitWindow(s string) (core.SubmitWindow, error) {
	if s == "inf" || s == "" {
		return core.InfiniteWindow, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return core.SubmitWindow{}, errors.Wrapf(err, "invalid submit_window %q", s)
	}
	return core.FiniteWindow(v), nil
}

// ParsePolicy validates and converts a policy string.
func ParsePolicy(s string) (core.Policy, error) {
	switch core.Policy(s) {
	case core.PolicyFIFO, core.PolicyRandom, core.PolicyAdversarial, core.PolicyBatched:
		return core.Policy(s), nil
	default:
		return "", errors.Errorf("unknown policy %q", s)
	}
}

// ParseFaultMode validates and converts a fault mode string. An empty
// string defaults to FaultNone.
func ParseFaultMode(s string) (core.FaultMode, error) {
	if s == "" {
		return core.FaultNone, nil
	}
	switch core.FaultMode(s) {
	case core.FaultNone, core.FaultTimeout, core.FaultReset:
		return core.FaultMode(s), nil
	default:
		return "", errors.Errorf("unknown fault_mode %q", s)
	}
}

// ResolveGitCommit resolves the git_commit config value: the literal
// "auto" runs `git rev-parse HEAD` in the current directory; any other
// value is returned unchanged.
func ResolveGitCommit(value string) (string, error) {
	if value != "auto" {
		return value, nil
	}
	out, err := exec.Command("git", "rev-parse", "HEAD").Output()
	if err != nil {
		return "", errors.Wrap(err, "expconfig: git rev-parse HEAD")
	}
	return strings.TrimSpace(string(out)), nil
}
