// Package scheduler implements the candidate-window rule (bound_k) and the
// policy pick (FIFO/RANDOM/ADVERSARIAL/BATCHED). The two are kept as
// separately testable functions on purpose: bound_k decides the candidate
// window, policy decides the pick within it.
package scheduler

import (
	"github.com/TheBuccaneer/fgt-nvme-robustness/internal/constants"
	"github.com/TheBuccaneer/fgt-nvme-robustness/internal/core"
	"github.com/TheBuccaneer/fgt-nvme-robustness/internal/rng"
)

// defaultBatchSize is the BATCHED burst length.
const defaultBatchSize = constants.DefaultBatchSize

// Decision is the scheduler's pick: which index in the candidate window,
// and the cmd_id that index resolves to.
type Decision struct {
	PickIndex int
	CmdID     uint32
}

// Scheduler holds the policy, bound_k, and the run's RNG stream. A
// Scheduler is stateless across steps aside from RNG consumption; BATCHED
// burst bookkeeping lives on the runner, not here.
type Scheduler struct {
	policy    core.Policy
	boundK    core.BoundK
	rng       *rng.SplitMix64
	batchSize int
}

// New returns a Scheduler seeded with scheduleSeed.
func New(policy core.Policy, boundK core.BoundK, scheduleSeed uint64) *Scheduler {
	return &Scheduler{
		policy:    policy,
		boundK:    boundK,
		rng:       rng.New(scheduleSeed),
		batchSize: defaultBatchSize,
	}
}

// BatchSize returns the BATCHED burst length.
func (s *Scheduler) BatchSize() int {
	return s.batchSize
}

// NextBit consumes one RNG bit for the runner's submit/complete coin flip.
func (s *Scheduler) NextBit() uint8 {
	return s.rng.NextBit()
}

// CandidateWindow returns the size of the candidate window for a canonical
// pending list of length m. m must be >= 1.
func (s *Scheduler) CandidateWindow(m int) int {
	if s.boundK.Infinite {
		return m
	}
	c := int(s.boundK.K) + 1
	if c > m {
		c = m
	}
	return c
}

// Pick selects one command from the canonical pending list. canonicalPending
// must be non-empty.
func (s *Scheduler) Pick(canonicalPending []core.PendingCommand) Decision {
	m := len(canonicalPending)
	c := s.CandidateWindow(m)

	var idx int
	switch s.policy {
	case core.PolicyFIFO:
		idx = 0
	case core.PolicyRandom, core.PolicyBatched:
		idx = int(s.rng.Range(uint64(c)))
	case core.PolicyAdversarial:
		idx = c - 1
	default:
		idx = 0
	}

	return Decision{PickIndex: idx, CmdID: canonicalPending[idx].CmdID}
}
