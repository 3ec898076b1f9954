// Package model implements the device state: dual storage (host-written vs.
// device-visible), the pending-command set, and the monotonic counters that
// drive it. It is deliberately not a pluggable storage
// interface: storage is a fixed shape (two 1024-word arrays) with fixed
// arithmetic, so there is nothing to abstract over.
package model

import (
	"sort"

	"github.com/TheBuccaneer/fgt-nvme-robustness/internal/constants"
	"github.com/TheBuccaneer/fgt-nvme-robustness/internal/core"
)

// StorageWords is the fixed size of host_storage and dev_storage.
const StorageWords = constants.StorageWords

// CompleteResult is the outcome of completing a pending command.
type CompleteResult struct {
	CmdID  uint32
	Status core.Status
	Out    uint32
}

// Model holds the run's full device state. A Model is owned by exactly one
// run and must not be shared across goroutines.
type Model struct {
	hostStorage [StorageWords]uint32
	devStorage  [StorageWords]uint32

	pending map[uint32]core.PendingCommand

	nextCmdID   uint32
	nextFenceID uint32

	pendingPeak uint32

	hadReset    bool
	lostToReset uint32
}

// New returns an empty Model with all counters at their initial values.
func New() *Model {
	return &Model{pending: make(map[uint32]core.PendingCommand)}
}

// Submit allocates a cmd_id (and a fence_id for FENCE commands), inserts the
// command into the pending set, and updates pending_peak. Submit never
// blocks or fails; backpressure is the runner's concern.
func (m *Model) Submit(cmd core.Command) core.PendingCommand {
	id := m.nextCmdID
	m.nextCmdID++

	pc := core.PendingCommand{CmdID: id, Command: cmd}
	if cmd.Type == core.CmdFence {
		fid := m.nextFenceID
		m.nextFenceID++
		pc.FenceID = &fid
	}

	m.pending[id] = pc
	if n := uint32(len(m.pending)); n > m.pendingPeak {
		m.pendingPeak = n
	}
	return pc
}

// PendingCount returns the number of submitted-but-not-completed commands.
func (m *Model) PendingCount() int {
	return len(m.pending)
}

// PendingPeak returns the maximum pending_count observed so far.
func (m *Model) PendingPeak() uint32 {
	return m.pendingPeak
}

// HadReset reports whether reset() has fired during this run.
func (m *Model) HadReset() bool {
	return m.hadReset
}

// CommandsLostToReset returns the pending_count at the moment reset() fired,
// or 0 if reset has not fired.
func (m *Model) CommandsLostToReset() uint32 {
	return m.lostToReset
}

// PendingCanonical returns the pending set sorted by cmd_id ascending. This
// is the canonical view every scheduler decision is made against.
func (m *Model) PendingCanonical() []core.PendingCommand {
	ids := make([]uint32, 0, len(m.pending))
	for id := range m.pending {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]core.PendingCommand, len(ids))
	for i, id := range ids {
		out[i] = m.pending[id]
	}
	return out
}

// Complete executes (or force-completes) cmdID and removes it from pending.
// forceStatus, if non-nil, bypasses command execution entirely: the status
// is forced and out is 0 (used by fault injection). The caller must
// guarantee cmdID is currently pending.
func (m *Model) Complete(cmdID uint32, forceStatus *core.Status) CompleteResult {
	pc := m.pending[cmdID]

	var status core.Status
	var out uint32
	if forceStatus != nil {
		status = *forceStatus
		out = 0
	} else {
		status, out = m.execute(pc.Command)
	}

	delete(m.pending, cmdID)
	return CompleteResult{CmdID: cmdID, Status: status, Out: out}
}

// execute runs the command against storage. All arithmetic is 32-bit
// wrapping; the hash multiplier and seed value are part of the
// cross-implementation contract and must not change.
func (m *Model) execute(cmd core.Command) (core.Status, uint32) {
	switch cmd.Type {
	case core.CmdWrite:
		if !inBounds(cmd.LBA, cmd.Len) {
			return core.StatusErr, 0
		}
		for i := uint32(0); i < cmd.Len; i++ {
			m.hostStorage[cmd.LBA+i] = cmd.Pattern
		}
		return core.StatusOK, 0

	case core.CmdRead:
		if !inBounds(cmd.LBA, cmd.Len) {
			return core.StatusErr, 0
		}
		var hash uint32
		for i := uint32(0); i < cmd.Len; i++ {
			hash = hash*31 + m.devStorage[cmd.LBA+i]
		}
		return core.StatusOK, hash

	case core.CmdFence:
		return core.StatusOK, 0

	case core.CmdWriteVisible:
		if !inBounds(cmd.LBA, cmd.Len) {
			return core.StatusErr, 0
		}
		for i := uint32(0); i < cmd.Len; i++ {
			m.devStorage[cmd.LBA+i] = m.hostStorage[cmd.LBA+i]
		}
		return core.StatusOK, 0

	default:
		return core.StatusErr, 0
	}
}

func inBounds(lba, length uint32) bool {
	return uint64(lba)+uint64(length) <= StorageWords
}

// Reset clears the pending set and records the fault. had_reset and
// commands_lost_to_reset are write-once per run: Reset must be called at
// most once.
func (m *Model) Reset() uint32 {
	before := uint32(len(m.pending))
	m.pending = make(map[uint32]core.PendingCommand)
	m.hadReset = true
	m.lostToReset = before
	return before
}
