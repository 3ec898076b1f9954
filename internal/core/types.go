// Package core holds the value types shared by the model, scheduler, event
// log, and runner packages, kept separate from the public root package to
// avoid an import cycle.
package core

import "strconv"

// CommandType tags the Command variant.
type CommandType int

const (
	CmdWrite CommandType = iota
	CmdRead
	CmdFence
	CmdWriteVisible
)

// String renders the command type exactly as the event log grammar expects.
func (t CommandType) String() string {
	switch t {
	case CmdWrite:
		return "WRITE"
	case CmdRead:
		return "READ"
	case CmdFence:
		return "FENCE"
	case CmdWriteVisible:
		return "WRITE_VISIBLE"
	default:
		return "UNKNOWN"
	}
}

// Command is an immutable input record: a tagged variant over
// WRITE(lba,len,pattern), READ(lba,len), FENCE, WRITE_VISIBLE(lba,len).
// Fields unused by a given Type are zero.
type Command struct {
	Type    CommandType
	LBA     uint32
	Len     uint32
	Pattern uint32
}

// Seed is the immutable, ordered command list for one run.
type Seed struct {
	SeedID   string
	Commands []Command
}

// PendingCommand is a submitted-but-not-completed command.
type PendingCommand struct {
	CmdID   uint32
	Command Command
	// FenceID is non-nil only when Command.Type == CmdFence.
	FenceID *uint32
}

// BoundK is the reorder-freedom knob: Finite(k) or Infinite.
type BoundK struct {
	Infinite bool
	K        uint32
}

// Finite returns a finite bound_k of k.
func Finite(k uint32) BoundK { return BoundK{K: k} }

// InfiniteBound is the unbounded reorder window.
var InfiniteBound = BoundK{Infinite: true}

func (b BoundK) String() string {
	if b.Infinite {
		return "inf"
	}
	return strconv.FormatUint(uint64(b.K), 10)
}

// SubmitWindow is the in-flight cap: Finite(n) or Infinite.
type SubmitWindow struct {
	Infinite bool
	N        uint64
}

// FiniteWindow returns a finite submit window of n.
func FiniteWindow(n uint64) SubmitWindow { return SubmitWindow{N: n} }

// InfiniteWindow is the unbounded submit window (SW-infinity in the paper).
var InfiniteWindow = SubmitWindow{Infinite: true}

func (w SubmitWindow) String() string {
	if w.Infinite {
		return "inf"
	}
	return strconv.FormatUint(w.N, 10)
}

// Allows reports whether one more command may be submitted while
// pendingCount commands are in flight.
func (w SubmitWindow) Allows(pendingCount int) bool {
	if w.Infinite {
		return true
	}
	return uint64(pendingCount) < w.N
}

// Policy selects which pending command the scheduler completes next.
type Policy string

const (
	PolicyFIFO        Policy = "FIFO"
	PolicyRandom      Policy = "RANDOM"
	PolicyAdversarial Policy = "ADVERSARIAL"
	PolicyBatched     Policy = "BATCHED"
)

// FaultMode selects the single fault-injection event, if any, for a run.
type FaultMode string

const (
	FaultNone    FaultMode = "NONE"
	FaultTimeout FaultMode = "TIMEOUT"
	FaultReset   FaultMode = "RESET"
)

// Status is a command's terminal outcome.
type Status string

const (
	StatusOK      Status = "OK"
	StatusErr     Status = "ERR"
	StatusTimeout Status = "TIMEOUT"
)

// RunConfig is the immutable parameter set for a single run.
type RunConfig struct {
	SeedID           string
	ScheduleSeed     uint64
	Policy           Policy
	BoundK           BoundK
	FaultMode        FaultMode
	SubmitWindow     SubmitWindow
	SchedulerVersion string
	GitCommit        string
}
