package nvmesim

import "github.com/TheBuccaneer/fgt-nvme-robustness/internal/constants"

// Re-exported defaults for callers of the public API.
const (
	StorageWords            = constants.StorageWords
	DefaultBatchSize        = constants.DefaultBatchSize
	MaxPendingCommands      = constants.MaxPendingCommands
	DefaultSchedulerVersion = constants.DefaultSchedulerVersion
)
