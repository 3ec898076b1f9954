// Package constants holds the simulator's fixed numeric defaults: storage
// geometry, the BATCHED burst length, and the pending-set resource bound.
package constants

const (
	// StorageWords is the fixed size of host_storage and dev_storage.
	StorageWords = 1024

	// DefaultBatchSize is the BATCHED policy's burst length.
	DefaultBatchSize = 4

	// MaxPendingCommands is the compile-time upper bound on the pending set;
	// exceeding it is a programming error, not a runtime condition.
	MaxPendingCommands = 4096

	// DefaultSchedulerVersion is used when a RunConfig does not specify one.
	DefaultSchedulerVersion = "v1"
)
