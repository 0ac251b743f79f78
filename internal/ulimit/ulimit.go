// Package ulimit reconciles a requested scan batch size with the
// process's open-file-descriptor budget.
package ulimit

import "fmt"

const (
	averageBatchSize           = 3000
	defaultFileDescriptorLimit = 8000
)

// InferBatchSize derives the actual in-flight batch size from the
// requested batch and the current NOFILE soft limit, per the branch
// table: fits as-is, shrink aggressively under a small limit, clamp to
// the default under a generous one, or trim a safety margin otherwise.
func InferBatchSize(requested uint32, softLimit uint64) (uint16, error) {
	var actual uint64
	switch {
	case softLimit >= uint64(requested):
		actual = uint64(requested)
	case softLimit < averageBatchSize:
		actual = softLimit / 2
	case softLimit > defaultFileDescriptorLimit:
		actual = averageBatchSize
	default:
		actual = softLimit - 100
	}

	if actual > 0xFFFF {
		return 0, fmt.Errorf("ulimit: inferred batch size %d overflows u16", actual)
	}
	return uint16(actual), nil
}
