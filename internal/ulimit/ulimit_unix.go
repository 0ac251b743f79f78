//go:build !windows

package ulimit

import (
	"syscall"

	"github.com/netcrate/portscan/internal/logging"
)

// Adjust attempts to raise the process's NOFILE soft (and hard) limit
// to requested, if requested is non-zero, then returns the resulting
// soft limit. A failed raise is logged as a warning, not an error: the
// caller derives the batch size from whatever limit actually took
// effect.
func Adjust(requested uint64) (uint64, error) {
	var rlim syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rlim); err != nil {
		return 0, err
	}

	if requested == 0 {
		return rlim.Cur, nil
	}

	want := syscall.Rlimit{Cur: requested, Max: requested}
	if want.Max < rlim.Max {
		want.Max = rlim.Max
	}
	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &want); err != nil {
		logging.Warnf("failed to raise file descriptor limit to %d: %v", requested, err)
		return rlim.Cur, nil
	}

	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rlim); err != nil {
		return 0, err
	}
	return rlim.Cur, nil
}
