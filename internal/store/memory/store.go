// Package memory implements the domain store interfaces in process memory.
// It is the default driver for demo deployments: state survives only as
// long as the process, mirroring the disposable browser-storage model the
// dashboard was originally built around. Every collection is bounded by a
// ring cap; the oldest entries are evicted first.
package memory

// DefaultRingCap bounds each collection when no explicit cap is configured.
const DefaultRingCap = 1000

func normalizeCap(cap int) int {
	if cap <= 0 {
		return DefaultRingCap
	}
	return cap
}
