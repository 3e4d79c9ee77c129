package status

import "sync/atomic"

// StoreMax raises the stored value to v if v is larger
// Workers call this concurrently to record the slowest partition of a step
func StoreMax(m *atomic.Int64, v int64) {
	for {
		cur := m.Load()
		if v <= cur {
			return
		}
		if m.CompareAndSwap(cur, v) {
			return
		}
	}
}
