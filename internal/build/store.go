package build

import "sync/atomic"

// Store keeps the last good snapshot and the latest build result for
// concurrent readers.
type Store struct {
	good   atomic.Pointer[Snapshot]
	latest atomic.Pointer[Snapshot]
}

// Record stores the result of a build. Snapshots with failures only replace
// the latest result, the last good snapshot is kept.
func (s *Store) Record(snap *Snapshot) {
	if snap == nil {
		return
	}
	s.latest.Store(snap)
	if snap.OK() {
		s.good.Store(snap)
	}
}

// Snapshot returns the last good snapshot or nil before the first good build.
func (s *Store) Snapshot() *Snapshot {
	return s.good.Load()
}

// Latest returns the most recent build result, which may hold failures.
func (s *Store) Latest() *Snapshot {
	return s.latest.Load()
}
