package domain

import "time"

// Snapshot is a versioned copy of the protocol cache. Snapshots are
// replaced atomically (by reference swap) on every successful refresh;
// readers always observe a fully-old or fully-new map, never a mix.
type Snapshot struct {
	// Timestamp is when the snapshot was built.
	Timestamp time.Time `json:"timestamp"`

	// Version strictly increases on every successful refresh.
	Version uint64 `json:"version"`

	// Protocols is keyed by canonical key (see NormalizeKey).
	Protocols map[string]Protocol `json:"protocols"`

	// LastRefreshAttempt is when a refresh cycle last started,
	// successful or not.
	LastRefreshAttempt time.Time `json:"last_refresh_attempt"`

	// RefreshSuccess reports whether the most recent refresh cycle
	// completed. False means the snapshot contents predate the
	// last attempt.
	RefreshSuccess bool `json:"refresh_success"`
}

// EmptySnapshot returns a valid zero-entity snapshot for cold starts.
func EmptySnapshot() *Snapshot {
	return &Snapshot{
		Timestamp: time.Now().UTC(),
		Protocols: make(map[string]Protocol),
	}
}

// Get returns the protocol stored under the given canonical key.
func (s *Snapshot) Get(key string) (Protocol, bool) {
	p, ok := s.Protocols[key]
	return p, ok
}

// Len returns the number of cached protocols.
func (s *Snapshot) Len() int {
	return len(s.Protocols)
}
