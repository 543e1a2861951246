package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// rateLimitWindow is the rolling window entries live in; older timestamps
// are pruned on every write.
const rateLimitWindow = time.Hour

// RateLimitLog tracks reservation submissions per client address in a
// small JSON file. The read-prune-write cycle runs under a process-local
// mutex; concurrent submissions from different processes are a best-effort
// bound, not a hard guarantee.
type RateLimitLog struct {
	mu    sync.Mutex
	path  string
	limit int
}

// NewRateLimitLog creates a log at path allowing limit submissions per
// address per rolling hour.
func NewRateLimitLog(path string, limit int) *RateLimitLog {
	return &RateLimitLog{path: path, limit: limit}
}

// Allow reports whether addr may submit at now. It does not record the
// attempt; call Record after the submission is actually forwarded.
func (l *RateLimitLog) Allow(addr string, now time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.load()
	if err != nil {
		return false, err
	}
	return len(prune(entries[addr], now)) < l.limit, nil
}

// Record stores a submission timestamp for addr, pruning expired entries
// for every address while rewriting the file.
func (l *RateLimitLog) Record(addr string, now time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.load()
	if err != nil {
		return err
	}
	for key, stamps := range entries {
		kept := prune(stamps, now)
		if len(kept) == 0 {
			delete(entries, key)
			continue
		}
		entries[key] = kept
	}
	entries[addr] = append(entries[addr], now)
	return writeJSONAtomic(l.path, entries)
}

func (l *RateLimitLog) load() (map[string][]time.Time, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string][]time.Time{}, nil
		}
		return nil, fmt.Errorf("read rate limit log: %w", err)
	}
	entries := map[string][]time.Time{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode rate limit log: %w", err)
	}
	return entries, nil
}

func prune(stamps []time.Time, now time.Time) []time.Time {
	cutoff := now.Add(-rateLimitWindow)
	kept := stamps[:0:0]
	for _, t := range stamps {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}
