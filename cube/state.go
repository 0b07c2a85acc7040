package cube

import (
	"sync"
	"time"
)

// TrackedResult is one recognition outcome with its arrival time, as served
// by the HTTP status endpoints.
type TrackedResult struct {
	Result     *RecognizeResult `json:"result"`
	ReceivedAt time.Time        `json:"receivedAt"`
}

// TrackerStats counts recognitions since startup.
type TrackerStats struct {
	Frames   uint64 `json:"frames"`
	Exact    uint64 `json:"exact"`
	Misses   uint64 `json:"misses"`
	Failures uint64 `json:"failures"`
}

// ResultTracker keeps the most recent recognition and its annotated frame
// for HTTP endpoints. The MQTT handler writes, HTTP handlers read, so all
// access goes through the lock.
type ResultTracker struct {
	mu        sync.RWMutex
	last      *TrackedResult
	lastFrame []byte
	stats     TrackerStats
}

// NewResultTracker creates an empty tracker.
func NewResultTracker() *ResultTracker {
	return &ResultTracker{}
}

// Update stores a recognition outcome and the annotated PNG produced for it.
// frame may be nil when the pipeline failed before rendering anything.
func (rt *ResultTracker) Update(res *RecognizeResult, frame []byte) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.last = &TrackedResult{Result: res, ReceivedAt: time.Now()}
	if frame != nil {
		rt.lastFrame = frame
	}

	rt.stats.Frames++
	switch {
	case res == nil:
		rt.stats.Failures++
	case res.Success:
		rt.stats.Exact++
	case res.ErrorReason == "no_exact_match":
		rt.stats.Misses++
	default:
		rt.stats.Failures++
	}
}

// Last returns the most recent result, or nil before the first frame.
func (rt *ResultTracker) Last() *TrackedResult {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	if rt.last == nil {
		return nil
	}
	copy := *rt.last
	return &copy
}

// LastFrame returns the most recent annotated PNG, or nil.
func (rt *ResultTracker) LastFrame() []byte {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	if rt.lastFrame == nil {
		return nil
	}
	out := make([]byte, len(rt.lastFrame))
	copy(out, rt.lastFrame)
	return out
}

// Stats returns a snapshot of the recognition counters.
func (rt *ResultTracker) Stats() TrackerStats {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.stats
}

// HasResult reports whether any frame has been processed yet.
func (rt *ResultTracker) HasResult() bool {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.last != nil
}
