package relaysrvc

import (
	"context"
	"sync"
	"time"
)

// Result is the payload delivered by an out-of-band submission report.
type Result struct {
	SubmID   string // submission id on the external judge
	SubmURL  string // url of the submission page
	SubmTime string // submission time as reported by the judge
}

type AwaitOutcome int

const (
	// AwaitDone means the entry resolved and the result is valid.
	AwaitDone AwaitOutcome = iota
	// AwaitPending means the wait timed out; the caller may poll again.
	AwaitPending
	// AwaitUnknown means no entry exists for the request id.
	AwaitUnknown
)

type pendingEntry struct {
	done         chan struct{}
	result       Result // written before done is closed
	registeredAt time.Time
}

type resolvedEntry struct {
	result     Result
	resolvedAt time.Time
}

// PendingTable correlates request ids with their eventual results. Each
// entry resolves at most once; resolution moves it from the pending set
// into a resolved set that is retained for a while so that a report
// arriving after a poll timed out is still observable by the next poll.
type PendingTable struct {
	lock     sync.Mutex
	pending  map[string]*pendingEntry
	resolved map[string]resolvedEntry

	retainResolved time.Duration // how long resolved payloads stay queryable
	maxPendingAge  time.Duration // 0 keeps unresolved entries forever
}

func NewPendingTable(retainResolved, maxPendingAge time.Duration) *PendingTable {
	return &PendingTable{
		pending:        make(map[string]*pendingEntry),
		resolved:       make(map[string]resolvedEntry),
		retainResolved: retainResolved,
		maxPendingAge:  maxPendingAge,
	}
}

// Register creates an unresolved entry for the request id. The id must be
// fresh; ids are generated with collision-resistant randomness so a
// duplicate indicates a caller bug.
func (t *PendingTable) Register(requestID string) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if _, ok := t.pending[requestID]; ok {
		return ErrDuplicateRequestID()
	}
	if _, ok := t.resolved[requestID]; ok {
		return ErrDuplicateRequestID()
	}
	t.pending[requestID] = &pendingEntry{
		done:         make(chan struct{}),
		registeredAt: time.Now(),
	}
	return nil
}

// Resolve delivers the result for the request id and wakes every waiter.
// Unknown, already resolved and never registered ids are silent no-ops:
// the reporting channel is best-effort and may be late or duplicated.
// Only the first resolution for an id takes effect.
func (t *PendingTable) Resolve(requestID string, res Result) {
	t.lock.Lock()
	defer t.lock.Unlock()
	e, ok := t.pending[requestID]
	if !ok {
		return
	}
	delete(t.pending, requestID)
	e.result = res
	close(e.done)
	if t.retainResolved > 0 {
		t.resolved[requestID] = resolvedEntry{result: res, resolvedAt: time.Now()}
	}
}

// Await blocks the calling goroutine until the entry resolves, the timeout
// elapses, or ctx is done. A timed-out wait releases only the waiter; the
// entry stays registered and resolvable by a later report.
func (t *PendingTable) Await(ctx context.Context, requestID string, timeout time.Duration) (Result, AwaitOutcome) {
	t.lock.Lock()
	if e, ok := t.pending[requestID]; ok {
		t.lock.Unlock()
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		select {
		case <-e.done:
			return e.result, AwaitDone
		case <-timer.C:
			return Result{}, AwaitPending
		case <-ctx.Done():
			return Result{}, AwaitPending
		}
	}
	if r, ok := t.resolved[requestID]; ok {
		t.lock.Unlock()
		return r.result, AwaitDone
	}
	t.lock.Unlock()
	return Result{}, AwaitUnknown
}

func (t *PendingTable) PendingCount() int {
	t.lock.Lock()
	defer t.lock.Unlock()
	return len(t.pending)
}

// Sweep evicts resolved entries older than the retention window and, when
// a max pending age is configured, unresolved entries older than that age.
// Evicted pending entries are dropped without waking their waiters; those
// waiters time out on their own and later polls observe "unknown".
func (t *PendingTable) Sweep(now time.Time) {
	t.lock.Lock()
	defer t.lock.Unlock()
	for id, r := range t.resolved {
		if now.Sub(r.resolvedAt) > t.retainResolved {
			delete(t.resolved, id)
		}
	}
	if t.maxPendingAge <= 0 {
		return
	}
	for id, e := range t.pending {
		if now.Sub(e.registeredAt) > t.maxPendingAge {
			delete(t.pending, id)
		}
	}
}

func (t *PendingTable) sweepLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Sweep(time.Now())
		}
	}
}
