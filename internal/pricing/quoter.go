package pricing

import "sync"

const defaultQuoterCapacity = 512

// Quoter memoises Compute against the raw input string, so an unchanged
// input is never recomputed. It is safe for concurrent use.
type Quoter struct {
	cfg      Config
	capacity int

	mu    sync.Mutex
	cache map[string]Result
}

// NewQuoter returns a Quoter that remembers at most capacity inputs.
// A non-positive capacity uses the default.
func NewQuoter(cfg Config, capacity int) *Quoter {
	if capacity <= 0 {
		capacity = defaultQuoterCapacity
	}
	return &Quoter{
		cfg:      cfg,
		capacity: capacity,
		cache:    make(map[string]Result, capacity),
	}
}

// Quote returns the price for areaInput and whether it came from the memo.
func (q *Quoter) Quote(areaInput string) (Result, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if res, ok := q.cache[areaInput]; ok {
		return res, true
	}

	res := q.cfg.Compute(areaInput)
	if len(q.cache) >= q.capacity {
		// Inputs are cheap to recompute; start over instead of tracking recency.
		clear(q.cache)
	}
	q.cache[areaInput] = res
	return res, false
}

// Config returns the pricing configuration the quoter uses.
func (q *Quoter) Config() Config {
	return q.cfg
}
