package listing

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Page is one fetched page of items and the total match count.
type Page[T any] struct {
	Items []T
	Total int64
}

// Fetcher loads the page described by s. It must honour ctx cancellation.
type Fetcher[T any] func(ctx context.Context, s State) (Page[T], error)

// Result is what a Controller delivers for the latest issued fetch.
type Result[T any] struct {
	Seq   uint64
	State State
	Items []T
	Empty bool
	Err   error
}

// Controller applies actions to a State and re-fetches after every change.
// Keyword actions are debounced. Each fetch is tagged with an increasing sequence
// number and its own context; starting a fetch cancels the previous one, and a result
// is only delivered while its sequence number is still the latest issued.
type Controller[T any] struct {
	fetch    Fetcher[T]
	deliver  func(Result[T])
	debounce time.Duration
	logger   *zap.Logger
	base     context.Context

	mu     sync.Mutex
	state  State
	seq    uint64
	cancel context.CancelFunc
	timer  *time.Timer
	closed bool

	// serialises delivery so results reach deliver in issue order
	deliverMu sync.Mutex
}

func NewController[T any](
	ctx context.Context,
	initial State,
	debounce time.Duration,
	fetch Fetcher[T],
	deliver func(Result[T]),
	logger *zap.Logger,
) *Controller[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	if initial.Page < 1 {
		initial.Page = 1
	}
	if initial.PageSize <= 0 {
		initial.PageSize = DefaultPageSize
	}
	return &Controller[T]{
		fetch:    fetch,
		deliver:  deliver,
		debounce: debounce,
		logger:   logger,
		base:     ctx,
		state:    initial,
	}
}

// State returns a snapshot of the current state.
func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Seq returns the sequence number of the most recently issued fetch.
func (c *Controller[T]) Seq() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Dispatch applies a and schedules a fetch if the state changed.
// It reports whether the state changed.
func (c *Controller[T]) Dispatch(a Action) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}

	next, changed := c.state.Apply(a)
	if !changed {
		return false
	}
	c.state = next

	if a.Kind == ActKeyword && c.debounce > 0 {
		c.stopTimerLocked()
		c.timer = time.AfterFunc(c.debounce, c.Refresh)
		return true
	}

	c.stopTimerLocked()
	c.issueLocked()
	return true
}

// Refresh issues a fetch for the current state immediately.
func (c *Controller[T]) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.stopTimerLocked()
	c.issueLocked()
}

// Close cancels any in-flight fetch and pending debounce; nothing is delivered afterwards.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.stopTimerLocked()
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *Controller[T]) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller[T]) issueLocked() {
	if c.cancel != nil {
		c.cancel()
	}
	c.seq++
	ctx, cancel := context.WithCancel(c.base)
	c.cancel = cancel

	go c.run(ctx, c.seq, c.state)
}

func (c *Controller[T]) run(ctx context.Context, seq uint64, st State) {
	page, err := c.fetch(ctx, st)

	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()

	c.mu.Lock()
	latest := !c.closed && seq == c.seq
	if latest && err == nil {
		st.Total = page.Total
		// a keyword change may be waiting on the debounce; its total is not known yet
		if st.Filter.Equal(c.state.Filter) {
			c.state.Total = page.Total
		}
	}
	c.mu.Unlock()

	if !latest {
		c.logger.Debug("dropping stale listing result", zap.Uint64("seq", seq))
		return
	}
	if err != nil && (errors.Is(err, context.Canceled) || ctx.Err() != nil) {
		return
	}

	res := Result[T]{Seq: seq, State: st, Err: err}
	if err == nil {
		res.Items = page.Items
		res.Empty = len(page.Items) == 0
	}
	c.deliver(res)
}
