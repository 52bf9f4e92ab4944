package work

import (
	"container/heap"
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abelbrown/flick/internal/logging"
)

// DefaultTimeout bounds each work function.
const DefaultTimeout = 15 * time.Second

// Pool runs submitted work on a fixed set of workers.
// Work submitted before Start is queued and runs once the pool starts.
// Stop drains the queue before returning.
type Pool struct {
	mu      sync.Mutex
	workers int
	timeout time.Duration

	pending   priorityQueue
	active    map[string]*Item
	completed *RingBuffer
	stopping  bool

	signal chan struct{}
	stopCh chan struct{}

	observers []func(Event)

	totalCreated   atomic.Int64
	totalCompleted atomic.Int64
	totalFailed    atomic.Int64
	nextID         atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) PoolOption {
	return func(p *Pool) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithObserver registers fn to be called synchronously for every event.
func WithObserver(fn func(Event)) PoolOption {
	return func(p *Pool) {
		p.observers = append(p.observers, fn)
	}
}

// NewPool creates a pool with the given number of workers.
// If workers <= 0, uses runtime.NumCPU().
func NewPool(workers int, opts ...PoolOption) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &Pool{
		workers:   workers,
		timeout:   DefaultTimeout,
		active:    make(map[string]*Item),
		completed: NewRingBuffer(100),
		signal:    make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the workers.
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.wake()

	logging.Info("Work pool started", "workers", p.workers)
}

// Stop finishes queued work, then shuts the workers down.
func (p *Pool) Stop() {
	logging.Info("Work pool stopping", "pending", p.PendingCount())

	p.mu.Lock()
	if p.stopping {
		p.mu.Unlock()
		return
	}
	p.stopping = true
	p.mu.Unlock()
	close(p.stopCh)

	p.wg.Wait()
	if p.cancel != nil {
		p.cancel()
	}

	logging.Info("Work pool stopped",
		"created", p.totalCreated.Load(),
		"completed", p.totalCompleted.Load(),
		"failed", p.totalFailed.Load())
}

// Submit queues fn at normal priority and returns the work ID.
func (p *Pool) Submit(typ Type, desc string, fn func(ctx context.Context) error) string {
	return p.SubmitPriority(typ, desc, PriorityNormal, fn)
}

// SubmitPriority queues fn with an explicit priority.
func (p *Pool) SubmitPriority(typ Type, desc string, priority int, fn func(ctx context.Context) error) string {
	seq := p.nextID.Add(1)
	item := &Item{
		ID:          fmt.Sprintf("w%d", seq),
		Type:        typ,
		Status:      StatusPending,
		Description: desc,
		Priority:    priority,
		CreatedAt:   time.Now(),
		fn:          fn,
		seq:         seq,
	}

	p.mu.Lock()
	heap.Push(&p.pending, item)
	p.mu.Unlock()
	p.totalCreated.Add(1)

	p.notify(Event{Item: item, Change: ChangeCreated})
	p.wake()
	return item.ID
}

// Dispatch submits persistence work. It satisfies engagement.Dispatcher.
func (p *Pool) Dispatch(desc string, fn func(ctx context.Context) error) {
	p.Submit(TypeEngagement, desc, fn)
}

// Dispatcher returns a Dispatch-style submitter that tags work with typ.
func (p *Pool) Dispatcher(typ Type) TypedDispatcher {
	return TypedDispatcher{pool: p, typ: typ}
}

// TypedDispatcher submits every call under one work type.
type TypedDispatcher struct {
	pool *Pool
	typ  Type
}

// Dispatch submits fn.
func (d TypedDispatcher) Dispatch(desc string, fn func(ctx context.Context) error) {
	d.pool.Submit(d.typ, desc, fn)
}

func (p *Pool) wake() {
	select {
	case p.signal <- struct{}{}:
	default:
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	logging.Debug("Worker started", "worker", id)

	for {
		item, done := p.next()
		if done {
			logging.Debug("Worker stopped", "worker", id)
			return
		}
		if item == nil {
			select {
			case <-p.signal:
			case <-p.stopCh:
			case <-p.ctx.Done():
				return
			}
			continue
		}
		// Other idle workers may have missed the signal.
		p.wake()
		p.execute(item)
	}
}

// next pops the highest priority item. done is true once the pool is
// stopping and the queue is empty.
func (p *Pool) next() (item *Item, done bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pending.Len() == 0 {
		return nil, p.stopping
	}
	item = heap.Pop(&p.pending).(*Item)
	item.Status = StatusActive
	item.StartedAt = time.Now()
	p.active[item.ID] = item
	return item, false
}

func (p *Pool) execute(item *Item) {
	p.notify(Event{Item: item, Change: ChangeStarted})

	ctx, cancel := context.WithTimeout(p.ctx, p.timeout)
	defer cancel()

	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				logging.Error("Work panicked", "id", item.ID, "panic", r)
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		if item.fn == nil {
			err = fmt.Errorf("no work function")
			return
		}
		err = item.fn(ctx)
	}()

	p.complete(item, err)
}

func (p *Pool) complete(item *Item, err error) {
	p.mu.Lock()
	item.FinishedAt = time.Now()
	item.Error = err
	if err != nil {
		item.Status = StatusFailed
	} else {
		item.Status = StatusComplete
	}
	delete(p.active, item.ID)
	p.mu.Unlock()
	p.completed.Push(item)

	change := ChangeCompleted
	if err != nil {
		change = ChangeFailed
		p.totalFailed.Add(1)
	} else {
		p.totalCompleted.Add(1)
	}
	p.notify(Event{Item: item, Change: change})
}

func (p *Pool) notify(event Event) {
	LogEvent(event)
	for _, fn := range p.observers {
		fn(event)
	}
}

// Stats returns current counters.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Stats{
		TotalCreated:   p.totalCreated.Load(),
		TotalCompleted: p.totalCompleted.Load(),
		TotalFailed:    p.totalFailed.Load(),
		WorkersActive:  len(p.active),
		WorkersTotal:   p.workers,
		PendingCount:   p.pending.Len(),
	}
}

// PendingCount returns the number of queued items.
func (p *Pool) PendingCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending.Len()
}

// Recent returns up to n finished items, newest first.
func (p *Pool) Recent(n int) []*Item {
	return p.completed.Recent(n)
}
