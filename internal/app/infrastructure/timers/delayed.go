package timers

import (
	"chatoverlay/pkg/logger"
	"log/slog"
	"sync"
	"time"
)

type entry[T any] struct {
	id     string
	group  string
	item   T
	emitAt time.Time
}

// DelayedQueue emits items again after a fixed delay. Pending items can be dropped by
// id or by group before they are emitted.
//
// The delay is the same for every item, so emitAt never decreases along the queue and
// the queue stays a plain FIFO. Cancellation only touches the indexes; dropped entries
// stay in the queue body and are skipped when their turn comes.
type DelayedQueue[T any] struct {
	delay   time.Duration
	idOf    func(T) string
	groupOf func(T) string
	emit    func(T)

	log logger.Logger
	now func() time.Time

	mu      sync.Mutex
	running bool
	epoch   uint64
	timer   *time.Timer
	queue   []entry[T]
	head    int

	activeIDs  map[string]struct{}
	idToGroup  map[string]string
	groupToIDs map[string]map[string]struct{}
}

type Option func(*options)

type options struct {
	log logger.Logger
	now func() time.Time
}

func WithLogger(log logger.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithClock replaces time.Now when computing emission deadlines.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func NewDelayedQueue[T any](delay time.Duration, idOf, groupOf func(T) string, emit func(T), opts ...Option) *DelayedQueue[T] {
	o := options{log: logger.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return &DelayedQueue[T]{
		delay:      delay,
		idOf:       idOf,
		groupOf:    groupOf,
		emit:       emit,
		log:        o.log,
		now:        o.now,
		activeIDs:  make(map[string]struct{}),
		idToGroup:  make(map[string]string),
		groupToIDs: make(map[string]map[string]struct{}),
	}
}

func (q *DelayedQueue[T]) Push(item T) {
	id, group := q.idOf(item), q.groupOf(item)

	q.mu.Lock()
	q.activeIDs[id] = struct{}{}
	q.idToGroup[id] = group
	ids, ok := q.groupToIDs[group]
	if !ok {
		ids = make(map[string]struct{})
		q.groupToIDs[group] = ids
	}
	ids[id] = struct{}{}

	q.queue = append(q.queue, entry[T]{id: id, group: group, item: item, emitAt: q.now().Add(q.delay)})

	if q.running {
		q.mu.Unlock()
		return
	}
	q.running = true
	q.epoch++
	epoch := q.epoch
	q.mu.Unlock()

	q.awaitNext(epoch)
}

// CancelEvent disables the item; its entry is skipped lazily.
func (q *DelayedQueue[T]) CancelEvent(id string) {
	q.mu.Lock()
	delete(q.activeIDs, id)
	q.mu.Unlock()
}

// EvictEvent disables the item and drops it from the group indexes right away.
func (q *DelayedQueue[T]) EvictEvent(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	delete(q.activeIDs, id)
	if group, ok := q.idToGroup[id]; ok {
		q.dropFromGroupLocked(group, id)
	}
	delete(q.idToGroup, id)
}

func (q *DelayedQueue[T]) EvictAllEventsInGroup(group string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	ids, ok := q.groupToIDs[group]
	delete(q.groupToIDs, group)
	if !ok {
		return
	}

	for id := range ids {
		q.log.Debug("Evicting event from delay queue", slog.String("group", group), slog.String("id", id))
		delete(q.activeIDs, id)
		delete(q.idToGroup, id)
	}
}

// Cleanup stops the pending timer and drops everything queued without emitting it.
func (q *DelayedQueue[T]) Cleanup() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	q.epoch++
	q.running = false
	q.queue = nil
	q.head = 0
	clear(q.activeIDs)
	clear(q.idToGroup)
	clear(q.groupToIDs)
}

// Len reports the entries physically queued, cancelled ones included.
func (q *DelayedQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.queue) - q.head
}

// Pending reports the items that are still going to be emitted.
func (q *DelayedQueue[T]) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.activeIDs)
}

// awaitNext walks the queue from the head: cancelled entries are skipped, overdue ones
// emitted in place, and the first entry in the future arms the one and only timer.
func (q *DelayedQueue[T]) awaitNext(epoch uint64) {
	for {
		q.mu.Lock()
		if epoch != q.epoch {
			q.mu.Unlock()
			return
		}

		e, ok := q.popLocked()
		if !ok {
			// drained, the next Push restarts the loop
			q.running = false
			q.timer = nil
			q.mu.Unlock()
			return
		}

		if _, active := q.activeIDs[e.id]; !active {
			q.log.Trace("Event got evicted, skipping", slog.String("id", e.id))
			q.forgetLocked(e)
			q.mu.Unlock()
			continue
		}

		if delta := e.emitAt.Sub(q.now()); delta > 0 {
			q.timer = time.AfterFunc(delta, func() {
				if q.emitEntry(epoch, e) {
					q.awaitNext(epoch)
				}
			})
			q.mu.Unlock()
			return
		}
		q.mu.Unlock()

		if !q.emitEntry(epoch, e) {
			return
		}
	}
}

// emitEntry re-checks the entry, clears it from the indexes and invokes the callback
// outside the lock. It reports false when Cleanup ran in between.
func (q *DelayedQueue[T]) emitEntry(epoch uint64, e entry[T]) bool {
	q.mu.Lock()
	if epoch != q.epoch {
		q.mu.Unlock()
		return false
	}
	q.timer = nil

	_, active := q.activeIDs[e.id]
	q.forgetLocked(e)
	q.mu.Unlock()

	if active {
		q.emit(e.item)
	}
	return true
}

func (q *DelayedQueue[T]) popLocked() (entry[T], bool) {
	if q.head >= len(q.queue) {
		q.queue = q.queue[:0]
		q.head = 0
		return entry[T]{}, false
	}

	e := q.queue[q.head]
	q.queue[q.head] = entry[T]{}
	q.head++

	if q.head >= 64 && q.head*2 >= len(q.queue) {
		n := copy(q.queue, q.queue[q.head:])
		clear(q.queue[n:])
		q.queue = q.queue[:n]
		q.head = 0
	}
	return e, true
}

// forgetLocked removes every index entry of an entry that left the queue.
func (q *DelayedQueue[T]) forgetLocked(e entry[T]) {
	delete(q.activeIDs, e.id)
	if q.idToGroup[e.id] == e.group {
		delete(q.idToGroup, e.id)
	}
	q.dropFromGroupLocked(e.group, e.id)
}

func (q *DelayedQueue[T]) dropFromGroupLocked(group, id string) {
	ids, ok := q.groupToIDs[group]
	if !ok {
		return
	}
	delete(ids, id)
	if len(ids) == 0 {
		delete(q.groupToIDs, group)
	}
}
