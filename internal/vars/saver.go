package vars

import (
	"sync"

	"pgwarp/internal/logging"
)

// CoalescingSaver moves disk writes off the caller's thread through a
// single-slot queue: while a save is pending, a newer snapshot replaces the
// pending one. Snapshots are never reordered and the newest always wins.
// Close flushes whatever is still pending.
type CoalescingSaver struct {
	dest Saver

	mu      sync.Mutex
	pending []Variable
	dirty   bool
	closed  bool
	kick    chan struct{}
	done    chan struct{}

	// OnError observes background save failures (the UI shows a transient
	// warning). May be left nil.
	OnError func(error)
}

// NewCoalescingSaver starts the background worker writing through dest.
func NewCoalescingSaver(dest Saver) *CoalescingSaver {
	c := &CoalescingSaver{
		dest: dest,
		kick: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go c.run()
	return c
}

// Save queues the snapshot and returns immediately.
func (c *CoalescingSaver) Save(snapshot []Variable) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrPersistenceWriteFailed
	}
	c.pending = snapshot
	c.dirty = true
	// Kick while holding the lock so Close cannot close the channel between
	// the closed check and the send.
	select {
	case c.kick <- struct{}{}:
	default:
	}
	c.mu.Unlock()
	return nil
}

// Close stops the worker after flushing any pending snapshot.
func (c *CoalescingSaver) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	close(c.kick)
	<-c.done
}

func (c *CoalescingSaver) run() {
	defer close(c.done)
	for range c.kick {
		c.flush()
	}
	// Channel closed: one final flush for a snapshot queued after the last
	// kick was consumed.
	c.flush()
}

func (c *CoalescingSaver) flush() {
	for {
		c.mu.Lock()
		if !c.dirty {
			c.mu.Unlock()
			return
		}
		snapshot := c.pending
		c.dirty = false
		c.mu.Unlock()

		if err := c.dest.Save(snapshot); err != nil {
			logging.Get(logging.CategoryPersist).Warn("background save failed: %v", err)
			if c.OnError != nil {
				c.OnError(err)
			}
		}
	}
}
