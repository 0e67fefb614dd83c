package table

import "sync"

// mailbox runs queued callbacks one at a time on its own goroutine. push
// never blocks, so a slow player only delays its own seat.
type mailbox struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	closed  bool
	done    chan struct{}
	onPanic func(any)
}

func newMailbox(onPanic func(any)) *mailbox {
	m := &mailbox{done: make(chan struct{}), onPanic: onPanic}
	m.cond = sync.NewCond(&m.mu)
	go m.run()
	return m
}

func (m *mailbox) push(fn func()) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false
	}
	m.queue = append(m.queue, fn)
	m.cond.Signal()
	return true
}

// close stops accepting work. Callbacks already queued still run.
func (m *mailbox) close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	m.cond.Signal()
}

func (m *mailbox) run() {
	defer close(m.done)
	for {
		m.mu.Lock()
		for len(m.queue) == 0 && !m.closed {
			m.cond.Wait()
		}
		if len(m.queue) == 0 {
			m.mu.Unlock()
			return
		}
		fn := m.queue[0]
		m.queue[0] = nil
		m.queue = m.queue[1:]
		m.mu.Unlock()
		m.invoke(fn)
	}
}

func (m *mailbox) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil && m.onPanic != nil {
			m.onPanic(r)
		}
	}()
	fn()
}
