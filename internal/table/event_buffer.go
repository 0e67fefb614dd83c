package table

import (
	"strconv"
	"sync"
	"time"
)

const (
	EventState   = "state"
	EventHistory = "history"
	EventChat    = "chat"
	EventClosed  = "table_closed"
)

// StreamEvent is one entry of a table's public feed.
type StreamEvent struct {
	EventID  string `json:"event_id"`
	Event    string `json:"event"`
	TableID  string `json:"table_id"`
	ServerTS int64  `json:"server_ts"`
	Data     any    `json:"data"`
}

// EventBuffer keeps the most recent public events for replay and fans new
// ones out to subscribers. A subscriber that falls behind misses events
// rather than stalling the table.
type EventBuffer struct {
	mu       sync.Mutex
	tableID  string
	nextID   int64
	max      int
	events   []StreamEvent
	watchers map[chan StreamEvent]struct{}
	closed   bool
}

func NewEventBuffer(tableID string, max int) *EventBuffer {
	if max <= 0 {
		max = 500
	}
	return &EventBuffer{
		tableID:  tableID,
		max:      max,
		watchers: map[chan StreamEvent]struct{}{},
	}
}

func (b *EventBuffer) Append(event string, data any) StreamEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return StreamEvent{}
	}
	b.nextID++
	ev := StreamEvent{
		EventID:  strconv.FormatInt(b.nextID, 10),
		Event:    event,
		TableID:  b.tableID,
		ServerTS: time.Now().UnixMilli(),
		Data:     data,
	}
	b.events = append(b.events, ev)
	if len(b.events) > b.max {
		b.events = b.events[len(b.events)-b.max:]
	}
	for ch := range b.watchers {
		select {
		case ch <- ev:
		default:
		}
	}
	return ev
}

// EventSeq parses an event id; empty or malformed ids sort before every event.
func EventSeq(id string) int64 {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// ReplayAfter returns buffered events newer than lastEventID, or all of them
// when the id is empty or unparsable.
func (b *EventBuffer) ReplayAfter(lastEventID string) []StreamEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.events) == 0 {
		return nil
	}
	last := EventSeq(lastEventID)
	out := make([]StreamEvent, 0, len(b.events))
	for _, ev := range b.events {
		if EventSeq(ev.EventID) > last {
			out = append(out, ev)
		}
	}
	return out
}

func (b *EventBuffer) Subscribe() chan StreamEvent {
	ch := make(chan StreamEvent, 32)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.watchers[ch] = struct{}{}
	return ch
}

func (b *EventBuffer) Unsubscribe(ch chan StreamEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.watchers[ch]; ok {
		delete(b.watchers, ch)
		close(ch)
	}
}

func (b *EventBuffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.watchers {
		close(ch)
		delete(b.watchers, ch)
	}
}
