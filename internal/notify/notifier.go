package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"coup-table/internal/game"
	"coup-table/internal/notify/platforms"
	"coup-table/internal/table"
)

type job struct {
	Target  Target
	TableID string
	Kind    string
	Message platforms.Message
	Attempt int
}

func (j job) key() string {
	return j.Target.Platform + "|" + j.Target.Endpoint
}

type tableMeta struct {
	label string
	names []string
}

type breakerState struct {
	consecutiveFailures int
	openUntil           time.Time
}

// Notifier forwards match narration to chat webhooks. It satisfies
// table.Recorder and never blocks a table: jobs that do not fit the
// dispatch buffer are dropped.
type Notifier struct {
	cfg      Config
	adapters map[string]platforms.Adapter
	now      func() time.Time

	dispatchCh chan job
	retryQ     *retryQueue
	done       chan struct{}

	mu           sync.Mutex
	started      bool
	tables       map[string]tableMeta
	breakerByKey map[string]breakerState
}

var _ table.Recorder = (*Notifier)(nil)

func New(cfg Config) *Notifier {
	client := platforms.NewHTTPClient(cfg.RequestTimeout)
	return newWithAdapters(cfg, platforms.NewDiscordAdapter(client), platforms.NewFeishuAdapter(client))
}

func newWithAdapters(cfg Config, adapters ...platforms.Adapter) *Notifier {
	if cfg.DispatchBuffer <= 0 {
		cfg.DispatchBuffer = 1024
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 500 * time.Millisecond
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.CircuitOpenDuration <= 0 {
		cfg.CircuitOpenDuration = 30 * time.Second
	}
	n := &Notifier{
		cfg:          cfg,
		adapters:     map[string]platforms.Adapter{},
		now:          time.Now,
		dispatchCh:   make(chan job, cfg.DispatchBuffer),
		done:         make(chan struct{}),
		tables:       map[string]tableMeta{},
		breakerByKey: map[string]breakerState{},
	}
	for _, a := range adapters {
		n.adapters[a.Name()] = a
	}
	n.retryQ = newRetryQueue(n.dispatchCh, n.done)
	return n
}

// Start launches the delivery workers. They stop when ctx is cancelled.
func (n *Notifier) Start(ctx context.Context) {
	if !n.cfg.Enabled {
		return
	}
	n.mu.Lock()
	if n.started {
		n.mu.Unlock()
		return
	}
	n.started = true
	n.mu.Unlock()

	for i := 0; i < n.cfg.Workers; i++ {
		go n.worker(ctx)
	}
	go func() {
		<-ctx.Done()
		close(n.done)
	}()
}

func (n *Notifier) MatchStarted(_ context.Context, info table.MatchInfo) error {
	if !n.cfg.Enabled {
		return nil
	}
	meta := tableMeta{label: info.Label}
	for _, s := range info.Seats {
		for len(meta.names) <= s.Seat {
			meta.names = append(meta.names, fmt.Sprintf("seat %d", len(meta.names)))
		}
		meta.names[s.Seat] = s.Name
	}
	n.mu.Lock()
	n.tables[info.TableID] = meta
	n.mu.Unlock()

	n.dispatch(info.TableID, info.Label, EventMatchStarted, formatStarted(info, n.now()))
	return nil
}

func (n *Notifier) HistoryAppended(_ context.Context, tableID string, _ int, ev game.HistoryEvent) error {
	if !n.cfg.Enabled {
		return nil
	}
	n.mu.Lock()
	meta, ok := n.tables[tableID]
	n.mu.Unlock()
	if !ok {
		return nil
	}
	n.dispatch(tableID, meta.label, EventHistory, formatHistory(tableID, meta.names, ev, n.now()))
	return nil
}

func (n *Notifier) MatchFinished(_ context.Context, tableID string, winner int, stateID int) error {
	if !n.cfg.Enabled {
		return nil
	}
	n.mu.Lock()
	meta := n.tables[tableID]
	delete(n.tables, tableID)
	n.mu.Unlock()

	n.dispatch(tableID, meta.label, EventMatchFinished, formatFinished(tableID, meta.names, winner, stateID, n.now()))
	return nil
}

func (n *Notifier) dispatch(tableID, label, kind string, msg platforms.Message) {
	for _, target := range n.cfg.Targets {
		if !target.wants(kind, label) {
			continue
		}
		j := job{Target: target, TableID: tableID, Kind: kind, Message: msg}
		select {
		case n.dispatchCh <- j:
			metricNotifyQueuedTotal.Add(1)
			metricNotifyQueueLen.Set(int64(len(n.dispatchCh)))
		default:
			metricNotifyDroppedTotal.Add(1)
		}
	}
}
