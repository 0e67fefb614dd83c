package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"coup-table/internal/notify/platforms"
)

type recordingAdapter struct {
	name string
	fail bool

	mu   sync.Mutex
	sent []platforms.Message
	hits int
}

func (a *recordingAdapter) Name() string { return a.name }

func (a *recordingAdapter) Send(_ context.Context, _ string, _ string, msg platforms.Message) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hits++
	if a.fail {
		return errors.New("failed")
	}
	a.sent = append(a.sent, msg)
	return nil
}

func (a *recordingAdapter) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hits
}

func (a *recordingAdapter) Sent() []platforms.Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]platforms.Message(nil), a.sent...)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
