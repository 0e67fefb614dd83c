package main

import (
	"context"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"

	"coup-table/internal/game"
	"coup-table/internal/store"
	"coup-table/internal/table"
	"coup-table/internal/ws"
)

type fakeMatches struct {
	pingErr error
	matches map[string]*store.Match
	events  map[string][]store.MatchEvent
	board   []store.PlayerRecord
}

func (f *fakeMatches) Ping(context.Context) error { return f.pingErr }

func (f *fakeMatches) ListRecentMatches(_ context.Context, limit int) ([]store.Match, error) {
	out := []store.Match{}
	for _, m := range f.matches {
		if len(out) == limit {
			break
		}
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeMatches) GetMatch(_ context.Context, id string) (*store.Match, error) {
	m, ok := f.matches[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return m, nil
}

func (f *fakeMatches) GetMatchEvents(_ context.Context, id string) ([]store.MatchEvent, error) {
	return f.events[id], nil
}

func (f *fakeMatches) ListLeaderboard(_ context.Context, limit int) ([]store.PlayerRecord, error) {
	return f.board, nil
}

func newTestManager(t *testing.T) *table.Manager {
	t.Helper()
	n := 0
	m := table.NewManager(table.ManagerConfig{
		MaxTables: 2,
		NewID: func() string {
			n++
			return "table-" + strconv.Itoa(n)
		},
		Shuffler: game.NewSeededShuffler(5),
	})
	t.Cleanup(m.Close)
	return m
}

func newTestRouter(t *testing.T, matches matchStore) (*chi.Mux, *table.Manager) {
	t.Helper()
	m := newTestManager(t)
	deps := routerDeps{manager: m, ws: ws.NewServer(m)}
	if matches != nil {
		deps.matches = matches
	}
	return newRouter(deps), m
}
