package spectate

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"coup-table/internal/game"
	"coup-table/internal/game/viewmodel"
	"coup-table/internal/table"
)

type nopPlayer struct{ name string }

func (p nopPlayer) Name() string                                  { return p.name }
func (p nopPlayer) IsBot() bool                                   { return true }
func (p nopPlayer) Identity() string                              { return "" }
func (p nopPlayer) OnStateChange(viewmodel.StateView)             {}
func (p nopPlayer) OnHistoryEvent(string, game.HistoryType, bool) {}
func (p nopPlayer) OnChatMessage(int, string)                     {}

type lookup map[string]*table.Table

func (l lookup) Get(id string) (*table.Table, error) {
	t, ok := l[id]
	if !ok {
		return nil, table.ErrTableNotFound
	}
	return t, nil
}

func startedTable(t *testing.T) *table.Table {
	t.Helper()
	tb, err := table.New("t1", "test", game.Options{}, game.NewEngine(game.NewSeededShuffler(7)), nil)
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	t.Cleanup(tb.Close)
	a, err := tb.PlayerJoined(nopPlayer{name: "a"}, "")
	if err != nil {
		t.Fatalf("join a: %v", err)
	}
	if _, err := tb.PlayerJoined(nopPlayer{name: "b"}, ""); err != nil {
		t.Fatalf("join b: %v", err)
	}
	if err := a.Command(game.Command{Command: game.CommandStart, Version: 2}); err != nil {
		t.Fatalf("start: %v", err)
	}
	return tb
}

func newRouter(tables TableLookup) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/tables/{table_id}/state", StateHandler(tables))
	r.Get("/api/tables/{table_id}/events", EventsHandler(tables))
	return r
}

func readEvent(t *testing.T, rd *bufio.Reader, timeout time.Duration) string {
	t.Helper()
	ch := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() {
		for {
			line, err := rd.ReadString('\n')
			if err != nil {
				errCh <- err
				return
			}
			if strings.HasPrefix(line, "event: ") {
				ch <- strings.TrimSpace(strings.TrimPrefix(line, "event: "))
				return
			}
		}
	}()
	select {
	case ev := <-ch:
		return ev
	case err := <-errCh:
		t.Fatalf("read event: %v", err)
	case <-time.After(timeout):
		t.Fatal("timeout waiting for event")
	}
	return ""
}

func TestStateHandlerHidesRoles(t *testing.T) {
	tb := startedTable(t)
	req := httptest.NewRequest(http.MethodGet, "/api/tables/t1/state", nil)
	w := httptest.NewRecorder()
	newRouter(lookup{"t1": tb}).ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var view viewmodel.StateView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if view.MySeat != viewmodel.PublicViewer {
		t.Fatalf("expected public viewer, got %d", view.MySeat)
	}
	for i, p := range view.Players {
		for _, c := range p.Influence {
			if !c.Revealed && c.Role != game.RoleUnknown {
				t.Fatalf("seat %d leaked hidden role %s", i, c.Role)
			}
		}
	}
}

func TestStateHandlerMissingTable(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/tables/missing/state", nil)
	w := httptest.NewRecorder()
	newRouter(lookup{}).ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "table_not_found") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestEventsReplayAndPing(t *testing.T) {
	prev := pingInterval
	pingInterval = 20 * time.Millisecond
	defer func() { pingInterval = prev }()

	tb := startedTable(t)
	server := httptest.NewServer(newRouter(lookup{"t1": tb}))
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/tables/t1/events")
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}
	rd := bufio.NewReader(resp.Body)
	if ev := readEvent(t, rd, time.Second); ev != table.EventState {
		t.Fatalf("expected replayed state first, got %q", ev)
	}
	for {
		if ev := readEvent(t, rd, time.Second); ev == "ping" {
			break
		}
	}

	missing, err := http.Get(server.URL + "/api/tables/missing/events")
	if err != nil {
		t.Fatalf("open missing stream: %v", err)
	}
	defer missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for missing table, got %d", missing.StatusCode)
	}
}
