package spectate

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"coup-table/internal/game/viewmodel"
	"coup-table/internal/table"
)

var pingInterval = 15 * time.Second

// TableLookup resolves the table named in the URL.
type TableLookup interface {
	Get(id string) (*table.Table, error)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// EventsHandler streams a table's public feed. Buffered events newer than
// Last-Event-ID are replayed first.
func EventsHandler(tables TableLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := tables.Get(chi.URLParam(r, "table_id"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "table_not_found"})
			return
		}
		flusher, ok := w.(http.Flusher)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		buf := t.Events()
		setSSEHeaders(w)
		w.WriteHeader(http.StatusOK)
		metricSSEConnectionsTotal.Add(1)
		metricSSEConnectionsActive.Add(1)
		defer metricSSEConnectionsActive.Add(-1)

		// Subscribe before replaying so nothing appended in between is lost.
		ch := buf.Subscribe()
		defer buf.Unsubscribe(ch)
		lastID := r.Header.Get("Last-Event-ID")
		for _, ev := range buf.ReplayAfter(lastID) {
			if err := writeSSE(w, ev); err != nil {
				return
			}
			lastID = ev.EventID
		}
		flusher.Flush()
		seen := table.EventSeq(lastID)

		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-r.Context().Done():
				return
			case ev, ok := <-ch:
				if !ok {
					return
				}
				if table.EventSeq(ev.EventID) <= seen {
					continue
				}
				if err := writeSSE(w, ev); err != nil {
					return
				}
				flusher.Flush()
			case <-ticker.C:
				ping := table.StreamEvent{
					Event:    "ping",
					TableID:  t.ID(),
					ServerTS: time.Now().UnixMilli(),
					Data:     map[string]any{"ts": time.Now().UnixMilli()},
				}
				if err := writeSSE(w, ping); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}

// StateHandler returns the public view of a table: no hidden roles, no
// exchange options.
func StateHandler(tables TableLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tableID := chi.URLParam(r, "table_id")
		if tableID == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "table_id_required"})
			return
		}
		t, err := tables.Get(tableID)
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "table_not_found"})
			return
		}
		writeJSON(w, http.StatusOK, t.View(viewmodel.PublicViewer))
	}
}
