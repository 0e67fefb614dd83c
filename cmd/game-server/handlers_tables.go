package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"coup-table/internal/game"
	"coup-table/internal/table"
)

const maxLabelLength = 64

func healthHandler(st matchStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true, "db": "disabled"})
			return
		}
		if err := st.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "db": "down"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "db": "up"})
	}
}

func listTablesHandler(m *table.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"items": m.List()})
	}
}

type createTableRequest struct {
	Label          string `json:"label"`
	RoleSet        string `json:"roleSet"`
	AllowObservers bool   `json:"allowObservers"`
	MaxPlayers     int    `json:"maxPlayers"`
}

func createTableHandler(m *table.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTableRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		req.Label = strings.TrimSpace(req.Label)
		if len(req.Label) > maxLabelLength {
			writeHTTPError(w, http.StatusBadRequest, "invalid_label")
			return
		}
		if req.MaxPlayers != 0 && (req.MaxPlayers < game.MinPlayers || req.MaxPlayers > game.MaxPlayers) {
			writeHTTPError(w, http.StatusBadRequest, "invalid_max_players")
			return
		}
		t, err := m.Create(req.Label, game.Options{
			RoleSet:        req.RoleSet,
			AllowObservers: req.AllowObservers,
			MaxPlayers:     req.MaxPlayers,
		})
		switch {
		case errors.Is(err, game.ErrUnknownRoleSet):
			writeHTTPError(w, http.StatusBadRequest, string(game.CodeUnknownRoleSet))
			return
		case errors.Is(err, table.ErrTableLimit):
			writeHTTPError(w, http.StatusServiceUnavailable, table.ErrTableLimit.Error())
			return
		case err != nil:
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, http.StatusCreated, t.Summary())
	}
}

func getTableHandler(m *table.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := m.Get(chi.URLParam(r, "table_id"))
		if err != nil {
			writeHTTPError(w, http.StatusNotFound, table.ErrTableNotFound.Error())
			return
		}
		writeJSON(w, http.StatusOK, t.Summary())
	}
}
