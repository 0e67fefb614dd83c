package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"coup-table/internal/store"
)

func listMatchesHandler(st matchStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseLimit(r, 20)
		items, err := st.ListRecentMatches(r.Context(), limit)
		if err != nil {
			log.Error().Err(err).Msg("list matches failed")
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items, "limit": limit})
	}
}

func getMatchHandler(st matchStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := st.GetMatch(r.Context(), chi.URLParam(r, "match_id"))
		if errors.Is(err, store.ErrNotFound) {
			writeHTTPError(w, http.StatusNotFound, "match_not_found")
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("get match failed")
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

// matchEventsHandler returns the recorded narration with seat placeholders
// still in place; clients substitute names from the match seats.
func matchEventsHandler(st matchStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "match_id")
		if _, err := st.GetMatch(r.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeHTTPError(w, http.StatusNotFound, "match_not_found")
				return
			}
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		events, err := st.GetMatchEvents(r.Context(), id)
		if err != nil {
			log.Error().Err(err).Str("match_id", id).Msg("get match events failed")
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": events})
	}
}

func leaderboardHandler(st matchStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseLimit(r, 20)
		items, err := st.ListLeaderboard(r.Context(), limit)
		if err != nil {
			log.Error().Err(err).Msg("leaderboard failed")
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items, "limit": limit})
	}
}
