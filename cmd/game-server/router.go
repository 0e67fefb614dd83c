package main

import (
	"context"
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"coup-table/internal/spectate"
	"coup-table/internal/store"
	"coup-table/internal/table"
	"coup-table/internal/ws"
)

// matchStore is the read side of match records. It is nil when the server
// runs without a database.
type matchStore interface {
	Ping(ctx context.Context) error
	ListRecentMatches(ctx context.Context, limit int) ([]store.Match, error)
	GetMatch(ctx context.Context, matchID string) (*store.Match, error)
	GetMatchEvents(ctx context.Context, matchID string) ([]store.MatchEvent, error)
	ListLeaderboard(ctx context.Context, limit int) ([]store.PlayerRecord, error)
}

type routerDeps struct {
	manager *table.Manager
	ws      *ws.Server
	matches matchStore
}

func newRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(apiLogMiddleware()).Get("/healthz", healthHandler(deps.matches))
	r.Get("/ws", deps.ws.HandleWS)

	r.Route("/api", func(r chi.Router) {
		r.Use(apiLogMiddleware())
		r.Use(bodyCaptureMiddleware(4096))
		r.Get("/tables", listTablesHandler(deps.manager))
		r.Post("/tables", createTableHandler(deps.manager))
		r.Get("/tables/{table_id}", getTableHandler(deps.manager))
		r.Get("/tables/{table_id}/state", spectate.StateHandler(deps.manager))
		r.Get("/tables/{table_id}/events", spectate.EventsHandler(deps.manager))
		r.Get("/debug/vars", expvar.Handler().ServeHTTP)

		if deps.matches != nil {
			r.Get("/matches", listMatchesHandler(deps.matches))
			r.Get("/matches/{match_id}", getMatchHandler(deps.matches))
			r.Get("/matches/{match_id}/events", matchEventsHandler(deps.matches))
			r.Get("/leaderboard", leaderboardHandler(deps.matches))
		}
	})
	return r
}

func logRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 16)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
