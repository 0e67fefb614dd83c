package table

import (
	"context"
	"time"

	"coup-table/internal/game"

	"github.com/rs/zerolog/log"
)

type MatchSeat struct {
	Seat     int
	Name     string
	Identity string
	IsBot    bool
}

type MatchInfo struct {
	TableID string
	Label   string
	RoleSet string
	Seats   []MatchSeat
}

// Recorder receives the narrative of every match a table plays. Calls for
// one table arrive in order, outside the table lock. Errors are logged and
// never affect play.
type Recorder interface {
	MatchStarted(ctx context.Context, info MatchInfo) error
	HistoryAppended(ctx context.Context, tableID string, stateID int, ev game.HistoryEvent) error
	MatchFinished(ctx context.Context, tableID string, winner int, stateID int) error
}

const recorderTimeout = 5 * time.Second

func (t *Table) record(op string, fn func(ctx context.Context) error) {
	if t.recorder == nil {
		return
	}
	t.recq.push(func() {
		ctx, cancel := context.WithTimeout(context.Background(), recorderTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			metricRecorderErrors.Add(1)
			log.Error().Err(err).Str("table_id", t.id).Str("op", op).Msg("match recorder failed")
		}
	})
}

func matchInfo(t *Table, g *game.Game) MatchInfo {
	info := MatchInfo{TableID: t.id, Label: t.label, RoleSet: g.RoleSet.Name}
	for i, p := range g.Seats {
		if p.IsObserver {
			continue
		}
		info.Seats = append(info.Seats, MatchSeat{Seat: i, Name: p.Name, Identity: p.Identity, IsBot: p.IsBot})
	}
	return info
}
