package store

import (
	"context"

	"coup-table/internal/game"
	"coup-table/internal/table"
)

// Recorder persists what a table narrates. Tables play a single match, so
// the table id doubles as the match id.
type Recorder struct {
	st *Store
}

func NewRecorder(st *Store) *Recorder {
	return &Recorder{st: st}
}

var _ table.Recorder = (*Recorder)(nil)

func (r *Recorder) MatchStarted(ctx context.Context, info table.MatchInfo) error {
	m := Match{ID: info.TableID, Label: info.Label, RoleSet: info.RoleSet}
	for _, seat := range info.Seats {
		m.Seats = append(m.Seats, MatchSeat{Seat: seat.Seat, Name: seat.Name, Identity: seat.Identity, IsBot: seat.IsBot})
	}
	return r.st.CreateMatch(ctx, m)
}

func (r *Recorder) HistoryAppended(ctx context.Context, tableID string, stateID int, ev game.HistoryEvent) error {
	return r.st.AppendMatchEvent(ctx, tableID, stateID, string(ev.Type), ev.Message, ev.Continuation)
}

func (r *Recorder) MatchFinished(ctx context.Context, tableID string, winner int, stateID int) error {
	return r.st.FinishMatch(ctx, tableID, winner, stateID)
}
