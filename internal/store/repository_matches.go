package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// CreateMatch inserts a match and its seats in one transaction.
func (s *Store) CreateMatch(ctx context.Context, m Match) error {
	return pgx.BeginFunc(ctx, s.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO matches (id, label, role_set) VALUES ($1,$2,$3)`,
			m.ID, m.Label, m.RoleSet,
		); err != nil {
			return fmt.Errorf("insert match: %w", err)
		}
		for _, seat := range m.Seats {
			if _, err := tx.Exec(ctx,
				`INSERT INTO match_seats (match_id, seat, name, identity, is_bot) VALUES ($1,$2,$3,$4,$5)`,
				m.ID, seat.Seat, seat.Name, seat.Identity, seat.IsBot,
			); err != nil {
				return fmt.Errorf("insert match seat %d: %w", seat.Seat, err)
			}
		}
		return nil
	})
}

// AppendMatchEvent adds one narration fragment after the last one stored.
func (s *Store) AppendMatchEvent(ctx context.Context, matchID string, stateID int, eventType, message string, continuation bool) error {
	_, err := s.Pool.Exec(ctx, `
INSERT INTO match_events (match_id, seq, state_id, event_type, message, continuation)
SELECT $1, COALESCE(MAX(seq), 0) + 1, $2, $3, $4, $5 FROM match_events WHERE match_id = $1`,
		matchID, stateID, eventType, message, continuation)
	return err
}

// FinishMatch stamps the result. winner is -1 when nobody survived.
func (s *Store) FinishMatch(ctx context.Context, matchID string, winner, finalStateID int) error {
	var winnerSeat *int
	if winner >= 0 {
		winnerSeat = &winner
	}
	tag, err := s.Pool.Exec(ctx,
		`UPDATE matches SET finished_at = now(), winner_seat = $2, final_state_id = $3 WHERE id = $1`,
		matchID, winnerSeat, finalStateID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const matchColumns = `id, label, role_set, started_at, finished_at, winner_seat, final_state_id`

func scanMatch(row pgx.Row) (Match, error) {
	var m Match
	err := row.Scan(&m.ID, &m.Label, &m.RoleSet, &m.StartedAt, &m.FinishedAt, &m.WinnerSeat, &m.FinalStateID)
	return m, err
}

func (s *Store) GetMatch(ctx context.Context, matchID string) (*Match, error) {
	m, err := scanMatch(s.Pool.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, matchID))
	if err != nil {
		return nil, mapNotFound(err)
	}
	seats, err := s.listMatchSeats(ctx, matchID)
	if err != nil {
		return nil, err
	}
	m.Seats = seats
	return &m, nil
}

// ListRecentMatches returns the newest matches first, seats included.
func (s *Store) ListRecentMatches(ctx context.Context, limit int) ([]Match, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.Pool.Query(ctx, `SELECT `+matchColumns+` FROM matches ORDER BY started_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Match, error) {
		return scanMatch(row)
	})
	if err != nil {
		return nil, err
	}
	for i := range out {
		seats, err := s.listMatchSeats(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Seats = seats
	}
	return out, nil
}

func (s *Store) listMatchSeats(ctx context.Context, matchID string) ([]MatchSeat, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT seat, name, identity, is_bot FROM match_seats WHERE match_id = $1 ORDER BY seat`, matchID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (MatchSeat, error) {
		var seat MatchSeat
		err := row.Scan(&seat.Seat, &seat.Name, &seat.Identity, &seat.IsBot)
		return seat, err
	})
}

func (s *Store) GetMatchEvents(ctx context.Context, matchID string) ([]MatchEvent, error) {
	rows, err := s.Pool.Query(ctx, `
SELECT seq, state_id, event_type, message, continuation, created_at
FROM match_events WHERE match_id = $1 ORDER BY seq`, matchID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (MatchEvent, error) {
		var ev MatchEvent
		err := row.Scan(&ev.Seq, &ev.StateID, &ev.Type, &ev.Message, &ev.Continuation, &ev.CreatedAt)
		return ev, err
	})
}

// ListLeaderboard ranks identities by wins over finished matches.
func (s *Store) ListLeaderboard(ctx context.Context, limit int) ([]PlayerRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.Pool.Query(ctx, `
SELECT ms.identity,
       (ARRAY_AGG(ms.name ORDER BY m.started_at DESC))[1] AS name,
       COUNT(*) AS played,
       COUNT(*) FILTER (WHERE m.winner_seat = ms.seat) AS won
FROM match_seats ms
JOIN matches m ON m.id = ms.match_id
WHERE m.finished_at IS NOT NULL
GROUP BY ms.identity
ORDER BY won DESC, played DESC, ms.identity
LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (PlayerRecord, error) {
		var rec PlayerRecord
		err := row.Scan(&rec.Identity, &rec.Name, &rec.Played, &rec.Won)
		return rec, err
	})
}
