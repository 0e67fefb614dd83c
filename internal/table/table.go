package table

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"coup-table/internal/game"
	"coup-table/internal/game/viewmodel"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const maxChatLength = 500

var (
	ErrTableClosed  = errors.New("table_closed")
	ErrPlayerLeft   = errors.New("player_left")
	ErrEmptyMessage = errors.New("empty_message")
)

type seatConn struct {
	seat   int
	player Player
	box    *mailbox
	left   bool
}

// Table is the single owner of one match. Every change to the game happens
// under mu and runs to completion before the next one starts.
type Table struct {
	id       string
	label    string
	engine   *game.Engine
	recorder Recorder
	events   *EventBuffer
	recq     *mailbox

	mu        sync.Mutex
	game      *game.Game
	conns     []*seatConn
	closed    bool
	createdAt time.Time
	updatedAt time.Time
}

func newTable(id, label string, g *game.Game, engine *game.Engine, rec Recorder) *Table {
	now := time.Now()
	t := &Table{
		id:        id,
		label:     label,
		engine:    engine,
		recorder:  rec,
		events:    NewEventBuffer(id, 500),
		game:      g,
		createdAt: now,
		updatedAt: now,
	}
	t.recq = newMailbox(func(r any) {
		log.Error().Str("table_id", id).Interface("panic", r).Msg("match recorder panicked")
	})
	t.events.Append(EventState, viewmodel.BuildSeatView(g, viewmodel.PublicViewer))
	return t
}

// New creates a standalone table around a fresh game.
func New(id, label string, opts game.Options, engine *game.Engine, rec Recorder) (*Table, error) {
	g, err := engine.NewGame(id, opts)
	if err != nil {
		return nil, err
	}
	return newTable(id, label, g, engine, rec), nil
}

func (t *Table) ID() string { return t.id }
func (t *Table) Label() string { return t.label }
func (t *Table) Events() *EventBuffer { return t.events }
func (t *Table) CreatedAt() time.Time { return t.createdAt }

func (t *Table) CanAcceptJoins() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.closed && t.game.CanAcceptJoins()
}

// View renders the current game for viewer, or the public view for
// viewmodel.PublicViewer.
func (t *Table) View(viewer int) viewmodel.StateView {
	t.mu.Lock()
	defer t.mu.Unlock()
	return viewmodel.BuildSeatView(t.game, viewer)
}

// PlayerJoined seats p and returns the proxy it must use from now on. An
// empty identity falls back to p.Identity and then to a fresh random one.
func (t *Table) PlayerJoined(p Player, identity string) (*Proxy, error) {
	if identity == "" {
		identity = p.Identity()
	}
	if identity == "" {
		identity = uuid.NewString()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, ErrTableClosed
	}
	next, seat, history, err := t.engine.Join(t.game, game.PlayerInfo{
		Name:     p.Name(),
		Identity: identity,
		IsBot:    p.IsBot(),
	})
	if err != nil {
		return nil, err
	}
	sc := &seatConn{seat: seat, player: p}
	sc.box = newMailbox(t.deliveryPanic(sc))
	t.conns = append(t.conns, sc)
	t.commitLocked(next, history)

	log.Info().
		Str("table_id", t.id).
		Int("seat", seat).
		Str("player", p.Name()).
		Bool("is_bot", p.IsBot()).
		Bool("observer", next.Seats[seat].IsObserver).
		Msg("player joined")
	return &Proxy{table: t, conn: sc}, nil
}

func (t *Table) command(sc *seatConn, cmd game.Command) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrTableClosed
	}
	if sc.left {
		return ErrPlayerLeft
	}
	next, history, err := t.engine.Apply(t.game, sc.seat, cmd)
	if err != nil {
		metricCommandsRejected.Add(1)
		log.Debug().
			Err(err).
			Str("table_id", t.id).
			Int("seat", sc.seat).
			Str("command", string(cmd.Command)).
			Int("state_id", cmd.Version).
			Msg("command rejected")
		return err
	}
	metricCommandsAccepted.Add(1)
	t.commitLocked(next, history)
	return nil
}

func (t *Table) leave(sc *seatConn, isRejoin bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if sc.left {
		return
	}
	sc.left = true
	defer sc.box.close()
	if t.closed {
		return
	}

	next, history, err := t.engine.Leave(t.game, sc.seat, isRejoin)
	if err != nil {
		log.Warn().Err(err).Str("table_id", t.id).Int("seat", sc.seat).Msg("leave rejected")
		return
	}
	if len(next.Seats) < len(t.game.Seats) {
		// The seat was removed outright; later seats shift down.
		t.conns = append(t.conns[:sc.seat], t.conns[sc.seat+1:]...)
		for i := sc.seat; i < len(t.conns); i++ {
			t.conns[i].seat = i
		}
	}
	log.Info().
		Str("table_id", t.id).
		Int("seat", sc.seat).
		Bool("rejoin", isRejoin).
		Str("phase", next.Turn.Phase()).
		Msg("player left")
	t.commitLocked(next, history)
}

func (t *Table) chat(sc *seatConn, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}
	if len(text) > maxChatLength {
		text = text[:maxChatLength]
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrTableClosed
	}
	if sc.left {
		return ErrPlayerLeft
	}
	from := sc.seat
	for _, c := range t.conns {
		if c.left {
			continue
		}
		p := c.player
		c.box.push(func() { p.OnChatMessage(from, text) })
	}
	t.events.Append(EventChat, map[string]any{"fromSeat": from, "message": text})
	return nil
}

// commitLocked installs next and queues its views and narration for every
// seat still at the table, the public feed and the recorder.
func (t *Table) commitLocked(next *game.Game, history []game.HistoryEvent) {
	prev := t.game
	t.game = next
	t.updatedAt = time.Now()

	for _, c := range t.conns {
		if c.left {
			continue
		}
		view := viewmodel.BuildSeatView(next, c.seat)
		p := c.player
		c.box.push(func() { p.OnStateChange(view) })
		for _, ev := range history {
			c.box.push(func() { p.OnHistoryEvent(ev.Message, ev.Type, ev.Continuation) })
		}
	}

	t.events.Append(EventState, viewmodel.BuildSeatView(next, viewmodel.PublicViewer))
	for _, ev := range history {
		t.events.Append(EventHistory, ev)
	}

	if !prev.Started() && next.Started() {
		metricMatchesStarted.Add(1)
		info := matchInfo(t, next)
		log.Info().Str("table_id", t.id).Int("players", len(info.Seats)).Str("role_set", info.RoleSet).Msg("match started")
		t.record("match_started", func(ctx context.Context) error { return t.recorder.MatchStarted(ctx, info) })
	}
	if next.Started() {
		stateID := next.Version
		for _, ev := range history {
			t.record("history_appended", func(ctx context.Context) error {
				return t.recorder.HistoryAppended(ctx, t.id, stateID, ev)
			})
		}
	}
	if !prev.Over() && next.Over() {
		metricMatchesFinished.Add(1)
		winner := next.Turn.(game.GameWon).Winner
		stateID := next.Version
		log.Info().Str("table_id", t.id).Int("winner", winner).Int("state_id", stateID).Msg("match finished")
		t.record("match_finished", func(ctx context.Context) error {
			return t.recorder.MatchFinished(ctx, t.id, winner, stateID)
		})
	}
}

func (t *Table) deliveryPanic(sc *seatConn) func(any) {
	return func(r any) {
		metricDeliveryPanics.Add(1)
		t.mu.Lock()
		seat := sc.seat
		t.mu.Unlock()
		log.Error().
			Str("table_id", t.id).
			Int("seat", seat).
			Str("panic", fmt.Sprint(r)).
			Msg("player callback panicked")
		if rep, ok := sc.player.(ErrorReporter); ok {
			func() {
				defer func() { _ = recover() }()
				rep.OnError("internal_error")
			}()
		}
	}
}

// Summary is the lobby listing for a table.
type Summary struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	RoleSet   string    `json:"roleSet"`
	Phase     string    `json:"phase"`
	Players   int       `json:"players"`
	Observers int       `json:"observers"`
	CanJoin   bool      `json:"canJoin"`
	StateID   int       `json:"stateId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (t *Table) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	players := t.game.Participants()
	return Summary{
		ID:        t.id,
		Label:     t.label,
		RoleSet:   t.game.RoleSet.Name,
		Phase:     t.game.Turn.Phase(),
		Players:   players,
		Observers: len(t.game.Seats) - players,
		CanJoin:   !t.closed && t.game.CanAcceptJoins(),
		StateID:   t.game.Version,
		CreatedAt: t.createdAt,
	}
}

// idleSince reports when the table last changed and whether anyone is
// still connected to it.
func (t *Table) idleSince() (time.Time, bool, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	connected := false
	for _, c := range t.conns {
		if !c.left {
			connected = true
			break
		}
	}
	return t.updatedAt, connected, t.game.Over()
}

// Close stops delivery to every seat and ends the public feed.
func (t *Table) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	for _, c := range t.conns {
		c.left = true
		c.box.close()
	}
	t.events.Append(EventClosed, map[string]any{"tableId": t.id})
	t.events.Close()
	t.recq.close()
}
