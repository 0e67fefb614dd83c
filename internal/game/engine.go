package game

import "fmt"

// Engine applies commands to games. It holds no match state of its own; the
// shuffler is the only source of hidden randomness.
type Engine struct {
	Shuffler Shuffler
}

func NewEngine(sh Shuffler) *Engine {
	if sh == nil {
		sh = NewRandomShuffler()
	}
	return &Engine{Shuffler: sh}
}

func (e *Engine) NewGame(id string, opts Options) (*Game, error) {
	return NewGame(id, opts, e.Shuffler)
}

// Apply validates cmd from seat against g and, if legal, returns the
// successor game plus the narration it produced. g itself is never modified.
func (e *Engine) Apply(g *Game, seat int, cmd Command) (*Game, []HistoryEvent, error) {
	if cmd.Version != g.Version {
		return nil, nil, violation(CodeStaleVersion, fmt.Sprintf("got %d, current %d", cmd.Version, g.Version))
	}
	if !g.seatValid(seat) {
		return nil, nil, ErrInvalidSeat
	}
	if g.Seats[seat].IsObserver {
		return nil, nil, ErrObserver
	}
	if g.Over() {
		return nil, nil, ErrGameOver
	}
	if cmd.Command.requiresLife() && !g.Seats[seat].Alive() {
		return nil, nil, ErrNotAlive
	}

	tx := &txn{sh: e.Shuffler, g: g.Clone()}
	var err error
	switch cmd.Command {
	case CommandStart:
		err = tx.start()
	case CommandPlayAction:
		err = tx.playAction(seat, cmd)
	case CommandChallenge:
		err = tx.challenge(seat)
	case CommandBlock:
		err = tx.block(seat, cmd.BlockingRole)
	case CommandAllow:
		err = tx.allow(seat)
	case CommandReveal:
		err = tx.reveal(seat, cmd.Role)
	case CommandExchange:
		err = tx.exchange(seat, cmd.Roles)
	case CommandInterrogate:
		err = tx.interrogate(seat, cmd.ForceExchange)
	default:
		err = violation(CodeUnknownCommand, string(cmd.Command))
	}
	if err != nil {
		return nil, nil, err
	}
	tx.g.Version++
	return tx.g, tx.history, nil
}

// txn is one in-flight command over a private clone.
type txn struct {
	sh      Shuffler
	g       *Game
	history []HistoryEvent
}

func (t *txn) narrate(typ HistoryType, continuation bool, format string, args ...any) {
	t.history = append(t.history, HistoryEvent{
		Type:         typ,
		Message:      fmt.Sprintf(format, args...),
		Continuation: continuation,
	})
}

func (t *txn) alive(seat int) bool {
	return t.g.seatValid(seat) && t.g.Seats[seat].Alive()
}

// quorum reports whether every living seat is in responded.
func (t *txn) quorum(responded SeatSet) bool {
	for _, seat := range t.g.AliveSeats() {
		if !responded.Has(seat) {
			return false
		}
	}
	return true
}

func (t *txn) revealCard(seat, idx int) {
	p := &t.g.Seats[seat]
	p.Influence[idx].Revealed = true
	p.LiveInfluence--
	t.narrate(HistoryReveal, true, "%s revealed %s", seatRef(seat), p.Influence[idx].Role)
}

// requireReveal makes seat give up one influence for rev. A seat holding a
// single hidden card reveals it at once; no choice is left to make.
func (t *txn) requireReveal(seat int, rev RevealInfluence) error {
	p := &t.g.Seats[seat]
	switch {
	case p.LiveInfluence <= 0:
		return t.afterReveal(rev)
	case p.LiveInfluence == 1:
		for i, c := range p.Influence {
			if !c.Revealed {
				t.revealCard(seat, i)
				break
			}
		}
		return t.afterReveal(rev)
	default:
		rev.PlayerToReveal = seat
		t.g.Turn = rev
		return nil
	}
}

// endTurn passes play to the next living seat after the current actor, or
// ends the match when one seat is left.
func (t *txn) endTurn() {
	if t.checkWin() {
		return
	}
	n := len(t.g.Seats)
	from := ActorOf(t.g.Turn)
	if from < 0 {
		from = n - 1
	}
	for step := 1; step <= n; step++ {
		next := (from + step) % n
		if t.g.Seats[next].Alive() {
			t.g.Turn = StartOfTurn{Actor: next}
			return
		}
	}
}

func (t *txn) checkWin() bool {
	alive := t.g.AliveSeats()
	if len(alive) > 1 {
		return false
	}
	winner := -1
	if len(alive) == 1 {
		winner = alive[0]
		t.narrate(HistoryGameWon, false, "%s won the game", seatRef(winner))
	}
	t.g.Turn = GameWon{Winner: winner}
	return true
}
