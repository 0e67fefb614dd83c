package game

import "slices"

// CanAcceptJoins reports whether Join would currently add a seat.
func (g *Game) CanAcceptJoins() bool {
	if !g.Started() {
		return g.Participants() < g.Options.maxPlayers()
	}
	return g.Options.AllowObservers
}

// Join seats a player. Before the start they become a participant; after it
// they can only watch, and only when the match allows observers.
func (e *Engine) Join(g *Game, info PlayerInfo) (*Game, int, []HistoryEvent, error) {
	observer := g.Started()
	switch {
	case !observer && g.Participants() >= g.Options.maxPlayers():
		return nil, -1, nil, ErrGameFull
	case observer && !g.Options.AllowObservers:
		return nil, -1, nil, ErrGameStarted
	}

	tx := &txn{sh: e.Shuffler, g: g.Clone()}
	p := PlayerState{
		Name:       info.Name,
		Identity:   info.Identity,
		IsBot:      info.IsBot,
		IsObserver: observer,
		Connected:  true,
	}
	if !observer {
		p.Cash = StartingCash
	}
	tx.g.Seats = append(tx.g.Seats, p)
	seat := len(tx.g.Seats) - 1
	if observer {
		tx.narrate(HistoryPlayerJoined, false, "%s is now observing", seatRef(seat))
	} else {
		tx.narrate(HistoryPlayerJoined, false, "%s joined the game", seatRef(seat))
	}
	tx.g.Version++
	return tx.g, seat, tx.history, nil
}

// Leave removes seat from the match. Seats that have not started playing
// are dropped and later seats shift down by one. A participant leaving a
// running match forfeits: every hidden card is revealed and any response
// still owed by that seat is settled so play continues.
func (e *Engine) Leave(g *Game, seat int, isRejoin bool) (*Game, []HistoryEvent, error) {
	if !g.seatValid(seat) {
		return nil, nil, ErrInvalidSeat
	}
	tx := &txn{sh: e.Shuffler, g: g.Clone()}
	p := &tx.g.Seats[seat]
	verb := "left the game"
	if isRejoin {
		verb = "rejoined from another connection"
	}

	switch {
	case !g.Started() || p.IsObserver:
		// The seat index disappears with the seat, so the name is written out.
		tx.narrate(HistoryPlayerLeft, false, "%s %s", p.Name, verb)
		tx.g.Seats = slices.Delete(tx.g.Seats, seat, seat+1)
	case !p.Connected:
		return nil, nil, ErrAlreadyLeft
	case g.Over() || !p.Alive():
		p.Connected = false
		tx.narrate(HistoryPlayerLeft, false, "%s %s", seatRef(seat), verb)
	default:
		p.Connected = false
		tx.narrate(HistoryPlayerLeft, false, "%s %s", seatRef(seat), verb)
		for i := range p.Influence {
			if !p.Influence[i].Revealed {
				tx.revealCard(seat, i)
			}
		}
		if err := tx.settleLeaver(seat); err != nil {
			return nil, nil, err
		}
	}
	tx.g.Version++
	return tx.g, tx.history, nil
}

// settleLeaver releases the turn from anything it was waiting on seat for.
// seat has already been eliminated.
func (t *txn) settleLeaver(seat int) error {
	if t.checkWin() {
		return nil
	}
	switch st := t.g.Turn.(type) {
	case StartOfTurn:
		if st.Actor == seat {
			t.endTurn()
		}
	case ActionResponse:
		if st.Actor == seat {
			t.endTurn()
		} else if t.quorum(st.Responded) {
			return t.resolveAction(st.Actor, st.Action, st.Target, true)
		}
	case FinalActionResponse:
		if st.Actor == seat || st.Target == seat {
			t.endTurn()
		}
	case BlockResponse:
		switch {
		case st.Actor == seat:
			t.endTurn()
		case st.Blocker == seat:
			// An abandoned block no longer stops the action.
			return t.resolveAction(st.Actor, st.Action, st.Target, true)
		case t.quorum(st.Responded):
			t.blockStands(st.Actor, st.Blocker)
		}
	case RevealInfluence:
		if st.PlayerToReveal == seat {
			return t.afterReveal(st)
		}
	case Exchange:
		if st.Actor == seat {
			t.endTurn()
		}
	case Interrogate:
		if st.Actor == seat || st.Target == seat {
			t.endTurn()
		}
	}
	return nil
}
