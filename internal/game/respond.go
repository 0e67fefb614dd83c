package game

import (
	"fmt"
	"slices"
)

func (t *txn) start() error {
	if t.g.Started() {
		return ErrGameStarted
	}
	if t.g.Participants() < MinPlayers {
		return ErrNotEnoughPlayers
	}
	first := -1
	for i := range t.g.Seats {
		p := &t.g.Seats[i]
		if p.IsObserver {
			continue
		}
		p.Cash = StartingCash
		p.Influence = make([]InfluenceCard, 0, InfluencePerPlayer)
		for k := 0; k < InfluencePerPlayer; k++ {
			r, err := t.g.Deck.Draw()
			if err != nil {
				return err
			}
			p.Influence = append(p.Influence, InfluenceCard{Role: r})
		}
		p.LiveInfluence = InfluencePerPlayer
		if first < 0 {
			first = i
		}
	}
	t.narrate(HistoryGameStarted, false, "the game started")
	t.g.Turn = StartOfTurn{Actor: first}
	return nil
}

func (t *txn) playAction(seat int, cmd Command) error {
	st, ok := t.g.Turn.(StartOfTurn)
	if !ok {
		return ErrWrongPhase
	}
	if st.Actor != seat {
		return ErrNotYourTurn
	}
	spec, ok := t.g.RoleSet.Action(cmd.Action)
	if !ok {
		return violation(CodeUnknownAction, string(cmd.Action))
	}
	p := &t.g.Seats[seat]
	if p.Cash < spec.Cost {
		return violation(CodeInsufficientFunds, fmt.Sprintf("%s costs %d", spec.Name, spec.Cost))
	}
	if p.Cash >= MandatoryCoupCash && spec.Name != ActionCoup {
		return ErrCoupRequired
	}
	var target *int
	if spec.Targeted {
		if cmd.Target == nil {
			return ErrTargetRequired
		}
		tg := *cmd.Target
		if tg == seat || !t.alive(tg) {
			return violation(CodeInvalidTarget, fmt.Sprintf("seat %d", tg))
		}
		target = &tg
	} else if cmd.Target != nil {
		return violation(CodeInvalidTarget, "action takes no target")
	}

	p.Cash -= spec.Cost
	if !spec.Claimable() && !spec.Blockable() {
		return t.resolveAction(seat, spec.Name, target, false)
	}
	t.narrate(HistoryAction, false, "%s", attemptMessage(seat, spec.Name, target))
	t.g.Turn = ActionResponse{
		Actor:     seat,
		Action:    spec.Name,
		Target:    target,
		Responded: SeatSet(0).Add(seat),
	}
	return nil
}

func (t *txn) challenge(seat int) error {
	switch st := t.g.Turn.(type) {
	case ActionResponse:
		if seat == st.Actor {
			return violation(CodeCannotChallenge, "own action")
		}
		if st.Responded.Has(seat) {
			return ErrAlreadyResponded
		}
		spec, _ := t.g.RoleSet.Action(st.Action)
		if !spec.Claimable() {
			return violation(CodeCannotChallenge, string(st.Action)+" claims no role")
		}
		return t.resolveChallenge(seat, st.Actor, spec.Role, RevealInfluence{
			Actor:  st.Actor,
			Action: st.Action,
			Target: st.Target,
		})
	case BlockResponse:
		if seat == st.Blocker {
			return violation(CodeCannotChallenge, "own block")
		}
		if st.Responded.Has(seat) {
			return ErrAlreadyResponded
		}
		blocker := st.Blocker
		return t.resolveChallenge(seat, st.Blocker, st.BlockingRole, RevealInfluence{
			Actor:        st.Actor,
			Action:       st.Action,
			Target:       st.Target,
			Blocker:      &blocker,
			BlockingRole: st.BlockingRole,
		})
	default:
		return ErrWrongPhase
	}
}

// resolveChallenge settles a challenge against claimed. An incorrect
// challenge swaps the proven card back into the deck before the challenger
// pays, so the replacement stays hidden.
func (t *txn) resolveChallenge(challenger, challenged int, claimed Role, rev RevealInfluence) error {
	p := &t.g.Seats[challenged]
	idx := p.hiddenIndex(claimed)
	rev.Continuation = true
	if idx < 0 {
		t.narrate(HistoryChallengeSuccess, false, "%s successfully challenged %s", seatRef(challenger), seatRef(challenged))
		rev.Reason = ReasonSuccessfulChallenge
		return t.requireReveal(challenged, rev)
	}

	t.narrate(HistoryChallengeFail, false, "%s incorrectly challenged %s", seatRef(challenger), seatRef(challenged))
	drawn, err := t.g.Deck.Swap(t.sh, claimed)
	if err != nil {
		return err
	}
	p.Influence[idx].Role = drawn
	t.narrate(HistorySwap, true, "%s exchanged %s for a new role", seatRef(challenged), claimed)
	rev.Reason = ReasonIncorrectChallenge
	return t.requireReveal(challenger, rev)
}

func (t *txn) block(seat int, role Role) error {
	var (
		actor  int
		action ActionName
		target *int
	)
	switch st := t.g.Turn.(type) {
	case ActionResponse:
		if seat == st.Actor {
			return violation(CodeCannotBlock, "own action")
		}
		if st.Responded.Has(seat) {
			return ErrAlreadyResponded
		}
		actor, action, target = st.Actor, st.Action, st.Target
	case FinalActionResponse:
		if seat != st.Target {
			return violation(CodeCannotBlock, "only the target may block")
		}
		tg := st.Target
		actor, action, target = st.Actor, st.Action, &tg
	default:
		return ErrWrongPhase
	}

	spec, _ := t.g.RoleSet.Action(action)
	if !spec.Blockable() {
		return violation(CodeNotBlockable, string(action))
	}
	if target != nil && *target != seat {
		return violation(CodeCannotBlock, "only the target may block")
	}
	if err := t.g.RoleSet.checkRole(role); err != nil {
		return err
	}
	if !spec.CanBlockWith(role) {
		return violation(CodeCannotBlock, fmt.Sprintf("%s does not block %s", role, action))
	}

	t.narrate(HistoryBlock, false, "%s attempted to block with %s", seatRef(seat), role)
	t.g.Turn = BlockResponse{
		Actor:        actor,
		Action:       action,
		Target:       target,
		Blocker:      seat,
		BlockingRole: role,
		Responded:    SeatSet(0).Add(seat),
	}
	return nil
}

func (t *txn) allow(seat int) error {
	switch st := t.g.Turn.(type) {
	case ActionResponse:
		if st.Responded.Has(seat) {
			return ErrAlreadyResponded
		}
		st.Responded = st.Responded.Add(seat)
		t.g.Turn = st
		if t.quorum(st.Responded) {
			return t.resolveAction(st.Actor, st.Action, st.Target, true)
		}
		return nil
	case BlockResponse:
		if st.Responded.Has(seat) {
			return ErrAlreadyResponded
		}
		st.Responded = st.Responded.Add(seat)
		t.g.Turn = st
		if t.quorum(st.Responded) {
			t.blockStands(st.Actor, st.Blocker)
		}
		return nil
	case FinalActionResponse:
		if seat != st.Target {
			return violation(CodeNotYourTurn, "only the target may respond")
		}
		tg := st.Target
		return t.resolveAction(st.Actor, st.Action, &tg, true)
	default:
		return ErrWrongPhase
	}
}

func (t *txn) blockStands(actor, blocker int) {
	t.narrate(HistoryBlock, true, "%s blocked %s", seatRef(blocker), seatRef(actor))
	t.endTurn()
}

func (t *txn) reveal(seat int, role Role) error {
	st, ok := t.g.Turn.(RevealInfluence)
	if !ok {
		return ErrWrongPhase
	}
	if seat != st.PlayerToReveal {
		return ErrNotYourTurn
	}
	if err := t.g.RoleSet.checkRole(role); err != nil {
		return err
	}
	idx := t.g.Seats[seat].hiddenIndex(role)
	if idx < 0 {
		return violation(CodeRoleNotHeld, string(role))
	}
	t.revealCard(seat, idx)
	return t.afterReveal(st)
}

func (t *txn) exchange(seat int, roles []Role) error {
	st, ok := t.g.Turn.(Exchange)
	if !ok {
		return ErrWrongPhase
	}
	if seat != st.Actor {
		return ErrNotYourTurn
	}
	p := &t.g.Seats[seat]
	if len(roles) != p.LiveInfluence {
		return violation(CodeInvalidExchange, fmt.Sprintf("choose %d roles", p.LiveInfluence))
	}
	rest := slices.Clone(st.Options)
	for _, r := range roles {
		if err := t.g.RoleSet.checkRole(r); err != nil {
			return err
		}
		i := slices.Index(rest, r)
		if i < 0 {
			return violation(CodeInvalidExchange, string(r)+" not offered")
		}
		rest = slices.Delete(rest, i, i+1)
	}

	for k := 0; k < st.Drawn; k++ {
		if _, err := t.g.Deck.Draw(); err != nil {
			return err
		}
	}
	next := 0
	for i := range p.Influence {
		if !p.Influence[i].Revealed {
			p.Influence[i].Role = roles[next]
			next++
		}
	}
	t.g.Deck.Return(t.sh, rest...)
	t.narrate(HistoryExchange, st.Continuation, "%s exchanged roles", seatRef(seat))
	t.endTurn()
	return nil
}

func (t *txn) interrogate(seat int, forceExchange bool) error {
	st, ok := t.g.Turn.(Interrogate)
	if !ok {
		return ErrWrongPhase
	}
	if seat != st.Actor {
		return ErrNotYourTurn
	}
	if !forceExchange {
		t.narrate(HistoryInterrogate, st.Continuation, "%s let %s keep their role", seatRef(seat), seatRef(st.Target))
		t.endTurn()
		return nil
	}
	p := &t.g.Seats[st.Target]
	idx := p.hiddenIndex(st.Confession)
	if idx >= 0 {
		drawn, err := t.g.Deck.Swap(t.sh, st.Confession)
		if err != nil {
			return err
		}
		p.Influence[idx].Role = drawn
	}
	t.narrate(HistoryInterrogate, st.Continuation, "%s forced %s to exchange a role", seatRef(seat), seatRef(st.Target))
	t.endTurn()
	return nil
}
