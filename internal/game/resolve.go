package game

// resolveAction applies an action that survived every response window.
// continuation is false only when the action resolved straight from
// play-action and no earlier entry was written for it.
func (t *txn) resolveAction(actor int, action ActionName, target *int, continuation bool) error {
	spec, _ := t.g.RoleSet.Action(action)
	if !t.alive(actor) || (spec.Targeted && !t.alive(*target)) {
		t.endTurn()
		return nil
	}
	p := &t.g.Seats[actor]

	switch action {
	case ActionIncome:
		p.Cash += spec.Gain
		t.narrate(HistoryAction, continuation, "%s drew income", seatRef(actor))
	case ActionForeignAid:
		p.Cash += spec.Gain
		t.narrate(HistoryAction, continuation, "%s drew foreign aid", seatRef(actor))
	case ActionTax:
		p.Cash += spec.Gain
		t.narrate(HistoryAction, continuation, "%s drew tax", seatRef(actor))
	case ActionSteal:
		victim := &t.g.Seats[*target]
		amount := min(StealAmount, victim.Cash)
		victim.Cash -= amount
		p.Cash += amount
		t.narrate(HistoryAction, continuation, "%s stole %d from %s", seatRef(actor), amount, seatRef(*target))
	case ActionCoup, ActionAssassinate:
		reason := ReasonCoup
		verb := "staged a coup on"
		if action == ActionAssassinate {
			reason = ReasonAssassinate
			verb = "assassinated"
		}
		t.narrate(HistoryAction, continuation, "%s %s %s", seatRef(actor), verb, seatRef(*target))
		return t.requireReveal(*target, RevealInfluence{
			Actor:        actor,
			Action:       action,
			Target:       target,
			Reason:       reason,
			Continuation: true,
		})
	case ActionExchange:
		drawn := t.g.Deck.Peek(t.g.RoleSet.exchangeDraw())
		t.g.Turn = Exchange{
			Actor:        actor,
			Options:      append(p.HiddenRoles(), drawn...),
			Drawn:        len(drawn),
			Continuation: continuation,
		}
		return nil
	case ActionInterrogate:
		hidden := t.g.Seats[*target].HiddenRoles()
		t.sh.Shuffle(len(hidden), func(i, j int) {
			hidden[i], hidden[j] = hidden[j], hidden[i]
		})
		t.g.Turn = Interrogate{
			Actor:        actor,
			Target:       *target,
			Confession:   hidden[0],
			Continuation: continuation,
		}
		return nil
	}
	t.endTurn()
	return nil
}

// afterReveal resumes whatever the reveal interrupted.
func (t *txn) afterReveal(rev RevealInfluence) error {
	switch rev.Reason {
	case ReasonIncorrectChallenge:
		if rev.Blocker != nil {
			t.blockStands(rev.Actor, *rev.Blocker)
			return nil
		}
		return t.continueProvenClaim(rev)
	case ReasonSuccessfulChallenge:
		if rev.Blocker != nil {
			// The block was a bluff, so the underlying action goes ahead.
			return t.resolveAction(rev.Actor, rev.Action, rev.Target, true)
		}
		t.endTurn()
		return nil
	default:
		t.endTurn()
		return nil
	}
}

// continueProvenClaim picks up an action whose claim survived a challenge.
// A living target still gets one chance to block it.
func (t *txn) continueProvenClaim(rev RevealInfluence) error {
	spec, _ := t.g.RoleSet.Action(rev.Action)
	if spec.Blockable() && spec.Targeted && t.alive(*rev.Target) && t.alive(rev.Actor) {
		t.g.Turn = FinalActionResponse{
			Actor:  rev.Actor,
			Action: rev.Action,
			Target: *rev.Target,
		}
		return nil
	}
	return t.resolveAction(rev.Actor, rev.Action, rev.Target, true)
}
