package main

import (
	"slices"

	"coup-table/internal/game"
	"coup-table/internal/game/viewmodel"
)

// bot plays the simplest legal game: income until a coup is affordable,
// never challenges or blocks, reveals and keeps whatever comes first.
type bot struct {
	autoStart bool
	lastState int
}

func (b *bot) decide(v viewmodel.StateView) (game.Command, bool) {
	if v.StateID <= b.lastState {
		return game.Command{}, false
	}
	cmd, ok := choose(v, b.autoStart)
	if ok {
		b.lastState = v.StateID
		cmd.Version = v.StateID
	}
	return cmd, ok
}

func choose(v viewmodel.StateView, autoStart bool) (game.Command, bool) {
	me := v.MySeat
	if me < 0 || me >= len(v.Players) {
		return game.Command{}, false
	}
	self := v.Players[me]
	alive := !self.IsObserver && self.InfluenceCount > 0
	turn := v.Turn
	is := func(p *int) bool { return p != nil && *p == me }

	switch turn.Name {
	case game.PhaseWaitingForPlayers:
		if autoStart && me == 0 && participants(v) >= game.MinPlayers {
			return game.Command{Command: game.CommandStart}, true
		}
	case game.PhaseStartOfTurn:
		if !is(turn.Actor) {
			break
		}
		if self.Cash >= game.CoupCost {
			if target, ok := firstOpponent(v); ok {
				return game.Command{Command: game.CommandPlayAction, Action: game.ActionCoup, Target: &target}, true
			}
		}
		return game.Command{Command: game.CommandPlayAction, Action: game.ActionIncome}, true
	case game.PhaseActionResponse, game.PhaseBlockResponse:
		if alive && !slices.Contains(turn.Responded, me) {
			return game.Command{Command: game.CommandAllow}, true
		}
	case game.PhaseFinalActionResponse:
		if is(turn.Target) {
			return game.Command{Command: game.CommandAllow}, true
		}
	case game.PhaseRevealInfluence:
		if !is(turn.PlayerToReveal) {
			break
		}
		for _, c := range self.Influence {
			if !c.Revealed {
				return game.Command{Command: game.CommandReveal, Role: c.Role}, true
			}
		}
	case game.PhaseExchange:
		if is(turn.Actor) && len(turn.ExchangeOptions) >= self.InfluenceCount {
			return game.Command{Command: game.CommandExchange, Roles: slices.Clone(turn.ExchangeOptions[:self.InfluenceCount])}, true
		}
	case game.PhaseInterrogate:
		if is(turn.Actor) {
			return game.Command{Command: game.CommandInterrogate}, true
		}
	}
	return game.Command{}, false
}

func participants(v viewmodel.StateView) int {
	n := 0
	for _, p := range v.Players {
		if !p.IsObserver {
			n++
		}
	}
	return n
}

func firstOpponent(v viewmodel.StateView) (int, bool) {
	for i, p := range v.Players {
		if i != v.MySeat && !p.IsObserver && p.InfluenceCount > 0 {
			return i, true
		}
	}
	return 0, false
}
