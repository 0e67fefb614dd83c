package game

import (
	"math/rand/v2"
	"reflect"
	"slices"
	"strings"
	"testing"
)

func TestStartDealsTwoCardsAndCash(t *testing.T) {
	e := testEngine()
	g, err := e.NewGame("g1", Options{})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	for _, name := range []string{"ann", "bob", "cat"} {
		g, _, _, err = e.Join(g, PlayerInfo{Name: name})
		if err != nil {
			t.Fatalf("join %s: %v", name, err)
		}
	}
	g, history := mustApply(t, e, g, 1, Command{Command: CommandStart})

	if g.Version != 4 {
		t.Fatalf("expected version 4 after three joins and start, got %d", g.Version)
	}
	for i, p := range g.Seats {
		if p.Cash != StartingCash || p.LiveInfluence != 2 || len(p.Influence) != 2 {
			t.Fatalf("seat %d not dealt in: %+v", i, p)
		}
	}
	if st, ok := g.Turn.(StartOfTurn); !ok || st.Actor != 0 {
		t.Fatalf("expected seat 0 to start, got %#v", g.Turn)
	}
	if g.Deck.Len() != 15-6 {
		t.Fatalf("expected 9 cards left, got %d", g.Deck.Len())
	}
	if len(history) != 1 || history[0].Type != HistoryGameStarted {
		t.Fatalf("unexpected history %+v", history)
	}
	mustReject(t, e, g, 0, Command{Command: CommandStart}, ErrGameStarted)
}

func TestStartNeedsTwoPlayers(t *testing.T) {
	e := testEngine()
	g, _ := e.NewGame("g1", Options{})
	g, _, _, _ = e.Join(g, PlayerInfo{Name: "solo"})
	mustReject(t, e, g, 0, Command{Command: CommandStart}, ErrNotEnoughPlayers)
}

func TestStaleVersionNeverMutates(t *testing.T) {
	e := testEngine()
	g := newTestGame(t, RoleSetOriginal, []seatSpec{
		{cash: 2, roles: []Role{RoleDuke, RoleCaptain}},
		{cash: 2, roles: []Role{RoleContessa, RoleAssassin}},
	})
	g.Version = 5
	before := g.Clone()

	for _, v := range []int{0, 4, 6} {
		next, history, err := e.Apply(g, 0, Command{Command: CommandPlayAction, Action: ActionIncome, Version: v})
		if ViolationCodeOf(err) != CodeStaleVersion {
			t.Fatalf("version %d: expected stale_version, got %v", v, err)
		}
		if next != nil || history != nil {
			t.Fatalf("version %d: rejected command produced output", v)
		}
	}
	if !reflect.DeepEqual(before, g) {
		t.Fatalf("stale commands mutated the game")
	}
}

func TestApplyLeavesInputUntouched(t *testing.T) {
	e := testEngine()
	g := newTestGame(t, RoleSetOriginal, []seatSpec{
		{cash: 7, roles: []Role{RoleDuke, RoleCaptain}},
		{cash: 2, roles: []Role{RoleContessa, RoleAssassin}},
	})
	before := g.Clone()
	mustApply(t, e, g, 0, Command{Command: CommandPlayAction, Action: ActionCoup, Target: intp(1)})
	if !reflect.DeepEqual(before, g) {
		t.Fatalf("apply modified its input")
	}
}

func TestIncomeResolvesImmediately(t *testing.T) {
	e := testEngine()
	g := newTestGame(t, RoleSetOriginal, []seatSpec{
		{cash: 2, roles: []Role{RoleDuke, RoleCaptain}},
		{cash: 2, roles: []Role{RoleContessa, RoleAssassin}},
	})
	g, history := mustApply(t, e, g, 0, Command{Command: CommandPlayAction, Action: ActionIncome})

	if g.Seats[0].Cash != 3 {
		t.Fatalf("expected cash 3, got %d", g.Seats[0].Cash)
	}
	if st, ok := g.Turn.(StartOfTurn); !ok || st.Actor != 1 {
		t.Fatalf("expected seat 1 to act, got %#v", g.Turn)
	}
	if len(history) != 1 || history[0].Message != "{0} drew income" || history[0].Continuation {
		t.Fatalf("unexpected history %+v", history)
	}
}

func TestPlayActionValidation(t *testing.T) {
	e := testEngine()
	g := newTestGame(t, RoleSetOriginal, []seatSpec{
		{cash: 2, roles: []Role{RoleDuke, RoleCaptain}},
		{cash: 2, roles: []Role{RoleContessa, RoleAssassin}},
		{cash: 2, roles: []Role{RoleAmbassador, RoleAssassin}, revealed: []bool{true, true}},
	})

	cases := []struct {
		name string
		seat int
		cmd  Command
		want error
	}{
		{"not your turn", 1, Command{Command: CommandPlayAction, Action: ActionIncome}, ErrNotYourTurn},
		{"eliminated seat", 2, Command{Command: CommandPlayAction, Action: ActionIncome}, ErrNotAlive},
		{"unknown action", 0, Command{Command: CommandPlayAction, Action: "embezzle"}, ErrUnknownAction},
		{"interrogate without inquisitor", 0, Command{Command: CommandPlayAction, Action: ActionInterrogate, Target: intp(1)}, ErrUnknownAction},
		{"coup unaffordable", 0, Command{Command: CommandPlayAction, Action: ActionCoup, Target: intp(1)}, ErrInsufficientFunds},
		{"assassinate unaffordable", 0, Command{Command: CommandPlayAction, Action: ActionAssassinate, Target: intp(1)}, ErrInsufficientFunds},
		{"missing target", 0, Command{Command: CommandPlayAction, Action: ActionSteal}, ErrTargetRequired},
		{"self target", 0, Command{Command: CommandPlayAction, Action: ActionSteal, Target: intp(0)}, ErrInvalidTarget},
		{"dead target", 0, Command{Command: CommandPlayAction, Action: ActionSteal, Target: intp(2)}, ErrInvalidTarget},
		{"out of range target", 0, Command{Command: CommandPlayAction, Action: ActionSteal, Target: intp(9)}, ErrInvalidTarget},
		{"target on untargeted action", 0, Command{Command: CommandPlayAction, Action: ActionTax, Target: intp(1)}, ErrInvalidTarget},
		{"wrong phase", 0, Command{Command: CommandAllow}, ErrWrongPhase},
		{"unknown command", 0, Command{Command: "shrug"}, ErrUnknownCommand},
		{"invalid seat", 7, Command{Command: CommandAllow}, ErrInvalidSeat},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mustReject(t, e, g, tc.seat, tc.cmd, tc.want)
		})
	}
}

func TestCoupMandatoryAtTen(t *testing.T) {
	e := testEngine()
	g := newTestGame(t, RoleSetOriginal, []seatSpec{
		{cash: 10, roles: []Role{RoleDuke, RoleCaptain}},
		{cash: 2, roles: []Role{RoleContessa, RoleAssassin}},
	})
	mustReject(t, e, g, 0, Command{Command: CommandPlayAction, Action: ActionIncome}, ErrCoupRequired)
	mustReject(t, e, g, 0, Command{Command: CommandPlayAction, Action: ActionTax}, ErrCoupRequired)

	g, _ = mustApply(t, e, g, 0, Command{Command: CommandPlayAction, Action: ActionCoup, Target: intp(1)})
	if g.Seats[0].Cash != 3 {
		t.Fatalf("expected coup to cost 7, cash %d", g.Seats[0].Cash)
	}
	st, ok := g.Turn.(RevealInfluence)
	if !ok || st.PlayerToReveal != 1 || st.Reason != ReasonCoup {
		t.Fatalf("expected seat 1 to reveal for coup, got %#v", g.Turn)
	}
}

func TestCoupRevealFlow(t *testing.T) {
	e := testEngine()
	g := newTestGame(t, RoleSetOriginal, []seatSpec{
		{cash: 7, roles: []Role{RoleDuke, RoleCaptain}},
		{cash: 2, roles: []Role{RoleContessa, RoleAssassin}},
	})
	g, _ = mustApply(t, e, g, 0, Command{Command: CommandPlayAction, Action: ActionCoup, Target: intp(1)})

	mustReject(t, e, g, 0, Command{Command: CommandReveal, Role: RoleDuke}, ErrNotYourTurn)
	mustReject(t, e, g, 1, Command{Command: CommandReveal, Role: RoleDuke}, ErrRoleNotHeld)
	mustReject(t, e, g, 1, Command{Command: CommandReveal, Role: "jester"}, ErrUnknownRole)
	mustReject(t, e, g, 1, Command{Command: CommandReveal, Role: RoleInquisitor}, ErrRoleNotInGame)

	g, history := mustApply(t, e, g, 1, Command{Command: CommandReveal, Role: RoleAssassin})
	if g.Seats[1].LiveInfluence != 1 || !g.Seats[1].Influence[1].Revealed {
		t.Fatalf("expected assassin revealed, got %+v", g.Seats[1].Influence)
	}
	if len(history) != 1 || history[0].Message != "{1} revealed assassin" || !history[0].Continuation {
		t.Fatalf("unexpected history %+v", history)
	}
	if st, ok := g.Turn.(StartOfTurn); !ok || st.Actor != 1 {
		t.Fatalf("expected seat 1 to act, got %#v", g.Turn)
	}
}

func TestCoupOnLastInfluenceWinsGame(t *testing.T) {
	e := testEngine()
	g := newTestGame(t, RoleSetOriginal, []seatSpec{
		{cash: 7, roles: []Role{RoleDuke, RoleCaptain}},
		{cash: 2, roles: []Role{RoleContessa, RoleAssassin}, revealed: []bool{true}},
	})
	g, history := mustApply(t, e, g, 0, Command{Command: CommandPlayAction, Action: ActionCoup, Target: intp(1)})

	won, ok := g.Turn.(GameWon)
	if !ok || won.Winner != 0 {
		t.Fatalf("expected seat 0 to win, got %#v", g.Turn)
	}
	want := []HistoryType{HistoryAction, HistoryReveal, HistoryGameWon}
	if got := historyTypes(history); !slices.Equal(got, want) {
		t.Fatalf("expected history %v, got %v", want, got)
	}
	for seat := range g.Seats {
		mustReject(t, e, g, seat, Command{Command: CommandPlayAction, Action: ActionIncome}, ErrGameOver)
	}
}

func TestForeignAidBlockStands(t *testing.T) {
	e := testEngine()
	g := newTestGame(t, RoleSetOriginal, []seatSpec{
		{cash: 2, roles: []Role{RoleDuke, RoleCaptain}},
		{cash: 2, roles: []Role{RoleContessa, RoleAssassin}},
		{cash: 2, roles: []Role{RoleDuke, RoleAmbassador}},
	})
	g, _ = mustApply(t, e, g, 0, Command{Command: CommandPlayAction, Action: ActionForeignAid})
	mustReject(t, e, g, 1, Command{Command: CommandChallenge}, ErrCannotChallenge)
	mustReject(t, e, g, 2, Command{Command: CommandBlock, BlockingRole: RoleContessa}, ErrCannotBlock)

	g, _ = mustApply(t, e, g, 2, Command{Command: CommandBlock, BlockingRole: RoleDuke})
	st, ok := g.Turn.(BlockResponse)
	if !ok || st.Blocker != 2 || st.BlockingRole != RoleDuke || !st.Responded.Has(2) {
		t.Fatalf("expected block response by seat 2, got %#v", g.Turn)
	}
	g, _ = mustApply(t, e, g, 0, Command{Command: CommandAllow})
	mustReject(t, e, g, 0, Command{Command: CommandAllow}, ErrAlreadyResponded)
	g, history := mustApply(t, e, g, 1, Command{Command: CommandAllow})

	if g.Seats[0].Cash != 2 {
		t.Fatalf("blocked foreign aid paid out, cash %d", g.Seats[0].Cash)
	}
	if st, ok := g.Turn.(StartOfTurn); !ok || st.Actor != 1 {
		t.Fatalf("expected seat 1 to act, got %#v", g.Turn)
	}
	if len(history) != 1 || history[0].Type != HistoryBlock {
		t.Fatalf("unexpected history %+v", history)
	}
}

func TestBluffedBlockLetsActionThrough(t *testing.T) {
	e := testEngine()
	g := newTestGame(t, RoleSetOriginal, []seatSpec{
		{cash: 2, roles: []Role{RoleDuke, RoleCaptain}},
		{cash: 2, roles: []Role{RoleContessa, RoleAssassin}},
	})
	g, _ = mustApply(t, e, g, 0, Command{Command: CommandPlayAction, Action: ActionForeignAid})
	g, _ = mustApply(t, e, g, 1, Command{Command: CommandBlock, BlockingRole: RoleDuke})
	mustReject(t, e, g, 1, Command{Command: CommandChallenge}, ErrCannotChallenge)
	g, history := mustApply(t, e, g, 0, Command{Command: CommandChallenge})

	if history[0].Type != HistoryChallengeSuccess {
		t.Fatalf("expected a successful challenge, got %+v", history)
	}
	st, ok := g.Turn.(RevealInfluence)
	if !ok || st.PlayerToReveal != 1 || st.Reason != ReasonSuccessfulChallenge || st.Blocker == nil {
		t.Fatalf("expected blocker to reveal, got %#v", g.Turn)
	}
	g, _ = mustApply(t, e, g, 1, Command{Command: CommandReveal, Role: RoleContessa})
	if g.Seats[0].Cash != 4 {
		t.Fatalf("expected foreign aid to pay out after failed block, cash %d", g.Seats[0].Cash)
	}
	if st, ok := g.Turn.(StartOfTurn); !ok || st.Actor != 1 {
		t.Fatalf("expected seat 1 to act, got %#v", g.Turn)
	}
}

func TestChallengedRealBlockStands(t *testing.T) {
	e := testEngine()
	g := newTestGame(t, RoleSetOriginal, []seatSpec{
		{cash: 3, roles: []Role{RoleAssassin, RoleDuke}},
		{cash: 2, roles: []Role{RoleContessa, RoleCaptain}},
		{cash: 2, roles: []Role{RoleAmbassador, RoleCaptain}},
	})
	g, _ = mustApply(t, e, g, 0, Command{Command: CommandPlayAction, Action: ActionAssassinate, Target: intp(1)})
	g, _ = mustApply(t, e, g, 1, Command{Command: CommandBlock, BlockingRole: RoleContessa})
	g, history := mustApply(t, e, g, 2, Command{Command: CommandChallenge})

	if got := historyTypes(history); !slices.Equal(got, []HistoryType{HistoryChallengeFail, HistorySwap}) {
		t.Fatalf("unexpected challenge history %v", got)
	}
	st, ok := g.Turn.(RevealInfluence)
	if !ok || st.Reason != ReasonIncorrectChallenge || st.PlayerToReveal != 2 || st.Blocker == nil || *st.Blocker != 1 {
		t.Fatalf("expected challenger to reveal, got %#v", g.Turn)
	}
	mustReject(t, e, g, 1, Command{Command: CommandReveal, Role: RoleCaptain}, ErrNotYourTurn)

	g, history = mustApply(t, e, g, 2, Command{Command: CommandReveal, Role: RoleAmbassador})
	if got := historyTypes(history); !slices.Equal(got, []HistoryType{HistoryReveal, HistoryBlock}) {
		t.Fatalf("unexpected reveal history %v", got)
	}
	if g.Seats[1].LiveInfluence != 2 {
		t.Fatalf("blocked assassination cost the target influence, live %d", g.Seats[1].LiveInfluence)
	}
	if g.Seats[2].LiveInfluence != 1 {
		t.Fatalf("challenger should have lost one influence, live %d", g.Seats[2].LiveInfluence)
	}
	if g.Seats[0].Cash != 0 {
		t.Fatalf("assassination cost should stay spent, cash %d", g.Seats[0].Cash)
	}
	if st, ok := g.Turn.(StartOfTurn); !ok || st.Actor != 1 {
		t.Fatalf("expected seat 1 to act, got %#v", g.Turn)
	}
}

func TestBluffedActionFails(t *testing.T) {
	e := testEngine()
	g := newTestGame(t, RoleSetOriginal, []seatSpec{
		{cash: 2, roles: []Role{RoleContessa, RoleCaptain}},
		{cash: 2, roles: []Role{RoleContessa, RoleAssassin}},
	})
	g, _ = mustApply(t, e, g, 0, Command{Command: CommandPlayAction, Action: ActionTax})
	g, _ = mustApply(t, e, g, 1, Command{Command: CommandChallenge})
	g, _ = mustApply(t, e, g, 0, Command{Command: CommandReveal, Role: RoleCaptain})

	if g.Seats[0].Cash != 2 {
		t.Fatalf("bluffed tax paid out, cash %d", g.Seats[0].Cash)
	}
	if st, ok := g.Turn.(StartOfTurn); !ok || st.Actor != 1 {
		t.Fatalf("expected seat 1 to act, got %#v", g.Turn)
	}
}

func TestOnlyTargetMayBlockTargetedAction(t *testing.T) {
	e := testEngine()
	g := newTestGame(t, RoleSetOriginal, []seatSpec{
		{cash: 2, roles: []Role{RoleCaptain, RoleDuke}},
		{cash: 2, roles: []Role{RoleContessa, RoleAssassin}},
		{cash: 2, roles: []Role{RoleCaptain, RoleAmbassador}},
	})
	g, _ = mustApply(t, e, g, 0, Command{Command: CommandPlayAction, Action: ActionSteal, Target: intp(1)})
	mustReject(t, e, g, 2, Command{Command: CommandBlock, BlockingRole: RoleCaptain}, ErrCannotBlock)
	mustReject(t, e, g, 1, Command{Command: CommandBlock, BlockingRole: RoleContessa}, ErrCannotBlock)
	mustReject(t, e, g, 1, Command{Command: CommandBlock, BlockingRole: RoleInquisitor}, ErrRoleNotInGame)

	g, _ = mustApply(t, e, g, 2, Command{Command: CommandAllow})
	mustReject(t, e, g, 2, Command{Command: CommandChallenge}, ErrAlreadyResponded)
	g, _ = mustApply(t, e, g, 1, Command{Command: CommandAllow})

	if g.Seats[0].Cash != 4 || g.Seats[1].Cash != 0 {
		t.Fatalf("expected steal of 2, got %d/%d", g.Seats[0].Cash, g.Seats[1].Cash)
	}
}

func TestStealTakesAtMostTargetCash(t *testing.T) {
	e := testEngine()
	g := newTestGame(t, RoleSetOriginal, []seatSpec{
		{cash: 2, roles: []Role{RoleCaptain, RoleDuke}},
		{cash: 1, roles: []Role{RoleContessa, RoleAssassin}},
	})
	g, _ = mustApply(t, e, g, 0, Command{Command: CommandPlayAction, Action: ActionSteal, Target: intp(1)})
	g, history := mustApply(t, e, g, 1, Command{Command: CommandAllow})
	if g.Seats[0].Cash != 3 || g.Seats[1].Cash != 0 {
		t.Fatalf("expected steal of 1, got %d/%d", g.Seats[0].Cash, g.Seats[1].Cash)
	}
	if history[0].Message != "{0} stole 1 from {1}" || !history[0].Continuation {
		t.Fatalf("unexpected history %+v", history)
	}
}

func TestExchangeSwapsHand(t *testing.T) {
	e := testEngine()
	g := newTestGame(t, RoleSetOriginal, []seatSpec{
		{cash: 2, roles: []Role{RoleDuke, RoleCaptain}},
		{cash: 2, roles: []Role{RoleContessa, RoleAssassin}},
	}, RoleAmbassador, RoleContessa)
	g, _ = mustApply(t, e, g, 0, Command{Command: CommandPlayAction, Action: ActionExchange})
	g, _ = mustApply(t, e, g, 1, Command{Command: CommandAllow})

	st, ok := g.Turn.(Exchange)
	if !ok || st.Actor != 0 || st.Drawn != 2 {
		t.Fatalf("expected exchange phase, got %#v", g.Turn)
	}
	want := []Role{RoleDuke, RoleCaptain, RoleAmbassador, RoleContessa}
	if !slices.Equal(st.Options, want) {
		t.Fatalf("expected options %v, got %v", want, st.Options)
	}

	mustReject(t, e, g, 1, Command{Command: CommandExchange, Roles: []Role{RoleContessa, RoleAssassin}}, ErrNotYourTurn)
	mustReject(t, e, g, 0, Command{Command: CommandExchange, Roles: []Role{RoleDuke}}, ErrInvalidExchange)
	mustReject(t, e, g, 0, Command{Command: CommandExchange, Roles: []Role{RoleAssassin, RoleDuke}}, ErrInvalidExchange)
	mustReject(t, e, g, 0, Command{Command: CommandExchange, Roles: []Role{RoleDuke, RoleDuke}}, ErrInvalidExchange)

	g, _ = mustApply(t, e, g, 0, Command{Command: CommandExchange, Roles: []Role{RoleContessa, RoleAmbassador}})
	if got := g.Seats[0].HiddenRoles(); !slices.Equal(got, []Role{RoleContessa, RoleAmbassador}) {
		t.Fatalf("expected new hand, got %v", got)
	}
	if g.Deck.Len() != 11 {
		t.Fatalf("expected deck back to 11, got %d", g.Deck.Len())
	}
	if st, ok := g.Turn.(StartOfTurn); !ok || st.Actor != 1 {
		t.Fatalf("expected seat 1 to act, got %#v", g.Turn)
	}
}

func TestInterrogateForcesExchange(t *testing.T) {
	e := testEngine()
	g := newTestGame(t, RoleSetInquisitors, []seatSpec{
		{cash: 2, roles: []Role{RoleInquisitor, RoleDuke}},
		{cash: 2, roles: []Role{RoleContessa, RoleContessa}},
	})
	g, _ = mustApply(t, e, g, 0, Command{Command: CommandPlayAction, Action: ActionInterrogate, Target: intp(1)})
	g, _ = mustApply(t, e, g, 1, Command{Command: CommandAllow})

	st, ok := g.Turn.(Interrogate)
	if !ok || st.Target != 1 || st.Confession != RoleContessa {
		t.Fatalf("expected interrogate phase, got %#v", g.Turn)
	}
	mustReject(t, e, g, 1, Command{Command: CommandInterrogate}, ErrNotYourTurn)

	g, history := mustApply(t, e, g, 0, Command{Command: CommandInterrogate, ForceExchange: true})
	if g.Seats[1].LiveInfluence != 2 {
		t.Fatalf("forced exchange changed influence count")
	}
	if history[0].Type != HistoryInterrogate {
		t.Fatalf("unexpected history %+v", history)
	}
	if st, ok := g.Turn.(StartOfTurn); !ok || st.Actor != 1 {
		t.Fatalf("expected seat 1 to act, got %#v", g.Turn)
	}
}

func TestInterrogateLetKeepLeavesHand(t *testing.T) {
	e := testEngine()
	g := newTestGame(t, RoleSetInquisitors, []seatSpec{
		{cash: 2, roles: []Role{RoleInquisitor, RoleDuke}},
		{cash: 2, roles: []Role{RoleContessa, RoleCaptain}},
	})
	g, _ = mustApply(t, e, g, 0, Command{Command: CommandPlayAction, Action: ActionInterrogate, Target: intp(1)})
	g, _ = mustApply(t, e, g, 1, Command{Command: CommandAllow})
	if _, ok := g.Turn.(Interrogate); !ok {
		t.Fatalf("expected interrogate phase, got %#v", g.Turn)
	}
	hand := slices.Clone(g.Seats[1].Influence)
	deckLen := g.Deck.Len()
	deckTop := g.Deck.Peek(deckLen)

	g, history := mustApply(t, e, g, 0, Command{Command: CommandInterrogate, ForceExchange: false})
	if !slices.Equal(g.Seats[1].Influence, hand) {
		t.Fatalf("let keep changed the target hand: %+v -> %+v", hand, g.Seats[1].Influence)
	}
	if g.Deck.Len() != deckLen || !slices.Equal(g.Deck.Peek(deckLen), deckTop) {
		t.Fatal("let keep touched the deck")
	}
	if len(history) != 1 || history[0].Type != HistoryInterrogate || !strings.Contains(history[0].Message, "keep") {
		t.Fatalf("unexpected history %+v", history)
	}
	if st, ok := g.Turn.(StartOfTurn); !ok || st.Actor != 1 {
		t.Fatalf("expected seat 1 to act, got %#v", g.Turn)
	}
}

func TestInquisitorExchangeDrawsOne(t *testing.T) {
	e := testEngine()
	g := newTestGame(t, RoleSetInquisitors, []seatSpec{
		{cash: 2, roles: []Role{RoleInquisitor, RoleDuke}},
		{cash: 2, roles: []Role{RoleContessa, RoleCaptain}},
	}, RoleAssassin)
	g, _ = mustApply(t, e, g, 0, Command{Command: CommandPlayAction, Action: ActionExchange})
	g, _ = mustApply(t, e, g, 1, Command{Command: CommandAllow})

	st, ok := g.Turn.(Exchange)
	if !ok || !slices.Equal(st.Options, []Role{RoleInquisitor, RoleDuke, RoleAssassin}) {
		t.Fatalf("expected three options, got %#v", g.Turn)
	}
}

// Random legal play must preserve every invariant and end with one winner.
func TestRandomMatchesKeepInvariants(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		e := NewEngine(NewSeededShuffler(seed))
		set := RoleSetOriginal
		if seed%2 == 0 {
			set = RoleSetInquisitors
		}
		g, err := e.NewGame("rand", Options{RoleSet: set})
		if err != nil {
			t.Fatalf("new game: %v", err)
		}
		players := 2 + int(seed%5)
		for i := 0; i < players; i++ {
			g, _, _, err = e.Join(g, PlayerInfo{Name: "p"})
			if err != nil {
				t.Fatalf("join: %v", err)
			}
		}
		g, _ = mustApply(t, e, g, 0, Command{Command: CommandStart})

		pick := newPicker(seed)
		for step := 0; step < 5000 && !g.Over(); step++ {
			cands := candidates(g)
			pick.shuffle(cands)
			applied := false
			for _, c := range cands {
				c.cmd.Version = g.Version
				next, _, err := e.Apply(g, c.seat, c.cmd)
				if err != nil {
					continue
				}
				if next.Version != g.Version+1 {
					t.Fatalf("seed %d: version jumped %d -> %d", seed, g.Version, next.Version)
				}
				checkInvariants(t, next)
				g = next
				applied = true
				break
			}
			if !applied {
				t.Fatalf("seed %d: no legal command in phase %s", seed, g.Turn.Phase())
			}
		}
		if !g.Over() {
			t.Fatalf("seed %d: match did not finish", seed)
		}
	}
}

type candidate struct {
	seat int
	cmd  Command
}

func candidates(g *Game) []candidate {
	out := []candidate{}
	actions := []ActionName{ActionIncome, ActionForeignAid, ActionCoup, ActionTax, ActionAssassinate, ActionSteal, ActionExchange, ActionInterrogate}
	for seat := range g.Seats {
		for _, a := range actions {
			out = append(out, candidate{seat, Command{Command: CommandPlayAction, Action: a}})
			for target := range g.Seats {
				out = append(out, candidate{seat, Command{Command: CommandPlayAction, Action: a, Target: intp(target)}})
			}
		}
		out = append(out,
			candidate{seat, Command{Command: CommandChallenge}},
			candidate{seat, Command{Command: CommandAllow}},
			candidate{seat, Command{Command: CommandInterrogate}},
			candidate{seat, Command{Command: CommandInterrogate, ForceExchange: true}},
		)
		for _, r := range g.RoleSet.Roles() {
			out = append(out,
				candidate{seat, Command{Command: CommandBlock, BlockingRole: r}},
				candidate{seat, Command{Command: CommandReveal, Role: r}},
			)
		}
		if st, ok := g.Turn.(Exchange); ok && st.Actor == seat {
			n := g.Seats[seat].LiveInfluence
			out = append(out,
				candidate{seat, Command{Command: CommandExchange, Roles: slices.Clone(st.Options[:n])}},
				candidate{seat, Command{Command: CommandExchange, Roles: slices.Clone(st.Options[len(st.Options)-n:])}},
			)
		}
	}
	return out
}

type picker struct {
	r *rand.Rand
}

func newPicker(seed uint64) *picker {
	return &picker{r: rand.New(rand.NewPCG(seed, 7))}
}

func (p *picker) shuffle(c []candidate) {
	p.r.Shuffle(len(c), func(i, j int) { c[i], c[j] = c[j], c[i] })
}
