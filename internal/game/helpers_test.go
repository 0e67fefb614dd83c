package game

import (
	"errors"
	"slices"
	"testing"
)

type seatSpec struct {
	cash  int
	roles []Role
	// revealed marks roles[i] as already revealed.
	revealed []bool
}

// newTestGame builds a started match with known hands. deckTop is placed on
// top of the deck and the remaining cards follow in role-set order, so the
// card total always matches a real match.
func newTestGame(t *testing.T, roleSet string, seats []seatSpec, deckTop ...Role) *Game {
	t.Helper()
	rs, err := RoleSetByName(roleSet)
	if err != nil {
		t.Fatalf("role set: %v", err)
	}
	pool := []Role{}
	for _, r := range rs.Roles() {
		for i := 0; i < CopiesPerRole; i++ {
			pool = append(pool, r)
		}
	}
	take := func(r Role) {
		i := slices.Index(pool, r)
		if i < 0 {
			t.Fatalf("no %s left for test setup", r)
		}
		pool = slices.Delete(pool, i, i+1)
	}

	g := &Game{ID: "test", Options: Options{RoleSet: rs.Name, MaxPlayers: MaxPlayers}, RoleSet: rs}
	for i, s := range seats {
		p := PlayerState{Name: string(rune('a' + i)), Cash: s.cash, Connected: true}
		for k, r := range s.roles {
			take(r)
			revealed := k < len(s.revealed) && s.revealed[k]
			p.Influence = append(p.Influence, InfluenceCard{Role: r, Revealed: revealed})
			if !revealed {
				p.LiveInfluence++
			}
		}
		g.Seats = append(g.Seats, p)
	}
	for _, r := range deckTop {
		take(r)
	}
	g.Deck = NewDeckFrom(append(slices.Clone(deckTop), pool...)...)
	g.Turn = StartOfTurn{Actor: 0}
	return g
}

func testEngine() *Engine {
	return NewEngine(NewSeededShuffler(42))
}

func intp(v int) *int {
	return &v
}

// mustApply applies cmd at the current version and checks the state
// invariants on the result.
func mustApply(t *testing.T, e *Engine, g *Game, seat int, cmd Command) (*Game, []HistoryEvent) {
	t.Helper()
	cmd.Version = g.Version
	next, history, err := e.Apply(g, seat, cmd)
	if err != nil {
		t.Fatalf("seat %d %s: %v", seat, cmd.Command, err)
	}
	if next.Version != g.Version+1 {
		t.Fatalf("expected version %d, got %d", g.Version+1, next.Version)
	}
	checkInvariants(t, next)
	return next, history
}

func mustReject(t *testing.T, e *Engine, g *Game, seat int, cmd Command, want error) {
	t.Helper()
	cmd.Version = g.Version
	before := g.Clone()
	next, _, err := e.Apply(g, seat, cmd)
	if !errors.Is(err, want) {
		t.Fatalf("seat %d %s: expected %v, got %v", seat, cmd.Command, want, err)
	}
	if next != nil {
		t.Fatalf("rejected command returned a game")
	}
	if g.Version != before.Version || g.Turn.Phase() != before.Turn.Phase() || g.Deck.Len() != before.Deck.Len() {
		t.Fatalf("rejected command mutated the game")
	}
}

func checkInvariants(t *testing.T, g *Game) {
	t.Helper()
	for i, p := range g.Seats {
		if got := len(p.HiddenRoles()); got != p.LiveInfluence {
			t.Fatalf("seat %d live influence %d, hidden cards %d", i, p.LiveInfluence, got)
		}
		if p.Cash < 0 {
			t.Fatalf("seat %d has negative cash %d", i, p.Cash)
		}
	}
	want := CopiesPerRole * len(g.RoleSet.Roles())
	if got := g.CardTotal(); got != want {
		t.Fatalf("card total %d, want %d", got, want)
	}
	for _, r := range g.RoleSet.Roles() {
		n := g.Deck.Count(r)
		for _, p := range g.Seats {
			for _, c := range p.Influence {
				if c.Role == r {
					n++
				}
			}
		}
		if n != CopiesPerRole {
			t.Fatalf("%d copies of %s in play, want %d", n, r, CopiesPerRole)
		}
	}
	if won, ok := g.Turn.(GameWon); ok {
		alive := g.AliveSeats()
		if len(alive) > 1 {
			t.Fatalf("game won with %d live seats", len(alive))
		}
		if len(alive) == 1 && won.Winner != alive[0] {
			t.Fatalf("winner %d, last live seat %d", won.Winner, alive[0])
		}
	} else if g.Started() && len(g.AliveSeats()) < 2 {
		t.Fatalf("phase %s with %d live seats", g.Turn.Phase(), len(g.AliveSeats()))
	}
}

func historyTypes(events []HistoryEvent) []HistoryType {
	out := make([]HistoryType, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Type)
	}
	return out
}
