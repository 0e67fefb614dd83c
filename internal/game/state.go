package game

import "slices"

type InfluenceCard struct {
	Role     Role `json:"role"`
	Revealed bool `json:"revealed"`
}

type PlayerState struct {
	Name          string
	Identity      string
	IsBot         bool
	Cash          int
	Influence     []InfluenceCard
	LiveInfluence int
	IsObserver    bool
	Connected     bool
}

// Alive reports whether the seat may still act, challenge, block or allow.
func (p *PlayerState) Alive() bool {
	return !p.IsObserver && p.LiveInfluence > 0
}

func (p *PlayerState) HiddenRoles() []Role {
	out := make([]Role, 0, len(p.Influence))
	for _, c := range p.Influence {
		if !c.Revealed {
			out = append(out, c.Role)
		}
	}
	return out
}

func (p *PlayerState) hiddenIndex(r Role) int {
	for i, c := range p.Influence {
		if !c.Revealed && c.Role == r {
			return i
		}
	}
	return -1
}

type Options struct {
	RoleSet        string `json:"roleSet"`
	AllowObservers bool   `json:"allowObservers"`
	MaxPlayers     int    `json:"maxPlayers"`
}

func (o Options) maxPlayers() int {
	if o.MaxPlayers < MinPlayers || o.MaxPlayers > MaxPlayers {
		return MaxPlayers
	}
	return o.MaxPlayers
}

// Game is one version of a match. Engine operations never modify a Game in
// place; they return a successor with Version advanced by one.
type Game struct {
	ID      string
	Options Options
	RoleSet RoleSet
	Seats   []PlayerState
	Deck    Deck
	Turn    TurnState
	Version int
}

type PlayerInfo struct {
	Name     string
	Identity string
	IsBot    bool
}

func NewGame(id string, opts Options, sh Shuffler) (*Game, error) {
	rs, err := RoleSetByName(opts.RoleSet)
	if err != nil {
		return nil, err
	}
	opts.RoleSet = rs.Name
	opts.MaxPlayers = opts.maxPlayers()
	return &Game{
		ID:      id,
		Options: opts,
		RoleSet: rs,
		Deck:    NewDeck(rs, sh),
		Turn:    WaitingForPlayers{},
	}, nil
}

func (g *Game) Clone() *Game {
	out := *g
	out.Seats = make([]PlayerState, len(g.Seats))
	for i, p := range g.Seats {
		p.Influence = slices.Clone(p.Influence)
		out.Seats[i] = p
	}
	out.Deck = g.Deck.clone()
	return &out
}

// Participants counts non-observer seats.
func (g *Game) Participants() int {
	n := 0
	for i := range g.Seats {
		if !g.Seats[i].IsObserver {
			n++
		}
	}
	return n
}

func (g *Game) AliveSeats() []int {
	out := []int{}
	for i := range g.Seats {
		if g.Seats[i].Alive() {
			out = append(out, i)
		}
	}
	return out
}

func (g *Game) Started() bool {
	_, waiting := g.Turn.(WaitingForPlayers)
	return !waiting
}

func (g *Game) Over() bool {
	_, won := g.Turn.(GameWon)
	return won
}

// CardTotal counts the deck plus every influence card, hidden or revealed.
// Exchange options stay on the deck until the exchange is committed.
func (g *Game) CardTotal() int {
	n := g.Deck.Len()
	for i := range g.Seats {
		n += len(g.Seats[i].Influence)
	}
	return n
}

func (g *Game) seatValid(seat int) bool {
	return seat >= 0 && seat < len(g.Seats)
}
