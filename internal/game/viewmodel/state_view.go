package viewmodel

import "coup-table/internal/game"

// PublicViewer renders the snapshot an observer or spectator may see.
const PublicViewer = -1

type CardView struct {
	Role     game.Role `json:"role"`
	Revealed bool      `json:"revealed"`
}

type PlayerView struct {
	Name           string     `json:"name"`
	Cash           int        `json:"cash"`
	Influence      []CardView `json:"influence"`
	InfluenceCount int        `json:"influenceCount"`
	IsObserver     bool       `json:"isObserver"`
	IsBot          bool       `json:"isBot"`
	Connected      bool       `json:"connected"`
}

type TurnView struct {
	Name            string          `json:"name"`
	Actor           *int            `json:"actor,omitempty"`
	Action          game.ActionName `json:"action,omitempty"`
	Target          *int            `json:"target,omitempty"`
	Blocker         *int            `json:"blocker,omitempty"`
	BlockingRole    game.Role       `json:"blockingRole,omitempty"`
	Reason          string          `json:"reason,omitempty"`
	PlayerToReveal  *int            `json:"playerToReveal,omitempty"`
	ExchangeOptions []game.Role     `json:"exchangeOptions,omitempty"`
	Confession      game.Role       `json:"confession,omitempty"`
	Winner          *int            `json:"winner,omitempty"`
	Responded       []int           `json:"responded,omitempty"`
}

type StateView struct {
	StateID  int          `json:"stateId"`
	GameID   string       `json:"gameId"`
	RoleSet  string       `json:"roleSet"`
	Turn     TurnView     `json:"turn"`
	Players  []PlayerView `json:"players"`
	DeckSize int          `json:"deckSize"`
	MySeat   int          `json:"mySeat"`
}

// BuildSeatView projects g for viewer. Hidden cards of every other seat
// become unknown, and exchange or interrogate payloads are kept only for
// the acting seat.
func BuildSeatView(g *game.Game, viewer int) StateView {
	players := make([]PlayerView, 0, len(g.Seats))
	for i, p := range g.Seats {
		cards := make([]CardView, 0, len(p.Influence))
		for _, c := range p.Influence {
			role := c.Role
			if !c.Revealed && i != viewer {
				role = game.RoleUnknown
			}
			cards = append(cards, CardView{Role: role, Revealed: c.Revealed})
		}
		players = append(players, PlayerView{
			Name:           p.Name,
			Cash:           p.Cash,
			Influence:      cards,
			InfluenceCount: p.LiveInfluence,
			IsObserver:     p.IsObserver,
			IsBot:          p.IsBot,
			Connected:      p.Connected,
		})
	}
	return StateView{
		StateID:  g.Version,
		GameID:   g.ID,
		RoleSet:  g.RoleSet.Name,
		Turn:     buildTurn(g.Turn, viewer),
		Players:  players,
		DeckSize: g.Deck.Len(),
		MySeat:   viewer,
	}
}

func seat(i int) *int {
	return &i
}

func buildTurn(ts game.TurnState, viewer int) TurnView {
	out := TurnView{Name: ts.Phase()}
	switch st := ts.(type) {
	case game.StartOfTurn:
		out.Actor = seat(st.Actor)
	case game.ActionResponse:
		out.Actor = seat(st.Actor)
		out.Action = st.Action
		out.Target = st.Target
		out.Responded = st.Responded.Seats()
	case game.FinalActionResponse:
		out.Actor = seat(st.Actor)
		out.Action = st.Action
		out.Target = seat(st.Target)
	case game.BlockResponse:
		out.Actor = seat(st.Actor)
		out.Action = st.Action
		out.Target = st.Target
		out.Blocker = seat(st.Blocker)
		out.BlockingRole = st.BlockingRole
		out.Responded = st.Responded.Seats()
	case game.RevealInfluence:
		out.Actor = seat(st.Actor)
		out.Action = st.Action
		out.Target = st.Target
		out.Blocker = st.Blocker
		out.BlockingRole = st.BlockingRole
		out.Reason = string(st.Reason)
		out.PlayerToReveal = seat(st.PlayerToReveal)
	case game.Exchange:
		out.Actor = seat(st.Actor)
		out.Action = game.ActionExchange
		if viewer == st.Actor {
			out.ExchangeOptions = append([]game.Role(nil), st.Options...)
		}
	case game.Interrogate:
		out.Actor = seat(st.Actor)
		out.Action = game.ActionInterrogate
		out.Target = seat(st.Target)
		if viewer == st.Actor {
			out.Confession = st.Confession
		}
	case game.GameWon:
		if st.Winner >= 0 {
			out.Winner = seat(st.Winner)
		}
	}
	return out
}
