package game

import "math/bits"

// SeatSet is a bitmap of seat indexes. Only participants respond, and they
// always hold the lowest seats, so MaxPlayers must stay within its width.
type SeatSet uint16

const seatSetWidth = 16

func (s SeatSet) Add(seat int) SeatSet {
	return s | 1<<uint(seat)
}

func (s SeatSet) Has(seat int) bool {
	return s&(1<<uint(seat)) != 0
}

func (s SeatSet) Count() int {
	return bits.OnesCount16(uint16(s))
}

func (s SeatSet) Seats() []int {
	out := []int{}
	for i := 0; i < seatSetWidth; i++ {
		if s.Has(i) {
			out = append(out, i)
		}
	}
	return out
}

type RevealReason string

const (
	ReasonAssassinate         RevealReason = "assassinate"
	ReasonCoup                RevealReason = "coup"
	ReasonIncorrectChallenge  RevealReason = "incorrect-challenge"
	ReasonSuccessfulChallenge RevealReason = "successful-challenge"
)

const (
	PhaseWaitingForPlayers   = "waiting-for-players"
	PhaseStartOfTurn         = "start-of-turn"
	PhaseActionResponse      = "action-response"
	PhaseFinalActionResponse = "final-action-response"
	PhaseBlockResponse       = "block-response"
	PhaseRevealInfluence     = "reveal-influence"
	PhaseExchange            = "exchange"
	PhaseInterrogate         = "interrogate"
	PhaseGameWon             = "game-won"
)

// TurnState is the closed set of engine phases. Each variant carries only
// the data that phase needs.
type TurnState interface {
	Phase() string
	turnState()
}

type WaitingForPlayers struct{}

type StartOfTurn struct {
	Actor int
}

type ActionResponse struct {
	Actor     int
	Action    ActionName
	Target    *int
	Responded SeatSet
}

// FinalActionResponse gives the target one last chance to block after the
// actor's claim survived a challenge.
type FinalActionResponse struct {
	Actor  int
	Action ActionName
	Target int
}

// BlockResponse waits on a block claim. Blocker is the target for targeted actions.
type BlockResponse struct {
	Actor        int
	Action       ActionName
	Target       *int
	Blocker      int
	BlockingRole Role
	Responded    SeatSet
}

// RevealInfluence pauses resolution until PlayerToReveal gives up a card.
// BlockingRole is set when the interrupted claim was a block.
type RevealInfluence struct {
	Actor          int
	Action         ActionName
	Target         *int
	Blocker        *int
	BlockingRole   Role
	Reason         RevealReason
	PlayerToReveal int
	Continuation   bool
}

// Exchange offers Options to the actor: their hidden roles followed by Drawn
// roles still sitting on top of the deck.
type Exchange struct {
	Actor        int
	Options      []Role
	Drawn        int
	Continuation bool
}

// Interrogate shows the actor one of the target's hidden roles.
type Interrogate struct {
	Actor        int
	Target       int
	Confession   Role
	Continuation bool
}

type GameWon struct {
	Winner int
}

func (WaitingForPlayers) Phase() string   { return PhaseWaitingForPlayers }
func (StartOfTurn) Phase() string         { return PhaseStartOfTurn }
func (ActionResponse) Phase() string      { return PhaseActionResponse }
func (FinalActionResponse) Phase() string { return PhaseFinalActionResponse }
func (BlockResponse) Phase() string       { return PhaseBlockResponse }
func (RevealInfluence) Phase() string     { return PhaseRevealInfluence }
func (Exchange) Phase() string            { return PhaseExchange }
func (Interrogate) Phase() string         { return PhaseInterrogate }
func (GameWon) Phase() string             { return PhaseGameWon }

func (WaitingForPlayers) turnState()   {}
func (StartOfTurn) turnState()         {}
func (ActionResponse) turnState()      {}
func (FinalActionResponse) turnState() {}
func (BlockResponse) turnState()       {}
func (RevealInfluence) turnState()     {}
func (Exchange) turnState()            {}
func (Interrogate) turnState()         {}
func (GameWon) turnState()             {}

// ActorOf returns the seat whose turn it is, or -1 outside of a turn.
func ActorOf(t TurnState) int {
	switch s := t.(type) {
	case StartOfTurn:
		return s.Actor
	case ActionResponse:
		return s.Actor
	case FinalActionResponse:
		return s.Actor
	case BlockResponse:
		return s.Actor
	case RevealInfluence:
		return s.Actor
	case Exchange:
		return s.Actor
	case Interrogate:
		return s.Actor
	default:
		return -1
	}
}
