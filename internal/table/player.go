package table

import (
	"coup-table/internal/game"
	"coup-table/internal/game/viewmodel"
)

// Player is anything that can sit at a table: a websocket client, a bot, a
// test double. Callbacks for one seat are delivered in order from a single
// goroutine; they never run under the table lock.
type Player interface {
	Name() string
	IsBot() bool
	Identity() string
	OnStateChange(state viewmodel.StateView)
	OnHistoryEvent(message string, typ game.HistoryType, continuation bool)
	OnChatMessage(fromSeat int, message string)
}

// ErrorReporter is implemented by players that want to hear about delivery
// faults on their own seat.
type ErrorReporter interface {
	OnError(code string)
}
