package game

import (
	"fmt"
	"strconv"
	"strings"
)

type HistoryType string

const (
	HistoryAction           HistoryType = "action"
	HistoryBlock            HistoryType = "block"
	HistoryChallengeSuccess HistoryType = "challenge-success"
	HistoryChallengeFail    HistoryType = "challenge-fail"
	HistorySwap             HistoryType = "swap"
	HistoryReveal           HistoryType = "reveal"
	HistoryExchange         HistoryType = "exchange"
	HistoryInterrogate      HistoryType = "interrogate"
	HistoryPlayerJoined     HistoryType = "player-joined"
	HistoryPlayerLeft       HistoryType = "player-left"
	HistoryGameStarted      HistoryType = "game-started"
	HistoryGameWon          HistoryType = "game-won"
)

// HistoryEvent is one narration fragment. Seats are written as {N}
// placeholders for the client to substitute. A Continuation fragment extends
// the previous entry instead of starting a new one.
type HistoryEvent struct {
	Type         HistoryType `json:"type"`
	Message      string      `json:"message"`
	Continuation bool        `json:"continuation"`
}

func seatRef(seat int) string {
	return "{" + strconv.Itoa(seat) + "}"
}

// RenderHistory substitutes seat placeholders with display names.
func RenderHistory(message string, names []string) string {
	if !strings.Contains(message, "{") {
		return message
	}
	pairs := make([]string, 0, 2*len(names))
	for i, n := range names {
		pairs = append(pairs, seatRef(i), n)
	}
	return strings.NewReplacer(pairs...).Replace(message)
}

func attemptMessage(actor int, action ActionName, target *int) string {
	switch action {
	case ActionForeignAid:
		return fmt.Sprintf("%s attempted to draw foreign aid", seatRef(actor))
	case ActionTax:
		return fmt.Sprintf("%s attempted to draw tax", seatRef(actor))
	case ActionSteal:
		return fmt.Sprintf("%s attempted to steal from %s", seatRef(actor), seatRef(*target))
	case ActionAssassinate:
		return fmt.Sprintf("%s attempted to assassinate %s", seatRef(actor), seatRef(*target))
	case ActionExchange:
		return fmt.Sprintf("%s attempted to exchange", seatRef(actor))
	case ActionInterrogate:
		return fmt.Sprintf("%s attempted to interrogate %s", seatRef(actor), seatRef(*target))
	default:
		return fmt.Sprintf("%s attempted %s", seatRef(actor), action)
	}
}
