package ws

import (
	"coup-table/internal/game"
	"coup-table/internal/game/viewmodel"
)

const ProtocolVersion = "1.0"

const (
	TypeJoin          = "join"
	TypeCommand       = "command"
	TypeChat          = "chat"
	TypeLeave         = "leave"
	TypeJoinResult    = "join_result"
	TypeState         = "state"
	TypeHistory       = "history"
	TypeCommandResult = "command_result"
	TypeError         = "error"
)

type JoinMessage struct {
	Type     string `json:"type"`
	TableID  string `json:"table_id"`
	Name     string `json:"name"`
	Identity string `json:"identity,omitempty"`
	IsBot    bool   `json:"is_bot,omitempty"`
}

type CommandMessage struct {
	Type      string       `json:"type"`
	RequestID string       `json:"request_id,omitempty"`
	Payload   game.Command `json:"payload"`
}

type ChatMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type JoinResult struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Ok              bool   `json:"ok"`
	Error           string `json:"error,omitempty"`
	TableID         string `json:"table_id,omitempty"`
	Label           string `json:"label,omitempty"`
	Seat            *int   `json:"seat,omitempty"`
	Identity        string `json:"identity,omitempty"`
}

type StateMessage struct {
	Type            string              `json:"type"`
	ProtocolVersion string              `json:"protocol_version"`
	State           viewmodel.StateView `json:"state"`
}

type HistoryMessage struct {
	Type            string           `json:"type"`
	ProtocolVersion string           `json:"protocol_version"`
	Message         string           `json:"message"`
	HistoryType     game.HistoryType `json:"history_type"`
	Continuation    bool             `json:"continuation"`
}

type ChatOut struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	FromSeat        int    `json:"from_seat"`
	Message         string `json:"message"`
}

type CommandResult struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	RequestID       string `json:"request_id,omitempty"`
	Ok              bool   `json:"ok"`
	Error           string `json:"error,omitempty"`
}

type ErrorMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Error           string `json:"error"`
}
