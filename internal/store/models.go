package store

import "time"

type Match struct {
	ID           string      `json:"id"`
	Label        string      `json:"label"`
	RoleSet      string      `json:"roleSet"`
	StartedAt    time.Time   `json:"startedAt"`
	FinishedAt   *time.Time  `json:"finishedAt,omitempty"`
	WinnerSeat   *int        `json:"winnerSeat,omitempty"`
	FinalStateID *int        `json:"finalStateId,omitempty"`
	Seats        []MatchSeat `json:"seats"`
}

type MatchSeat struct {
	Seat     int    `json:"seat"`
	Name     string `json:"name"`
	Identity string `json:"-"`
	IsBot    bool   `json:"isBot"`
}

type MatchEvent struct {
	Seq          int       `json:"seq"`
	StateID      int       `json:"stateId"`
	Type         string    `json:"type"`
	Message      string    `json:"message"`
	Continuation bool      `json:"continuation"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PlayerRecord is the aggregate of every finished match one identity sat in.
type PlayerRecord struct {
	Identity string `json:"identity"`
	Name     string `json:"name"`
	Played   int    `json:"played"`
	Won      int    `json:"won"`
}
