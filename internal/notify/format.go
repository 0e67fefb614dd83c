package notify

import (
	"fmt"
	"strings"
	"time"

	"coup-table/internal/game"
	"coup-table/internal/notify/platforms"
	"coup-table/internal/table"
)

const (
	colorStarted  = 0x3498db
	colorHistory  = 0x95a5a6
	colorFinished = 0x2ecc71
)

func footer(tableID string) string {
	return "table " + tableID
}

func formatStarted(info table.MatchInfo, now time.Time) platforms.Message {
	names := make([]string, 0, len(info.Seats))
	for _, s := range info.Seats {
		name := s.Name
		if s.IsBot {
			name += " (bot)"
		}
		names = append(names, name)
	}
	title := "Match started"
	if info.Label != "" {
		title += ": " + info.Label
	}
	return platforms.Message{
		Title:       title,
		Description: strings.Join(names, ", "),
		Color:       colorStarted,
		Timestamp:   now.UTC().Format(time.RFC3339),
		Footer:      footer(info.TableID),
		Fields: []platforms.Field{
			{Name: "Players", Value: fmt.Sprint(len(info.Seats)), Inline: true},
			{Name: "Role set", Value: info.RoleSet, Inline: true},
		},
	}
}

func formatHistory(tableID string, names []string, ev game.HistoryEvent, now time.Time) platforms.Message {
	return platforms.Message{
		Title:       string(ev.Type),
		Description: game.RenderHistory(ev.Message, names),
		Color:       colorHistory,
		Timestamp:   now.UTC().Format(time.RFC3339),
		Footer:      footer(tableID),
	}
}

func formatFinished(tableID string, names []string, winner, stateID int, now time.Time) platforms.Message {
	return platforms.Message{
		Title:       "Match finished",
		Description: seatName(names, winner) + " won",
		Color:       colorFinished,
		Timestamp:   now.UTC().Format(time.RFC3339),
		Footer:      footer(tableID),
		Fields: []platforms.Field{
			{Name: "Final state", Value: fmt.Sprint(stateID), Inline: true},
		},
	}
}

func seatName(names []string, seat int) string {
	if seat >= 0 && seat < len(names) && names[seat] != "" {
		return names[seat]
	}
	return fmt.Sprintf("seat %d", seat)
}
