package table

import "coup-table/internal/game"

// Proxy is a player's handle on its seat. Violations come back to the
// caller only; nothing about a rejected command reaches other seats.
type Proxy struct {
	table *Table
	conn  *seatConn
}

func (p *Proxy) Command(cmd game.Command) error {
	return p.table.command(p.conn, cmd)
}

// PlayerLeft gives up the seat. isRejoin marks a player coming back from
// another connection and only changes the narration.
func (p *Proxy) PlayerLeft(isRejoin bool) {
	p.table.leave(p.conn, isRejoin)
}

func (p *Proxy) SendChatMessage(text string) error {
	return p.table.chat(p.conn, text)
}

func (p *Proxy) MatchLabel() string {
	return p.table.label
}

func (p *Proxy) TableID() string {
	return p.table.id
}

// Seat is the current index of this player. It can shift down while the
// match has not started and an earlier seat leaves.
func (p *Proxy) Seat() int {
	p.table.mu.Lock()
	defer p.table.mu.Unlock()
	return p.conn.seat
}

// Identity is the identity the seat was registered under, including one
// generated for a player that did not bring its own.
func (p *Proxy) Identity() string {
	p.table.mu.Lock()
	defer p.table.mu.Unlock()
	if p.conn.left || p.conn.seat >= len(p.table.game.Seats) {
		return ""
	}
	return p.table.game.Seats[p.conn.seat].Identity
}
