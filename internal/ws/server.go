package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"coup-table/internal/game"
	"coup-table/internal/game/viewmodel"
	"coup-table/internal/table"
)

const (
	maxRequestIDLength = 64
	maxNameLength      = 32
	writeWait          = 10 * time.Second
	sendBuffer         = 32
)

// TableLookup finds the table a join message names.
type TableLookup interface {
	Get(id string) (*table.Table, error)
}

type Server struct {
	tables   TableLookup
	upgrader websocket.Upgrader

	mu         sync.Mutex
	byIdentity map[string]*Client
}

func NewServer(tables TableLookup) *Server {
	return &Server{
		tables:     tables,
		upgrader:   websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		byIdentity: map[string]*Client{},
	}
}

// Client is one websocket connection. Once joined it is the table.Player for
// its seat.
type Client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
	// joined is closed once join_result is queued; table callbacks wait on it.
	joined     chan struct{}
	joinedOnce sync.Once

	name     string
	identity string
	isBot    bool
	key      string

	// mu guards proxy.
	mu    sync.Mutex
	proxy *table.Proxy
}

func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	c := &Client{
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
		joined: make(chan struct{}),
	}

	go c.writeLoop()
	s.readLoop(c)
}

func (s *Server) readLoop(c *Client) {
	defer func() {
		if px := c.takeProxy(); px != nil {
			px.PlayerLeft(false)
		}
		s.forget(c)
		c.close()
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var base struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg, &base); err != nil {
			c.sendJSON(ErrorMessage{Type: TypeError, ProtocolVersion: ProtocolVersion, Error: "invalid_json"})
			continue
		}
		switch base.Type {
		case TypeJoin:
			var join JoinMessage
			if err := json.Unmarshal(msg, &join); err != nil {
				c.sendJSON(JoinResult{Type: TypeJoinResult, ProtocolVersion: ProtocolVersion, Error: "invalid_json"})
				continue
			}
			s.handleJoin(c, join)
		case TypeCommand:
			s.handleCommand(c, msg)
		case TypeChat:
			var chat ChatMessage
			if err := json.Unmarshal(msg, &chat); err != nil {
				continue
			}
			px := c.currentProxy()
			if px == nil {
				c.sendJSON(ErrorMessage{Type: TypeError, ProtocolVersion: ProtocolVersion, Error: "not_joined"})
				continue
			}
			if err := px.SendChatMessage(chat.Text); err != nil {
				c.sendJSON(ErrorMessage{Type: TypeError, ProtocolVersion: ProtocolVersion, Error: mapError(err)})
			}
		case TypeLeave:
			return
		default:
			c.sendJSON(ErrorMessage{Type: TypeError, ProtocolVersion: ProtocolVersion, Error: "unknown_message_type"})
		}
	}
}

func (c *Client) writeLoop() {
	defer c.conn.Close()
	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.close()
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (s *Server) handleJoin(c *Client, join JoinMessage) {
	fail := func(code string) {
		c.sendJSON(JoinResult{Type: TypeJoinResult, ProtocolVersion: ProtocolVersion, Error: code})
	}
	if c.currentProxy() != nil {
		fail("already_joined")
		return
	}
	name := strings.TrimSpace(join.Name)
	if name == "" || len(name) > maxNameLength {
		fail("invalid_name")
		return
	}
	t, err := s.tables.Get(join.TableID)
	if err != nil {
		fail(mapError(err))
		return
	}
	c.name, c.identity, c.isBot = name, join.Identity, join.IsBot

	// The same identity connecting again replaces its older connection.
	if c.identity != "" {
		if old := s.claim(t.ID(), c); old != nil {
			if px := old.takeProxy(); px != nil {
				px.PlayerLeft(true)
			}
			old.close()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	px, err := t.PlayerJoined(c, c.identity)
	if err != nil {
		fail(mapError(err))
		return
	}
	c.proxy = px
	seat := px.Seat()
	c.identity = px.Identity()
	c.queue(JoinResult{
		Type:            TypeJoinResult,
		ProtocolVersion: ProtocolVersion,
		Ok:              true,
		TableID:         t.ID(),
		Label:           px.MatchLabel(),
		Seat:            &seat,
		Identity:        c.identity,
	})
	c.joinedOnce.Do(func() { close(c.joined) })
	log.Info().Str("table_id", t.ID()).Int("seat", seat).Str("player", name).Msg("ws client joined")
}

func (s *Server) handleCommand(c *Client, raw []byte) {
	var msg CommandMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendJSON(CommandResult{Type: TypeCommandResult, ProtocolVersion: ProtocolVersion, Error: "invalid_json"})
		return
	}
	result := CommandResult{Type: TypeCommandResult, ProtocolVersion: ProtocolVersion, RequestID: msg.RequestID}
	if len(msg.RequestID) > maxRequestIDLength {
		result.Error = "invalid_request_id"
		c.sendJSON(result)
		return
	}
	px := c.currentProxy()
	if px == nil {
		result.Error = "not_joined"
		c.sendJSON(result)
		return
	}
	if err := px.Command(msg.Payload); err != nil {
		result.Error = mapError(err)
	} else {
		result.Ok = true
	}
	c.sendJSON(result)
}

func (s *Server) claim(tableID string, c *Client) *Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.key = tableID + "/" + c.identity
	old := s.byIdentity[c.key]
	s.byIdentity[c.key] = c
	return old
}

func (s *Server) forget(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.key != "" && s.byIdentity[c.key] == c {
		delete(s.byIdentity, c.key)
	}
}

func (c *Client) currentProxy() *table.Proxy {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.proxy
}

func (c *Client) takeProxy() *table.Proxy {
	c.mu.Lock()
	defer c.mu.Unlock()
	px := c.proxy
	c.proxy = nil
	return px
}

func (c *Client) close() {
	c.once.Do(func() { close(c.done) })
}

// sendJSON queues a reply from the read loop.
func (c *Client) sendJSON(v any) {
	c.queue(v)
}

func (c *Client) queue(v any) {
	msg, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("marshal ws message failed")
		return
	}
	select {
	case c.send <- msg:
	case <-c.done:
	}
}

// deliver is used by table callbacks. It waits for the join to finish so
// join_result always precedes the first state.
func (c *Client) deliver(v any) {
	select {
	case <-c.joined:
	case <-c.done:
		return
	}
	c.queue(v)
}

func (c *Client) Name() string     { return c.name }
func (c *Client) IsBot() bool      { return c.isBot }
func (c *Client) Identity() string { return c.identity }

func (c *Client) OnStateChange(state viewmodel.StateView) {
	c.deliver(StateMessage{Type: TypeState, ProtocolVersion: ProtocolVersion, State: state})
}

func (c *Client) OnHistoryEvent(message string, typ game.HistoryType, continuation bool) {
	c.deliver(HistoryMessage{
		Type:            TypeHistory,
		ProtocolVersion: ProtocolVersion,
		Message:         message,
		HistoryType:     typ,
		Continuation:    continuation,
	})
}

func (c *Client) OnChatMessage(fromSeat int, message string) {
	c.deliver(ChatOut{Type: TypeChat, ProtocolVersion: ProtocolVersion, FromSeat: fromSeat, Message: message})
}

func (c *Client) OnError(code string) {
	c.queue(ErrorMessage{Type: TypeError, ProtocolVersion: ProtocolVersion, Error: code})
}

func mapError(err error) string {
	if err == nil {
		return ""
	}
	if code := game.ViolationCodeOf(err); code != "" {
		return string(code)
	}
	for _, known := range []error{
		table.ErrTableNotFound,
		table.ErrTableClosed,
		table.ErrPlayerLeft,
		table.ErrEmptyMessage,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "internal_error"
}
