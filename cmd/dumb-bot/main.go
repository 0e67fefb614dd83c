package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"coup-table/internal/config"
	"coup-table/internal/logging"
	"coup-table/internal/ws"
)

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	if err := logging.Init(logCfg); err != nil {
		panic(err)
	}
	cfg, err := config.LoadBot()
	if err != nil {
		log.Fatal().Err(err).Msg("load bot config failed")
	}
	if cfg.TableID == "" {
		log.Fatal().Msg("TABLE_ID is required")
	}

	conn, _, err := websocket.DefaultDialer.Dial(cfg.WSURL, nil)
	if err != nil {
		log.Fatal().Err(err).Str("url", cfg.WSURL).Msg("dial failed")
	}
	defer conn.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		_ = conn.WriteJSON(map[string]string{"type": ws.TypeLeave})
		_ = conn.Close()
	}()

	if err := conn.WriteJSON(ws.JoinMessage{Type: ws.TypeJoin, TableID: cfg.TableID, Name: cfg.Name, IsBot: true}); err != nil {
		log.Fatal().Err(err).Msg("send join failed")
	}

	b := &bot{autoStart: cfg.AutoStart, lastState: -1}
	requests := 0
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Info().Err(err).Msg("connection closed")
			return
		}
		var base struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &base); err != nil {
			continue
		}
		switch base.Type {
		case ws.TypeJoinResult:
			var res ws.JoinResult
			if err := json.Unmarshal(data, &res); err != nil || !res.Ok {
				log.Fatal().Str("error", res.Error).Msg("join rejected")
			}
			log.Info().Str("table_id", res.TableID).Int("seat", *res.Seat).Msg("joined")
		case ws.TypeState:
			var msg ws.StateMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				continue
			}
			cmd, ok := b.decide(msg.State)
			if !ok {
				continue
			}
			requests++
			out := ws.CommandMessage{Type: ws.TypeCommand, RequestID: "bot-" + strconv.Itoa(requests), Payload: cmd}
			if err := conn.WriteJSON(out); err != nil {
				log.Error().Err(err).Msg("send command failed")
				return
			}
			log.Debug().Str("command", string(cmd.Command)).Int("state_id", cmd.Version).Msg("sent command")
		case ws.TypeCommandResult:
			var res ws.CommandResult
			if err := json.Unmarshal(data, &res); err == nil && !res.Ok {
				log.Warn().Str("request_id", res.RequestID).Str("error", res.Error).Msg("command rejected")
			}
		case ws.TypeHistory:
			var h ws.HistoryMessage
			if err := json.Unmarshal(data, &h); err == nil {
				log.Info().Str("history_type", string(h.HistoryType)).Bool("continuation", h.Continuation).Msg(h.Message)
			}
		}
	}
}
