// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/jason-s-yu/lucky21/internal/middleware"
	"github.com/sirupsen/logrus"
)

// Subprotocol must be requested by websocket clients.
const Subprotocol = "lucky21"

const wsWriteTimeout = 3 * time.Second

// GameMessage is a request sent by a websocket client.
type GameMessage struct {
	Type string `json:"type"`
}

// GameReply is sent in answer to every GameMessage.
type GameReply struct {
	Type  string         `json:"type"`
	State *StateResponse `json:"state,omitempty"`
	Error string         `json:"error,omitempty"`
}

// GameWSHandler upgrades the connection and plays the session's game over it.
// The current state is pushed on connect when a game exists.
func (gs *GameServer) GameWSHandler(originPatterns []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{Subprotocol},
			OriginPatterns: originPatterns,
		})
		if err != nil {
			gs.Logger.Warnf("WebSocket accept error from %s: %v", r.RemoteAddr, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "Internal server error during handler exit.")

		if c.Subprotocol() != Subprotocol {
			c.Close(BadSubprotocolError, "Client must use the 'lucky21' subprotocol.")
			return
		}
		sid, ok := SessionFromContext(r.Context())
		if !ok {
			c.Close(SessionLostError, "No session.")
			return
		}
		middleware.LogWebSocketConnect(gs.Logger, r.RemoteAddr, r.URL.Path)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		if state, err := gs.State(ctx, sid); err == nil {
			if err := gs.writeReply(ctx, c, GameReply{Type: "state", State: &state}); err != nil {
				middleware.LogWebSocketDisconnect(gs.Logger, r.RemoteAddr, r.URL.Path, err)
				return
			}
		}

		err = gs.readGameMessages(ctx, c, sid)
		middleware.LogWebSocketDisconnect(gs.Logger, r.RemoteAddr, r.URL.Path, err)
		if err == nil {
			c.Close(websocket.StatusNormalClosure, "")
		}
	}
}

// readGameMessages answers messages until the client goes away. A normal
// closure yields a nil error.
func (gs *GameServer) readGameMessages(ctx context.Context, c *websocket.Conn, sid uuid.UUID) error {
	for {
		var msg GameMessage
		if err := wsjson.Read(ctx, c, &msg); err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return nil
			}
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		reply := gs.handleGameMessage(ctx, sid, msg)
		if err := gs.writeReply(ctx, c, reply); err != nil {
			return err
		}
	}
}

func (gs *GameServer) handleGameMessage(ctx context.Context, sid uuid.UUID, msg GameMessage) GameReply {
	var (
		state StateResponse
		err   error
	)
	switch msg.Type {
	case "start":
		state, err = gs.StartGame(ctx, sid)
	case "state":
		state, err = gs.State(ctx, sid)
	case string(Guess21OrUnder), string(GuessOver21):
		state, err = gs.Guess(ctx, sid, GuessKind(msg.Type))
	default:
		return GameReply{Type: "error", Error: "unknown message type: " + msg.Type}
	}
	if err != nil {
		if statusForError(err) == http.StatusInternalServerError {
			gs.Logger.WithError(err).WithFields(logrus.Fields{
				"session": sid,
				"type":    msg.Type,
			}).Error("websocket game request failed")
			return GameReply{Type: "error", Error: "internal server error"}
		}
		return GameReply{Type: "error", Error: err.Error()}
	}
	return GameReply{Type: "state", State: &state}
}

func (gs *GameServer) writeReply(ctx context.Context, c *websocket.Conn, reply GameReply) error {
	ctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, c, reply)
}
