// streaming chat over websocket: the client sends ask frames, the
// server answers with state transitions, a token stream, and a final
// result frame carrying citations.
package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"codeberg.org/careerintel/server/internal/agent"
	"codeberg.org/careerintel/server/internal/errors"
	"codeberg.org/careerintel/server/internal/logger"
	"codeberg.org/careerintel/server/internal/sessions"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 16 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     checkOrigin,
}

// handles websocket connections for streaming chat
func ChatHandler(agentClient *agent.Agent, mgr *sessions.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params ConnectParams
		if err := c.ShouldBindQuery(&params); err != nil {
			errors.BadRequest(c, "session_id query parameter is required", err)
			return
		}

		session, ok := mgr.GetSession(params.SessionID)
		if !ok {
			errors.SessionNotFound(c)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.ErrorErr(err, "failed to upgrade websocket connection")
			return
		}

		serveChat(c.Request.Context(), conn, agentClient, session)
	}
}

// runs the connection's frame loop. All writes happen here, so the
// token stream and control frames never interleave mid-frame.
func serveChat(ctx context.Context, conn *websocket.Conn, agentClient *agent.Agent, session *sessions.Session) {
	defer conn.Close() //nolint:errcheck

	inbound := make(chan InboundMessage)

	go readPump(conn, inbound)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	var (
		turnEvents <-chan agent.Event
		turnCancel context.CancelFunc
	)

	endTurn := func() {
		if turnCancel != nil {
			turnCancel()
			turnCancel = nil
		}

		turnEvents = nil

		session.EndTurn()
	}

	defer func() {
		if turnEvents != nil {
			endTurn()
		}
	}()

	for {
		select {
		case msg, ok := <-inbound:
			if !ok {
				return
			}

			switch msg.Type {
			case "ask":
				if turnEvents != nil {
					writeFrame(conn, OutboundMessage{
						Type:  "error",
						Error: "a question is already being answered",
					})

					continue
				}

				if msg.Question == "" {
					writeFrame(conn, OutboundMessage{Type: "error", Error: "question cannot be empty"})
					continue
				}

				if err := session.BeginTurn(); err != nil {
					writeFrame(conn, OutboundMessage{Type: "error", Error: err.Error()})
					continue
				}

				var turnCtx context.Context

				turnCtx, turnCancel = context.WithCancel(ctx)
				turnEvents = agentClient.AskStream(turnCtx, agent.AskRequest{
					Query:   msg.Question,
					Session: session,
				})
			case "cancel":
				if turnCancel != nil {
					turnCancel()
				}
			default:
				writeFrame(conn, OutboundMessage{Type: "error", Error: "unknown message type"})
			}

		case ev, ok := <-turnEvents:
			if !ok {
				endTurn()
				continue
			}

			if !writeEvent(conn, ev) {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck

			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// translates one agent event into a websocket frame
func writeEvent(conn *websocket.Conn, ev agent.Event) bool {
	switch {
	case ev.Err != nil:
		// cancelled turns still carry the citations resolved before
		// streaming was abandoned
		return writeFrame(conn, OutboundMessage{
			Type:     "error",
			State:    ev.State,
			Response: ev.Response,
			Error:    ev.Err.Error(),
		})
	case ev.Response != nil:
		return writeFrame(conn, OutboundMessage{
			Type:     "result",
			State:    ev.State,
			Response: ev.Response,
		})
	case ev.Token != "":
		return writeFrame(conn, OutboundMessage{Type: "token", Token: ev.Token})
	case ev.State != "":
		return writeFrame(conn, OutboundMessage{Type: "state", State: ev.State})
	default:
		return true
	}
}

func writeFrame(conn *websocket.Conn, msg OutboundMessage) bool {
	conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck

	data, err := json.Marshal(msg)
	if err != nil {
		logger.ErrorErr(err, "failed to marshal websocket frame")
		return false
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return false
	}

	return true
}

// reads client frames and forwards them; closes the channel when the
// connection drops
func readPump(conn *websocket.Conn, inbound chan<- InboundMessage) {
	defer close(inbound)

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("websocket read error", "error", err)
			}

			return
		}

		var msg InboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		inbound <- msg
	}
}
