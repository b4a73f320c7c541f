package tui

import (
	"fmt"
	"net/url"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
)

// streaming chat client over the server's webSocket endpoint
type WSClient struct {
	endpoint string

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool

	events chan tea.Msg
}

// creates a new webSocket client
func NewWSClient() *WSClient {
	endpoint := os.Getenv("CAREERINTEL_WS_ENDPOINT")
	if endpoint == "" {
		endpoint = "ws://localhost:8080/api/v1/ws/chat"
	}

	return &WSClient{
		endpoint: endpoint,
		events:   make(chan tea.Msg, 64),
	}
}

// Connect establishes the webSocket connection for a session
func (c *WSClient) Connect(sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return nil
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint: %w", err)
	}

	q := u.Query()
	q.Set("session_id", sessionID)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.conn = conn
	c.connected = true

	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec
		return nil
	})
	conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec

	go c.readPump()
	go c.pingPump()

	return nil
}

// sends periodic pings to keep the connection alive
func (c *WSClient) pingPump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		<-ticker.C
		c.mu.Lock()

		if !c.connected || c.conn == nil {
			c.mu.Unlock()
			return
		}

		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second)) //nolint:errcheck,gosec
		if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			c.mu.Unlock()
			return
		}

		c.mu.Unlock()
	}
}

// continuously reads frames and surfaces them as bubbletea messages
func (c *WSClient) readPump() {
	defer func() {
		c.mu.Lock()
		c.connected = false
		if c.conn != nil {
			c.conn.Close() //nolint:errcheck
		}
		c.mu.Unlock()
	}()

	for {
		c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec

		var frame outboundFrame
		if err := c.conn.ReadJSON(&frame); err != nil {
			c.events <- WSClosedMsg{err: err}
			return
		}

		switch frame.Type {
		case frameTypeState:
			c.events <- StreamStateMsg{state: frame.State}

		case frameTypeToken:
			c.events <- StreamTokenMsg{token: frame.Token}

		case frameTypeResult:
			msg := StreamResultMsg{}
			if frame.Response != nil {
				msg.answer = frame.Response.Answer
				msg.citations = frame.Response.Citations
				msg.chunks = frame.Response.ChunksUsed
				msg.degraded = frame.Response.Degraded
			}
			c.events <- msg

		case frameTypeError:
			c.events <- StreamErrorMsg{err: fmt.Errorf("%s", frame.Error)}

		default:
			continue
		}
	}
}

// sends a question over the connection
func (c *WSClient) Ask(question string) error {
	return c.writeFrame(inboundFrame{Type: "ask", Question: question})
}

// cancels the in-flight turn
func (c *WSClient) Cancel() error {
	return c.writeFrame(inboundFrame{Type: "cancel"})
}

func (c *WSClient) writeFrame(frame inboundFrame) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected || c.conn == nil {
		return fmt.Errorf("not connected")
	}

	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second)) //nolint:errcheck,gosec
	if err := c.conn.WriteJSON(frame); err != nil {
		return fmt.Errorf("failed to send frame: %w", err)
	}

	return nil
}

// returns whether the client is connected
func (c *WSClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// closes the webSocket connection
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close() //nolint:errcheck
		c.conn = nil
	}
	c.connected = false
}

// returns a tea.Cmd that connects to the webSocket server
func (c *WSClient) ConnectCmd(sessionID string) tea.Cmd {
	return func() tea.Msg {
		if err := c.Connect(sessionID); err != nil {
			return WSConnectErrorMsg{err: err}
		}

		return WSConnectedMsg{}
	}
}

// returns a tea.Cmd that waits for the next streamed frame
func (c *WSClient) WaitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-c.events
	}
}

// wire types matching the server's webSocket frames

type inboundFrame struct {
	Type     string `json:"type"`
	Question string `json:"question,omitempty"`
}

type outboundFrame struct {
	Type     string           `json:"type"`
	State    string           `json:"state,omitempty"`
	Token    string           `json:"token,omitempty"`
	Response *responsePayload `json:"response,omitempty"`
	Error    string           `json:"error,omitempty"`
}

type responsePayload struct {
	Answer         string            `json:"answer"`
	Citations      []citationSummary `json:"citations,omitempty"`
	ChunksUsed     int               `json:"chunks_used"`
	Degraded       bool              `json:"degraded,omitempty"`
	UnresolvedRefs []int             `json:"unresolved_refs,omitempty"`
}

type citationSummary struct {
	DocType    string `json:"doc_type"`
	Filename   string `json:"filename"`
	RefNumber  int    `json:"ref_number,omitempty"`
	ChunkCount int    `json:"chunk_count"`
}

const (
	frameTypeState  = "state"
	frameTypeToken  = "token"
	frameTypeResult = "result"
	frameTypeError  = "error"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)
