package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
)

type Frame struct {
	Type     string          `json:"type"`
	State    string          `json:"state,omitempty"`
	Token    string          `json:"token,omitempty"`
	Response json.RawMessage `json:"response,omitempty"`
	Error    string          `json:"error,omitempty"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run test_websocket.go <question>")
		fmt.Println("Example: go run test_websocket.go \"Does my Go experience fit job 2?\"")
		os.Exit(1)
	}

	question := os.Args[1]

	// create a session first
	resp, err := http.Post("http://localhost:8080/api/v1/sessions", "application/json", bytes.NewReader([]byte("{}")))
	if err != nil {
		log.Fatal("create session:", err)
	}
	defer resp.Body.Close()

	var session struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		log.Fatal("decode session:", err)
	}
	fmt.Printf("Session: %s\n", session.SessionID)

	// build WebSocket URL
	u := url.URL{
		Scheme: "ws",
		Host:   "localhost:8080",
		Path:   "/api/v1/ws/chat",
	}
	q := u.Query()
	q.Set("session_id", session.SessionID)
	u.RawQuery = q.Encode()

	fmt.Printf("Connecting to %s\n", u.String())

	// connect
	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer c.Close()

	fmt.Println("✅ Connected to WebSocket!")

	// handle interrupt
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	done := make(chan struct{})

	// read frames until the turn finishes
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("read:", err)
				return
			}
			var frame Frame
			if err := json.Unmarshal(message, &frame); err != nil {
				log.Println("unmarshal:", err)
				continue
			}
			switch frame.Type {
			case "state":
				fmt.Printf("⏳ State: %s\n", frame.State)
			case "token":
				fmt.Print(frame.Token)
			case "result":
				fmt.Printf("\n📨 Result: %s\n", frame.Response)
				return
			case "error":
				fmt.Printf("\n❌ Error: %s\n", frame.Error)
				return
			}
		}
	}()

	// send the question
	ask := map[string]interface{}{
		"type":     "ask",
		"question": question,
	}
	askJSON, _ := json.Marshal(ask)
	fmt.Printf("📤 Sending: %s\n", askJSON)
	if err := c.WriteMessage(websocket.TextMessage, askJSON); err != nil {
		log.Println("write:", err)
		return
	}

	// wait for interrupt or done
	select {
	case <-done:
		return
	case <-interrupt:
		fmt.Println("\n🛑 Interrupt received, closing connection...")

		// cleanly close the connection
		err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		if err != nil {
			log.Println("write close:", err)
			return
		}
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}
}
