package sessions

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestCreateAndGetSession(t *testing.T) {
	m := NewManager(time.Minute)

	session, err := m.CreateSession()
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, ok := m.GetSession(session.ID)
	if !ok {
		t.Fatal("session should be retrievable")
	}

	if got.ID != session.ID {
		t.Errorf("id mismatch: %s != %s", got.ID, session.ID)
	}

	if _, ok := m.GetSession("missing"); ok {
		t.Error("unknown id should not resolve")
	}
}

func TestExpiredSessionNotReturned(t *testing.T) {
	m := NewManager(10 * time.Millisecond)

	session, err := m.CreateSession()
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	if _, ok := m.GetSession(session.ID); ok {
		t.Error("expired session should not resolve")
	}

	if m.GetSessionCount() != 0 {
		t.Error("expired session should be removed on access")
	}
}

func TestGetExtendsLifetime(t *testing.T) {
	m := NewManager(50 * time.Millisecond)

	session, err := m.CreateSession()
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	for range 3 {
		time.Sleep(30 * time.Millisecond)

		if _, ok := m.GetSession(session.ID); !ok {
			t.Fatal("active session should stay alive")
		}
	}
}

func TestTurnSerialization(t *testing.T) {
	m := NewManager(time.Minute)

	session, err := m.CreateSession()
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := session.BeginTurn(); err != nil {
		t.Fatalf("first turn should start: %v", err)
	}

	if err := session.BeginTurn(); !errors.Is(err, ErrTurnInFlight) {
		t.Errorf("second concurrent turn should be rejected, got %v", err)
	}

	session.EndTurn()

	if err := session.BeginTurn(); err != nil {
		t.Errorf("turn should start after release: %v", err)
	}
}

func TestRecentTurnsWindow(t *testing.T) {
	session := &Session{ID: "test"}

	for i := range 8 {
		session.AppendTurn(Turn{
			Question: fmt.Sprintf("question %d", i),
			Answer:   fmt.Sprintf("answer %d", i),
		})
	}

	recent := session.RecentTurns(5)
	if len(recent) != 5 {
		t.Fatalf("expected 5 turns, got %d", len(recent))
	}

	if recent[0].Question != "question 3" {
		t.Errorf("window should start at the 4th turn, got %q", recent[0].Question)
	}

	if recent[4].Question != "question 7" {
		t.Errorf("window should end at the latest turn, got %q", recent[4].Question)
	}

	all := session.AllTurns()
	if len(all) != 8 {
		t.Errorf("full transcript should keep every turn, got %d", len(all))
	}
}

func TestRecentTurnsShortHistory(t *testing.T) {
	session := &Session{ID: "test"}
	session.AppendTurn(Turn{Question: "only one"})

	recent := session.RecentTurns(5)
	if len(recent) != 1 {
		t.Errorf("expected 1 turn, got %d", len(recent))
	}

	if session.RecentTurns(0) != nil {
		t.Error("zero window should return nil")
	}
}

func TestClearTurns(t *testing.T) {
	session := &Session{ID: "test"}
	session.AppendTurn(Turn{Question: "q", Answer: "a"})
	session.ClearTurns()

	if len(session.AllTurns()) != 0 {
		t.Error("clear should drop the transcript")
	}
}

func TestGenerateSessionIDUnique(t *testing.T) {
	seen := make(map[string]bool)

	for range 100 {
		id, err := GenerateSessionID()
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}

		if seen[id] {
			t.Fatal("duplicate session id")
		}

		seen[id] = true
	}
}
