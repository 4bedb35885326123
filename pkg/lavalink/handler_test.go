package lavalink

import (
	"context"
	"errors"
	"testing"
)

func addStoppedSession(t *testing.T, h *SessionHandler, name string) *Session {
	t.Helper()
	session, err := h.AddSession(SessionConfig{Name: name, Host: "localhost", Port: 2333})
	if err != nil {
		t.Fatalf("adding session %s: %v", name, err)
	}
	return session
}

func setStatus(s *Session, status SessionStatus) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

func TestAddSessionRejectsDuplicateName(t *testing.T) {
	client := newTestClient(nil)
	handler := client.Handler()

	addStoppedSession(t, handler, "main")

	_, err := handler.AddSession(SessionConfig{Name: "main", Host: "localhost", Port: 2333})
	if !errors.Is(err, ErrDuplicateSession) {
		t.Errorf("expected ErrDuplicateSession, got %v", err)
	}
}

func TestFetchSessionByName(t *testing.T) {
	client := newTestClient(nil)
	handler := client.Handler()

	want := addStoppedSession(t, handler, "main")

	got, err := handler.FetchSession("main")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if got != want {
		t.Error("fetch by name returned a different session")
	}

	if _, err := handler.FetchSession("missing"); !errors.Is(err, ErrSessionMissing) {
		t.Errorf("expected ErrSessionMissing, got %v", err)
	}
}

func TestFetchSessionSelectionPolicy(t *testing.T) {
	client := newTestClient(nil)
	handler := client.Handler()

	if _, err := handler.FetchSession(""); !errors.Is(err, ErrNoSessions) {
		t.Fatalf("expected ErrNoSessions with no sessions, got %v", err)
	}

	a := addStoppedSession(t, handler, "a")
	b := addStoppedSession(t, handler, "b")

	// Nothing connected yet.
	if _, err := handler.FetchSession(""); !errors.Is(err, ErrNoSessions) {
		t.Fatalf("expected ErrNoSessions with nothing connected, got %v", err)
	}

	// First connected session in registration order wins.
	setStatus(a, StatusFailure)
	setStatus(b, StatusConnected)

	got, err := handler.FetchSession("")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if got != b {
		t.Errorf("selection picked %s, want b", got.Name())
	}

	// The pick is cached: b stays current even after its health flips,
	// as long as it remains registered.
	setStatus(a, StatusConnected)
	setStatus(b, StatusFailure)

	got, err = handler.FetchSession("")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if got != b {
		t.Errorf("cached selection picked %s, want b", got.Name())
	}

	// Deleting the cached session forces a rescan.
	if err := handler.DeleteSession("b"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	got, err = handler.FetchSession("")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if got != a {
		t.Errorf("rescan picked %s, want a", got.Name())
	}
}

func TestTransferFromCachedCurrentSession(t *testing.T) {
	client := newTestClient(nil)
	handler := client.Handler()

	a := addStoppedSession(t, handler, "a")
	b := addStoppedSession(t, handler, "b")
	setStatus(a, StatusConnected)

	// Cache a as the current session.
	if got, err := handler.FetchSession(""); err != nil || got != a {
		t.Fatalf("fetch = %v, %v, want a", got, err)
	}

	player := newPlayer(a, 42)
	a.addPlayer(player)
	if err := handler.AddPlayer(player); err != nil {
		t.Fatalf("adding player: %v", err)
	}

	setStatus(a, StatusFailure)
	setStatus(b, StatusConnected)

	// Failing over away from the cached session must pick b, not hand a
	// back to itself.
	if err := a.Transfer(context.Background(), handler); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	moved, err := handler.FetchPlayer(42)
	if err != nil {
		t.Fatalf("fetch after transfer: %v", err)
	}
	if moved.Session() != b {
		t.Errorf("moved player bound to %s, want b", moved.Session().Name())
	}
	if len(a.Players()) != 0 {
		t.Error("source session should no longer route the player")
	}

	if got, err := handler.FetchSession(""); err != nil || got != b {
		t.Errorf("fetch after failover = %v, %v, want b", got, err)
	}
}

func TestDeleteSessionMissing(t *testing.T) {
	client := newTestClient(nil)

	if err := client.Handler().DeleteSession("ghost"); !errors.Is(err, ErrSessionMissing) {
		t.Errorf("expected ErrSessionMissing, got %v", err)
	}
}

func TestSessionsReturnRegistrationOrder(t *testing.T) {
	client := newTestClient(nil)
	handler := client.Handler()

	addStoppedSession(t, handler, "first")
	addStoppedSession(t, handler, "second")
	addStoppedSession(t, handler, "third")

	sessions := handler.Sessions()
	if len(sessions) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(sessions))
	}
	for i, want := range []string{"first", "second", "third"} {
		if sessions[i].Name() != want {
			t.Errorf("sessions[%d] = %s, want %s", i, sessions[i].Name(), want)
		}
	}
}

func TestCreatePlayerIsIdempotent(t *testing.T) {
	client := newTestClient(nil)
	handler := client.Handler()

	session := addStoppedSession(t, handler, "main")
	setStatus(session, StatusConnected)

	first, err := handler.CreatePlayer(42)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second, err := handler.CreatePlayer(42)
	if err != nil {
		t.Fatalf("second create failed: %v", err)
	}
	if first != second {
		t.Error("creating the same guild twice returned different players")
	}

	if len(session.Players()) != 1 {
		t.Errorf("session holds %d players, want 1", len(session.Players()))
	}
}

func TestCreatePlayerWithoutConnectedSession(t *testing.T) {
	client := newTestClient(nil)
	handler := client.Handler()
	addStoppedSession(t, handler, "main")

	if _, err := handler.CreatePlayer(42); !errors.Is(err, ErrNoSessions) {
		t.Errorf("expected ErrNoSessions, got %v", err)
	}
}

func TestFetchPlayerMissing(t *testing.T) {
	client := newTestClient(nil)

	if _, err := client.Handler().FetchPlayer(42); !errors.Is(err, ErrPlayerMissing) {
		t.Errorf("expected ErrPlayerMissing, got %v", err)
	}
}

func TestAddPlayerRejectsDuplicateGuild(t *testing.T) {
	client := newTestClient(nil)
	handler := client.Handler()

	session := addStoppedSession(t, handler, "main")
	setStatus(session, StatusConnected)

	if _, err := handler.CreatePlayer(42); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	err := handler.AddPlayer(newPlayer(session, 42))
	if !errors.Is(err, ErrDuplicatePlayer) {
		t.Errorf("expected ErrDuplicatePlayer, got %v", err)
	}
}

func TestDeletePlayerMissing(t *testing.T) {
	client := newTestClient(nil)

	err := client.Handler().DeletePlayer(context.Background(), 42)
	if !errors.Is(err, ErrPlayerMissing) {
		t.Errorf("expected ErrPlayerMissing, got %v", err)
	}
}

func TestDeletePlayerRemovesEvenWhenDisconnectFails(t *testing.T) {
	client := newTestClient(nil)
	handler := client.Handler()

	session := addStoppedSession(t, handler, "main")
	setStatus(session, StatusConnected)

	if _, err := handler.CreatePlayer(42); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// The session never completed a handshake, so the REST delete fails.
	err := handler.DeletePlayer(context.Background(), 42)
	if !errors.Is(err, ErrSessionStart) {
		t.Errorf("expected ErrSessionStart from the failed teardown, got %v", err)
	}

	if _, err := handler.FetchPlayer(42); !errors.Is(err, ErrPlayerMissing) {
		t.Error("player should be gone after delete, even when teardown failed")
	}
	if len(session.Players()) != 0 {
		t.Errorf("session still routes %d players, want 0", len(session.Players()))
	}
}

func TestStopClearsPlayers(t *testing.T) {
	client := newTestClient(nil)
	handler := client.Handler()

	session := addStoppedSession(t, handler, "main")
	setStatus(session, StatusConnected)

	if _, err := handler.CreatePlayer(42); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	handler.Stop()

	if handler.IsAlive() {
		t.Error("handler should not be alive after Stop")
	}
	if len(handler.Players()) != 0 {
		t.Errorf("handler still holds %d players after Stop, want 0", len(handler.Players()))
	}
}
