package mqtt

import (
	"errors"
	"testing"
	"time"

	"github.com/PancyStudios/aqualink/pkg/lavalink"
)

func newControlClient(t *testing.T) *lavalink.Client {
	t.Helper()

	client := lavalink.NewClient(lavalink.ClientConfig{UserID: 1})
	if _, err := client.AddSession(lavalink.SessionConfig{Name: "main", Host: "localhost", Port: 2333}); err != nil {
		t.Fatalf("adding session: %v", err)
	}
	return client
}

func TestListSessionsHandler(t *testing.T) {
	client := newControlClient(t)

	data, err := listSessionsHandler(client)(map[string]interface{}{})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	sessions, ok := data.([]map[string]interface{})
	if !ok || len(sessions) != 1 {
		t.Fatalf("sessions = %v, want one entry", data)
	}
	if sessions[0]["name"] != "main" {
		t.Errorf("name = %v, want main", sessions[0]["name"])
	}
	if sessions[0]["status"] != "NOT_CONNECTED" {
		t.Errorf("status = %v, want NOT_CONNECTED", sessions[0]["status"])
	}
}

func TestListPlayersHandlerEmpty(t *testing.T) {
	client := newControlClient(t)

	data, err := listPlayersHandler(client)(map[string]interface{}{})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	players, ok := data.([]map[string]interface{})
	if !ok || len(players) != 0 {
		t.Errorf("players = %v, want an empty list", data)
	}
}

func TestSkipHandlerValidation(t *testing.T) {
	client := newControlClient(t)
	handler := skipHandler(client)

	if _, err := handler(map[string]interface{}{}); err == nil {
		t.Error("expected an error without a guildId")
	}
	if _, err := handler(map[string]interface{}{"guildId": "not-a-snowflake"}); err == nil {
		t.Error("expected an error for a malformed guildId")
	}

	_, err := handler(map[string]interface{}{"guildId": "42"})
	if !errors.Is(err, lavalink.ErrPlayerMissing) {
		t.Errorf("expected ErrPlayerMissing for an unknown guild, got %v", err)
	}
}

func TestControlHandlersOverBroker(t *testing.T) {
	mc, _ := newFakeCommunicator()
	client := newControlClient(t)

	RegisterControlHandlers(mc, client)

	data, err := mc.Request("sessions/list", nil, time.Second)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	sessions, ok := data.([]interface{})
	if !ok || len(sessions) != 1 {
		t.Fatalf("sessions = %v, want one entry", data)
	}
	entry, ok := sessions[0].(map[string]interface{})
	if !ok || entry["name"] != "main" {
		t.Errorf("entry = %v, want name main", sessions[0])
	}

	if _, err := mc.Request("players/stop", map[string]interface{}{"guildId": "42"}, time.Second); err == nil {
		t.Error("expected an error stopping a player that does not exist")
	}
}
