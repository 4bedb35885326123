package lavalink

import (
	"testing"

	json "github.com/goccy/go-json"
)

func TestIDsTravelAsStrings(t *testing.T) {
	data, err := json.Marshal(GuildID(123456789012345678))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `"123456789012345678"` {
		t.Errorf("marshaled id = %s, want quoted decimal string", data)
	}

	var id GuildID
	if err := json.Unmarshal([]byte(`"42"`), &id); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if id != 42 {
		t.Errorf("unmarshaled id = %d, want 42", id)
	}

	if err := json.Unmarshal([]byte(`42`), &id); err == nil {
		t.Error("expected an error unmarshaling a bare number")
	}
}

func TestParseIDs(t *testing.T) {
	if _, err := ParseGuildID("not-a-number"); err == nil {
		t.Error("expected an error for a non-numeric guild id")
	}

	guild, err := ParseGuildID("987")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if guild != 987 {
		t.Errorf("guild = %d, want 987", guild)
	}

	user, err := ParseUserID("123")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if user.String() != "123" {
		t.Errorf("user.String() = %q, want %q", user.String(), "123")
	}
}
