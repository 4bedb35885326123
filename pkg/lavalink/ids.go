package lavalink

import (
	"fmt"
	"strconv"
)

// GuildID identifies a guild on the chat platform.
type GuildID uint64

// ChannelID identifies a voice channel on the chat platform.
type ChannelID uint64

// UserID identifies a user on the chat platform.
type UserID uint64

func (id GuildID) String() string   { return strconv.FormatUint(uint64(id), 10) }
func (id ChannelID) String() string { return strconv.FormatUint(uint64(id), 10) }
func (id UserID) String() string    { return strconv.FormatUint(uint64(id), 10) }

// ParseGuildID parses the decimal string form used on the wire.
func ParseGuildID(s string) (GuildID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid guild id %q: %w", s, err)
	}
	return GuildID(v), nil
}

// ParseChannelID parses the decimal string form used on the wire.
func ParseChannelID(s string) (ChannelID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid channel id %q: %w", s, err)
	}
	return ChannelID(v), nil
}

// ParseUserID parses the decimal string form used on the wire.
func ParseUserID(s string) (UserID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user id %q: %w", s, err)
	}
	return UserID(v), nil
}

// Ids travel as JSON strings on the wire, the same way the platform
// serializes snowflakes.

func (id GuildID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(id.String())), nil
}

func (id *GuildID) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("guild id must be a string: %w", err)
	}
	v, err := ParseGuildID(s)
	if err != nil {
		return err
	}
	*id = v
	return nil
}

func (id ChannelID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(id.String())), nil
}

func (id *ChannelID) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("channel id must be a string: %w", err)
	}
	v, err := ParseChannelID(s)
	if err != nil {
		return err
	}
	*id = v
	return nil
}

func (id UserID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(id.String())), nil
}

func (id *UserID) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("user id must be a string: %w", err)
	}
	v, err := ParseUserID(s)
	if err != nil {
		return err
	}
	*id = v
	return nil
}
