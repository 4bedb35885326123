package lavalink

import "context"

// VoiceGateway negotiates voice connections with the host chat platform.
// Connect must block until both halves of the voice handshake (server token/
// endpoint and the voice session id) have arrived, or fail when ctx expires.
type VoiceGateway interface {
	Connect(ctx context.Context, guild GuildID, channel ChannelID, mute, deaf bool) (VoiceCredentials, error)
	Disconnect(ctx context.Context, guild GuildID) error
}
