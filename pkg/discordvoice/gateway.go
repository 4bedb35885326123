// Package discordvoice bridges the Discord gateway voice handshake to the
// audio backend. Joining a voice channel makes Discord emit a voice state
// update and a voice server update; both halves combined form the
// credentials the backend needs to stream into the channel.
package discordvoice

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/aqualink/pkg/lavalink"
	"github.com/PancyStudios/aqualink/pkg/logger"
)

type serverInfo struct {
	token    string
	endpoint string
}

// handshake collects the two halves of a pending voice join.
type handshake struct {
	state  chan string
	server chan serverInfo
}

// Gateway implements lavalink.VoiceGateway on top of a discordgo session.
type Gateway struct {
	session *discordgo.Session

	mu      sync.Mutex
	pending map[lavalink.GuildID]*handshake
}

// New creates a Gateway and registers its handlers on the session. The
// session must have the guild voice states intent enabled.
func New(session *discordgo.Session) *Gateway {
	g := &Gateway{
		session: session,
		pending: make(map[lavalink.GuildID]*handshake),
	}
	session.AddHandler(g.onVoiceStateUpdate)
	session.AddHandler(g.onVoiceServerUpdate)
	return g
}

func (g *Gateway) onVoiceStateUpdate(s *discordgo.Session, e *discordgo.VoiceStateUpdate) {
	if s.State == nil || s.State.User == nil || e.UserID != s.State.User.ID {
		return
	}

	guild, err := lavalink.ParseGuildID(e.GuildID)
	if err != nil {
		return
	}

	g.mu.Lock()
	hs := g.pending[guild]
	g.mu.Unlock()
	if hs == nil {
		return
	}

	select {
	case hs.state <- e.SessionID:
	default:
	}
}

func (g *Gateway) onVoiceServerUpdate(s *discordgo.Session, e *discordgo.VoiceServerUpdate) {
	guild, err := lavalink.ParseGuildID(e.GuildID)
	if err != nil {
		return
	}

	g.mu.Lock()
	hs := g.pending[guild]
	g.mu.Unlock()
	if hs == nil {
		return
	}

	select {
	case hs.server <- serverInfo{token: e.Token, endpoint: e.Endpoint}:
	default:
	}
}

// Connect joins the voice channel and waits for both handshake halves. The
// context bounds the wait; on timeout the join request is rolled back.
func (g *Gateway) Connect(ctx context.Context, guild lavalink.GuildID, channel lavalink.ChannelID, mute, deaf bool) (lavalink.VoiceCredentials, error) {
	hs := &handshake{
		state:  make(chan string, 1),
		server: make(chan serverInfo, 1),
	}

	g.mu.Lock()
	if _, exists := g.pending[guild]; exists {
		g.mu.Unlock()
		return lavalink.VoiceCredentials{}, fmt.Errorf("voice join for guild %s already in progress", guild)
	}
	g.pending[guild] = hs
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		delete(g.pending, guild)
		g.mu.Unlock()
	}()

	if err := g.session.ChannelVoiceJoinManual(guild.String(), channel.String(), mute, deaf); err != nil {
		return lavalink.VoiceCredentials{}, err
	}

	var creds lavalink.VoiceCredentials
	var haveState, haveServer bool
	for !haveState || !haveServer {
		select {
		case sessionID := <-hs.state:
			creds.SessionID = sessionID
			haveState = true
		case info := <-hs.server:
			creds.Token = info.token
			creds.Endpoint = info.endpoint
			haveServer = true
		case <-ctx.Done():
			if err := g.session.ChannelVoiceJoinManual(guild.String(), "", false, false); err != nil {
				logger.Warn(fmt.Sprintf("Rollback of voice join for guild %s failed: %v", guild, err), "Voice")
			}
			return lavalink.VoiceCredentials{}, fmt.Errorf("voice handshake for guild %s: %w", guild, ctx.Err())
		}
	}

	return creds, nil
}

// Disconnect leaves whatever voice channel the bot occupies in the guild.
func (g *Gateway) Disconnect(ctx context.Context, guild lavalink.GuildID) error {
	return g.session.ChannelVoiceJoinManual(guild.String(), "", false, false)
}
