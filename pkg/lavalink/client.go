// Package lavalink is a control-plane client for a Lavalink-protocol audio
// backend. It keeps persistent websocket sessions to one or more backend
// instances, issues REST commands against them, and mirrors per-guild
// playback state locally.
package lavalink

import (
	"context"
	"net/http"
	"time"
)

// Version is the client version advertised in the websocket handshake.
const Version = "0.1.0"

const (
	defaultHTTPTimeout  = 10 * time.Second
	defaultVoiceTimeout = 5 * time.Second
)

// ClientConfig configures a Client. Zero-value fields get sane defaults,
// except UserID which every backend requires for the handshake.
type ClientConfig struct {
	// UserID is the platform user this client acts as, sent as the User-Id
	// handshake header.
	UserID UserID

	// ClientName is sent as the Client-Name handshake header. Defaults to
	// "aqualink/<version>".
	ClientName string

	// HTTPClient is shared by every session for REST calls. The client owns
	// it; sessions only borrow it and never close it.
	HTTPClient *http.Client

	// Codec converts wire payloads to typed records. Defaults to JSONCodec.
	Codec Codec

	// Sink receives every typed event. Defaults to a sink that discards
	// everything.
	Sink EventSink

	// Voice negotiates platform voice connections. Required for
	// Player.Connect; players on a client without one fail to connect.
	Voice VoiceGateway

	// VoiceTimeout bounds the wait for the two voice handshake signals.
	// Defaults to 5 seconds.
	VoiceTimeout time.Duration
}

// Client is the application-facing entry point. It owns the shared HTTP
// transport and the session handler.
type Client struct {
	userID       UserID
	clientName   string
	httpClient   *http.Client
	codec        Codec
	sink         EventSink
	voice        VoiceGateway
	voiceTimeout time.Duration

	handler *SessionHandler
}

// NewClient creates a client. Sessions are added afterwards through
// AddSession.
func NewClient(cfg ClientConfig) *Client {
	if cfg.ClientName == "" {
		cfg.ClientName = "aqualink/" + Version
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if cfg.Codec == nil {
		cfg.Codec = JSONCodec{}
	}
	if cfg.Sink == nil {
		cfg.Sink = NoopSink{}
	}
	if cfg.VoiceTimeout <= 0 {
		cfg.VoiceTimeout = defaultVoiceTimeout
	}

	c := &Client{
		userID:       cfg.UserID,
		clientName:   cfg.ClientName,
		httpClient:   cfg.HTTPClient,
		codec:        cfg.Codec,
		sink:         cfg.Sink,
		voice:        cfg.Voice,
		voiceTimeout: cfg.VoiceTimeout,
	}
	c.handler = newSessionHandler(c)
	return c
}

// Handler returns the session handler.
func (c *Client) Handler() *SessionHandler { return c.handler }

// Start starts every registered session.
func (c *Client) Start() error { return c.handler.Start() }

// Stop stops every session and drops every player.
func (c *Client) Stop() { c.handler.Stop() }

// AddSession registers a backend instance with the handler.
func (c *Client) AddSession(cfg SessionConfig) (*Session, error) {
	return c.handler.AddSession(cfg)
}

// CreatePlayer returns the guild's player, creating one on a connected
// session if none exists.
func (c *Client) CreatePlayer(guild GuildID) (*Player, error) {
	return c.handler.CreatePlayer(guild)
}

// FetchPlayer returns the guild's player or ErrPlayerMissing.
func (c *Client) FetchPlayer(guild GuildID) (*Player, error) {
	return c.handler.FetchPlayer(guild)
}

// DeletePlayer disconnects and removes the guild's player.
func (c *Client) DeletePlayer(ctx context.Context, guild GuildID) error {
	return c.handler.DeletePlayer(ctx, guild)
}
