package lavalink

import (
	"context"
	"fmt"
	"sync"

	"github.com/PancyStudios/aqualink/pkg/logger"
)

// SessionHandler owns the set of sessions and the set of players. It picks a
// healthy session for new work and is the single source of truth for which
// players exist.
//
// Session selection is deliberately simple: the last session known to be
// healthy is cached and reused; on a cache miss the registered sessions are
// scanned in registration order for the first connected one. No load
// balancing.
type SessionHandler struct {
	client *Client

	mu       sync.RWMutex
	sessions map[string]*Session
	order    []string
	players  map[GuildID]*Player
	current  *Session
	alive    bool
}

func newSessionHandler(client *Client) *SessionHandler {
	return &SessionHandler{
		client:   client,
		sessions: make(map[string]*Session),
		players:  make(map[GuildID]*Player),
	}
}

// Sessions returns the registered sessions in registration order.
func (h *SessionHandler) Sessions() []*Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Session, 0, len(h.order))
	for _, name := range h.order {
		if s, ok := h.sessions[name]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Players returns a snapshot of the registered players.
func (h *SessionHandler) Players() []*Player {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Player, 0, len(h.players))
	for _, p := range h.players {
		out = append(out, p)
	}
	return out
}

// IsAlive reports whether Start has been called without a matching Stop.
func (h *SessionHandler) IsAlive() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.alive
}

// Start marks the handler alive and starts every registered session.
func (h *SessionHandler) Start() error {
	h.mu.Lock()
	h.alive = true
	h.mu.Unlock()

	for _, s := range h.Sessions() {
		if err := s.Start(); err != nil {
			return err
		}
	}
	return nil
}

// Stop stops every session and drops every player.
func (h *SessionHandler) Stop() {
	for _, s := range h.Sessions() {
		s.Stop()
	}

	h.mu.Lock()
	h.players = make(map[GuildID]*Player)
	h.current = nil
	h.alive = false
	h.mu.Unlock()
}

// AddSession constructs a session from cfg and registers it. If the handler
// is already started the session is started immediately.
func (h *SessionHandler) AddSession(cfg SessionConfig) (*Session, error) {
	session := newSession(h.client, cfg)

	h.mu.Lock()
	if _, exists := h.sessions[cfg.Name]; exists {
		h.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrDuplicateSession, cfg.Name)
	}
	h.sessions[cfg.Name] = session
	h.order = append(h.order, cfg.Name)
	alive := h.alive
	h.mu.Unlock()

	if alive {
		if err := session.Start(); err != nil {
			return nil, err
		}
	}

	logger.Info(fmt.Sprintf("Registered session %s (%s:%d)", cfg.Name, cfg.Host, cfg.Port), "Lavalink")
	return session, nil
}

// FetchSession returns the named session, or with an empty name applies the
// selection policy: the cached current session if still registered, else the
// first connected session in registration order.
func (h *SessionHandler) FetchSession(name string) (*Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if name != "" {
		session, ok := h.sessions[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrSessionMissing, name)
		}
		return session, nil
	}

	if h.current != nil {
		if _, ok := h.sessions[h.current.Name()]; ok {
			return h.current, nil
		}
		h.current = nil
	}

	for _, n := range h.order {
		session, ok := h.sessions[n]
		if ok && session.Status() == StatusConnected {
			h.current = session
			return session, nil
		}
	}

	return nil, ErrNoSessions
}

// fetchSessionOther applies the selection policy while treating exclude as
// dead. Failover away from the cached current session relies on this; the
// plain policy would just hand the dying session back.
func (h *SessionHandler) fetchSessionOther(exclude *Session) (*Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current == exclude {
		h.current = nil
	}
	if h.current != nil {
		if _, ok := h.sessions[h.current.Name()]; ok {
			return h.current, nil
		}
		h.current = nil
	}

	for _, n := range h.order {
		session, ok := h.sessions[n]
		if ok && session != exclude && session.Status() == StatusConnected {
			h.current = session
			return session, nil
		}
	}

	return nil, ErrNoSessions
}

// DeleteSession removes the named session and stops it. Deleting a session
// that still owns players without transferring them first is a caller error;
// the handler does not auto-correct it.
func (h *SessionHandler) DeleteSession(name string) error {
	h.mu.Lock()
	session, ok := h.sessions[name]
	if !ok {
		h.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrSessionMissing, name)
	}
	delete(h.sessions, name)
	for i, n := range h.order {
		if n == name {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	if h.current == session {
		h.current = nil
	}
	h.mu.Unlock()

	session.Stop()
	return nil
}

// AddPlayer registers an externally constructed player.
func (h *SessionHandler) AddPlayer(player *Player) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.players[player.guildID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePlayer, player.guildID)
	}
	h.players[player.guildID] = player
	return nil
}

// FetchPlayer returns the guild's player or ErrPlayerMissing.
func (h *SessionHandler) FetchPlayer(guild GuildID) (*Player, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	player, ok := h.players[guild]
	if !ok {
		return nil, fmt.Errorf("%w: guild %s", ErrPlayerMissing, guild)
	}
	return player, nil
}

// CreatePlayer returns the guild's player, creating one on a session picked
// by the selection policy if none exists. Idempotent.
func (h *SessionHandler) CreatePlayer(guild GuildID) (*Player, error) {
	h.mu.RLock()
	if player, ok := h.players[guild]; ok {
		h.mu.RUnlock()
		return player, nil
	}
	h.mu.RUnlock()

	session, err := h.FetchSession("")
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if player, ok := h.players[guild]; ok {
		return player, nil
	}

	player := newPlayer(session, guild)
	h.players[guild] = player
	session.addPlayer(player)

	logger.Info(fmt.Sprintf("Created player for guild %s on session %s", guild, session.Name()), "Lavalink")
	return player, nil
}

// DeletePlayer disconnects the guild's player and removes it, both here and
// from its session's event routing.
func (h *SessionHandler) DeletePlayer(ctx context.Context, guild GuildID) error {
	h.mu.RLock()
	player, ok := h.players[guild]
	h.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: guild %s", ErrPlayerMissing, guild)
	}

	err := player.Disconnect(ctx)
	player.session.removePlayer(guild)

	h.mu.Lock()
	delete(h.players, guild)
	h.mu.Unlock()

	return err
}

// replacePlayer swaps in a player that moved to a new session during a
// transfer.
func (h *SessionHandler) replacePlayer(player *Player) {
	h.mu.Lock()
	h.players[player.guildID] = player
	h.mu.Unlock()
}
