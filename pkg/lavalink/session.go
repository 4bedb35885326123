package lavalink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/PancyStudios/aqualink/pkg/logger"
	"github.com/gorilla/websocket"
)

// SessionStatus is the connection status of a session.
type SessionStatus int32

const (
	StatusNotConnected SessionStatus = iota
	StatusConnected
	StatusFailure
)

// String returns the string representation of the status
func (s SessionStatus) String() string {
	switch s {
	case StatusNotConnected:
		return "NOT_CONNECTED"
	case StatusConnected:
		return "CONNECTED"
	case StatusFailure:
		return "FAILURE"
	default:
		return "UNKNOWN"
	}
}

const (
	defaultBackoff   = 60 * time.Second
	handshakeTimeout = 10 * time.Second
	apiVersionPath   = "/v4"
)

// SessionConfig holds the identity of one backend instance.
type SessionConfig struct {
	Name     string
	Host     string
	Port     int
	Secure   bool
	Password string

	// Backoff is the fixed interval between reconnect attempts. Defaults to
	// 60 seconds.
	Backoff time.Duration
}

// Session owns one websocket connection to one backend instance and the REST
// transport scoped to it. The websocket read loop is a background goroutine
// that reconnects forever until Stop is called.
type Session struct {
	client   *Client
	name     string
	host     string
	port     int
	secure   bool
	password string
	baseURI  string
	backoff  time.Duration

	mu         sync.RWMutex
	status     SessionStatus
	sessionID  string
	players    map[GuildID]*Player
	started    bool
	cancel     context.CancelFunc
	done       chan struct{}
	httpClient *http.Client
}

func newSession(client *Client, cfg SessionConfig) *Session {
	scheme := "http"
	if cfg.Secure {
		scheme = "https"
	}

	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}

	return &Session{
		client:   client,
		name:     cfg.Name,
		host:     cfg.Host,
		port:     cfg.Port,
		secure:   cfg.Secure,
		password: cfg.Password,
		baseURI:  fmt.Sprintf("%s://%s:%d", scheme, cfg.Host, cfg.Port),
		backoff:  backoff,
		status:   StatusNotConnected,
		players:  make(map[GuildID]*Player),
	}
}

// Name returns the unique name this session was registered under.
func (s *Session) Name() string { return s.name }

// BaseURI returns the REST base URI, without the version path.
func (s *Session) BaseURI() string { return s.baseURI }

// Status returns the current connection status.
func (s *Session) Status() SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// SessionID returns the backend-assigned session id, or "" until the
// websocket handshake completes.
func (s *Session) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID
}

func (s *Session) requireSessionID() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sessionID == "" {
		return "", ErrSessionStart
	}
	return s.sessionID, nil
}

// Players returns a snapshot of the players currently bound to this session.
func (s *Session) Players() []*Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, p)
	}
	return out
}

func (s *Session) addPlayer(p *Player) {
	s.mu.Lock()
	s.players[p.guildID] = p
	s.mu.Unlock()
}

func (s *Session) removePlayer(guild GuildID) {
	s.mu.Lock()
	delete(s.players, guild)
	s.mu.Unlock()
}

func (s *Session) playerFor(guild GuildID) *Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.players[guild]
}

// Start spawns the websocket connection loop. It returns an error if the
// session is already started.
func (s *Session) Start() error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("session %s is already started", s.name)
	}
	s.httpClient = s.client.httpClient
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.started = true
	s.mu.Unlock()

	go s.run(ctx)
	return nil
}

// Stop cancels the connection loop, waits for it to unwind and clears the
// backend session id. Safe to call on a session that was never started.
func (s *Session) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	cancel()
	<-done

	s.mu.Lock()
	s.started = false
	s.cancel = nil
	s.done = nil
	s.sessionID = ""
	s.status = StatusNotConnected
	s.mu.Unlock()

	logger.Info(fmt.Sprintf("Session %s stopped", s.name), "Lavalink")
}

// run is the infinite retry state machine: connect, read until the socket
// dies, back off, repeat. It only exits when ctx is cancelled.
func (s *Session) run(ctx context.Context) {
	defer close(s.done)

	for {
		s.connectAndRead(ctx)

		if ctx.Err() != nil {
			return
		}

		logger.Warn(fmt.Sprintf("Session %s backing off %s before reconnecting", s.name, s.backoff), "Lavalink")

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.backoff):
		}
	}
}

func (s *Session) connectAndRead(ctx context.Context) {
	headers := http.Header{}
	headers.Set("Authorization", s.password)
	headers.Set("User-Id", s.client.userID.String())
	headers.Set("Client-Name", s.client.clientName)

	scheme := "ws"
	if s.secure {
		scheme = "wss"
	}
	wsURL := fmt.Sprintf("%s://%s:%d%s/websocket", scheme, s.host, s.port, apiVersionPath)

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, wsURL, headers)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Error(fmt.Sprintf("Session %s failed to connect: %v", s.name, err), "Lavalink")
		s.clearConnection(StatusFailure)
		s.publish(&SessionErrorEvent{SessionName: s.name, Err: err})
		return
	}
	defer conn.Close()

	s.mu.Lock()
	s.status = StatusConnected
	s.mu.Unlock()

	logger.Success(fmt.Sprintf("Session %s connected to %s:%d", s.name, s.host, s.port), "Lavalink")
	s.publish(&SessionConnectedEvent{SessionName: s.name})

	// Unblock ReadMessage when the session is stopped.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				s.clearConnection(StatusNotConnected)
				return
			}

			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				logger.Warn(fmt.Sprintf("Session %s closed by backend: %d %s", s.name, closeErr.Code, closeErr.Text), "Lavalink")
				s.clearConnection(StatusNotConnected)
				s.publish(&SessionDisconnectedEvent{SessionName: s.name, Code: closeErr.Code, Reason: closeErr.Text})
			} else {
				logger.Error(fmt.Sprintf("Session %s websocket error: %v", s.name, err), "Lavalink")
				s.clearConnection(StatusFailure)
				s.publish(&SessionErrorEvent{SessionName: s.name, Err: err})
			}
			return
		}

		s.handleFrame(data)
	}
}

// clearConnection drops the backend session id along with the status change;
// the id is only ever valid while connected.
func (s *Session) clearConnection(status SessionStatus) {
	s.mu.Lock()
	s.status = status
	s.sessionID = ""
	s.mu.Unlock()
}

// handleFrame processes one inbound frame. A frame that fails to decode is
// logged and dropped; it never terminates the read loop.
func (s *Session) handleFrame(data []byte) {
	s.publish(&RawPayloadEvent{SessionName: s.name, Payload: data})

	event, err := s.client.codec.DecodeMessage(s.name, data)
	if err != nil {
		logger.Warn(fmt.Sprintf("Session %s dropped an undecodable frame: %v", s.name, err), "Lavalink")
		return
	}
	if event == nil {
		logger.Debug(fmt.Sprintf("Session %s ignoring unknown payload", s.name), "Lavalink")
		return
	}

	switch e := event.(type) {
	case *ReadyEvent:
		s.mu.Lock()
		s.sessionID = e.SessionID
		s.mu.Unlock()
		logger.Info(fmt.Sprintf("Session %s ready, backend session id %s", s.name, e.SessionID), "Lavalink")

	case *PlayerUpdateEvent:
		if p := s.playerFor(e.GuildID); p != nil {
			p.handlePlayerUpdate(e)
		}

	case *TrackEndEvent:
		if p := s.playerFor(e.GuildID); p != nil {
			p.handleTrackEnd(e)
		}
	}

	s.publish(event)
}

func (s *Session) publish(event Event) {
	s.client.sink.Publish(event)
}

// RequestOptions customizes a single REST call.
type RequestOptions struct {
	Headers http.Header
	Body    any
	Params  url.Values

	// Optional tolerates 204/404 responses, returning a nil body instead of
	// ErrRestEmpty.
	Optional bool

	// OmitAuth suppresses the default credential header.
	OmitAuth bool
}

// Request issues one REST call against this backend instance and returns the
// raw response body. It performs no retries; callers decide whether to retry.
func (s *Session) Request(ctx context.Context, route Route, opts RequestOptions) ([]byte, error) {
	s.mu.RLock()
	httpClient := s.httpClient
	s.mu.RUnlock()
	if httpClient == nil {
		return nil, fmt.Errorf("session %s: %w", s.name, ErrSessionStart)
	}

	reqURL := s.baseURI
	if !route.Unversioned {
		reqURL += apiVersionPath
	}
	reqURL += route.Path
	if len(opts.Params) > 0 {
		reqURL += "?" + opts.Params.Encode()
	}

	var body io.Reader
	if opts.Body != nil {
		data, err := s.client.codec.Marshal(opts.Body)
		if err != nil {
			return nil, &BuildError{Err: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, route.Method, reqURL, body)
	if err != nil {
		return nil, err
	}
	for key, values := range opts.Headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if opts.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !opts.OmitAuth {
		req.Header.Set("Authorization", s.password)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", route.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusNotFound {
		if opts.Optional {
			return nil, nil
		}
		return nil, fmt.Errorf("%s %s: %w", route.Method, route.Path, ErrRestEmpty)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s failed: %w", route.Path, err)
	}

	if resp.StatusCode >= 400 {
		if len(payload) == 0 {
			return nil, &RestStatusError{Status: resp.StatusCode, Reason: http.StatusText(resp.StatusCode)}
		}
		restErr, decodeErr := s.client.codec.DecodeRESTError(payload)
		if decodeErr != nil {
			return nil, &RestStatusError{Status: resp.StatusCode, Reason: http.StatusText(resp.StatusCode)}
		}
		return nil, restErr
	}

	return payload, nil
}

// Transfer moves every player bound to this session onto a session picked by
// the handler's selection policy, then stops this session. Each player's
// transfer completes before the next begins, so no player is dropped.
func (s *Session) Transfer(ctx context.Context, handler *SessionHandler) error {
	target, err := handler.fetchSessionOther(s)
	if err != nil {
		return err
	}

	for _, p := range s.Players() {
		moved, err := p.Transfer(ctx, target)
		if err != nil {
			return fmt.Errorf("transferring player for guild %s: %w", p.GuildID(), err)
		}
		handler.replacePlayer(moved)
	}

	s.Stop()
	return nil
}
