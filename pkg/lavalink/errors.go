package lavalink

import (
	"errors"
	"fmt"
)

// Sentinel errors for registry and lifecycle conditions. Callers branch on
// these with errors.Is.
var (
	// ErrSessionStart is returned when a request needs a backend session id
	// but the websocket has not completed its handshake yet.
	ErrSessionStart = errors.New("session has not received a ready payload")

	// ErrNoSessions is returned when no registered session is connected.
	ErrNoSessions = errors.New("no connected sessions available")

	// ErrSessionMissing is returned when a session lookup by name fails.
	ErrSessionMissing = errors.New("session not found")

	// ErrDuplicateSession is returned when a session name is already taken.
	ErrDuplicateSession = errors.New("session name already registered")

	// ErrPlayerMissing is returned when a player lookup by guild fails.
	ErrPlayerMissing = errors.New("player not found")

	// ErrDuplicatePlayer is returned when a guild already has a player.
	ErrDuplicatePlayer = errors.New("player already registered for guild")

	// ErrRestEmpty is returned for 204/404 responses when the caller did not
	// mark the request as optional.
	ErrRestEmpty = errors.New("response was empty")
)

// RestStatusError is a 4XX/5XX response with no structured error body.
type RestStatusError struct {
	Status int
	Reason string
}

func (e *RestStatusError) Error() string {
	return fmt.Sprintf("rest request failed with status %d: %s", e.Status, e.Reason)
}

// RestRequestError is a 4XX/5XX response with the backend's structured error
// body attached.
type RestRequestError struct {
	Timestamp int64  `json:"timestamp"`
	Status    int    `json:"status"`
	ErrorText string `json:"error"`
	Message   string `json:"message"`
	Path      string `json:"path"`
	Trace     string `json:"trace,omitempty"`
}

func (e *RestRequestError) Error() string {
	return fmt.Sprintf("rest request to %s failed with status %d (%s): %s", e.Path, e.Status, e.ErrorText, e.Message)
}

// BuildError is returned when a payload could not be decoded into the
// expected shape.
type BuildError struct {
	Err error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("failed to build payload: %v", e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// PlayerConnectError is returned when the voice handshake failed, timed out,
// or the player is in no state to talk to a voice channel.
type PlayerConnectError struct {
	Message string
}

func (e *PlayerConnectError) Error() string { return e.Message }

// PlayerQueueError is returned for invalid queue operations.
type PlayerQueueError struct {
	Message string
}

func (e *PlayerQueueError) Error() string { return e.Message }
