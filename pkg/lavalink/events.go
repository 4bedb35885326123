package lavalink

// Event is a typed domain event produced by a session or a player.
type Event interface {
	EventName() string
}

// GuildEvent is an event scoped to a single guild's player.
type GuildEvent interface {
	Event
	Guild() GuildID
}

// EventSink receives typed events for application dispatch. Implementations
// must not block; slow consumers should hand off to their own goroutine.
type EventSink interface {
	Publish(event Event)
}

// SinkFunc adapts a function to the EventSink interface.
type SinkFunc func(event Event)

func (f SinkFunc) Publish(event Event) { f(event) }

// NoopSink discards every event.
type NoopSink struct{}

func (NoopSink) Publish(Event) {}

// TrackEndReason reports why a track stopped playing.
type TrackEndReason string

const (
	TrackEndFinished   TrackEndReason = "finished"
	TrackEndLoadFailed TrackEndReason = "loadFailed"
	TrackEndStopped    TrackEndReason = "stopped"
	TrackEndReplaced   TrackEndReason = "replaced"
	TrackEndCleanup    TrackEndReason = "cleanup"
)

// ShouldAdvance reports whether this end reason is an organic completion
// that should advance the queue. Stopped, replaced and cleanup ends are
// caller-initiated or housekeeping and never advance.
func (r TrackEndReason) ShouldAdvance() bool {
	return r == TrackEndFinished || r == TrackEndLoadFailed
}

// RawPayloadEvent republishes every inbound websocket frame verbatim, before
// decoding, for extensions that want the raw wire data.
type RawPayloadEvent struct {
	SessionName string
	Payload     []byte
}

func (*RawPayloadEvent) EventName() string { return "RawPayload" }

// SessionConnectedEvent is published when a session's websocket handshake
// completes.
type SessionConnectedEvent struct {
	SessionName string
}

func (*SessionConnectedEvent) EventName() string { return "SessionConnected" }

// SessionDisconnectedEvent is published when the backend closes the
// websocket cleanly.
type SessionDisconnectedEvent struct {
	SessionName string
	Code        int
	Reason      string
}

func (*SessionDisconnectedEvent) EventName() string { return "SessionDisconnected" }

// SessionErrorEvent is published when the websocket fails at the transport
// level.
type SessionErrorEvent struct {
	SessionName string
	Err         error
}

func (*SessionErrorEvent) EventName() string { return "SessionError" }

// ReadyEvent is the backend's handshake acknowledgement carrying the session
// id all scoped REST calls require.
type ReadyEvent struct {
	SessionName string `json:"-"`
	Resumed     bool   `json:"resumed"`
	SessionID   string `json:"sessionId"`
}

func (*ReadyEvent) EventName() string { return "Ready" }

// PlayerUpdateEvent is a periodic backend push of a player's authoritative
// state.
type PlayerUpdateEvent struct {
	SessionName string      `json:"-"`
	GuildID     GuildID     `json:"guildId"`
	State       PlayerState `json:"state"`
}

func (*PlayerUpdateEvent) EventName() string { return "PlayerUpdate" }
func (e *PlayerUpdateEvent) Guild() GuildID  { return e.GuildID }

// StatisticsEvent is a periodic backend statistics push.
type StatisticsEvent struct {
	SessionName string `json:"-"`
	Statistics
}

func (*StatisticsEvent) EventName() string { return "Statistics" }

// TrackStartEvent signals a track started playing.
type TrackStartEvent struct {
	SessionName string  `json:"-"`
	GuildID     GuildID `json:"guildId"`
	Track       Track   `json:"track"`
}

func (*TrackStartEvent) EventName() string { return "TrackStart" }
func (e *TrackStartEvent) Guild() GuildID  { return e.GuildID }

// TrackEndEvent signals a track stopped playing, with the reason.
type TrackEndEvent struct {
	SessionName string         `json:"-"`
	GuildID     GuildID        `json:"guildId"`
	Track       Track          `json:"track"`
	Reason      TrackEndReason `json:"reason"`
}

func (*TrackEndEvent) EventName() string { return "TrackEnd" }
func (e *TrackEndEvent) Guild() GuildID  { return e.GuildID }

// TrackExceptionEvent signals a track failed while playing.
type TrackExceptionEvent struct {
	SessionName string         `json:"-"`
	GuildID     GuildID        `json:"guildId"`
	Track       Track          `json:"track"`
	Exception   TrackException `json:"exception"`
}

func (*TrackExceptionEvent) EventName() string { return "TrackException" }
func (e *TrackExceptionEvent) Guild() GuildID  { return e.GuildID }

// TrackStuckEvent signals a track stopped making progress.
type TrackStuckEvent struct {
	SessionName string  `json:"-"`
	GuildID     GuildID `json:"guildId"`
	Track       Track   `json:"track"`
	ThresholdMs int64   `json:"thresholdMs"`
}

func (*TrackStuckEvent) EventName() string { return "TrackStuck" }
func (e *TrackStuckEvent) Guild() GuildID  { return e.GuildID }

// WebSocketClosedEvent signals the backend's own voice websocket to the
// platform closed for a guild.
type WebSocketClosedEvent struct {
	SessionName string  `json:"-"`
	GuildID     GuildID `json:"guildId"`
	Code        int     `json:"code"`
	Reason      string  `json:"reason"`
	ByRemote    bool    `json:"byRemote"`
}

func (*WebSocketClosedEvent) EventName() string { return "WebSocketClosed" }
func (e *WebSocketClosedEvent) Guild() GuildID  { return e.GuildID }

// QueueNextEvent is published by a player when autoplay advances the queue.
type QueueNextEvent struct {
	SessionName string
	GuildID     GuildID
	Track       *Track
	OldTrack    *Track
}

func (*QueueNextEvent) EventName() string { return "QueueNext" }
func (e *QueueNextEvent) Guild() GuildID  { return e.GuildID }

// QueueEmptyEvent is published by a player when the last queued track
// finishes and nothing is left to play.
type QueueEmptyEvent struct {
	SessionName string
	GuildID     GuildID
	OldTrack    *Track
}

func (*QueueEmptyEvent) EventName() string { return "QueueEmpty" }
func (e *QueueEmptyEvent) Guild() GuildID  { return e.GuildID }
