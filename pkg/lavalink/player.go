package lavalink

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/PancyStudios/aqualink/pkg/logger"
)

// Volume bounds accepted by the backend.
const (
	MinVolume = 0
	MaxVolume = 1000
)

// Player is the per-guild playback state machine: a local queue plus the
// last backend-reported state, layered over its session's REST transport.
// A player is bound to exactly one session; the binding only changes by
// building a new player through Transfer.
type Player struct {
	session *Session
	guildID GuildID

	mu        sync.Mutex
	channelID ChannelID
	queue     []*Track
	track     *Track
	volume    int
	paused    bool
	position  int64
	connected bool
	voice     *VoiceCredentials
	filters   Filters
	loop      bool
	autoplay  bool
	state     PlayerState
}

func newPlayer(session *Session, guild GuildID) *Player {
	return &Player{
		session:  session,
		guildID:  guild,
		volume:   -1,
		paused:   true,
		autoplay: true,
	}
}

// GuildID returns the guild this player belongs to.
func (p *Player) GuildID() GuildID { return p.guildID }

// Session returns the session this player is bound to.
func (p *Player) Session() *Session { return p.session }

// ChannelID returns the voice channel, or 0 when not connected to one.
func (p *Player) ChannelID() ChannelID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channelID
}

// Queue returns a snapshot of the queue. Index 0 is the playing track.
func (p *Player) Queue() []*Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*Track(nil), p.queue...)
}

// QueueLen returns the number of queued tracks.
func (p *Player) QueueLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Volume returns the last acknowledged volume, or -1 if unknown.
func (p *Player) Volume() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Paused reports whether playback is paused.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Position returns the playback position in milliseconds.
func (p *Player) Position() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

// Connected reports whether the backend considers this player connected to
// the platform voice gateway.
func (p *Player) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

// Voice returns the recorded voice credentials, or nil.
func (p *Player) Voice() *VoiceCredentials {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.voice
}

// Filters returns the filters last sent to the backend.
func (p *Player) Filters() Filters {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filters
}

// Loop reports whether the current track replays on completion.
func (p *Player) Loop() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loop
}

// Autoplay reports whether the queue advances on organic track completion.
func (p *Player) Autoplay() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.autoplay
}

// State returns the last backend-reported player state.
func (p *Player) State() PlayerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// IsAlive reports whether the player holds voice credentials and the backend
// considers it connected.
func (p *Player) IsAlive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.voice != nil && p.connected
}

// Connect joins the given voice channel. Both halves of the platform voice
// handshake must arrive within the client's voice timeout, then the
// resulting credentials are pushed to the backend.
func (p *Player) Connect(ctx context.Context, channel ChannelID, mute, deaf bool) error {
	if _, err := p.session.requireSessionID(); err != nil {
		return err
	}

	gateway := p.session.client.voice
	if gateway == nil {
		return &PlayerConnectError{Message: "no voice gateway configured"}
	}

	p.mu.Lock()
	p.channelID = channel
	p.mu.Unlock()

	voiceCtx, cancel := context.WithTimeout(ctx, p.session.client.voiceTimeout)
	defer cancel()

	creds, err := gateway.Connect(voiceCtx, p.guildID, channel, mute, deaf)
	if err != nil {
		return &PlayerConnectError{Message: fmt.Sprintf("voice handshake for guild %s failed: %v", p.guildID, err)}
	}
	if creds.Endpoint == "" {
		return &PlayerConnectError{Message: fmt.Sprintf("voice handshake for guild %s returned no endpoint", p.guildID)}
	}

	info, err := p.session.UpdatePlayer(ctx, p.guildID, PlayerUpdate{Voice: &creds})
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.voice = &creds
	p.connected = true
	p.applyInfoLocked(info)
	p.mu.Unlock()

	logger.Info(fmt.Sprintf("Player for guild %s connected to channel %s", p.guildID, channel), "Lavalink")
	return nil
}

// Disconnect clears the queue, leaves the voice channel and deletes the
// backend player. The player stays registered with its session, so backend
// events still reach it after a later Connect.
func (p *Player) Disconnect(ctx context.Context) error {
	p.mu.Lock()
	p.queue = nil
	p.mu.Unlock()

	return p.teardown(ctx)
}

// teardown releases the voice channel and the backend player but keeps the
// local queue, for transfers.
func (p *Player) teardown(ctx context.Context) error {
	if gateway := p.session.client.voice; gateway != nil {
		if err := gateway.Disconnect(ctx, p.guildID); err != nil {
			logger.Warn(fmt.Sprintf("Voice teardown for guild %s failed: %v", p.guildID, err), "Lavalink")
		}
	}

	err := p.session.DeletePlayer(ctx, p.guildID)

	p.mu.Lock()
	p.connected = false
	p.mu.Unlock()

	return err
}

// Play sends the queue head to the backend. If track is given it is pushed
// to the front of the queue first, stamped with requestor when non-zero.
func (p *Player) Play(ctx context.Context, track *Track, requestor UserID) error {
	if _, err := p.session.requireSessionID(); err != nil {
		return err
	}

	p.mu.Lock()
	if !p.connected {
		p.mu.Unlock()
		return &PlayerConnectError{Message: "player is not connected to a voice channel"}
	}
	if track != nil {
		if requestor != 0 {
			track.Requestor = requestor
		}
		p.queue = append([]*Track{track}, p.queue...)
	}
	if len(p.queue) == 0 {
		p.mu.Unlock()
		return &PlayerQueueError{Message: "queue is empty"}
	}
	head := p.queue[0]
	p.mu.Unlock()

	info, err := p.session.UpdatePlayer(ctx, p.guildID, PlayerUpdate{
		Track: &TrackUpdate{Encoded: &head.Encoded, UserData: head.UserData},
	})
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.paused = false
	p.applyInfoLocked(info)
	p.mu.Unlock()
	return nil
}

// Add appends one track to the queue tail. The requestor is stamped only
// when given and the track carries none yet.
func (p *Player) Add(track *Track, requestor UserID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.appendLocked(track, requestor)
}

// AddTracks appends tracks to the queue tail, preserving order.
func (p *Player) AddTracks(tracks []*Track, requestor UserID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, t := range tracks {
		p.appendLocked(t, requestor)
	}
}

// AddPlaylist appends every track of a playlist to the queue tail.
func (p *Player) AddPlaylist(playlist *Playlist, requestor UserID) {
	p.AddTracks(playlist.Tracks, requestor)
}

func (p *Player) appendLocked(track *Track, requestor UserID) {
	if requestor != 0 && track.Requestor == 0 {
		track.Requestor = requestor
	}
	p.queue = append(p.queue, track)
}

// Pause toggles the pause flag.
func (p *Player) Pause(ctx context.Context) error {
	p.mu.Lock()
	next := !p.paused
	p.mu.Unlock()
	return p.SetPaused(ctx, next)
}

// SetPaused forces the pause flag.
func (p *Player) SetPaused(ctx context.Context, paused bool) error {
	if _, err := p.session.requireSessionID(); err != nil {
		return err
	}

	info, err := p.session.UpdatePlayer(ctx, p.guildID, PlayerUpdate{Paused: Bool(paused)})
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.paused = paused
	p.applyInfoLocked(info)
	p.mu.Unlock()
	return nil
}

// Stop clears the backend's current track without touching the queue.
func (p *Player) Stop(ctx context.Context) error {
	if _, err := p.session.requireSessionID(); err != nil {
		return err
	}

	info, err := p.session.UpdatePlayer(ctx, p.guildID, PlayerUpdate{
		Track: &TrackUpdate{Encoded: nil},
	})
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.applyInfoLocked(info)
	p.mu.Unlock()
	return nil
}

// Skip removes up to amount tracks from the queue head, then plays the new
// head, or stops if nothing is left.
func (p *Player) Skip(ctx context.Context, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("skip amount must be positive, got %d", amount)
	}

	p.mu.Lock()
	if amount > len(p.queue) {
		amount = len(p.queue)
	}
	p.queue = p.queue[amount:]
	empty := len(p.queue) == 0
	p.mu.Unlock()

	if empty {
		return p.Stop(ctx)
	}
	return p.Play(ctx, nil, 0)
}

// RemoveAt removes the track at the given queue position.
func (p *Player) RemoveAt(index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.queue) == 0 {
		return &PlayerQueueError{Message: "queue is empty"}
	}
	if index < 0 || index >= len(p.queue) {
		return &PlayerQueueError{Message: fmt.Sprintf("no track at position %d", index)}
	}
	p.queue = append(p.queue[:index], p.queue[index+1:]...)
	return nil
}

// RemoveTrack removes the first queued track with the same encoded form.
func (p *Player) RemoveTrack(track *Track) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.queue) == 0 {
		return &PlayerQueueError{Message: "queue is empty"}
	}
	for i, t := range p.queue {
		if t == track || t.Encoded == track.Encoded {
			p.queue = append(p.queue[:i], p.queue[i+1:]...)
			return nil
		}
	}
	return &PlayerQueueError{Message: fmt.Sprintf("track %q is not queued", track.Info.Title)}
}

// Shuffle randomly permutes the queue, keeping the playing head in place.
// Queues shorter than 3 have nothing meaningful to shuffle.
func (p *Player) Shuffle() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.queue) < 3 {
		return &PlayerQueueError{Message: "queue needs at least 3 tracks to shuffle"}
	}

	rest := p.queue[1:]
	rand.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})
	return nil
}

// SetVolume sets the playback volume, 0 to 1000.
func (p *Player) SetVolume(ctx context.Context, volume int) error {
	if volume < MinVolume || volume > MaxVolume {
		return fmt.Errorf("volume must be within [%d, %d], got %d", MinVolume, MaxVolume, volume)
	}
	if _, err := p.session.requireSessionID(); err != nil {
		return err
	}

	info, err := p.session.UpdatePlayer(ctx, p.guildID, PlayerUpdate{Volume: Int(volume)})
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.volume = volume
	p.applyInfoLocked(info)
	p.mu.Unlock()
	return nil
}

// SetPosition seeks the playing track to the given position in
// milliseconds.
func (p *Player) SetPosition(ctx context.Context, position int64) error {
	if position < 0 {
		return fmt.Errorf("position cannot be negative, got %d", position)
	}

	p.mu.Lock()
	if len(p.queue) == 0 {
		p.mu.Unlock()
		return &PlayerQueueError{Message: "queue is empty"}
	}
	if length := p.queue[0].Info.Length; position > length {
		p.mu.Unlock()
		return fmt.Errorf("position %d exceeds track length %d", position, length)
	}
	p.mu.Unlock()

	if _, err := p.session.requireSessionID(); err != nil {
		return err
	}

	info, err := p.session.UpdatePlayer(ctx, p.guildID, PlayerUpdate{Position: Int64(position)})
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.position = position
	p.applyInfoLocked(info)
	p.mu.Unlock()
	return nil
}

// SetFilters replaces the player's filters on the backend.
func (p *Player) SetFilters(ctx context.Context, filters Filters) error {
	if _, err := p.session.requireSessionID(); err != nil {
		return err
	}

	info, err := p.session.UpdatePlayer(ctx, p.guildID, PlayerUpdate{Filters: filters})
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.filters = filters
	p.applyInfoLocked(info)
	p.mu.Unlock()
	return nil
}

// SetLoop forces the loop flag.
func (p *Player) SetLoop(enabled bool) {
	p.mu.Lock()
	p.loop = enabled
	p.mu.Unlock()
}

// ToggleLoop flips the loop flag and returns the new value.
func (p *Player) ToggleLoop() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loop = !p.loop
	return p.loop
}

// SetAutoplay forces the autoplay flag.
func (p *Player) SetAutoplay(enabled bool) {
	p.mu.Lock()
	p.autoplay = enabled
	p.mu.Unlock()
}

// ToggleAutoplay flips the autoplay flag and returns the new value.
func (p *Player) ToggleAutoplay() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.autoplay = !p.autoplay
	return p.autoplay
}

// Transfer builds a new player on the target session carrying this player's
// queue, flags and requestor stamps unchanged. If this player is live, voice
// is re-established on the target, the head replayed and the position
// restored before the new player is returned.
func (p *Player) Transfer(ctx context.Context, target *Session) (*Player, error) {
	p.mu.Lock()
	moved := newPlayer(target, p.guildID)
	moved.queue = append([]*Track(nil), p.queue...)
	moved.channelID = p.channelID
	moved.loop = p.loop
	moved.autoplay = p.autoplay
	moved.volume = p.volume
	moved.filters = p.filters
	connected := p.connected
	channel := p.channelID
	wasPaused := p.paused
	position := p.position
	p.mu.Unlock()

	if connected && channel != 0 {
		// The old session is often already dead when a transfer happens;
		// its remote player evaporates with it, so a failed teardown is not
		// fatal to the move.
		if err := p.teardown(ctx); err != nil {
			logger.Warn(fmt.Sprintf("Teardown of guild %s on session %s failed during transfer: %v", p.guildID, p.session.Name(), err), "Lavalink")
		}

		if err := moved.Connect(ctx, channel, false, true); err != nil {
			return nil, err
		}
		if !wasPaused {
			if err := moved.Play(ctx, nil, 0); err != nil {
				return nil, err
			}
			if position > 0 {
				if err := moved.SetPosition(ctx, position); err != nil {
					return nil, err
				}
			}
		}
	}

	p.session.removePlayer(p.guildID)
	target.addPlayer(moved)

	logger.Info(fmt.Sprintf("Transferred player for guild %s from session %s to %s", p.guildID, p.session.Name(), target.Name()), "Lavalink")
	return moved, nil
}

// applyInfoLocked reconciles local state with a REST response. Caller holds
// p.mu.
func (p *Player) applyInfoLocked(info *PlayerInfo) {
	if info == nil {
		return
	}
	p.volume = info.Volume
	p.paused = info.Paused
	p.state = info.State
	p.position = info.State.Position
	p.track = info.Track
	if len(info.Filters) > 0 {
		p.filters = info.Filters
	}
}

// handlePlayerUpdate overwrites local state with a backend push. The backend
// is authoritative for all of these fields.
func (p *Player) handlePlayerUpdate(event *PlayerUpdateEvent) {
	if event.GuildID != p.guildID {
		return
	}

	p.mu.Lock()
	p.state = event.State
	p.position = event.State.Position
	p.connected = event.State.Connected
	p.mu.Unlock()
}

// handleTrackEnd advances the queue on organic track completions when
// autoplay is on. Caller-initiated and housekeeping ends never advance.
func (p *Player) handleTrackEnd(event *TrackEndEvent) {
	if event.GuildID != p.guildID {
		return
	}

	p.mu.Lock()
	p.track = nil
	if !event.Reason.ShouldAdvance() || !p.autoplay || len(p.queue) == 0 {
		p.mu.Unlock()
		return
	}

	if len(p.queue) == 1 {
		old := p.queue[0]
		looping := p.loop
		if !looping {
			p.queue = nil
		}
		p.mu.Unlock()

		if looping {
			if err := p.Play(context.Background(), nil, 0); err != nil {
				logger.Warn(fmt.Sprintf("Replay in guild %s failed: %v", p.guildID, err), "Lavalink")
				return
			}
			p.session.publish(&QueueNextEvent{SessionName: p.session.Name(), GuildID: p.guildID, Track: old, OldTrack: old})
			return
		}

		p.session.publish(&QueueEmptyEvent{SessionName: p.session.Name(), GuildID: p.guildID, OldTrack: old})
		return
	}

	if !p.loop {
		p.queue = p.queue[1:]
	}
	next := p.queue[0]
	p.mu.Unlock()

	if err := p.Play(context.Background(), nil, 0); err != nil {
		logger.Warn(fmt.Sprintf("Auto-advance in guild %s failed: %v", p.guildID, err), "Lavalink")
		return
	}

	old := event.Track
	p.session.publish(&QueueNextEvent{SessionName: p.session.Name(), GuildID: p.guildID, Track: next, OldTrack: &old})
}
