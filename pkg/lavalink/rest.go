package lavalink

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	json "github.com/goccy/go-json"
)

// Pointer helpers for partial player updates.

func Int(v int) *int          { return &v }
func Int64(v int64) *int64    { return &v }
func Bool(v bool) *bool       { return &v }
func String(v string) *string { return &v }

// TrackUpdate selects the track half of a player update. A nil Encoded with
// no Identifier clears the current track.
type TrackUpdate struct {
	Encoded    *string        `json:"encoded"`
	Identifier string         `json:"identifier,omitempty"`
	UserData   map[string]any `json:"userData,omitempty"`
}

// PlayerUpdate is a partial update of a backend player. Nil fields are left
// untouched by the backend.
type PlayerUpdate struct {
	Track    *TrackUpdate      `json:"track,omitempty"`
	Position *int64            `json:"position,omitempty"`
	EndTime  *int64            `json:"endTime,omitempty"`
	Volume   *int              `json:"volume,omitempty"`
	Paused   *bool             `json:"paused,omitempty"`
	Filters  Filters           `json:"filters,omitempty"`
	Voice    *VoiceCredentials `json:"voice,omitempty"`

	// NoReplace asks the backend to ignore the track field if a track is
	// already playing. Sent as a query parameter, not in the body.
	NoReplace bool `json:"-"`
}

// SessionUpdate tunes the backend side of a websocket session.
type SessionUpdate struct {
	Resuming *bool `json:"resuming,omitempty"`
	Timeout  *int  `json:"timeout,omitempty"`
}

// Load result types returned by LoadTracks.
const (
	LoadTypeTrack    = "track"
	LoadTypePlaylist = "playlist"
	LoadTypeSearch   = "search"
	LoadTypeEmpty    = "empty"
	LoadTypeError    = "error"
)

// LoadResult is the union returned by the track loading endpoint. Exactly
// one of the data fields is populated, matching LoadType.
type LoadResult struct {
	LoadType  string
	Track     *Track
	Playlist  *Playlist
	Tracks    []*Track
	Exception *TrackException
}

// UpdatePlayer patches the backend player for a guild and returns the
// backend's resulting view of it.
func (s *Session) UpdatePlayer(ctx context.Context, guild GuildID, update PlayerUpdate) (*PlayerInfo, error) {
	sessionID, err := s.requireSessionID()
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("noReplace", strconv.FormatBool(update.NoReplace))

	payload, err := s.Request(ctx, RouteUpdatePlayer(sessionID, guild), RequestOptions{
		Body:   update,
		Params: params,
	})
	if err != nil {
		return nil, err
	}

	var info PlayerInfo
	if err := s.client.codec.Unmarshal(payload, &info); err != nil {
		return nil, &BuildError{Err: err}
	}
	return &info, nil
}

// DeletePlayer destroys the backend player for a guild.
func (s *Session) DeletePlayer(ctx context.Context, guild GuildID) error {
	sessionID, err := s.requireSessionID()
	if err != nil {
		return err
	}

	_, err = s.Request(ctx, RouteDeletePlayer(sessionID, guild), RequestOptions{Optional: true})
	return err
}

// FetchPlayer returns the backend's view of a guild's player, or nil if the
// backend has none.
func (s *Session) FetchPlayer(ctx context.Context, guild GuildID) (*PlayerInfo, error) {
	sessionID, err := s.requireSessionID()
	if err != nil {
		return nil, err
	}

	payload, err := s.Request(ctx, RouteGetPlayer(sessionID, guild), RequestOptions{Optional: true})
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, nil
	}

	var info PlayerInfo
	if err := s.client.codec.Unmarshal(payload, &info); err != nil {
		return nil, &BuildError{Err: err}
	}
	return &info, nil
}

// FetchPlayers lists every player the backend holds for this session.
func (s *Session) FetchPlayers(ctx context.Context) ([]PlayerInfo, error) {
	sessionID, err := s.requireSessionID()
	if err != nil {
		return nil, err
	}

	payload, err := s.Request(ctx, RouteGetPlayers(sessionID), RequestOptions{})
	if err != nil {
		return nil, err
	}

	var infos []PlayerInfo
	if err := s.client.codec.Unmarshal(payload, &infos); err != nil {
		return nil, &BuildError{Err: err}
	}
	return infos, nil
}

// UpdateSession patches the backend side of this websocket session.
func (s *Session) UpdateSession(ctx context.Context, update SessionUpdate) (*SessionInfo, error) {
	sessionID, err := s.requireSessionID()
	if err != nil {
		return nil, err
	}

	payload, err := s.Request(ctx, RouteUpdateSession(sessionID), RequestOptions{Body: update})
	if err != nil {
		return nil, err
	}

	var info SessionInfo
	if err := s.client.codec.Unmarshal(payload, &info); err != nil {
		return nil, &BuildError{Err: err}
	}
	return &info, nil
}

// LoadTracks resolves an identifier (URL or search query) into tracks.
func (s *Session) LoadTracks(ctx context.Context, identifier string) (*LoadResult, error) {
	params := url.Values{}
	params.Set("identifier", identifier)

	payload, err := s.Request(ctx, RouteLoadTracks(), RequestOptions{Params: params})
	if err != nil {
		return nil, err
	}

	var outer struct {
		LoadType string          `json:"loadType"`
		Data     json.RawMessage `json:"data"`
	}
	if err := s.client.codec.Unmarshal(payload, &outer); err != nil {
		return nil, &BuildError{Err: err}
	}

	result := &LoadResult{LoadType: outer.LoadType}

	switch outer.LoadType {
	case LoadTypeTrack:
		result.Track = &Track{}
		if err := s.client.codec.Unmarshal(outer.Data, result.Track); err != nil {
			return nil, &BuildError{Err: err}
		}
	case LoadTypePlaylist:
		result.Playlist = &Playlist{}
		if err := s.client.codec.Unmarshal(outer.Data, result.Playlist); err != nil {
			return nil, &BuildError{Err: err}
		}
	case LoadTypeSearch:
		if err := s.client.codec.Unmarshal(outer.Data, &result.Tracks); err != nil {
			return nil, &BuildError{Err: err}
		}
	case LoadTypeError:
		result.Exception = &TrackException{}
		if err := s.client.codec.Unmarshal(outer.Data, result.Exception); err != nil {
			return nil, &BuildError{Err: err}
		}
	case LoadTypeEmpty:
		// Nothing matched; all data fields stay nil.
	default:
		return nil, &BuildError{Err: fmt.Errorf("unknown load type %q", outer.LoadType)}
	}

	return result, nil
}

// DecodeTrack asks the backend to decode one encoded track string.
func (s *Session) DecodeTrack(ctx context.Context, encoded string) (*Track, error) {
	params := url.Values{}
	params.Set("encodedTrack", encoded)

	payload, err := s.Request(ctx, RouteDecodeTrack(), RequestOptions{Params: params})
	if err != nil {
		return nil, err
	}

	var track Track
	if err := s.client.codec.Unmarshal(payload, &track); err != nil {
		return nil, &BuildError{Err: err}
	}
	return &track, nil
}

// DecodeTracks asks the backend to decode a batch of encoded track strings.
func (s *Session) DecodeTracks(ctx context.Context, encoded []string) ([]*Track, error) {
	payload, err := s.Request(ctx, RouteDecodeTracks(), RequestOptions{Body: encoded})
	if err != nil {
		return nil, err
	}

	var tracks []*Track
	if err := s.client.codec.Unmarshal(payload, &tracks); err != nil {
		return nil, &BuildError{Err: err}
	}
	return tracks, nil
}

// Info fetches the backend's server information.
func (s *Session) Info(ctx context.Context) (*Info, error) {
	payload, err := s.Request(ctx, RouteGetInfo(), RequestOptions{})
	if err != nil {
		return nil, err
	}

	var info Info
	if err := s.client.codec.Unmarshal(payload, &info); err != nil {
		return nil, &BuildError{Err: err}
	}
	return &info, nil
}

// Version fetches the backend's version string. This endpoint lives outside
// the versioned path and returns plain text.
func (s *Session) Version(ctx context.Context) (string, error) {
	payload, err := s.Request(ctx, RouteGetVersion(), RequestOptions{})
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

// Stats fetches the backend's statistics over REST.
func (s *Session) Stats(ctx context.Context) (*Statistics, error) {
	payload, err := s.Request(ctx, RouteGetStatistics(), RequestOptions{})
	if err != nil {
		return nil, err
	}

	var stats Statistics
	if err := s.client.codec.Unmarshal(payload, &stats); err != nil {
		return nil, &BuildError{Err: err}
	}
	return &stats, nil
}

// RoutePlannerStatus fetches the backend's route planner state. Returns nil
// when no route planner is configured.
func (s *Session) RoutePlannerStatus(ctx context.Context) (*RoutePlannerStatus, error) {
	payload, err := s.Request(ctx, RouteRoutePlannerStatus(), RequestOptions{Optional: true})
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, nil
	}

	var status RoutePlannerStatus
	if err := s.client.codec.Unmarshal(payload, &status); err != nil {
		return nil, &BuildError{Err: err}
	}
	return &status, nil
}

// FreeRoutePlannerAddress unmarks a failing route planner address.
func (s *Session) FreeRoutePlannerAddress(ctx context.Context, address string) error {
	_, err := s.Request(ctx, RouteRoutePlannerFreeAddress(), RequestOptions{
		Body:     map[string]string{"address": address},
		Optional: true,
	})
	return err
}

// FreeAllRoutePlannerAddresses unmarks every failing route planner address.
func (s *Session) FreeAllRoutePlannerAddresses(ctx context.Context) error {
	_, err := s.Request(ctx, RouteRoutePlannerFreeAll(), RequestOptions{Optional: true})
	return err
}
