package lavalink

// TrackInfo contains information about a track. Immutable once decoded.
type TrackInfo struct {
	Identifier string `json:"identifier"`
	IsSeekable bool   `json:"isSeekable"`
	Author     string `json:"author"`
	Length     int64  `json:"length"`
	IsStream   bool   `json:"isStream"`
	Position   int64  `json:"position"`
	Title      string `json:"title"`
	SourceName string `json:"sourceName"`
	URI        string `json:"uri,omitempty"`
	ArtworkURL string `json:"artworkUrl,omitempty"`
	ISRC       string `json:"isrc,omitempty"`
}

// Track represents a playable track. The encoded form is opaque to this
// client; only the backend can decode it. Requestor is the one mutable field,
// stamped when the track enters a queue.
type Track struct {
	Encoded    string         `json:"encoded"`
	Info       TrackInfo      `json:"info"`
	PluginInfo map[string]any `json:"pluginInfo,omitempty"`
	UserData   map[string]any `json:"userData,omitempty"`
	Requestor  UserID         `json:"-"`
}

// PlaylistInfo contains information about a playlist.
type PlaylistInfo struct {
	Name string `json:"name"`
	// SelectedTrack is -1 when no track is selected.
	SelectedTrack int `json:"selectedTrack"`
}

// Playlist represents a loaded playlist and its tracks.
type Playlist struct {
	Info       PlaylistInfo   `json:"info"`
	PluginInfo map[string]any `json:"pluginInfo,omitempty"`
	Tracks     []*Track       `json:"tracks"`
}
