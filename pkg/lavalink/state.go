package lavalink

// PlayerState is the backend-reported state of a player. The backend is
// authoritative for every field here.
type PlayerState struct {
	Time      int64 `json:"time"`
	Position  int64 `json:"position"`
	Connected bool  `json:"connected"`
	Ping      int64 `json:"ping"`
}

// VoiceCredentials is the triple required to authorize audio routing for a
// guild, produced by the platform voice handshake.
type VoiceCredentials struct {
	Token     string `json:"token"`
	Endpoint  string `json:"endpoint"`
	SessionID string `json:"sessionId"`
}

// PlayerInfo is the backend's view of a player, as returned by the REST API.
type PlayerInfo struct {
	GuildID GuildID          `json:"guildId"`
	Track   *Track           `json:"track,omitempty"`
	Volume  int              `json:"volume"`
	Paused  bool             `json:"paused"`
	State   PlayerState      `json:"state"`
	Voice   VoiceCredentials `json:"voice"`
	Filters Filters          `json:"filters,omitempty"`
}

// MemoryStats reports backend memory usage in bytes.
type MemoryStats struct {
	Free       int64 `json:"free"`
	Used       int64 `json:"used"`
	Allocated  int64 `json:"allocated"`
	Reservable int64 `json:"reservable"`
}

// CPUStats reports backend CPU usage.
type CPUStats struct {
	Cores        int     `json:"cores"`
	SystemLoad   float64 `json:"systemLoad"`
	LavalinkLoad float64 `json:"lavalinkLoad"`
}

// FrameStats reports audio frame delivery counters. Absent in the first
// minute of a backend's uptime.
type FrameStats struct {
	Sent    int64 `json:"sent"`
	Nulled  int64 `json:"nulled"`
	Deficit int64 `json:"deficit"`
}

// Statistics is a backend statistics report, pushed over the websocket and
// also available over REST.
type Statistics struct {
	Players        int         `json:"players"`
	PlayingPlayers int         `json:"playingPlayers"`
	Uptime         int64       `json:"uptime"`
	Memory         MemoryStats `json:"memory"`
	CPU            CPUStats    `json:"cpu"`
	FrameStats     *FrameStats `json:"frameStats,omitempty"`
}

// TrackException describes why a track failed to play.
type TrackException struct {
	Message  string `json:"message,omitempty"`
	Severity string `json:"severity"`
	Cause    string `json:"cause"`
}

// VersionInfo describes the backend's semantic version.
type VersionInfo struct {
	Semver     string `json:"semver"`
	Major      int    `json:"major"`
	Minor      int    `json:"minor"`
	Patch      int    `json:"patch"`
	PreRelease string `json:"preRelease,omitempty"`
	Build      string `json:"build,omitempty"`
}

// GitInfo describes the backend build's git state.
type GitInfo struct {
	Branch     string `json:"branch"`
	Commit     string `json:"commit"`
	CommitTime int64  `json:"commitTime"`
}

// PluginInfo describes a plugin loaded by the backend.
type PluginInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Info is the backend's server information report.
type Info struct {
	Version        VersionInfo  `json:"version"`
	BuildTime      int64        `json:"buildTime"`
	Git            GitInfo      `json:"git"`
	JVM            string       `json:"jvm"`
	Lavaplayer     string       `json:"lavaplayer"`
	SourceManagers []string     `json:"sourceManagers"`
	Filters        []string     `json:"filters"`
	Plugins        []PluginInfo `json:"plugins"`
}

// FailingAddress is a route-planner address that has been marked as failing.
type FailingAddress struct {
	Address   string `json:"failingAddress"`
	Timestamp int64  `json:"failingTimestamp"`
	Time      string `json:"failingTime"`
}

// IPBlock describes the address block a route planner rotates over.
type IPBlock struct {
	Type string `json:"type"`
	Size string `json:"size"`
}

// RoutePlannerDetails carries the planner-class specific fields.
type RoutePlannerDetails struct {
	IPBlock             IPBlock          `json:"ipBlock"`
	FailingAddresses    []FailingAddress `json:"failingAddresses"`
	RotateIndex         string           `json:"rotateIndex,omitempty"`
	IPIndex             string           `json:"ipIndex,omitempty"`
	CurrentAddress      string           `json:"currentAddress,omitempty"`
	CurrentAddressIndex string           `json:"currentAddressIndex,omitempty"`
	BlockIndex          string           `json:"blockIndex,omitempty"`
}

// RoutePlannerStatus is the backend's route planner report. Class is empty
// when no route planner is configured.
type RoutePlannerStatus struct {
	Class   string               `json:"class,omitempty"`
	Details *RoutePlannerDetails `json:"details,omitempty"`
}

// SessionInfo is the backend's view of a websocket session's REST-tunable
// settings.
type SessionInfo struct {
	Resuming bool `json:"resuming"`
	Timeout  int  `json:"timeout"`
}
