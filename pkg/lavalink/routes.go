package lavalink

import (
	"fmt"
	"net/http"
)

// Route is a fully built REST route. Unversioned routes skip the /v4 path
// prefix (only /version does).
type Route struct {
	Method      string
	Path        string
	Unversioned bool
}

func (r Route) String() string { return r.Method + " " + r.Path }

func RouteGetInfo() Route {
	return Route{Method: http.MethodGet, Path: "/info"}
}

func RouteGetVersion() Route {
	return Route{Method: http.MethodGet, Path: "/version", Unversioned: true}
}

func RouteGetStatistics() Route {
	return Route{Method: http.MethodGet, Path: "/stats"}
}

func RouteUpdateSession(sessionID string) Route {
	return Route{Method: http.MethodPatch, Path: "/sessions/" + sessionID}
}

func RouteGetPlayers(sessionID string) Route {
	return Route{Method: http.MethodGet, Path: fmt.Sprintf("/sessions/%s/players", sessionID)}
}

func RouteGetPlayer(sessionID string, guild GuildID) Route {
	return Route{Method: http.MethodGet, Path: fmt.Sprintf("/sessions/%s/players/%s", sessionID, guild)}
}

func RouteUpdatePlayer(sessionID string, guild GuildID) Route {
	return Route{Method: http.MethodPatch, Path: fmt.Sprintf("/sessions/%s/players/%s", sessionID, guild)}
}

func RouteDeletePlayer(sessionID string, guild GuildID) Route {
	return Route{Method: http.MethodDelete, Path: fmt.Sprintf("/sessions/%s/players/%s", sessionID, guild)}
}

func RouteLoadTracks() Route {
	return Route{Method: http.MethodGet, Path: "/loadtracks"}
}

func RouteDecodeTrack() Route {
	return Route{Method: http.MethodGet, Path: "/decodetrack"}
}

func RouteDecodeTracks() Route {
	return Route{Method: http.MethodPost, Path: "/decodetracks"}
}

func RouteRoutePlannerStatus() Route {
	return Route{Method: http.MethodGet, Path: "/routeplanner/status"}
}

func RouteRoutePlannerFreeAddress() Route {
	return Route{Method: http.MethodPost, Path: "/routeplanner/free/address"}
}

func RouteRoutePlannerFreeAll() Route {
	return Route{Method: http.MethodPost, Path: "/routeplanner/free/all"}
}
