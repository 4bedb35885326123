package mqtt

import (
	"context"
	"fmt"

	"github.com/PancyStudios/aqualink/pkg/lavalink"
)

// RegisterControlHandlers exposes the audio client over the broker's
// request/response topics so other services can inspect and steer playback
// without talking to the backend themselves.
func RegisterControlHandlers(mc *MqttCommunicator, client *lavalink.Client) {
	mc.On("sessions/list", listSessionsHandler(client))
	mc.On("players/list", listPlayersHandler(client))
	mc.On("players/skip", skipHandler(client))
	mc.On("players/stop", stopHandler(client))
}

func listSessionsHandler(client *lavalink.Client) RequestHandler {
	return func(payload map[string]interface{}) (interface{}, error) {
		sessions := client.Handler().Sessions()

		out := make([]map[string]interface{}, 0, len(sessions))
		for _, session := range sessions {
			out = append(out, map[string]interface{}{
				"name":      session.Name(),
				"status":    session.Status().String(),
				"sessionId": session.SessionID(),
			})
		}
		return out, nil
	}
}

func listPlayersHandler(client *lavalink.Client) RequestHandler {
	return func(payload map[string]interface{}) (interface{}, error) {
		players := client.Handler().Players()

		out := make([]map[string]interface{}, 0, len(players))
		for _, player := range players {
			out = append(out, map[string]interface{}{
				"guildId":   player.GuildID().String(),
				"session":   player.Session().Name(),
				"isAlive":   player.IsAlive(),
				"paused":    player.Paused(),
				"queueSize": player.QueueLen(),
			})
		}
		return out, nil
	}
}

func skipHandler(client *lavalink.Client) RequestHandler {
	return func(payload map[string]interface{}) (interface{}, error) {
		player, err := playerFromPayload(client, payload)
		if err != nil {
			return nil, err
		}

		amount := 1
		if v, ok := payload["amount"].(float64); ok {
			amount = int(v)
		}

		if err := player.Skip(context.Background(), amount); err != nil {
			return nil, err
		}
		return map[string]interface{}{"skipped": amount, "queueSize": player.QueueLen()}, nil
	}
}

func stopHandler(client *lavalink.Client) RequestHandler {
	return func(payload map[string]interface{}) (interface{}, error) {
		player, err := playerFromPayload(client, payload)
		if err != nil {
			return nil, err
		}

		if err := player.Stop(context.Background()); err != nil {
			return nil, err
		}
		return map[string]interface{}{"stopped": true}, nil
	}
}

func playerFromPayload(client *lavalink.Client, payload map[string]interface{}) (*lavalink.Player, error) {
	raw, ok := payload["guildId"].(string)
	if !ok {
		return nil, fmt.Errorf("guildId is required")
	}
	guild, err := lavalink.ParseGuildID(raw)
	if err != nil {
		return nil, err
	}
	return client.FetchPlayer(guild)
}
