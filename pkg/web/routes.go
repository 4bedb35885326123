// Package web provides API routes for the web server.
package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PancyStudios/aqualink/pkg/lavalink"
)

// SetupAPIRoutes sets up the API routes
func SetupAPIRoutes(s *Server, client *lavalink.Client) {
	api := s.Group("/api")
	{
		api.GET("/health", healthHandler)
		api.GET("/sessions", sessionsHandler(client))
		api.GET("/players", playersHandler(client))
		api.GET("/players/:guild", playerHandler(client))
	}
}

// healthHandler returns a simple health check response
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Aqualink is running",
	})
}

// sessionsHandler returns every registered audio node session
func sessionsHandler(client *lavalink.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessions := client.Handler().Sessions()

		out := make([]gin.H, 0, len(sessions))
		for _, session := range sessions {
			out = append(out, gin.H{
				"name":      session.Name(),
				"status":    session.Status().String(),
				"sessionId": session.SessionID(),
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"isAlive":  client.Handler().IsAlive(),
			"sessions": out,
		})
	}
}

// playersHandler returns every tracked player
func playersHandler(client *lavalink.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		players := client.Handler().Players()

		out := make([]gin.H, 0, len(players))
		for _, player := range players {
			out = append(out, playerJSON(player))
		}

		c.JSON(http.StatusOK, gin.H{"players": out})
	}
}

// playerHandler returns a single player by guild id
func playerHandler(client *lavalink.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		guild, err := lavalink.ParseGuildID(c.Param("guild"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Bad Request",
				"message": "The guild id is not a valid snowflake.",
			})
			return
		}

		player, err := client.Handler().FetchPlayer(guild)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "No player exists for that guild.",
			})
			return
		}

		c.JSON(http.StatusOK, playerJSON(player))
	}
}

func playerJSON(player *lavalink.Player) gin.H {
	return gin.H{
		"guildId":   player.GuildID().String(),
		"channelId": player.ChannelID().String(),
		"session":   player.Session().Name(),
		"isAlive":   player.IsAlive(),
		"paused":    player.Paused(),
		"volume":    player.Volume(),
		"position":  player.Position(),
		"queueSize": player.QueueLen(),
		"loop":      player.Loop(),
		"autoplay":  player.Autoplay(),
	}
}
