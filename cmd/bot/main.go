// Package main is the entry point for the Aqualink application.
// It initializes all systems and starts the Discord bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/aqualink/pkg/config"
	"github.com/PancyStudios/aqualink/pkg/discordvoice"
	"github.com/PancyStudios/aqualink/pkg/lavalink"
	"github.com/PancyStudios/aqualink/pkg/logger"
	"github.com/PancyStudios/aqualink/pkg/mqtt"
	"github.com/PancyStudios/aqualink/pkg/web"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init()
	defer log.Close()

	logger.System("Starting Aqualink...", "Main")
	logger.Info(fmt.Sprintf("Working directory: %s", getCurrentDir()), "Main")

	// Initialize MQTT
	mqttClientID := "aqualink"
	if !cfg.IsProd() {
		mqttClientID = "aqualink_canary"
	}

	mqttClient := mqtt.Init(
		cfg.MQTTHost,
		cfg.MQTTPort,
		cfg.MQTTUser,
		cfg.MQTTPassword,
		mqttClientID,
	)
	defer mqttClient.Destroy()

	// Initialize Discord session
	discord, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord session: %v", err), "Main")
		os.Exit(1)
	}
	discord.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildVoiceStates
	discord.StateEnabled = true

	// The voice gateway must register its handlers before the session opens
	voice := discordvoice.New(discord)

	if err := discord.Open(); err != nil {
		logger.Critical(fmt.Sprintf("Error connecting to Discord: %v", err), "Main")
		os.Exit(1)
	}
	defer discord.Close()

	botUser := discord.State.User
	if botUser == nil {
		logger.Critical("Discord session opened without a ready user", "Main")
		os.Exit(1)
	}
	userID, err := lavalink.ParseUserID(botUser.ID)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error parsing bot user id: %v", err), "Main")
		os.Exit(1)
	}

	logger.Success("Bot connected as: "+botUser.Username, "Main")

	// Initialize the audio client
	client := lavalink.NewClient(lavalink.ClientConfig{
		UserID: userID,
		Sink:   mqtt.NewEventSink(mqttClient),
		Voice:  voice,
	})

	if _, err := client.AddSession(lavalink.SessionConfig{
		Name:     cfg.NodeName,
		Host:     cfg.NodeHost,
		Port:     cfg.NodePort,
		Secure:   cfg.NodeSecure,
		Password: cfg.NodePassword,
	}); err != nil {
		logger.Critical(fmt.Sprintf("Error registering audio node: %v", err), "Main")
		os.Exit(1)
	}

	// Expose the client over the broker for other services
	mqtt.RegisterControlHandlers(mqttClient, client)

	if err := client.Start(); err != nil {
		logger.Critical(fmt.Sprintf("Error starting audio client: %v", err), "Main")
		os.Exit(1)
	}
	defer client.Stop()

	// Initialize web server
	webServer := web.Init()
	web.SetupAPIRoutes(webServer, client)
	webServer.StartAsync(cfg.Port)

	logger.Success("Aqualink started successfully!", "Main")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.System("Shutting down Aqualink...", "Main")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, player := range client.Handler().Players() {
		if err := client.DeletePlayer(ctx, player.GuildID()); err != nil {
			logger.Warn(fmt.Sprintf("Error releasing player for guild %s: %v", player.GuildID(), err), "Main")
		}
	}
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}
