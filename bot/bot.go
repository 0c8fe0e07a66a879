package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token string
}

// Bot keeps a gateway session open so guild membership reaches the console
type Bot struct {
	session *discordgo.Session
	tracker *GuildTracker
}

// New opens a Discord session with the tracker's handlers registered
func New(config Config, tracker *GuildTracker) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	tracker.Register(dg)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	log.Info("Discord session opened")
	return &Bot{session: dg, tracker: tracker}, nil
}

// Close stops the tracker and closes the session
func (b *Bot) Close() error {
	b.tracker.Close()
	return b.session.Close()
}
