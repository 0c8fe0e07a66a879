package bot

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"guildconsole/domain/identity"
)

const hydrateTimeout = 30 * time.Second

// GuildConsole is the part of the settings console the tracker drives
type GuildConsole interface {
	SyncGuilds(guildIDs []string)
	EnsureHydrated(ctx context.Context, guildID string) error
}

// GuildTracker feeds the guilds the bot is a member of into the settings
// console and hydrates each of them once
type GuildTracker struct {
	console GuildConsole
	deriver *identity.Deriver

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewGuildTracker creates a guild tracker
func NewGuildTracker(console GuildConsole, deriver *identity.Deriver) *GuildTracker {
	if deriver == nil {
		deriver = identity.NewDeriver(nil)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &GuildTracker{
		console: console,
		deriver: deriver,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Register adds the tracker's gateway handlers to a session
func (t *GuildTracker) Register(s *discordgo.Session) {
	s.AddHandler(t.onReady)
	s.AddHandler(t.onGuildCreate)
	s.AddHandler(t.onGuildDelete)
}

// Close stops pending hydrations and waits for them to return
func (t *GuildTracker) Close() {
	t.cancel()
	t.wg.Wait()
}

func (t *GuildTracker) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	snowflakes := make([]string, 0, len(r.Guilds))
	for _, guild := range r.Guilds {
		snowflakes = append(snowflakes, guild.ID)
	}
	log.WithField("guilds", len(snowflakes)).Info("Discord session ready")
	t.track(snowflakes)
}

func (t *GuildTracker) onGuildCreate(_ *discordgo.Session, g *discordgo.GuildCreate) {
	t.track([]string{g.ID})
}

// onGuildDelete only logs; the guild's settings stay in the local store
func (t *GuildTracker) onGuildDelete(_ *discordgo.Session, g *discordgo.GuildDelete) {
	log.WithFields(log.Fields{
		"discordGuildID": g.ID,
		"unavailable":    g.Unavailable,
	}).Info("Guild removed or unavailable, keeping its settings")
}

// ResolveGuildID maps a Discord guild snowflake to the console guild id.
// Snowflakes pinned by an override resolve to the overriding guild id; any
// other snowflake is used as is.
func (t *GuildTracker) ResolveGuildID(snowflake string) string {
	if externalID, err := strconv.ParseInt(snowflake, 10, 64); err == nil {
		if guildID, ok := t.deriver.GuildID(externalID); ok {
			return guildID
		}
	}
	return snowflake
}

func (t *GuildTracker) track(snowflakes []string) {
	guildIDs := make([]string, 0, len(snowflakes))
	for _, snowflake := range snowflakes {
		if snowflake == "" {
			continue
		}
		guildIDs = append(guildIDs, t.ResolveGuildID(snowflake))
	}
	if len(guildIDs) == 0 {
		return
	}

	t.console.SyncGuilds(guildIDs)

	for _, guildID := range guildIDs {
		t.wg.Add(1)
		go t.hydrate(guildID)
	}
}

func (t *GuildTracker) hydrate(guildID string) {
	defer t.wg.Done()

	ctx, cancel := context.WithTimeout(t.ctx, hydrateTimeout)
	defer cancel()

	if err := t.console.EnsureHydrated(ctx, guildID); err != nil {
		log.WithField("guildID", guildID).WithError(err).Warn("Failed to hydrate guild settings")
	}
}
