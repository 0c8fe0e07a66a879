package bot

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"

	"guildconsole/domain/identity"
)

type fakeConsole struct {
	mu       sync.Mutex
	synced   [][]string
	hydrated []string
}

func (f *fakeConsole) SyncGuilds(guildIDs []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.synced = append(f.synced, guildIDs)
}

func (f *fakeConsole) EnsureHydrated(_ context.Context, guildID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hydrated = append(f.hydrated, guildID)
	return nil
}

func TestGuildTracker_Ready(t *testing.T) {
	t.Parallel()

	console := &fakeConsole{}
	tracker := NewGuildTracker(console, identity.NewDeriver(nil))

	tracker.onReady(nil, &discordgo.Ready{Guilds: []*discordgo.Guild{
		{ID: "1371982928380301372"},
		{ID: "555"},
		{ID: ""},
	}})
	tracker.Close()

	assert.Equal(t, [][]string{{"guild-starlance", "555"}}, console.synced)
	sort.Strings(console.hydrated)
	assert.Equal(t, []string{"555", "guild-starlance"}, console.hydrated)
}

func TestGuildTracker_GuildCreateAndDelete(t *testing.T) {
	t.Parallel()

	console := &fakeConsole{}
	tracker := NewGuildTracker(console, identity.NewDeriver(map[string]int64{"guild-alpha": 777}))

	tracker.onGuildCreate(nil, &discordgo.GuildCreate{Guild: &discordgo.Guild{ID: "777"}})
	tracker.onGuildDelete(nil, &discordgo.GuildDelete{Guild: &discordgo.Guild{ID: "777"}})
	tracker.Close()

	assert.Equal(t, [][]string{{"guild-alpha"}}, console.synced, "deletes never remove guilds")
	assert.Equal(t, []string{"guild-alpha"}, console.hydrated)
}

func TestGuildTracker_ResolveGuildID(t *testing.T) {
	t.Parallel()

	tracker := NewGuildTracker(&fakeConsole{}, nil)
	t.Cleanup(tracker.Close)

	tests := []struct {
		snowflake string
		want      string
	}{
		{"1371982928380301374", "guild-harbor"},
		{"123", "123"},
		{"guild-local", "guild-local"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tracker.ResolveGuildID(tt.snowflake))
	}
}
