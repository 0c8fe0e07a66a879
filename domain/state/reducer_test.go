package state

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guildconsole/domain/entities"
)

func seeded(guildIDs ...string) State {
	return Reduce(New(), SyncGuilds{GuildIDs: guildIDs})
}

func TestSyncGuilds(t *testing.T) {
	t.Parallel()

	s := seeded("guild-a")
	edited := Reduce(s, UpdateSection{
		GuildID: "guild-a",
		Section: entities.SectionEconomy,
		Patch:   entities.Patch{"currencyName": "Gems"},
	})

	next := Reduce(edited, SyncGuilds{GuildIDs: []string{"guild-b", "", "guild-a"}})

	require.Len(t, next.Records, 2)
	assert.Equal(t, "Gems", next.Records["guild-a"].Settings.Economy.CurrencyName, "existing records are kept")
	assert.Equal(t, entities.NewGuildSettingsRecord(), next.Records["guild-b"])

	shrunk := Reduce(next, SyncGuilds{GuildIDs: []string{"guild-b"}})
	assert.Len(t, shrunk.Records, 2, "records are never removed")
}

func TestUpdateSection(t *testing.T) {
	t.Parallel()

	s := seeded("guild-a")

	next := Reduce(s, UpdateSection{
		GuildID: "guild-a",
		Section: entities.SectionJobs,
		Patch: entities.Patch{
			"shiftLength": 8,
			"autoAssign":  false,
			"unknown":     "dropped",
		},
	})

	jobs := next.Records["guild-a"].Settings.Jobs
	assert.Equal(t, 8, jobs.ShiftLength)
	assert.False(t, jobs.AutoAssign)
	assert.Equal(t, entities.DefaultJobsSection().JobDifficulty, jobs.JobDifficulty)

	assert.Equal(t, entities.DefaultJobsSection(), s.Records["guild-a"].Settings.Jobs, "input state must not change")
}

func TestUpdateSection_ShallowMerge(t *testing.T) {
	t.Parallel()

	s := seeded("guild-a")
	s = Reduce(s, UpdateSection{
		GuildID: "guild-a",
		Section: entities.SectionGuild,
		Patch:   entities.Patch{"currency": map[string]any{"name": "Gems", "startingBalance": 10}},
	})
	s = Reduce(s, UpdateSection{
		GuildID: "guild-a",
		Section: entities.SectionGuild,
		Patch:   entities.Patch{"currency": map[string]any{"name": "Shards"}},
	})

	currency := s.Records["guild-a"].Settings.Guild.Currency
	assert.Equal(t, "Shards", currency.Name)
	assert.Equal(t, int64(0), currency.StartingBalance, "sub-objects are replaced, not merged")
}

func TestUpdateSection_SanitizesRaffles(t *testing.T) {
	t.Parallel()

	s := Reduce(seeded("guild-a"), UpdateSection{
		GuildID: "guild-a",
		Section: entities.SectionGuild,
		Patch: entities.Patch{
			"raffles": map[string]any{
				"active": []any{map[string]any{"name": "Rawr Raffle"}},
			},
		},
	})

	assert.Equal(t, entities.DefaultActiveRaffles(), s.Records["guild-a"].Settings.Guild.Raffles.Active)
}

func TestNoOpActions(t *testing.T) {
	t.Parallel()

	s := seeded("guild-a")
	actions := []Action{
		UpdateSection{GuildID: "missing", Section: entities.SectionJobs, Patch: entities.Patch{"shiftLength": 2}},
		UpdateSection{GuildID: "guild-a", Section: "casino", Patch: entities.Patch{"x": 1}},
		ResetSection{GuildID: "missing", Section: entities.SectionJobs},
		HydrateGuild{GuildID: "missing", Patch: entities.Patch{"currency": map[string]any{"name": "x"}}},
		HydrateGuild{GuildID: "guild-a", Patch: nil},
		SaveSection{GuildID: "missing", Section: entities.SectionGuild, At: time.Now()},
		SaveSection{GuildID: "guild-a", Section: "casino", At: time.Now()},
		SyncGuilds{},
	}

	for _, action := range actions {
		next := Reduce(s, action)
		if diff := cmp.Diff(s, next); diff != "" {
			t.Errorf("%T changed state (-before +after):\n%s", action, diff)
		}
	}
}

func TestResetSection(t *testing.T) {
	t.Parallel()

	saved := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s := seeded("guild-a")
	s = Reduce(s, UpdateSection{GuildID: "guild-a", Section: entities.SectionLogs, Patch: entities.Patch{"logRetentionDays": 90}})
	s = Reduce(s, UpdateSection{GuildID: "guild-a", Section: entities.SectionPremium, Patch: entities.Patch{"concierge": true}})
	s = Reduce(s, SaveSection{GuildID: "guild-a", Section: entities.SectionLogs, At: saved})
	s = Reduce(s, SaveSection{GuildID: "guild-a", Section: entities.SectionPremium, At: saved})

	next := Reduce(s, ResetSection{GuildID: "guild-a", Section: entities.SectionLogs})

	record := next.Records["guild-a"]
	assert.Equal(t, entities.DefaultLogsSection(), record.Settings.Logs)
	assert.Nil(t, record.LastSaved[entities.SectionLogs])
	assert.True(t, record.Settings.Premium.Concierge, "other sections are untouched")
	require.NotNil(t, record.LastSaved[entities.SectionPremium])

	require.NotNil(t, s.Records["guild-a"].LastSaved[entities.SectionLogs], "input state must not change")
}

func TestSaveSection(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s := Reduce(seeded("guild-a"), UpdateSection{
		GuildID: "guild-a",
		Section: entities.SectionEconomy,
		Patch:   entities.Patch{"taxRate": 9},
	})

	next := Reduce(s, SaveSection{GuildID: "guild-a", Section: entities.SectionEconomy, At: at})

	record := next.Records["guild-a"]
	require.NotNil(t, record.LastSaved[entities.SectionEconomy])
	assert.True(t, at.Equal(*record.LastSaved[entities.SectionEconomy]))
	assert.Equal(t, s.Records["guild-a"].Settings, record.Settings, "settings are untouched")
	assert.Nil(t, s.Records["guild-a"].LastSaved[entities.SectionEconomy], "input state must not change")
}

func TestHydrateGuild_Isolation(t *testing.T) {
	t.Parallel()

	s := seeded("guild-a")
	s = Reduce(s, UpdateSection{GuildID: "guild-a", Section: entities.SectionEconomy, Patch: entities.Patch{"currencyName": "Gems"}})
	s = Reduce(s, UpdateSection{GuildID: "guild-a", Section: entities.SectionFeatureFlags, Patch: entities.Patch{
		"mysteryBoxes": map[string]any{"enabled": true, "mode": "arcade"},
	}})

	next := Reduce(s, HydrateGuild{GuildID: "guild-a", Patch: entities.Patch{
		"currency": map[string]any{"name": "Remote Coins"},
		"marketplaceSuite": map[string]any{
			"feePercent": 3.5,
			"auctions":   map[string]any{"enabled": false},
		},
	}})

	before, err := json.Marshal(s.Records["guild-a"].Settings.WithSection(entities.SectionGuild, entities.Settings{}))
	require.NoError(t, err)
	after, err := json.Marshal(next.Records["guild-a"].Settings.WithSection(entities.SectionGuild, entities.Settings{}))
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after), "only the guild section may change")

	guild := next.Records["guild-a"].Settings.Guild
	assert.Equal(t, "Remote Coins", guild.Currency.Name)
	assert.Equal(t, entities.DefaultGuildSection().Currency.StartingBalance, guild.Currency.StartingBalance)
	assert.Equal(t, 3.5, guild.MarketplaceSuite.FeePercent)
	assert.Equal(t, 6, guild.MarketplaceSuite.ResultsPerPage, "one level merge keeps sibling fields")
	assert.False(t, guild.MarketplaceSuite.Auctions.Enabled)
	assert.Equal(t, "Auction House", guild.MarketplaceSuite.Auctions.Appearance.Title)
}

func TestReduce_SharesUnchangedRecords(t *testing.T) {
	t.Parallel()

	s := seeded("guild-a", "guild-b")
	next := Reduce(s, UpdateSection{GuildID: "guild-a", Section: entities.SectionLogs, Patch: entities.Patch{"maskSensitive": false}})

	assert.Equal(t, s.Records["guild-b"], next.Records["guild-b"])
	assert.True(t, s.Records["guild-a"].Settings.Logs.MaskSensitive)
	assert.False(t, next.Records["guild-a"].Settings.Logs.MaskSensitive)
}

func TestSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s := seeded("guild-a", "guild-b")
	s = Reduce(s, UpdateSection{GuildID: "guild-b", Section: entities.SectionPremium, Patch: entities.Patch{"aiInsights": false}})
	s = Reduce(s, SaveSection{GuildID: "guild-b", Section: entities.SectionPremium, At: at})

	data, err := EncodeSnapshot(s)
	require.NoError(t, err)

	restored := DecodeSnapshot(data)
	if diff := cmp.Diff(s, restored); diff != "" {
		t.Errorf("snapshot round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeSnapshot_Corrupt(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "{", "[]", `{"records": 5}`} {
		assert.Empty(t, DecodeSnapshot([]byte(input)).Records, "input %q", input)
	}

	partial := DecodeSnapshot([]byte(`{"records": {"guild-a": {"settings": {"jobs": {"shiftLength": "x"}}}, "guild-b": 7}}`))
	require.Len(t, partial.Records, 2)
	assert.Equal(t, entities.NewGuildSettingsRecord(), partial.Records["guild-a"])
	assert.Equal(t, entities.NewGuildSettingsRecord(), partial.Records["guild-b"])
}
