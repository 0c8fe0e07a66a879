package sources

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guildconsole/domain/entities"
	"guildconsole/domain/reconcile"
)

// applyPatch merges an inbound patch over the default guild section the way
// hydration does.
func applyPatch(t *testing.T, patch entities.Patch) entities.GuildSection {
	t.Helper()

	base := entities.Patch(reconcile.AsTree(entities.DefaultGuildSection()))
	merged := entities.DeepMerge(base, patch)
	settings := reconcile.Section(entities.DefaultSettings(), entities.SectionGuild, map[string]any(merged))
	return settings.Guild
}

func mustLookup(t *testing.T, name string) Mapper {
	t.Helper()

	mapper, ok := Lookup(name)
	require.True(t, ok, "mapper %s", name)
	return mapper
}

func TestRegistryOrder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{
		"currency_settings",
		"daily_collect_settings",
		"work_command_settings",
		"marketplace_settings",
		"auction_settings",
		"trades_gifts_settings",
		"item_settings",
		"raffle_settings",
	}, Names())

	_, ok := Lookup("wager_settings")
	assert.False(t, ok)
}

func TestInbound_NilRowYieldsNil(t *testing.T) {
	t.Parallel()

	for _, mapper := range Mappers() {
		assert.Nil(t, mapper.Inbound(nil), mapper.Name)
	}
}

func TestWorkCooldown_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cooldown string
		want     string
	}{
		{"90s", "2m"},
		{"45m", "45m"},
		{"4h", "4h"},
		{"1.5h", "90m"},
		{"0.5d", "720m"},
		{"2d", "2d"},
		{"10s", "1m"},
	}

	work := mustLookup(t, WorkCommandSettings)
	for _, tt := range tests {
		t.Run(tt.cooldown, func(t *testing.T) {
			t.Parallel()

			guild := applyPatch(t, work.Inbound(Row{"cooldown": tt.cooldown}))
			row := work.Outbound(guild)
			assert.Equal(t, tt.want, row["cooldown"])

			again := applyPatch(t, work.Inbound(row))
			assert.Equal(t, row["cooldown"], work.Outbound(again)["cooldown"], "second round trip must be stable")
		})
	}
}

func TestWorkCooldown_EditedValueKeepsMinutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		stored  string
		minutes int
		want    string
	}{
		{"not a whole hour", "4h", 90, "90m"},
		{"whole hours keep unit", "4h", 120, "2h"},
		{"not a whole day", "2d", 2880 + 60, "2940m"},
		{"whole days keep unit", "2d", 4320, "3d"},
	}

	work := mustLookup(t, WorkCommandSettings)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			guild := applyPatch(t, work.Inbound(Row{"cooldown": tt.stored}))
			guild.Work.CooldownMinutes = tt.minutes

			row := work.Outbound(guild)
			assert.Equal(t, tt.want, row["cooldown"])

			minutes, ok := ParseDurationMinutes(row["cooldown"])
			require.True(t, ok)
			assert.Equal(t, tt.minutes, minutes)
		})
	}
}

func TestDailyCooldown_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cooldown string
		want     string
	}{
		{"24h", "24h"},
		{"2d", "48h"},
		{"90m", "2h"},
		{"30s", "1h"},
		{"garbage", "24h"},
	}

	daily := mustLookup(t, DailyCollectSettings)
	for _, tt := range tests {
		t.Run(tt.cooldown, func(t *testing.T) {
			t.Parallel()

			guild := applyPatch(t, daily.Inbound(Row{"cooldown": tt.cooldown}))
			assert.Equal(t, tt.want, daily.Outbound(guild)["cooldown"])
		})
	}
}

func TestOutbound_Defaults(t *testing.T) {
	t.Parallel()

	guild := entities.DefaultGuildSection()
	guild.MarketplaceSuite.FeePercent = 8

	want := map[string]Row{
		CurrencySettings: {
			"currency_name":    "Credits",
			"start_balance":    int64(0),
			"decimals_enabled": false,
		},
		DailyCollectSettings: {
			"enabled":           true,
			"base_amount":       int64(200),
			"cooldown":          "24h",
			"streak_enabled":    false,
			"streak_profile":    "standard",
			"streak_multiplier": 1.5,
			"role_bonuses":      []map[string]any{},
		},
		WorkCommandSettings: {
			"enabled":  true,
			"cooldown": "240m",
			"min_pay":  int64(200),
			"max_pay":  int64(500),
			"job_pool": []map[string]any{},
		},
		MarketplaceSettings: {
			"enabled":          true,
			"results_per_page": 6,
			"fees":             false,
			"fee_percentage":   8.0,
			"display_title":    "Marketplace",
			"color":            "#7c3aed",
		},
		AuctionSettings: {
			"enabled":          true,
			"allow_buyouts":    true,
			"results_per_page": 4,
			"fees":             false,
			"fee_percentage":   0.0,
			"display_title":    "Auction House",
			"color":            "#f97316",
		},
		TradesGiftsSettings: {
			"trading_enabled": true,
			"gifting_enabled": true,
		},
		ItemSettings: {
			"enabled":          true,
			"allowed_rarities": 0,
		},
		RaffleSettings: {
			"enabled":           true,
			"animation_speed":   "standard",
			"announce_rarities": false,
			"announcement":      nil,
			"announce_by":       nil,
			"min_rarity":        nil,
			"max_odds":          0.0,
			"log_openings":      true,
			"open_on_purchase":  false,
		},
	}

	for _, mapper := range Mappers() {
		if diff := cmp.Diff(want[mapper.Name], mapper.Outbound(guild)); diff != "" {
			t.Errorf("%s payload mismatch (-want +got):\n%s", mapper.Name, diff)
		}
	}
}

func TestOutbound_ListReshaping(t *testing.T) {
	t.Parallel()

	guild := entities.DefaultGuildSection()
	guild.Daily.RoleAmounts = []entities.RoleBonus{
		{ID: "bonus-1", Role: "@VIP", Amount: 50},
		{Role: "@Booster", Amount: 20},
		{Amount: 5},
	}
	guild.Work.Jobs = []entities.Job{
		{ID: "miner", Name: "Miner"},
		{},
	}

	daily := mustLookup(t, DailyCollectSettings).Outbound(guild)
	assert.Equal(t, []map[string]any{
		{"id": "bonus-1", "role": "@VIP", "amount": int64(50)},
		{"id": "@Booster", "role": "@Booster", "amount": int64(20)},
		{"id": "role-2", "role": "@Role", "amount": int64(5)},
	}, daily["role_bonuses"])

	work := mustLookup(t, WorkCommandSettings).Outbound(guild)
	assert.Equal(t, []map[string]any{
		{"id": "miner", "name": "Miner"},
		{"id": "job-1", "name": "Job 2"},
	}, work["job_pool"])

	// Synthetic ids are deterministic so repeated saves write identical rows.
	assert.Equal(t, daily, mustLookup(t, DailyCollectSettings).Outbound(guild))
}

func TestInbound_NormalizesNativeRows(t *testing.T) {
	t.Parallel()

	patch := entities.Patch{}
	rows := map[string]Row{
		CurrencySettings:     {"currency_name": "Gems", "start_balance": "25", "decimals_enabled": "t"},
		DailyCollectSettings: {"enabled": 0, "base_amount": nil, "role_bonuses": []any{map[string]any{"id": "r", "role": "@VIP", "amount": 10}}, "streak_profile": "hardcore"},
		WorkCommandSettings:  {"enabled": "FALSE", "cooldown": "3h", "job_pool": "not a list"},
		MarketplaceSettings:  {"fee_percentage": 8.5, "fees": 1, "display_title": nil},
		AuctionSettings:      {"allow_buyouts": "f", "color": "#000000"},
		TradesGiftsSettings:  {"gifting_enabled": false},
		ItemSettings:         {"allowed_rarities": int32(3)},
		RaffleSettings:       {"enabled": "0", "announcement": "#drops", "max_odds": 12.5, "open_on_purchase": true},
	}
	for _, mapper := range Mappers() {
		patch = entities.DeepMerge(patch, mapper.Inbound(rows[mapper.Name]))
	}

	guild := applyPatch(t, patch)

	assert.Equal(t, "Gems", guild.Currency.Name)
	assert.Equal(t, int64(25), guild.Currency.StartingBalance)
	assert.True(t, guild.Currency.DecimalsEnabled)

	assert.False(t, guild.Daily.Enabled)
	assert.Equal(t, int64(200), guild.Daily.BaseAmount)
	assert.Equal(t, 24, guild.Daily.CooldownHours)
	assert.Equal(t, []entities.RoleBonus{{ID: "r", Role: "@VIP", Amount: 10}}, guild.Daily.RoleAmounts)
	assert.Equal(t, "hardcore", guild.Daily.Streak.Profile)

	assert.False(t, guild.Work.Enabled)
	assert.Equal(t, 180, guild.Work.CooldownMinutes)
	assert.Equal(t, "h", guild.Work.CooldownUnit)
	assert.Empty(t, guild.Work.Jobs)

	suite := guild.MarketplaceSuite
	assert.Equal(t, 8.5, suite.FeePercent)
	assert.True(t, suite.FeesEnabled)
	assert.Equal(t, "Marketplace", suite.Appearance.Title)
	assert.False(t, suite.Auctions.BuyoutsEnabled)
	assert.Equal(t, "#000000", suite.Auctions.Appearance.Color)
	assert.True(t, suite.Trading.Enabled)
	assert.False(t, suite.Trading.GiftingEnabled)

	assert.Equal(t, 3, guild.Items.RarityCap)

	assert.False(t, guild.Raffles.Enabled)
	assert.Equal(t, "#drops", guild.Boxes.Behavior.AnnounceChannel)
	assert.Equal(t, 12.5, guild.Boxes.Behavior.MaxOdds)
	assert.True(t, guild.Boxes.Behavior.OpenOnPurchase)
	assert.True(t, guild.Boxes.Behavior.LogOpenings)
}
