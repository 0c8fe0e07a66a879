package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guildconsole/domain/entities"
	"guildconsole/domain/sources"
	"guildconsole/repository/testutil"
)

func TestBuildUpsert(t *testing.T) {
	t.Parallel()

	query, args := buildUpsert(`"item_settings"`, 42, sources.Row{
		"enabled":          true,
		"allowed_rarities": 3,
		"guild_id":         7,
		"updated_at":       "ignored",
	})

	assert.Equal(t,
		`INSERT INTO "item_settings" (guild_id, "allowed_rarities", "enabled") VALUES ($1, $2, $3) `+
			`ON CONFLICT (guild_id) DO UPDATE SET "allowed_rarities" = EXCLUDED."allowed_rarities", "enabled" = EXCLUDED."enabled", updated_at = NOW()`,
		query)
	assert.Equal(t, []any{int64(42), 3, true}, args)

	again, _ := buildUpsert(`"item_settings"`, 42, sources.Row{"enabled": true, "allowed_rarities": 3})
	assert.Equal(t, query, again, "statement must not depend on map order")
}

func TestSettingsSourceRepository_UnknownSource(t *testing.T) {
	t.Parallel()

	repo := NewSettingsSourceRepositoryWithTx(nil)
	ctx := context.Background()

	_, err := repo.ReadOne(ctx, "wager_settings; DROP TABLE users", 1)
	assert.ErrorIs(t, err, sources.ErrUnknownSource)

	err = repo.UpsertOne(ctx, "wager_settings", 1, sources.Row{})
	assert.ErrorIs(t, err, sources.ErrUnknownSource)
}

func TestSettingsSourceRepository_Integration(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewSettingsSourceRepository(testDB.DB)
	ctx := context.Background()

	t.Run("missing row reads as nil", func(t *testing.T) {
		for _, name := range sources.Names() {
			row, err := repo.ReadOne(ctx, name, 999)
			require.NoError(t, err)
			assert.Nil(t, row, name)
		}
	})

	t.Run("every mapper round trips through its table", func(t *testing.T) {
		guild := entities.DefaultGuildSection()
		guild.MarketplaceSuite.FeePercent = 8
		guild.Daily.RoleAmounts = []entities.RoleBonus{{ID: "vip", Role: "@VIP", Amount: 25}}
		guild.Work.Jobs = []entities.Job{{ID: "miner", Name: "Miner"}}
		guild.Boxes.Behavior.AnnounceChannel = "#drops"

		for _, mapper := range sources.Mappers() {
			require.NoError(t, repo.UpsertOne(ctx, mapper.Name, 1001, mapper.Outbound(guild)), mapper.Name)
		}

		patch := entities.Patch{}
		for _, mapper := range sources.Mappers() {
			row, err := repo.ReadOne(ctx, mapper.Name, 1001)
			require.NoError(t, err)
			require.NotNil(t, row, mapper.Name)
			assert.NotContains(t, row, "guild_id")
			patch = entities.DeepMerge(patch, mapper.Inbound(row))
		}

		suite, ok := entities.AsObject(patch["marketplaceSuite"])
		require.True(t, ok)
		assert.Equal(t, 8.0, suite["feePercent"])

		daily, ok := entities.AsObject(patch["daily"])
		require.True(t, ok)
		assert.Equal(t, []any{map[string]any{"id": "vip", "role": "@VIP", "amount": float64(25)}}, daily["roleAmounts"])

		boxes, ok := entities.AsObject(patch["boxes"])
		require.True(t, ok)
		behavior, ok := entities.AsObject(boxes["behavior"])
		require.True(t, ok)
		assert.Equal(t, "#drops", behavior["announceChannel"])
		assert.Equal(t, "", behavior["minRarity"], "NULL columns read back as empty strings")
	})

	t.Run("upsert replaces the existing row", func(t *testing.T) {
		require.NoError(t, repo.UpsertOne(ctx, sources.ItemSettings, 2002, sources.Row{"enabled": true, "allowed_rarities": 1}))
		require.NoError(t, repo.UpsertOne(ctx, sources.ItemSettings, 2002, sources.Row{"enabled": false, "allowed_rarities": 4}))

		row, err := repo.ReadOne(ctx, sources.ItemSettings, 2002)
		require.NoError(t, err)
		assert.Equal(t, false, row["enabled"])
		assert.Equal(t, int32(4), row["allowed_rarities"])

		var count int
		require.NoError(t, testDB.DB.QueryRow(ctx, `SELECT COUNT(*) FROM item_settings WHERE guild_id = $1`, 2002).Scan(&count))
		assert.Equal(t, 1, count)
	})
}
