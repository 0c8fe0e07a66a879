// Package sources translates between the rows of the remote settings tables
// and patches against the guild settings section.
package sources

import (
	"fmt"

	"guildconsole/domain/entities"
)

// Row is one remote settings row keyed by column name, without guild_id
type Row map[string]any

// Mapper is the inbound/outbound pair for one remote settings table
type Mapper struct {
	Name string
	// Inbound returns nil for a nil row
	Inbound  func(row Row) entities.Patch
	Outbound func(guild entities.GuildSection) Row
}

// Remote settings tables
const (
	CurrencySettings     = "currency_settings"
	DailyCollectSettings = "daily_collect_settings"
	WorkCommandSettings  = "work_command_settings"
	MarketplaceSettings  = "marketplace_settings"
	AuctionSettings      = "auction_settings"
	TradesGiftsSettings  = "trades_gifts_settings"
	ItemSettings         = "item_settings"
	RaffleSettings       = "raffle_settings"
)

func currencyInbound(row Row) entities.Patch {
	if row == nil {
		return nil
	}
	return entities.Patch{
		"currency": map[string]any{
			"name":            StringOr(row["currency_name"], "Credits"),
			"startingBalance": CoerceInt(row["start_balance"], 0),
			"decimalsEnabled": NormalizeBool(row["decimals_enabled"], false),
		},
	}
}

func currencyOutbound(guild entities.GuildSection) Row {
	return Row{
		"currency_name":    nonEmpty(guild.Currency.Name, "Credits"),
		"start_balance":    guild.Currency.StartingBalance,
		"decimals_enabled": guild.Currency.DecimalsEnabled,
	}
}

func dailyInbound(row Row) entities.Patch {
	if row == nil {
		return nil
	}
	cooldown, ok := ParseDurationMinutes(row["cooldown"])
	if !ok {
		cooldown = 1440
	}
	return entities.Patch{
		"daily": map[string]any{
			"enabled":       NormalizeBool(row["enabled"], true),
			"baseAmount":    CoerceInt(row["base_amount"], 200),
			"cooldownHours": max(1, int(roundHalfUp(float64(cooldown)/60))),
			"roleAmounts":   ToList(row["role_bonuses"]),
			"streak": map[string]any{
				"enabled":    NormalizeBool(row["streak_enabled"], false),
				"profile":    StringOr(row["streak_profile"], "standard"),
				"multiplier": CoerceNumber(row["streak_multiplier"], 1.5),
			},
		},
	}
}

func dailyOutbound(guild entities.GuildSection) Row {
	daily := guild.Daily
	return Row{
		"enabled":           daily.Enabled,
		"base_amount":       daily.BaseAmount,
		"cooldown":          FormatHours(daily.CooldownHours),
		"streak_enabled":    daily.Streak.Enabled,
		"streak_profile":    nonEmpty(daily.Streak.Profile, "standard"),
		"streak_multiplier": daily.Streak.Multiplier,
		"role_bonuses":      roleBonuses(daily.RoleAmounts),
	}
}

func roleBonuses(roles []entities.RoleBonus) []map[string]any {
	out := make([]map[string]any, 0, len(roles))
	for i, role := range roles {
		id := role.ID
		if id == "" {
			id = nonEmpty(role.Role, fmt.Sprintf("role-%d", i))
		}
		out = append(out, map[string]any{
			"id":     id,
			"role":   nonEmpty(role.Role, "@Role"),
			"amount": role.Amount,
		})
	}
	return out
}

func workInbound(row Row) entities.Patch {
	if row == nil {
		return nil
	}
	work := map[string]any{
		"enabled":         NormalizeBool(row["enabled"], true),
		"cooldownMinutes": 240,
		"payMin":          CoerceInt(row["min_pay"], 200),
		"payMax":          CoerceInt(row["max_pay"], 500),
		"jobs":            ToList(row["job_pool"]),
	}
	if minutes, unit, ok := parseDuration(row["cooldown"]); ok {
		work["cooldownMinutes"] = minutes
		if unit == "s" {
			unit = "m"
		}
		work["cooldownUnit"] = unit
	}
	return entities.Patch{"work": work}
}

func workOutbound(guild entities.GuildSection) Row {
	work := guild.Work
	return Row{
		"enabled":  work.Enabled,
		"cooldown": FormatMinutes(work.CooldownMinutes, exactUnit(work.CooldownMinutes, work.CooldownUnit)),
		"min_pay":  work.PayMin,
		"max_pay":  work.PayMax,
		"job_pool": jobPool(work.Jobs),
	}
}

// exactUnit keeps the coarser unit only when minutes divide into it evenly,
// so an edited cooldown is never rounded on the way out.
func exactUnit(minutes int, unit string) string {
	switch {
	case unit == "h" && minutes > 0 && minutes%60 == 0:
		return "h"
	case unit == "d" && minutes > 0 && minutes%1440 == 0:
		return "d"
	default:
		return "m"
	}
}

func jobPool(jobs []entities.Job) []map[string]any {
	out := make([]map[string]any, 0, len(jobs))
	for i, job := range jobs {
		out = append(out, map[string]any{
			"id":   nonEmpty(job.ID, fmt.Sprintf("job-%d", i)),
			"name": nonEmpty(job.Name, fmt.Sprintf("Job %d", i+1)),
		})
	}
	return out
}

func marketplaceInbound(row Row) entities.Patch {
	if row == nil {
		return nil
	}
	return entities.Patch{
		"marketplaceSuite": map[string]any{
			"enabled":        NormalizeBool(row["enabled"], true),
			"resultsPerPage": CoerceInt(row["results_per_page"], 6),
			"feesEnabled":    NormalizeBool(row["fees"], false),
			"feePercent":     CoerceNumber(row["fee_percentage"], 0),
			"appearance": map[string]any{
				"title": StringOr(row["display_title"], "Marketplace"),
				"color": StringOr(row["color"], "#7c3aed"),
			},
		},
	}
}

func marketplaceOutbound(guild entities.GuildSection) Row {
	suite := guild.MarketplaceSuite
	return Row{
		"enabled":          suite.Enabled,
		"results_per_page": suite.ResultsPerPage,
		"fees":             suite.FeesEnabled,
		"fee_percentage":   suite.FeePercent,
		"display_title":    nonEmpty(suite.Appearance.Title, "Marketplace"),
		"color":            nonEmpty(suite.Appearance.Color, "#7c3aed"),
	}
}

func auctionInbound(row Row) entities.Patch {
	if row == nil {
		return nil
	}
	return entities.Patch{
		"marketplaceSuite": map[string]any{
			"auctions": map[string]any{
				"enabled":        NormalizeBool(row["enabled"], true),
				"buyoutsEnabled": NormalizeBool(row["allow_buyouts"], true),
				"resultsPerPage": CoerceInt(row["results_per_page"], 4),
				"feeEnabled":     NormalizeBool(row["fees"], false),
				"feePercent":     CoerceNumber(row["fee_percentage"], 0),
				"appearance": map[string]any{
					"title": StringOr(row["display_title"], "Auction House"),
					"color": StringOr(row["color"], "#f97316"),
				},
			},
		},
	}
}

func auctionOutbound(guild entities.GuildSection) Row {
	auctions := guild.MarketplaceSuite.Auctions
	return Row{
		"enabled":          auctions.Enabled,
		"allow_buyouts":    auctions.BuyoutsEnabled,
		"results_per_page": auctions.ResultsPerPage,
		"fees":             auctions.FeeEnabled,
		"fee_percentage":   auctions.FeePercent,
		"display_title":    nonEmpty(auctions.Appearance.Title, "Auction House"),
		"color":            nonEmpty(auctions.Appearance.Color, "#f97316"),
	}
}

func tradesInbound(row Row) entities.Patch {
	if row == nil {
		return nil
	}
	return entities.Patch{
		"marketplaceSuite": map[string]any{
			"trading": map[string]any{
				"enabled":        NormalizeBool(row["trading_enabled"], true),
				"giftingEnabled": NormalizeBool(row["gifting_enabled"], true),
			},
		},
	}
}

func tradesOutbound(guild entities.GuildSection) Row {
	trading := guild.MarketplaceSuite.Trading
	return Row{
		"trading_enabled": trading.Enabled,
		"gifting_enabled": trading.GiftingEnabled,
	}
}

func itemInbound(row Row) entities.Patch {
	if row == nil {
		return nil
	}
	return entities.Patch{
		"items": map[string]any{
			"enabled":   NormalizeBool(row["enabled"], true),
			"rarityCap": CoerceInt(row["allowed_rarities"], 0),
		},
	}
}

func itemOutbound(guild entities.GuildSection) Row {
	return Row{
		"enabled":          guild.Items.Enabled,
		"allowed_rarities": guild.Items.RarityCap,
	}
}

// The raffle table also carries the mystery box behaviour columns.
func raffleInbound(row Row) entities.Patch {
	if row == nil {
		return nil
	}
	return entities.Patch{
		"raffles": map[string]any{
			"enabled": NormalizeBool(row["enabled"], true),
		},
		"boxes": map[string]any{
			"behavior": map[string]any{
				"animationSpeed":  StringOr(row["animation_speed"], "standard"),
				"announceRare":    NormalizeBool(row["announce_rarities"], false),
				"announceChannel": StringOr(row["announcement"], ""),
				"announceBy":      StringOr(row["announce_by"], ""),
				"minRarity":       StringOr(row["min_rarity"], ""),
				"maxOdds":         CoerceNumber(row["max_odds"], 0),
				"logOpenings":     NormalizeBool(row["log_openings"], true),
				"openOnPurchase":  NormalizeBool(row["open_on_purchase"], false),
			},
		},
	}
}

func raffleOutbound(guild entities.GuildSection) Row {
	behavior := guild.Boxes.Behavior
	return Row{
		"enabled":           guild.Raffles.Enabled,
		"animation_speed":   nonEmpty(behavior.AnimationSpeed, "standard"),
		"announce_rarities": behavior.AnnounceRare,
		"announcement":      nullable(behavior.AnnounceChannel),
		"announce_by":       nullable(behavior.AnnounceBy),
		"min_rarity":        nullable(behavior.MinRarity),
		"max_odds":          behavior.MaxOdds,
		"log_openings":      behavior.LogOpenings,
		"open_on_purchase":  behavior.OpenOnPurchase,
	}
}
