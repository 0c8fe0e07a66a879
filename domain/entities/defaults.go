package entities

// Feature module keys, in dashboard order. The first mode of each module is
// its default mode.
var featureModules = []struct {
	key            string
	defaultEnabled bool
	modes          []string
}{
	{"economy", true, []string{"balanced", "aggressive", "chill"}},
	{"jobs", true, []string{"standard", "hardcore", "cozy"}},
	{"marketplace", true, []string{"curated", "open", "seasonal"}},
	{"mysteryBoxes", false, []string{"cinematic", "arcade", "minimal"}},
	{"raffles", true, []string{"verification", "open"}},
	{"leaderboards", true, []string{"seasonal", "lifetime"}},
	{"premium", true, []string{"ai", "concierge"}},
	{"logs", true, []string{"compressed", "verbose"}},
	{"settings", true, []string{"auto", "manual"}},
}

// DefaultSettings returns a fresh copy of the canonical settings shape.
// Callers may mutate the result freely.
func DefaultSettings() Settings {
	return Settings{
		Guild:        DefaultGuildSection(),
		Economy:      DefaultEconomySection(),
		Jobs:         DefaultJobsSection(),
		Premium:      DefaultPremiumSection(),
		Logs:         DefaultLogsSection(),
		FeatureFlags: DefaultFeatureFlags(),
	}
}

// DefaultGuildSection returns the default remote-backed guild section
func DefaultGuildSection() GuildSection {
	return GuildSection{
		Currency: CurrencySettings{
			Name:            "Credits",
			StartingBalance: 0,
			DecimalsEnabled: false,
			AuditLog:        AuditChannel{Enabled: false, Channel: ""},
		},
		Daily: DailySettings{
			Enabled:       true,
			BaseAmount:    200,
			CooldownHours: 24,
			RoleAmounts:   []RoleBonus{},
			Streak: StreakSettings{
				Enabled:    false,
				Profile:    "standard",
				Multiplier: 1.5,
			},
		},
		Work: WorkSettings{
			Enabled:         true,
			CooldownMinutes: 240,
			CooldownUnit:    "m",
			PayMin:          200,
			PayMax:          500,
			Jobs:            []Job{},
		},
		MarketplaceSuite: MarketplaceSuite{
			Enabled:        true,
			ResultsPerPage: 6,
			FeesEnabled:    false,
			FeePercent:     0,
			Appearance:     Appearance{Title: "Marketplace", Color: "#7c3aed"},
			Auctions: AuctionSettings{
				Enabled:        true,
				BuyoutsEnabled: true,
				ResultsPerPage: 4,
				FeeEnabled:     false,
				FeePercent:     0,
				Appearance:     Appearance{Title: "Auction House", Color: "#f97316"},
			},
			Trading: TradingSettings{
				Enabled:        true,
				GiftingEnabled: true,
			},
		},
		Items: ItemSettings{
			Enabled:   true,
			RarityCap: 0,
			Catalog:   []CatalogItem{},
			AuditLog:  AuditChannel{Enabled: false, Channel: ""},
		},
		Raffles: RaffleSettings{
			Enabled:        true,
			TicketPrice:    100,
			PrizeName:      "Nitro Classic",
			PrizeQuantity:  1,
			DurationDays:   3,
			ActiveLimit:    5,
			OpenOnPurchase: false,
			Active:         DefaultActiveRaffles(),
		},
		Boxes: BoxSettings{
			Enabled: true,
			Behavior: BoxBehavior{
				AnimationSpeed:  "standard",
				AnnounceRare:    false,
				AnnounceChannel: "",
				AnnounceBy:      "",
				MinRarity:       "",
				MaxOdds:         0,
				LogOpenings:     true,
				OpenOnPurchase:  false,
			},
			Collection: []MysteryBox{},
		},
		ServerShop: ShopSettings{
			Name:                "Server Shop",
			Description:         "Spend your credits on perks and cosmetics.",
			TomorrowVisibility:  false,
			RandomRotation:      false,
			FeaturedHeroEnabled: true,
			LimitedStock:        false,
			BackgroundStyle:     "aurora",
			Layout:              "grid",
			Items:               []ShopItem{},
		},
		Leaderboards: LeaderboardSettings{
			Enabled:  true,
			Currency: true,
			Items:    false,
			Cadences: []string{"weekly", "monthly"},
		},
		Permissions: PermissionSettings{
			AdminRoles:          []string{},
			BlockedRoles:        []string{},
			CommandRestrictions: []string{},
		},
		AuditLogs: AuditLogSettings{
			Economy:     true,
			Marketplace: true,
			Raffles:     true,
			Boxes:       false,
			Moderation:  false,
		},
		Billing: BillingSettings{
			Plan:         "Free",
			FeatureLocks: []string{"Leaderboards", "Premium Hub"},
			Perks:        []string{"Economy + Jobs"},
		},
		System: SystemSettings{
			Language: "en",
			Timezone: "UTC",
		},
	}
}

// DefaultActiveRaffles is the list shown when a guild has no usable raffles
func DefaultActiveRaffles() []Raffle {
	return []Raffle{
		{
			ID:            "raffle-weekly-drop",
			Name:          "Weekly Drop",
			Prize:         "Nitro Classic",
			Price:         100,
			PrizeQuantity: 1,
			EndsAt:        "",
		},
		{
			ID:            "raffle-founders",
			Name:          "Founders Giveaway",
			Prize:         "Custom Role",
			Price:         250,
			PrizeQuantity: 2,
			EndsAt:        "",
		},
	}
}

func DefaultEconomySection() EconomySection {
	return EconomySection{
		EconomyEnabled:  true,
		StartingBalance: 250,
		DailyCooldown:   6,
		WorkReward:      180,
		TaxRate:         5,
		CurrencyName:    "Credits",
		PreviewMode:     "balanced",
	}
}

func DefaultJobsSection() JobsSection {
	return JobsSection{
		JobsEnabled:      true,
		JobDifficulty:    "standard",
		ShiftLength:      4,
		PayoutMultiplier: 1.2,
		RerollCost:       150,
		AutoAssign:       true,
	}
}

func DefaultPremiumSection() PremiumSection {
	return PremiumSection{
		AIInsights:      true,
		BrandingControl: true,
		Concierge:       false,
	}
}

func DefaultLogsSection() LogsSection {
	return LogsSection{
		LogRetentionDays:  14,
		StreamingChannels: []string{"#audit"},
		AlertOnFailures:   true,
		MaskSensitive:     true,
	}
}

// DefaultFeatureFlags enables every module per its default and picks its first mode
func DefaultFeatureFlags() FeatureFlags {
	flags := make(FeatureFlags, len(featureModules))
	for _, module := range featureModules {
		flags[module.key] = FeatureFlag{
			Enabled: module.defaultEnabled,
			Mode:    module.modes[0],
		}
	}
	return flags
}
