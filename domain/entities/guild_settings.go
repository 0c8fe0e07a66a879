package entities

// Settings is the complete settings tree of one guild. Every section of the
// default schema is always present.
type Settings struct {
	Guild        GuildSection   `json:"guild"`
	Economy      EconomySection `json:"economy"`
	Jobs         JobsSection    `json:"jobs"`
	Premium      PremiumSection `json:"premium"`
	Logs         LogsSection    `json:"logs"`
	FeatureFlags FeatureFlags   `json:"featureFlags"`
}

// GuildSection is the section fed by the remote settings sources
type GuildSection struct {
	Currency         CurrencySettings    `json:"currency"`
	Daily            DailySettings       `json:"daily"`
	Work             WorkSettings        `json:"work"`
	MarketplaceSuite MarketplaceSuite    `json:"marketplaceSuite"`
	Items            ItemSettings        `json:"items"`
	Raffles          RaffleSettings      `json:"raffles"`
	Boxes            BoxSettings         `json:"boxes"`
	ServerShop       ShopSettings        `json:"serverShop"`
	Leaderboards     LeaderboardSettings `json:"leaderboards"`
	Permissions      PermissionSettings  `json:"permissions"`
	AuditLogs        AuditLogSettings    `json:"auditLogs"`
	Billing          BillingSettings     `json:"billing"`
	System           SystemSettings      `json:"system"`
}

// AuditChannel routes audit messages for a feature to a channel
type AuditChannel struct {
	Enabled bool   `json:"enabled"`
	Channel string `json:"channel"`
}

type CurrencySettings struct {
	Name            string       `json:"name"`
	StartingBalance int64        `json:"startingBalance"`
	DecimalsEnabled bool         `json:"decimalsEnabled"`
	AuditLog        AuditChannel `json:"auditLog"`
}

// RoleBonus grants an extra daily amount to members holding a role
type RoleBonus struct {
	ID     string `json:"id"`
	Role   string `json:"role"`
	Amount int64  `json:"amount"`
}

type StreakSettings struct {
	Enabled    bool    `json:"enabled"`
	Profile    string  `json:"profile"`
	Multiplier float64 `json:"multiplier"`
}

type DailySettings struct {
	Enabled       bool           `json:"enabled"`
	BaseAmount    int64          `json:"baseAmount"`
	CooldownHours int            `json:"cooldownHours"`
	RoleAmounts   []RoleBonus    `json:"roleAmounts"`
	Streak        StreakSettings `json:"streak"`
}

type Job struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type WorkSettings struct {
	Enabled         bool   `json:"enabled"`
	CooldownMinutes int    `json:"cooldownMinutes"`
	CooldownUnit    string `json:"cooldownUnit"` // display granularity: m, h or d
	PayMin          int64  `json:"payMin"`
	PayMax          int64  `json:"payMax"`
	Jobs            []Job  `json:"jobs"`
}

type Appearance struct {
	Title string `json:"title"`
	Color string `json:"color"`
}

type AuctionSettings struct {
	Enabled        bool       `json:"enabled"`
	BuyoutsEnabled bool       `json:"buyoutsEnabled"`
	ResultsPerPage int        `json:"resultsPerPage"`
	FeeEnabled     bool       `json:"feeEnabled"`
	FeePercent     float64    `json:"feePercent"`
	Appearance     Appearance `json:"appearance"`
}

type TradingSettings struct {
	Enabled        bool `json:"enabled"`
	GiftingEnabled bool `json:"giftingEnabled"`
}

// MarketplaceSuite groups the marketplace core with auctions and trading.
// The three parts are persisted to three different sources.
type MarketplaceSuite struct {
	Enabled        bool            `json:"enabled"`
	ResultsPerPage int             `json:"resultsPerPage"`
	FeesEnabled    bool            `json:"feesEnabled"`
	FeePercent     float64         `json:"feePercent"`
	Appearance     Appearance      `json:"appearance"`
	Auctions       AuctionSettings `json:"auctions"`
	Trading        TradingSettings `json:"trading"`
}

type CatalogItem struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Rarity string `json:"rarity"`
	Price  int64  `json:"price"`
}

type ItemSettings struct {
	Enabled   bool          `json:"enabled"`
	RarityCap int           `json:"rarityCap"`
	Catalog   []CatalogItem `json:"catalog"`
	AuditLog  AuditChannel  `json:"auditLog"`
}

// Raffle is a running raffle shown on the dashboard
type Raffle struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Prize         string `json:"prize"`
	Price         int64  `json:"price"`
	PrizeQuantity int    `json:"prizeQuantity"`
	EndsAt        string `json:"endsAt"`
}

type RaffleSettings struct {
	Enabled        bool     `json:"enabled"`
	TicketPrice    int64    `json:"ticketPrice"`
	PrizeName      string   `json:"prizeName"`
	PrizeQuantity  int      `json:"prizeQuantity"`
	DurationDays   int      `json:"durationDays"`
	ActiveLimit    int      `json:"activeLimit"`
	OpenOnPurchase bool     `json:"openOnPurchase"`
	Active         []Raffle `json:"active"`
}

type BoxBehavior struct {
	AnimationSpeed  string  `json:"animationSpeed"`
	AnnounceRare    bool    `json:"announceRare"`
	AnnounceChannel string  `json:"announceChannel"`
	AnnounceBy      string  `json:"announceBy"`
	MinRarity       string  `json:"minRarity"`
	MaxOdds         float64 `json:"maxOdds"`
	LogOpenings     bool    `json:"logOpenings"`
	OpenOnPurchase  bool    `json:"openOnPurchase"`
}

type BoxItem struct {
	Name   string  `json:"name"`
	Rarity string  `json:"rarity"`
	Odds   float64 `json:"odds"`
}

type MysteryBox struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Price int64     `json:"price"`
	Items []BoxItem `json:"items"`
}

type BoxSettings struct {
	Enabled    bool         `json:"enabled"`
	Behavior   BoxBehavior  `json:"behavior"`
	Collection []MysteryBox `json:"collection"`
}

type ShopItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Stock int    `json:"stock"`
}

type ShopSettings struct {
	Name                string     `json:"name"`
	Description         string     `json:"description"`
	TomorrowVisibility  bool       `json:"tomorrowVisibility"`
	RandomRotation      bool       `json:"randomRotation"`
	FeaturedHeroEnabled bool       `json:"featuredHeroEnabled"`
	LimitedStock        bool       `json:"limitedStock"`
	BackgroundStyle     string     `json:"backgroundStyle"`
	Layout              string     `json:"layout"`
	Items               []ShopItem `json:"items"`
}

type LeaderboardSettings struct {
	Enabled  bool     `json:"enabled"`
	Currency bool     `json:"currency"`
	Items    bool     `json:"items"`
	Cadences []string `json:"cadences"`
}

type PermissionSettings struct {
	AdminRoles          []string `json:"adminRoles"`
	BlockedRoles        []string `json:"blockedRoles"`
	CommandRestrictions []string `json:"commandRestrictions"`
}

type AuditLogSettings struct {
	Economy     bool `json:"economy"`
	Marketplace bool `json:"marketplace"`
	Raffles     bool `json:"raffles"`
	Boxes       bool `json:"boxes"`
	Moderation  bool `json:"moderation"`
}

type BillingSettings struct {
	Plan         string   `json:"plan"`
	FeatureLocks []string `json:"featureLocks"`
	Perks        []string `json:"perks"`
}

type SystemSettings struct {
	Language string `json:"language"`
	Timezone string `json:"timezone"`
}

// Dashboard-level sections that are kept locally only

type EconomySection struct {
	EconomyEnabled  bool    `json:"economyEnabled"`
	StartingBalance int64   `json:"startingBalance"`
	DailyCooldown   int     `json:"dailyCooldown"`
	WorkReward      int64   `json:"workReward"`
	TaxRate         float64 `json:"taxRate"`
	CurrencyName    string  `json:"currencyName"`
	PreviewMode     string  `json:"previewMode"`
}

type JobsSection struct {
	JobsEnabled      bool    `json:"jobsEnabled"`
	JobDifficulty    string  `json:"jobDifficulty"`
	ShiftLength      int     `json:"shiftLength"`
	PayoutMultiplier float64 `json:"payoutMultiplier"`
	RerollCost       int64   `json:"rerollCost"`
	AutoAssign       bool    `json:"autoAssign"`
}

type PremiumSection struct {
	AIInsights      bool `json:"aiInsights"`
	BrandingControl bool `json:"brandingControl"`
	Concierge       bool `json:"concierge"`
}

type LogsSection struct {
	LogRetentionDays  int      `json:"logRetentionDays"`
	StreamingChannels []string `json:"streamingChannels"`
	AlertOnFailures   bool     `json:"alertOnFailures"`
	MaskSensitive     bool     `json:"maskSensitive"`
}

// FeatureFlag toggles a dashboard module and selects its mode
type FeatureFlag struct {
	Enabled bool   `json:"enabled"`
	Mode    string `json:"mode"`
}

// FeatureFlags is keyed by module key
type FeatureFlags map[string]FeatureFlag
