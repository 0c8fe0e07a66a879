package api

import (
	"time"

	"guildconsole/application"
	"guildconsole/domain/entities"
)

// GuildSummaryDTO is one entry of the guild list
type GuildSummaryDTO struct {
	GuildID    string                                             `json:"guildId"`
	ExternalID int64                                              `json:"externalId"`
	Statuses   map[entities.SectionName]application.SectionStatus `json:"statuses"`
}

// SettingsDTO is the full settings record of a guild
type SettingsDTO struct {
	GuildID    string                                             `json:"guildId"`
	ExternalID int64                                              `json:"externalId"`
	Settings   entities.Settings                                  `json:"settings"`
	LastSaved  map[entities.SectionName]*time.Time                `json:"lastSaved"`
	Statuses   map[entities.SectionName]application.SectionStatus `json:"statuses"`
}

// ExternalIDDTO reports the remote identifier of a guild
type ExternalIDDTO struct {
	GuildID    string `json:"guildId"`
	ExternalID int64  `json:"externalId"`
}

// HealthDTO is the health check response
type HealthDTO struct {
	Status string `json:"status"`
	Guilds int    `json:"guilds"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error    string   `json:"error"`
	Details  string   `json:"details,omitempty"`
	Failures []string `json:"failures,omitempty"`
}
