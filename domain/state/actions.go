package state

import (
	"time"

	"guildconsole/domain/entities"
)

// Action is one of the store transitions below
type Action interface {
	isAction()
}

// SyncGuilds ensures a record exists for every listed guild
type SyncGuilds struct {
	GuildIDs []string
}

// UpdateSection shallow-merges Patch onto one section of a guild
type UpdateSection struct {
	GuildID string
	Section entities.SectionName
	Patch   entities.Patch
}

// ResetSection restores one section to its defaults and clears its save time
type ResetSection struct {
	GuildID string
	Section entities.SectionName
}

// HydrateGuild merges remote data into the guild section only
type HydrateGuild struct {
	GuildID string
	Patch   entities.Patch
}

// SaveSection records that a section was saved at At
type SaveSection struct {
	GuildID string
	Section entities.SectionName
	At      time.Time
}

func (SyncGuilds) isAction()    {}
func (UpdateSection) isAction() {}
func (ResetSection) isAction()  {}
func (HydrateGuild) isAction()  {}
func (SaveSection) isAction()   {}
