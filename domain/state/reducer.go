// Package state holds the local settings store as a pure state machine.
package state

import (
	"guildconsole/domain/entities"
	"guildconsole/domain/reconcile"
)

// State maps guild ids to their reconciled settings records. A State is
// treated as immutable: Reduce never modifies its input.
type State struct {
	Records map[string]entities.GuildSettingsRecord `json:"records"`
}

// New returns an empty state
func New() State {
	return State{Records: map[string]entities.GuildSettingsRecord{}}
}

// Record returns the record of a guild
func (s State) Record(guildID string) (entities.GuildSettingsRecord, bool) {
	record, ok := s.Records[guildID]
	return record, ok
}

// Reduce applies action to s and returns the resulting state. Actions that
// target an unknown guild or section return s unchanged.
func Reduce(s State, action Action) State {
	switch a := action.(type) {
	case SyncGuilds:
		return syncGuilds(s, a)
	case UpdateSection:
		return updateSection(s, a)
	case ResetSection:
		return resetSection(s, a)
	case HydrateGuild:
		return hydrateGuild(s, a)
	case SaveSection:
		return saveSection(s, a)
	default:
		return s
	}
}

func syncGuilds(s State, a SyncGuilds) State {
	var missing []string
	for _, guildID := range a.GuildIDs {
		if guildID == "" {
			continue
		}
		if _, ok := s.Records[guildID]; !ok {
			missing = append(missing, guildID)
		}
	}
	if len(missing) == 0 {
		return s
	}

	next := s.withCapacity(len(missing))
	for _, guildID := range missing {
		next.Records[guildID] = entities.NewGuildSettingsRecord()
	}
	return next
}

func updateSection(s State, a UpdateSection) State {
	record, ok := s.Records[a.GuildID]
	if !ok || !a.Section.IsValid() {
		return s
	}

	current := reconcile.AsTree(record.Settings.Section(a.Section))
	for key, value := range a.Patch {
		if _, known := current[key]; known {
			current[key] = value
		}
	}

	record.Settings = reconcile.Section(record.Settings, a.Section, current)
	return s.with(a.GuildID, record)
}

func resetSection(s State, a ResetSection) State {
	record, ok := s.Records[a.GuildID]
	if !ok || !a.Section.IsValid() {
		return s
	}

	record.Settings = record.Settings.WithSection(a.Section, entities.DefaultSettings())
	record.LastSaved = record.LastSaved.Clone()
	record.LastSaved[a.Section] = nil
	return s.with(a.GuildID, record)
}

// hydrateGuild merges object-valued patch keys one level into the existing
// sub-object; scalars and lists replace outright.
func hydrateGuild(s State, a HydrateGuild) State {
	record, ok := s.Records[a.GuildID]
	if !ok || len(a.Patch) == 0 {
		return s
	}

	guild := reconcile.AsTree(record.Settings.Guild)
	for key, value := range a.Patch {
		incoming, incomingIsObj := entities.AsObject(value)
		existing, existingIsObj := guild[key].(map[string]any)
		if !incomingIsObj || !existingIsObj {
			guild[key] = value
			continue
		}
		merged := make(map[string]any, len(existing)+len(incoming))
		for k, v := range existing {
			merged[k] = v
		}
		for k, v := range incoming {
			merged[k] = v
		}
		guild[key] = merged
	}

	record.Settings = reconcile.Section(record.Settings, entities.SectionGuild, guild)
	return s.with(a.GuildID, record)
}

func saveSection(s State, a SaveSection) State {
	record, ok := s.Records[a.GuildID]
	if !ok || !a.Section.IsValid() {
		return s
	}

	stamp := a.At
	record.LastSaved = record.LastSaved.Clone()
	record.LastSaved[a.Section] = &stamp
	return s.with(a.GuildID, record)
}

// with returns a copy of s where guildID maps to record
func (s State) with(guildID string, record entities.GuildSettingsRecord) State {
	next := s.withCapacity(0)
	next.Records[guildID] = record
	return next
}

func (s State) withCapacity(extra int) State {
	records := make(map[string]entities.GuildSettingsRecord, len(s.Records)+extra)
	for guildID, record := range s.Records {
		records[guildID] = record
	}
	return State{Records: records}
}
