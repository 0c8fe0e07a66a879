// Package reconcile turns arbitrary, possibly partial or stale settings data
// into a structurally complete GuildSettingsRecord. Nothing in this package
// returns an error: malformed data degrades to defaults.
package reconcile

import (
	"time"

	"guildconsole/domain/entities"
)

// Raw reconciles a serialized record. Unparsable input yields the defaults.
func Raw(data []byte) entities.GuildSettingsRecord {
	if len(data) == 0 {
		return entities.NewGuildSettingsRecord()
	}
	tree, err := decodeTree(data)
	if err != nil {
		return entities.NewGuildSettingsRecord()
	}
	return fromTree(tree)
}

// Tree reconciles a generic record tree shaped like
// {"settings": {...}, "lastSaved": {...}}.
func Tree(input map[string]any) entities.GuildSettingsRecord {
	if input == nil {
		return entities.NewGuildSettingsRecord()
	}
	tree, err := normalize(input)
	if err != nil {
		return entities.NewGuildSettingsRecord()
	}
	return fromTree(tree)
}

// Record reconciles an already typed record, applying the sanitizing rules and
// filling nil collections. A nil record yields the defaults.
func Record(record *entities.GuildSettingsRecord) entities.GuildSettingsRecord {
	if record == nil {
		return entities.NewGuildSettingsRecord()
	}
	tree, err := normalize(record)
	if err != nil {
		return entities.NewGuildSettingsRecord()
	}
	return fromTree(tree)
}

// Section reconciles input as the value of one section and returns current
// with only that section replaced.
func Section(current entities.Settings, name entities.SectionName, input any) entities.Settings {
	tree, err := normalize(input)
	if err != nil {
		tree = nil
	}
	return current.WithSection(name, settingsFromTree(map[string]any{string(name): tree}))
}

// AsTree converts a section value or patch into a generic JSON tree. It
// returns an empty object when v is not an object.
func AsTree(v any) map[string]any {
	tree, err := normalize(v)
	if err != nil {
		return map[string]any{}
	}
	obj, ok := tree.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return obj
}

func fromTree(tree any) entities.GuildSettingsRecord {
	return entities.GuildSettingsRecord{
		Settings:  settingsFromTree(child(tree, "settings")),
		LastSaved: lastSavedFromTree(child(tree, "lastSaved")),
	}
}

func settingsFromTree(settings any) entities.Settings {
	section := func(name entities.SectionName) any {
		return child(settings, string(name))
	}
	return entities.Settings{
		Guild:        decodeSection(entities.DefaultGuildSection(), sanitizeGuildInput(section(entities.SectionGuild))),
		Economy:      decodeSection(entities.DefaultEconomySection(), section(entities.SectionEconomy)),
		Jobs:         decodeSection(entities.DefaultJobsSection(), section(entities.SectionJobs)),
		Premium:      decodeSection(entities.DefaultPremiumSection(), section(entities.SectionPremium)),
		Logs:         decodeSection(entities.DefaultLogsSection(), section(entities.SectionLogs)),
		FeatureFlags: decodeSection(entities.DefaultFeatureFlags(), section(entities.SectionFeatureFlags)),
	}
}

func lastSavedFromTree(input any) entities.LastSaved {
	lastSaved := entities.NewLastSaved()
	for _, section := range entities.AllSections() {
		raw, ok := child(input, string(section)).(string)
		if !ok {
			continue
		}
		stamp, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			continue
		}
		lastSaved[section] = &stamp
	}
	return lastSaved
}
