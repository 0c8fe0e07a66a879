package entities

import "time"

// LastSaved holds the last successful save time per section; nil means never saved
type LastSaved map[SectionName]*time.Time

// GuildSettingsRecord is the locally held settings of one guild
type GuildSettingsRecord struct {
	Settings  Settings  `json:"settings"`
	LastSaved LastSaved `json:"lastSaved"`
}

// NewLastSaved returns a map with every section set to nil
func NewLastSaved() LastSaved {
	lastSaved := make(LastSaved, len(AllSections()))
	for _, section := range AllSections() {
		lastSaved[section] = nil
	}
	return lastSaved
}

// Clone returns a copy that shares no map with the receiver
func (l LastSaved) Clone() LastSaved {
	clone := make(LastSaved, len(l))
	for section, ts := range l {
		if ts == nil {
			clone[section] = nil
			continue
		}
		stamp := *ts
		clone[section] = &stamp
	}
	return clone
}

// NewGuildSettingsRecord creates a record holding the default settings
func NewGuildSettingsRecord() GuildSettingsRecord {
	return GuildSettingsRecord{
		Settings:  DefaultSettings(),
		LastSaved: NewLastSaved(),
	}
}

// Section returns the value of a named section, or nil when unknown
func (s Settings) Section(name SectionName) any {
	switch name {
	case SectionGuild:
		return s.Guild
	case SectionEconomy:
		return s.Economy
	case SectionJobs:
		return s.Jobs
	case SectionPremium:
		return s.Premium
	case SectionLogs:
		return s.Logs
	case SectionFeatureFlags:
		return s.FeatureFlags
	default:
		return nil
	}
}

// WithSection returns a copy of s where only the named section is taken from src
func (s Settings) WithSection(name SectionName, src Settings) Settings {
	switch name {
	case SectionGuild:
		s.Guild = src.Guild
	case SectionEconomy:
		s.Economy = src.Economy
	case SectionJobs:
		s.Jobs = src.Jobs
	case SectionPremium:
		s.Premium = src.Premium
	case SectionLogs:
		s.Logs = src.Logs
	case SectionFeatureFlags:
		s.FeatureFlags = src.FeatureFlags
	}
	return s
}
