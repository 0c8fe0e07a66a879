package entities

// SectionName identifies a top-level subtree of a guild's settings
type SectionName string

const (
	SectionGuild        SectionName = "guild"
	SectionEconomy      SectionName = "economy"
	SectionJobs         SectionName = "jobs"
	SectionPremium      SectionName = "premium"
	SectionLogs         SectionName = "logs"
	SectionFeatureFlags SectionName = "featureFlags"
)

// AllSections returns every section of the default schema in a stable order
func AllSections() []SectionName {
	return []SectionName{
		SectionGuild,
		SectionEconomy,
		SectionJobs,
		SectionPremium,
		SectionLogs,
		SectionFeatureFlags,
	}
}

// IsValid reports whether the section exists in the default schema
func (s SectionName) IsValid() bool {
	for _, known := range AllSections() {
		if s == known {
			return true
		}
	}
	return false
}

// ParseSectionName converts a raw string into a known section name
func ParseSectionName(raw string) (SectionName, bool) {
	name := SectionName(raw)
	return name, name.IsValid()
}
