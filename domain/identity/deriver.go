// Package identity maps internal guild identifiers to the numeric identifiers
// used by the remote settings sources.
package identity

import (
	"fmt"
	"os"
	"unicode/utf16"

	"gopkg.in/yaml.v3"
)

const hashModulus = 1_000_000_000_000

// staticOverrides pins the seeded demo guilds to their real Discord ids.
var staticOverrides = map[string]int64{
	"guild-starlance": 1371982928380301372,
	"guild-synth":     1371982928380301373,
	"guild-harbor":    1371982928380301374,
}

// Deriver derives external ids from an override table with a hash fallback.
// It is safe for concurrent use once constructed.
type Deriver struct {
	overrides map[string]int64
}

// NewDeriver creates a deriver with the static overrides plus extra, where
// extra wins on conflicts.
func NewDeriver(extra map[string]int64) *Deriver {
	overrides := make(map[string]int64, len(staticOverrides)+len(extra))
	for id, external := range staticOverrides {
		overrides[id] = external
	}
	for id, external := range extra {
		overrides[id] = external
	}
	return &Deriver{overrides: overrides}
}

var defaultDeriver = NewDeriver(nil)

// DeriveExternalID derives with the static overrides only
func DeriveExternalID(guildID string) (int64, bool) {
	return defaultDeriver.Derive(guildID)
}

// Derive returns the external id for guildID, or false when guildID is empty.
//
// The fallback is a rolling hash over UTF-16 code units,
// hash = (hash*31 + unit) mod 10^12, with zero coerced to 1. It is not
// collision free: two guild ids can map to the same external id. Seeded data
// depends on these exact values, so the scheme must not change.
func (d *Deriver) Derive(guildID string) (int64, bool) {
	if guildID == "" {
		return 0, false
	}
	if external, ok := d.overrides[guildID]; ok {
		return external, true
	}

	var hash int64
	for _, unit := range utf16.Encode([]rune(guildID)) {
		hash = (hash*31 + int64(unit)) % hashModulus
	}
	if hash == 0 {
		hash = 1
	}
	return hash, true
}

// GuildID returns the guild id pinned to externalID by an override. When
// several guild ids share it the smallest wins.
func (d *Deriver) GuildID(externalID int64) (string, bool) {
	var found string
	for id, external := range d.overrides {
		if external == externalID && (found == "" || id < found) {
			found = id
		}
	}
	return found, found != ""
}

// LoadOverridesFile reads a YAML mapping of guild id to external id, e.g.
//
//	guild-alpha: 123456789012345678
func LoadOverridesFile(path string) (map[string]int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read guild id overrides: %w", err)
	}

	overrides := map[string]int64{}
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse guild id overrides %s: %w", path, err)
	}
	for id, external := range overrides {
		if id == "" || external <= 0 {
			return nil, fmt.Errorf("invalid guild id override %q: %d", id, external)
		}
	}
	return overrides, nil
}
