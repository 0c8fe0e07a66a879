package reconcile

import "strings"

// bannedRaffleNames are substrings of historical test raffles that must never
// resurface from stored data.
var bannedRaffleNames = []string{"sigma", "rawr"}

// sanitizeGuildInput rewrites raffles.active in a guild input tree. Entries
// without a string name, or whose lower-cased name contains a banned substring,
// are removed. When nothing usable remains, or the value is not a list, the key
// is removed so the default list applies.
func sanitizeGuildInput(guild any) any {
	guildObj, ok := guild.(map[string]any)
	if !ok {
		return guild
	}
	raffles, ok := guildObj["raffles"].(map[string]any)
	if !ok {
		return guild
	}

	kept := filterRaffles(raffles["active"])

	rafflesOut := make(map[string]any, len(raffles))
	for key, value := range raffles {
		rafflesOut[key] = value
	}
	if len(kept) > 0 {
		rafflesOut["active"] = kept
	} else {
		delete(rafflesOut, "active")
	}

	guildOut := make(map[string]any, len(guildObj))
	for key, value := range guildObj {
		guildOut[key] = value
	}
	guildOut["raffles"] = rafflesOut
	return guildOut
}

func filterRaffles(active any) []any {
	list, ok := active.([]any)
	if !ok {
		return nil
	}
	kept := make([]any, 0, len(list))
	for _, entry := range list {
		if isAllowedRaffle(entry) {
			kept = append(kept, entry)
		}
	}
	return kept
}

func isAllowedRaffle(entry any) bool {
	name, _ := child(entry, "name").(string)
	label := strings.ToLower(name)
	if label == "" {
		return false
	}
	for _, banned := range bannedRaffleNames {
		if strings.Contains(label, banned) {
			return false
		}
	}
	return true
}
