package state

import (
	"encoding/json"
	"fmt"

	"guildconsole/domain/reconcile"
)

// SnapshotKey is the fixed storage key of the serialized store
const SnapshotKey = "dashboard-data-v1"

type snapshot struct {
	Records map[string]json.RawMessage `json:"records"`
}

// EncodeSnapshot serializes the whole store
func EncodeSnapshot(s State) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot restores a store from EncodeSnapshot output. Every record is
// reconciled; unreadable snapshots yield an empty state.
func DecodeSnapshot(data []byte) State {
	var snap snapshot
	if len(data) == 0 || json.Unmarshal(data, &snap) != nil {
		return New()
	}

	s := New()
	for guildID, raw := range snap.Records {
		if guildID == "" {
			continue
		}
		s.Records[guildID] = reconcile.Raw(raw)
	}
	return s
}
