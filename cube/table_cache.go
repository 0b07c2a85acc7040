package cube

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultTableCachePath is the default path for the persisted state table.
const DefaultTableCachePath = ".state-table.json"

// tableCacheFile is the on-disk envelope around the generated states.
type tableCacheFile struct {
	GeneratedAt int64            `json:"generatedAt"`
	StateCount  int              `json:"stateCount"`
	States      []LastLayerState `json:"states"`
}

// SaveStateTable persists a generated table as JSON so later processes can
// skip regeneration. Generation is deterministic, so the cache is purely an
// optimization; a stale or missing file is never an error for callers that
// fall back to GenerateTable.
func SaveStateTable(path string, t *StateTable) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating table cache directory: %w", err)
	}

	envelope := tableCacheFile{
		GeneratedAt: time.Now().Unix(),
		StateCount:  len(t.States),
		States:      t.States,
	}
	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling state table: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing state table cache: %w", err)
	}
	return nil
}

// LoadCachedStateTable reads a previously saved table. A missing file is
// reported as (nil, nil) so callers can regenerate without branching on
// error strings.
func LoadCachedStateTable(path string) (*StateTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading table cache: %w", err)
	}

	var envelope tableCacheFile
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("parsing table cache: %w", err)
	}
	if envelope.StateCount != len(envelope.States) {
		return nil, fmt.Errorf("table cache corrupt: header says %d states, found %d",
			envelope.StateCount, len(envelope.States))
	}

	t := &StateTable{States: envelope.States}
	t.rebuildIndex()
	return t, nil
}
