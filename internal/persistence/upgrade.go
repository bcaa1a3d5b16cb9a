package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/pa/internal/constants"
)

// Upgrade rewrites a payload written at version v into the shape of v+1.
type Upgrade func(payload json.RawMessage) (json.RawMessage, error)

// upgrades is keyed by source version. Version 1 is the first shape, so the
// table is empty and anything else is unsupported.
var upgrades = map[int]Upgrade{}

// upgrade walks payload forward from version to SchemaVersion.
func upgrade(version int, payload json.RawMessage) (json.RawMessage, error) {
	if version > constants.SchemaVersion {
		return nil, fmt.Errorf("snapshot version %d is newer than supported version %d", version, constants.SchemaVersion)
	}
	for v := version; v < constants.SchemaVersion; v++ {
		step, ok := upgrades[v]
		if !ok {
			return nil, fmt.Errorf("no upgrade path from snapshot version %d", v)
		}
		next, err := step(payload)
		if err != nil {
			return nil, fmt.Errorf("upgrade from version %d failed: %w", v, err)
		}
		payload = next
	}
	return payload, nil
}
