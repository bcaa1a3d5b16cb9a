// Package persistence moves AppData snapshots between memory and a storage
// slot. Load repairs silently; Save normalizes and stamps; Import is strict
// about the envelope and lenient about the payload inside it.
package persistence

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/pa/internal/constants"
	"github.com/julianstephens/pa/internal/logger"
	"github.com/julianstephens/pa/internal/models"
	"github.com/julianstephens/pa/internal/storage"
	"github.com/julianstephens/pa/internal/utils"
)

// Default returns a fresh snapshot at the current schema version.
func Default(now time.Time) models.AppData {
	return models.AppData{
		Version:   constants.SchemaVersion,
		UpdatedAt: models.At(now),
		Payload:   models.DefaultPayload(),
	}
}

// Load reads the snapshot slot. Absent, unreadable or incompatible data
// yields Default(now); the reason is logged and never returned.
func Load(store storage.Provider, now time.Time) models.AppData {
	raw, ok, err := store.Get(constants.StoreKey)
	if err != nil {
		logger.Warn("stored snapshot unreadable, starting fresh", "error", err)
		return Default(now)
	}
	if !ok {
		return Default(now)
	}
	data, err := decodeSnapshot(raw)
	if err != nil {
		logger.Warn("stored snapshot discarded, starting fresh", "error", err)
		return Default(now)
	}
	return data
}

// Save stamps, normalizes and writes data. The returned snapshot is what was
// written; callers adopt it in place of their argument.
func Save(store storage.Provider, data models.AppData, now time.Time) (models.AppData, error) {
	out := data.Clone()
	out.Version = constants.SchemaVersion
	out.UpdatedAt = models.At(now)
	out.Payload = Normalize(out.Payload)

	raw, err := json.Marshal(out)
	if err != nil {
		return models.AppData{}, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := store.Set(constants.StoreKey, raw); err != nil {
		return models.AppData{}, fmt.Errorf("failed to save snapshot: %w", err)
	}
	return out, nil
}

// envelope is the raw top level of a snapshot document.
type envelope struct {
	Version   json.RawMessage `json:"version"`
	UpdatedAt json.RawMessage `json:"updatedAtIso"`
	Payload   json.RawMessage `json:"payload"`
}

// decodeSnapshot validates the envelope, upgrades older payloads and
// normalizes the result.
func decodeSnapshot(raw []byte) (models.AppData, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return models.AppData{}, fmt.Errorf("not a snapshot document: %w", err)
	}
	if env.Version == nil || env.UpdatedAt == nil || env.Payload == nil {
		return models.AppData{}, fmt.Errorf("snapshot is missing version, updatedAtIso or payload")
	}

	var version int
	if err := json.Unmarshal(env.Version, &version); err != nil {
		return models.AppData{}, fmt.Errorf("version is not an integer: %w", err)
	}
	var stamp string
	if err := json.Unmarshal(env.UpdatedAt, &stamp); err != nil {
		return models.AppData{}, fmt.Errorf("updatedAtIso is not a string: %w", err)
	}
	updatedAt, err := utils.ParseTimestamp(stamp)
	if err != nil {
		return models.AppData{}, err
	}

	payload, err := upgrade(version, env.Payload)
	if err != nil {
		return models.AppData{}, err
	}
	return models.AppData{
		Version:   constants.SchemaVersion,
		UpdatedAt: models.At(updatedAt),
		Payload:   NormalizePayload(payload),
	}, nil
}

// NormalizePayload coerces any JSON value into a well-formed payload. Fields
// that are not arrays become empty. A skill needs only an object with a
// string id; its other fields fall back to zero values one by one. Sessions
// that do not decode are dropped. Overrides are kept verbatim.
func NormalizePayload(raw json.RawMessage) models.AppPayload {
	out := models.DefaultPayload()

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return out
	}

	for i, elem := range rawArray(fields["skills"]) {
		s, err := decodeSkill(elem)
		if err != nil {
			logger.Warn("dropping malformed skill", "index", i, "error", err)
			continue
		}
		out.Skills = append(out.Skills, s)
	}
	for i, elem := range rawArray(fields["sessions"]) {
		var s models.Session
		if err := decodeElement(elem, &s); err != nil {
			logger.Warn("dropping malformed session", "index", i, "error", err)
			continue
		}
		out.Sessions = append(out.Sessions, s)
	}
	for _, elem := range rawArray(fields["overrides"]) {
		out.Overrides = append(out.Overrides, append(json.RawMessage(nil), elem...))
	}
	return Normalize(out)
}

// Normalize fixes up a typed payload: nil sequences become empty and every
// skill schedule carries all seven days. The input is not modified.
func Normalize(p models.AppPayload) models.AppPayload {
	// Clone allocates every sequence and fills missing schedule days.
	return p.Clone()
}

func rawArray(raw json.RawMessage) []json.RawMessage {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}
	return elems
}

// decodeSkill decodes each field on its own so one bad value does not cost
// the skill its schedule and sessions.
func decodeSkill(raw json.RawMessage) (models.Skill, error) {
	var fields map[string]json.RawMessage
	if err := decodeElement(raw, &fields); err != nil {
		return models.Skill{}, err
	}
	var s models.Skill
	if err := json.Unmarshal(fields["id"], &s.ID); err != nil || s.ID == "" {
		return models.Skill{}, fmt.Errorf("skill has no id")
	}

	decodeField(fields, s.ID, "name", &s.Name)
	decodeField(fields, s.ID, "priority", &s.Priority)
	decodeField(fields, s.ID, "dailyGoalMinutes", &s.DailyGoalMinutes)
	decodeField(fields, s.ID, "weeklyGoalMinutes", &s.WeeklyGoalMinutes)
	decodeField(fields, s.ID, "schedule", &s.Schedule)
	decodeField(fields, s.ID, "createdAtIso", &s.CreatedAt)
	decodeField(fields, s.ID, "updatedAtIso", &s.UpdatedAt)
	return s, nil
}

// decodeField sets *dst only when fields[key] decodes cleanly.
func decodeField[T any](fields map[string]json.RawMessage, id, key string, dst *T) {
	msg, ok := fields[key]
	if !ok {
		return
	}
	var v T
	if err := json.Unmarshal(msg, &v); err != nil {
		logger.Warn("resetting malformed skill field", "id", id, "field", key, "error", err)
		return
	}
	*dst = v
}

func decodeElement(raw json.RawMessage, v interface{}) error {
	if string(raw) == "null" {
		return fmt.Errorf("null element")
	}
	return json.Unmarshal(raw, v)
}
