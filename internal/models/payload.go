package models

import "encoding/json"

// AppPayload is the aggregate root of all user data.
type AppPayload struct {
	Skills    []Skill           `json:"skills"`    // newest first
	Sessions  []Session         `json:"sessions"`  // newest first
	Overrides []json.RawMessage `json:"overrides"` // reserved, never interpreted
}

// AppData is the persisted, versioned snapshot.
type AppData struct {
	Version   int        `json:"version"`
	UpdatedAt Timestamp  `json:"updatedAtIso"`
	Payload   AppPayload `json:"payload"`
}

// DefaultPayload returns an empty payload with every sequence non-nil.
func DefaultPayload() AppPayload {
	return AppPayload{
		Skills:    []Skill{},
		Sessions:  []Session{},
		Overrides: []json.RawMessage{},
	}
}

// Clone deep-copies the payload so edits never alias a previous snapshot.
func (p AppPayload) Clone() AppPayload {
	out := AppPayload{
		Skills:    make([]Skill, len(p.Skills)),
		Sessions:  make([]Session, len(p.Sessions)),
		Overrides: make([]json.RawMessage, len(p.Overrides)),
	}
	for i, s := range p.Skills {
		out.Skills[i] = s.Clone()
	}
	copy(out.Sessions, p.Sessions)
	for i, o := range p.Overrides {
		out.Overrides[i] = append(json.RawMessage(nil), o...)
	}
	return out
}

// Clone deep-copies the snapshot.
func (d AppData) Clone() AppData {
	out := d
	out.Payload = d.Payload.Clone()
	return out
}
