// Package domain defines the records exchanged with the activities API.
package domain

import (
	"bytes"
	"encoding/json"
)

// ActivityID identifies an activity on the server. The API may encode it as a
// JSON string or any other scalar; non-strings keep their literal JSON text.
type ActivityID string

// UnmarshalJSON never rejects a value: strings are unquoted, null is empty and
// anything else is kept as its compacted JSON text.
func (id *ActivityID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ActivityID(s)
		return nil
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return err
	}
	*id = ActivityID(compact.String())
	return nil
}

// String returns the id as it appears in resource paths.
func (id ActivityID) String() string {
	return string(id)
}

// Activity is a server-owned record. Only ID and Name are interpreted; every
// other field is carried verbatim in Extra so that round trips are lossless.
type Activity struct {
	ID    ActivityID
	Name  string
	Extra map[string]json.RawMessage
}

// UnmarshalJSON splits the known fields from the pass-through ones.
func (a *Activity) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	out := Activity{}
	if raw, ok := fields["id"]; ok {
		if err := json.Unmarshal(raw, &out.ID); err != nil {
			return err
		}
		delete(fields, "id")
	}
	// A name that is not a string stays in Extra untouched.
	if raw, ok := fields["name"]; ok {
		if err := json.Unmarshal(raw, &out.Name); err == nil {
			delete(fields, "name")
		}
	}
	if len(fields) > 0 {
		out.Extra = fields
	}

	*a = out
	return nil
}

// MarshalJSON merges Extra with the known fields. Empty ID and Name are
// omitted, so new activities post without an id and a name held in Extra
// passes through.
func (a Activity) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, len(a.Extra)+2)
	for key, value := range a.Extra {
		fields[key] = value
	}
	if a.ID != "" {
		fields["id"] = string(a.ID)
	}
	if a.Name != "" {
		fields["name"] = a.Name
	}
	return json.Marshal(fields)
}
