package webhooks

import (
	"encoding/json"
)

// Change is an [old, new] pair for a single field in an update event. Values
// are kept raw because changed fields range over ints (plan_id), strings
// (expires_at, email), bools (autorenew) and site-defined custom fields.
type Change struct {
	Old json.RawMessage
	New json.RawMessage
}

// Strings decodes the pair as strings.
func (c Change) Strings() (oldVal, newVal string, ok bool) {
	if json.Unmarshal(c.Old, &oldVal) != nil || json.Unmarshal(c.New, &newVal) != nil {
		return "", "", false
	}
	return oldVal, newVal, true
}

// Ints decodes the pair as integers.
func (c Change) Ints() (oldVal, newVal int64, ok bool) {
	if json.Unmarshal(c.Old, &oldVal) != nil || json.Unmarshal(c.New, &newVal) != nil {
		return 0, 0, false
	}
	return oldVal, newVal, true
}

// Bools decodes the pair as booleans.
func (c Change) Bools() (oldVal, newVal bool, ok bool) {
	if json.Unmarshal(c.Old, &oldVal) != nil || json.Unmarshal(c.New, &newVal) != nil {
		return false, false, false
	}
	return oldVal, newVal, true
}

func (c Change) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]json.RawMessage{c.Old, c.New})
}

func (c *Change) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil || len(pair) != 2 {
		return &SchemaError{Reason: "must be a two-element [old, new] array"}
	}
	c.Old, c.New = pair[0], pair[1]
	return nil
}

// ChangeSet maps a changed field name to its [old, new] pair. Update events
// with no trackable change (a deferred downgrade, for example) deliver an
// empty object, which decodes to an empty, non-nil set.
type ChangeSet map[string]Change

// Has reports whether the named field changed.
func (c ChangeSet) Has(field string) bool {
	_, ok := c[field]
	return ok
}

func (c *ChangeSet) UnmarshalJSON(data []byte) error {
	obj, err := decodeObject(data)
	if err != nil {
		return err
	}
	set := make(ChangeSet, len(obj))
	for field, raw := range obj {
		var change Change
		if err := json.Unmarshal(raw, &change); err != nil {
			return prefixField(err, field)
		}
		set[field] = change
	}
	*c = set
	return nil
}
