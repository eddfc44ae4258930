package webhooks

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

var nullLiteral = []byte("null")

// rawObject is a decoded JSON object with its values left raw. It backs
// required-key presence checks (so zero values like id: 0 stay valid) and
// unknown-key capture.
type rawObject map[string]json.RawMessage

// decodeObject decodes data as a JSON object.
func decodeObject(data []byte) (rawObject, error) {
	var obj rawObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, schemaErr(err)
	}
	if obj == nil {
		return nil, &SchemaError{Reason: "must be a JSON object"}
	}
	return obj, nil
}

// require verifies each key is present and not null. Presence is checked on
// the raw object rather than on decoded values, so a field explicitly set to
// its zero value still validates.
func (o rawObject) require(keys ...string) error {
	for _, k := range keys {
		v, ok := o[k]
		if !ok {
			return &SchemaError{Field: k, Reason: "is missing"}
		}
		if bytes.Equal(bytes.TrimSpace(v), nullLiteral) {
			return &SchemaError{Field: k, Reason: "must not be null"}
		}
	}
	return nil
}

// extras returns the keys of o not claimed by any json tag of the record type
// t. The raw values are preserved untouched for the Extras accessor.
func (o rawObject) extras(t reflect.Type) map[string]json.RawMessage {
	known := knownJSONKeys(t)
	var extra map[string]json.RawMessage
	for k, v := range o {
		if _, ok := known[k]; ok {
			continue
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[k] = v
	}
	return extra
}

var knownKeysCache sync.Map // reflect.Type -> map[string]struct{}

func knownJSONKeys(t reflect.Type) map[string]struct{} {
	if cached, ok := knownKeysCache.Load(t); ok {
		return cached.(map[string]struct{})
	}
	keys := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "" {
			name = f.Name
		}
		keys[name] = struct{}{}
	}
	knownKeysCache.Store(t, keys)
	return keys
}

// unmarshalKnown decodes data into dst, translating encoding/json type
// mismatches into SchemaError.
func unmarshalKnown(data []byte, dst any) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return schemaErr(err)
	}
	return nil
}

// schemaErr converts encoding/json decode failures into SchemaError. Custom
// UnmarshalJSON errors from nested records pass through untouched so their
// field paths can be prefixed by the caller.
func schemaErr(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &SchemaError{
			Field:  typeErr.Field,
			Reason: fmt.Sprintf("has JSON type %s, want %s", typeErr.Value, typeErr.Type),
		}
	}
	return err
}

// prefixField prepends key to the field path of any SchemaError in err's
// chain, building dotted paths as decoding descends into nested records.
func prefixField(err error, key string) error {
	if err == nil {
		return nil
	}
	var se *SchemaError
	if errors.As(err, &se) {
		field := key
		if se.Field != "" {
			field = key + "." + se.Field
		}
		return &SchemaError{Field: field, Reason: se.Reason}
	}
	return err
}

// decodeField decodes a required nested value under the given key.
func decodeField(raw json.RawMessage, key string, dst any) error {
	if len(raw) == 0 {
		return &SchemaError{Field: key, Reason: "is missing"}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return prefixField(schemaErr(err), key)
	}
	return nil
}

// decodeOptionalField decodes a nested value under the given key, treating
// absence and null as "leave dst untouched".
func decodeOptionalField(raw json.RawMessage, key string, dst any) error {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), nullLiteral) {
		return nil
	}
	return decodeField(raw, key, dst)
}

// decodeList decodes an optional JSON array of records under the given key,
// indexing field paths per element.
func decodeList[T any](raw json.RawMessage, key string, dst *[]T) error {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), nullLiteral) {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return &SchemaError{Field: key, Reason: "must be a JSON array"}
	}
	out := make([]T, len(elems))
	for i, elem := range elems {
		if err := json.Unmarshal(elem, &out[i]); err != nil {
			return prefixField(schemaErr(err), fmt.Sprintf("%s[%d]", key, i))
		}
	}
	*dst = out
	return nil
}
