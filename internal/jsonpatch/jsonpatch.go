// Package jsonpatch serializes values and patches serialized JSON documents in place:
// setting top-level properties on objects and appending elements to arrays.
//
// Patching works on the raw text with sjson, so untouched members keep their order
// and formatting until the result is compacted.
package jsonpatch

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/oszuidwest/zwfm-webutils/internal/apperrors"
)

// ErrInvalidJSON is wrapped by every error caused by unparsable input.
var ErrInvalidJSON = errors.New("invalid JSON")

// appendPath is the sjson path that appends to an array.
const appendPath = "-1"

// Serialize returns the compact JSON encoding of v, or "" if v cannot be encoded.
func Serialize(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

// Deserialize decodes s into a new T.
func Deserialize[T any](s string) (T, error) {
	var out T
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		var zero T
		return zero, apperrors.Serialization("failed to decode JSON").Wrap(fmt.Errorf("%w: %v", ErrInvalidJSON, err))
	}
	return out, nil
}

// InjectProperty sets the top-level property name of the JSON object doc to value.
// An existing property is replaced, a new one is appended after the others.
// doc is returned as-is when doc or name is empty or doc is not an object.
func InjectProperty(doc, name string, value any) (string, error) {
	if doc == "" || name == "" {
		return doc, nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return doc, apperrors.Serialization("failed to encode property value").WithField(name).Wrap(err)
	}

	return InjectRawProperty(doc, name, string(raw))
}

// InjectRawProperty is InjectProperty for a value that is already serialized.
// The value is spliced in verbatim, so numbers keep their full precision.
func InjectRawProperty(doc, name, raw string) (string, error) {
	if doc == "" || name == "" {
		return doc, nil
	}

	parsed, err := parse(doc)
	if err != nil {
		return doc, err
	}
	if !parsed.IsObject() {
		return doc, nil
	}
	if !Valid(raw) {
		return doc, apperrors.InvalidInput("property value is not valid JSON").WithField(name).Wrap(ErrInvalidJSON)
	}

	out, err := sjson.SetRaw(doc, escapeKey(name), raw)
	if err != nil {
		return doc, apperrors.Serialization("failed to set property").WithField(name).Wrap(err)
	}

	return compact(out), nil
}

// InjectProperties applies InjectProperty for every entry of props in key order.
func InjectProperties(doc string, props map[string]any) (string, error) {
	if doc == "" || props == nil {
		return doc, nil
	}

	out := doc
	for _, k := range sortedKeys(props) {
		next, err := InjectProperty(out, k, props[k])
		if err != nil {
			return doc, err
		}
		out = next
	}
	return out, nil
}

// InjectRawProperties applies InjectRawProperty for every entry of props in key order.
func InjectRawProperties(doc string, props map[string]json.RawMessage) (string, error) {
	if doc == "" || props == nil {
		return doc, nil
	}

	out := doc
	for _, k := range sortedKeys(props) {
		next, err := InjectRawProperty(out, k, string(props[k]))
		if err != nil {
			return doc, err
		}
		out = next
	}
	return out, nil
}

// Valid reports whether s is a single well-formed JSON value.
func Valid(s string) bool {
	return gjson.Valid(s)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// InsertIntoArray appends the JSON encoding of value to the JSON array doc.
// doc is returned as-is when it is empty, value is nil or doc is not an array.
func InsertIntoArray(doc string, value any) (string, error) {
	if doc == "" || value == nil {
		return doc, nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return doc, apperrors.Serialization("failed to encode array element").Wrap(err)
	}

	return appendRaw(doc, string(raw))
}

// InsertJSONIntoArray appends the already serialized element to the JSON array doc.
func InsertJSONIntoArray(doc, element string) (string, error) {
	if doc == "" || element == "" {
		return doc, nil
	}

	if _, err := parse(element); err != nil {
		return doc, err
	}

	return appendRaw(doc, element)
}

func appendRaw(doc, raw string) (string, error) {
	parsed, err := parse(doc)
	if err != nil {
		return doc, err
	}
	if !parsed.IsArray() {
		return doc, nil
	}

	out, err := sjson.SetRaw(doc, appendPath, raw)
	if err != nil {
		return doc, apperrors.Serialization("failed to append array element").Wrap(err)
	}
	return compact(out), nil
}

func parse(doc string) (gjson.Result, error) {
	if !Valid(doc) {
		return gjson.Result{}, apperrors.InvalidInput("document is not valid JSON").Wrap(ErrInvalidJSON)
	}
	return gjson.Parse(doc), nil
}

func compact(doc string) string {
	return string(pretty.Ugly([]byte(doc)))
}

// escapeKey makes name a literal single-segment sjson path.
func escapeKey(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch r {
		case '\\', '.', '*', '?', '|', '#', '@', ':':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
