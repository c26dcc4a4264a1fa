package design

import (
	"encoding/json"
	"fmt"
)

// Section is a semantically meaningful region of the design, identified by
// the Segmenter or re-materialized by the content pipeline. The number of
// sections never changes between extraction and generation: content may be
// rewritten, sections may never be invented or dropped.
type Section struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Type     string     `json:"type"`
	Order    int        `json:"order"`
	Box      *Rect      `json:"boundingBox,omitempty"`
	Comps    Components `json:"components,omitempty"`
	Elements *Elements  `json:"extractedElements,omitempty"`
}

// ComponentKey names a sub-part of a section's generated content.
type ComponentKey string

// The closed component-key vocabulary. Keys outside this set are rejected
// when decoding model output.
const (
	KeyTitle    ComponentKey = "title"
	KeySubtitle ComponentKey = "subtitle"
	KeyContent  ComponentKey = "content"
	KeyButtons  ComponentKey = "buttons"
	KeyImages   ComponentKey = "images"
	KeyLinks    ComponentKey = "links"
	KeyMessages ComponentKey = "messages"
	KeyItems    ComponentKey = "items"
	KeyForms    ComponentKey = "forms"
	KeyCTAs     ComponentKey = "ctas"
)

// componentKeyOrder fixes the canonical serialization order of components.
var componentKeyOrder = []ComponentKey{
	KeyTitle, KeySubtitle, KeyContent, KeyButtons, KeyImages,
	KeyLinks, KeyMessages, KeyItems, KeyForms, KeyCTAs,
}

var knownComponentKeys = func() map[ComponentKey]int {
	m := make(map[ComponentKey]int, len(componentKeyOrder))
	for i, k := range componentKeyOrder {
		m[k] = i
	}
	return m
}()

// ValueKind tags the shape of a component value.
type ValueKind int

// The three shapes a component value can take in model output.
const (
	ValueString ValueKind = iota
	ValueStringList
	ValueObjectList
)

// Value is a tagged variant holding a scalar string, a list of strings, or a
// list of objects. The zero Value is an empty string.
type Value struct {
	kind    ValueKind
	str     string
	list    []string
	objects []map[string]any
}

// String wraps a scalar string value.
func String(s string) Value { return Value{kind: ValueString, str: s} }

// StringList wraps a list of strings.
func StringList(items ...string) Value {
	return Value{kind: ValueStringList, list: items}
}

// ObjectList wraps a list of objects.
func ObjectList(objects ...map[string]any) Value {
	return Value{kind: ValueObjectList, objects: objects}
}

// Kind returns the value's shape tag.
func (v Value) Kind() ValueKind { return v.kind }

// Str returns the scalar string, or "" for list shapes.
func (v Value) Str() string { return v.str }

// List returns the string list, or nil for other shapes.
func (v Value) List() []string { return v.list }

// Objects returns the object list, or nil for other shapes.
func (v Value) Objects() []map[string]any { return v.objects }

// Text flattens the value into a single string for word counting.
func (v Value) Text() string {
	switch v.kind {
	case ValueString:
		return v.str
	case ValueStringList:
		out := ""
		for i, s := range v.list {
			if i > 0 {
				out += " "
			}
			out += s
		}
		return out
	case ValueObjectList:
		out := ""
		for _, obj := range v.objects {
			for _, field := range []string{"title", "text", "label", "content", "description"} {
				if s, ok := obj[field].(string); ok && s != "" {
					if out != "" {
						out += " "
					}
					out += s
				}
			}
		}
		return out
	}
	return ""
}

// IsEmpty reports whether the value carries no content.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case ValueString:
		return v.str == ""
	case ValueStringList:
		return len(v.list) == 0
	case ValueObjectList:
		return len(v.objects) == 0
	}
	return true
}

// MarshalJSON emits the underlying shape unchanged.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueStringList:
		return json.Marshal(v.list)
	case ValueObjectList:
		return json.Marshal(v.objects)
	default:
		return json.Marshal(v.str)
	}
}

// UnmarshalJSON accepts a string, an array of strings, or an array of
// objects. Mixed arrays decode element-wise: objects stay objects, scalars
// are stringified.
func (v *Value) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = String(s)
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("design: component value must be string or array")
	}

	strs := make([]string, 0, len(raw))
	objs := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		var obj map[string]any
		if err := json.Unmarshal(item, &obj); err == nil {
			objs = append(objs, obj)
			continue
		}
		var str string
		if err := json.Unmarshal(item, &str); err == nil {
			strs = append(strs, str)
		}
	}
	if len(objs) > 0 {
		for _, s := range strs {
			objs = append(objs, map[string]any{"text": s})
		}
		*v = ObjectList(objs...)
		return nil
	}
	*v = StringList(strs...)
	return nil
}

// Components is an ordered mapping from component key to value. Keys are
// present only when the underlying data exists; unknown keys are rejected at
// the decode boundary instead of being passed through.
type Components struct {
	values map[ComponentKey]Value
}

// NewComponents builds a Components map from key-value pairs, skipping
// unknown keys and empty values.
func NewComponents() Components {
	return Components{values: make(map[ComponentKey]Value)}
}

// Set stores a value under a known key. Unknown keys return an error.
func (c *Components) Set(key ComponentKey, v Value) error {
	if _, ok := knownComponentKeys[key]; !ok {
		return fmt.Errorf("design: unknown component key %q", key)
	}
	if c.values == nil {
		c.values = make(map[ComponentKey]Value)
	}
	c.values[key] = v
	return nil
}

// Get retrieves a value by key.
func (c Components) Get(key ComponentKey) (Value, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Len returns the number of set components.
func (c Components) Len() int { return len(c.values) }

// Keys returns the set keys in canonical order.
func (c Components) Keys() []ComponentKey {
	keys := make([]ComponentKey, 0, len(c.values))
	for _, k := range componentKeyOrder {
		if _, ok := c.values[k]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// MarshalJSON emits a JSON object in canonical key order.
func (c Components) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	first := true
	for _, k := range componentKeyOrder {
		v, ok := c.values[k]
		if !ok {
			continue
		}
		if !first {
			buf = append(buf, ',')
		}
		first = false
		keyJSON, err := json.Marshal(string(k))
		if err != nil {
			return nil, err
		}
		valJSON, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf = append(buf, keyJSON...)
		buf = append(buf, ':')
		buf = append(buf, valJSON...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// UnmarshalJSON decodes a JSON object, dropping unknown keys and keys whose
// values carry no content.
func (c *Components) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("design: components must be an object")
	}
	c.values = make(map[ComponentKey]Value, len(raw))
	for k, rawVal := range raw {
		key := ComponentKey(k)
		if _, ok := knownComponentKeys[key]; !ok {
			continue
		}
		var v Value
		if err := json.Unmarshal(rawVal, &v); err != nil {
			continue
		}
		if v.IsEmpty() {
			continue
		}
		c.values[key] = v
	}
	return nil
}
