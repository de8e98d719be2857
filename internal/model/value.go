package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ValueKind tags a field value
type ValueKind int

const (
	KindMissing ValueKind = iota
	KindScalar
	KindList
)

func (k ValueKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	default:
		return "missing"
	}
}

// Value is a single survey field value: Missing, Scalar(string) or List([]string).
// The zero Value is Missing.
type Value struct {
	kind  ValueKind
	str   string
	items []string
}

// Missing returns the absent value
func Missing() Value { return Value{} }

// Scalar wraps a string (numbers arrive already formatted)
func Scalar(s string) Value { return Value{kind: KindScalar, str: s} }

// List wraps a multiselect answer. An empty list is present, not missing.
func List(items ...string) Value {
	cp := make([]string, len(items))
	copy(cp, items)
	return Value{kind: KindList, items: cp}
}

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Str returns the scalar text; ok is false for lists and missing values.
func (v Value) Str() (string, bool) {
	if v.kind != KindScalar {
		return "", false
	}
	return v.str, true
}

// Items returns a copy of the list elements; ok is false unless the value is a list.
func (v Value) Items() ([]string, bool) {
	if v.kind != KindList {
		return nil, false
	}
	cp := make([]string, len(v.items))
	copy(cp, v.items)
	return cp, true
}

// Text renders the value for display and categorical grouping.
// Lists are comma-joined, missing renders as "".
func (v Value) Text() string {
	switch v.kind {
	case KindScalar:
		return v.str
	case KindList:
		return strings.Join(v.items, ",")
	default:
		return ""
	}
}

func (v Value) Equal(o Value) bool {
	if v.kind != o.kind || v.str != o.str || len(v.items) != len(o.items) {
		return false
	}
	for i := range v.items {
		if v.items[i] != o.items[i] {
			return false
		}
	}
	return true
}

func (v Value) String() string {
	switch v.kind {
	case KindScalar:
		return fmt.Sprintf("Scalar(%q)", v.str)
	case KindList:
		return fmt.Sprintf("List(%q)", v.items)
	default:
		return "Missing"
	}
}

// MarshalJSON encodes Missing as null, Scalar as a string and List as an array
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindScalar:
		return json.Marshal(v.str)
	case KindList:
		if v.items == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.items)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = Missing()
		return nil
	case len(data) > 0 && data[0] == '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("list value: %w", err)
		}
		*v = List(items...)
		return nil
	default:
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("scalar value: %w", err)
		}
		*v = Scalar(s)
		return nil
	}
}
