package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

type ValueKind int

const (
	KindUnset ValueKind = iota
	KindText
	KindSet
	KindFlag
)

// Value holds one field of a BookingRecord: a string, a string set or a boolean.
type Value struct {
	kind  ValueKind
	text  string
	items []string
	flag  bool
}

func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

func Set(items ...string) Value {
	return Value{kind: KindSet, items: slices.Clone(items)}
}

func Flag(b bool) Value {
	return Value{kind: KindFlag, flag: b}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) String() string {
	return v.text
}

func (v Value) Items() []string {
	return slices.Clone(v.items)
}

func (v Value) Bool() bool {
	return v.flag
}

func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindText:
		return v.text == ""
	case KindSet:
		return len(v.items) == 0
	case KindFlag:
		return false
	default:
		return true
	}
}

func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == other.text
	case KindSet:
		return slices.Equal(v.items, other.items)
	case KindFlag:
		return v.flag == other.flag
	default:
		return true
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindText:
		return json.Marshal(v.text)
	case KindSet:
		if v.items == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.items)
	case KindFlag:
		return json.Marshal(v.flag)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Value{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
	case '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("multi-select value must be an array of strings: %w", err)
		}
		*v = Set(items...)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Flag(b)
	default:
		return fmt.Errorf("unsupported field value: %s", string(data))
	}
	return nil
}
