// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package option

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// AbsentText is the text an absent value renders as.
const AbsentText = "None"

type valueType uint8

const (
	typeAbsent valueType = iota
	typeBool
	typeString
	typeInt
)

// Value is a resolved option value: absent, a boolean, a string or an integer.
// The zero Value is absent.
type Value struct {
	typ valueType
	b   bool
	s   string
	n   int64
	// raw is the source text of an integer when it is not canonical decimal.
	raw string
}

// Absent returns the absent value.
func Absent() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{typ: typeBool, b: b} }

// String returns a string value.
func String(s string) Value { return Value{typ: typeString, s: s} }

// Int returns an integer value.
func Int(n int64) Value { return Value{typ: typeInt, n: n} }

// IntText returns an integer value that renders as text, such as 0x20 or 010.
func IntText(n int64, text string) Value {
	v := Int(n)
	if text != strconv.FormatInt(n, 10) {
		v.raw = text
	}
	return v
}

// IsAbsent reports whether v carries no value.
func (v Value) IsAbsent() bool { return v.typ == typeAbsent }

// IsBool reports whether v is a boolean.
func (v Value) IsBool() bool { return v.typ == typeBool }

// AsBool returns the boolean payload and whether v is a boolean.
func (v Value) AsBool() (bool, bool) { return v.b, v.typ == typeBool }

// AsInt returns the integer payload and whether v is an integer.
func (v Value) AsInt() (int64, bool) { return v.n, v.typ == typeInt }

// String returns the natural text form of v. Absent values yield "None".
func (v Value) String() string {
	switch v.typ {
	case typeBool:
		return strconv.FormatBool(v.b)
	case typeString:
		return v.s
	case typeInt:
		if v.raw != "" {
			return v.raw
		}
		return strconv.FormatInt(v.n, 10)
	default:
		return AbsentText
	}
}

// Equal reports whether v and other hold the same type and payload.
// Integers compare by number, not by spelling.
func (v Value) Equal(other Value) bool {
	if v.typ == typeInt && other.typ == typeInt {
		return v.n == other.n
	}
	return v.typ == other.typ && v.b == other.b && v.s == other.s
}

// GoString makes test failure output readable.
func (v Value) GoString() string {
	switch v.typ {
	case typeBool:
		return fmt.Sprintf("option.Bool(%t)", v.b)
	case typeString:
		return fmt.Sprintf("option.String(%q)", v.s)
	case typeInt:
		if v.raw != "" {
			return fmt.Sprintf("option.IntText(%d, %q)", v.n, v.raw)
		}
		return fmt.Sprintf("option.Int(%d)", v.n)
	default:
		return "option.Absent()"
	}
}

// UnmarshalYAML decodes a scalar node, keeping its YAML type.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: option value must be a scalar", node.Line)
	}

	switch node.ShortTag() {
	case "!!null":
		*v = Absent()
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		*v = Bool(b)
	case "!!int":
		var n int64
		if err := node.Decode(&n); err != nil {
			return err
		}
		*v = IntText(n, node.Value)
	default:
		*v = String(node.Value)
	}
	return nil
}

// MarshalYAML encodes v as its native YAML scalar.
func (v Value) MarshalYAML() (any, error) {
	return v.native(), nil
}

// MarshalJSON encodes v as its native JSON scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.native())
}

// UnmarshalJSON decodes a JSON scalar. Integers keep their spelling and
// other numbers become text.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	switch x := raw.(type) {
	case nil:
		*v = Absent()
	case bool:
		*v = Bool(x)
	case string:
		*v = String(x)
	case json.Number:
		if n, err := x.Int64(); err == nil {
			*v = IntText(n, x.String())
		} else {
			*v = String(x.String())
		}
	default:
		return fmt.Errorf("option value must be a scalar, got %T", raw)
	}
	return nil
}

func (v Value) native() any {
	switch v.typ {
	case typeBool:
		return v.b
	case typeString:
		return v.s
	case typeInt:
		if v.raw != "" {
			return v.raw
		}
		return v.n
	default:
		return nil
	}
}
