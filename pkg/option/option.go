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
	"fmt"
	"strconv"
	"strings"
)

// Kind is the declared domain of an option.
type Kind string

const (
	// KindBoolean options render as 1 or 0.
	KindBoolean Kind = "boolean"
	// KindAny options accept any caller supplied string or integer.
	KindAny Kind = "any"
	// KindEnum options accept one of a fixed list of members.
	KindEnum Kind = "enum"
)

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindBoolean, KindAny, KindEnum:
		return true
	default:
		return false
	}
}

// SupportedKinds returns all option kinds.
func SupportedKinds() []string {
	return []string{string(KindBoolean), string(KindAny), string(KindEnum)}
}

// Option declares a single build knob.
type Option struct {
	Name        string  `json:"name" yaml:"name"`
	Kind        Kind    `json:"kind" yaml:"kind"`
	Default     Value   `json:"default" yaml:"default"`
	Values      []Value `json:"values,omitempty" yaml:"values,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
}

// Contains reports whether v lies in the option's domain.
// Absent values are outside every domain.
func (o Option) Contains(v Value) bool {
	if v.IsAbsent() {
		return false
	}
	switch o.Kind {
	case KindBoolean:
		return v.IsBool()
	case KindEnum:
		for _, m := range o.Values {
			if m.Equal(v) {
				return true
			}
		}
		return false
	default:
		return !v.IsBool()
	}
}

// Validate checks the declaration: name, kind, enum members and default.
func (o Option) Validate() error {
	if strings.TrimSpace(o.Name) == "" {
		return fmt.Errorf("option name cannot be empty")
	}
	if !o.Kind.IsValid() {
		return fmt.Errorf("option %s: invalid kind %q (supported: %s)",
			o.Name, o.Kind, strings.Join(SupportedKinds(), ", "))
	}

	if o.Kind == KindEnum {
		if len(o.Values) == 0 {
			return fmt.Errorf("option %s: enum must declare at least one value", o.Name)
		}
		seen := make(map[string]bool, len(o.Values))
		for _, m := range o.Values {
			if m.IsAbsent() || m.IsBool() {
				return fmt.Errorf("option %s: enum members must be strings or integers", o.Name)
			}
			if seen[m.String()] {
				return fmt.Errorf("option %s: duplicate enum value %s", o.Name, m)
			}
			seen[m.String()] = true
		}
	} else if len(o.Values) > 0 {
		return fmt.Errorf("option %s: only enum options declare values", o.Name)
	}

	if !o.Default.IsAbsent() && !o.Contains(o.Default) {
		return fmt.Errorf("option %s: default %s is outside the %s domain", o.Name, o.Default, o.Kind)
	}
	return nil
}

// Parse converts override text into a Value in the option's domain.
func (o Option) Parse(text string) (Value, error) {
	text = strings.TrimSpace(text)

	switch o.Kind {
	case KindBoolean:
		b, err := parseBool(text)
		if err != nil {
			return Absent(), fmt.Errorf("option %s: %w", o.Name, err)
		}
		return Bool(b), nil
	case KindEnum:
		for _, m := range o.Values {
			if m.String() == text {
				return m, nil
			}
		}
		return Absent(), fmt.Errorf("option %s: %q is not one of %s", o.Name, text, o.valueList())
	default:
		if text == AbsentText {
			return Absent(), nil
		}
		if n, err := strconv.ParseInt(text, 0, 64); err == nil {
			return IntText(n, text), nil
		}
		return String(text), nil
	}
}

func (o Option) valueList() string {
	parts := make([]string, 0, len(o.Values))
	for _, m := range o.Values {
		parts = append(parts, m.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func parseBool(text string) (bool, error) {
	switch strings.ToLower(text) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", text)
	}
}
