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
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/libhal/rtos-recipe/pkg/errors"
)

// Schema is an ordered, immutable set of option declarations.
type Schema struct {
	options []Option
	index   map[string]int
}

// NewSchema validates the declarations and returns a schema that iterates
// in the order given.
func NewSchema(options ...Option) (*Schema, error) {
	s := &Schema{
		options: make([]Option, 0, len(options)),
		index:   make(map[string]int, len(options)),
	}

	for _, o := range options {
		if err := o.Validate(); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid option declaration", err)
		}
		if _, dup := s.index[o.Name]; dup {
			return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
				"duplicate option declaration", map[string]any{"option": o.Name})
		}
		o.Values = slices.Clone(o.Values)
		s.index[o.Name] = len(s.options)
		s.options = append(s.options, o)
	}

	return s, nil
}

// MustSchema is like NewSchema but panics on invalid declarations.
// It is intended for statically declared schemas.
func MustSchema(options ...Option) *Schema {
	s, err := NewSchema(options...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of declared options.
func (s *Schema) Len() int {
	return len(s.options)
}

// Options returns a copy of the declarations in schema order.
func (s *Schema) Options() []Option {
	out := make([]Option, len(s.options))
	for i, o := range s.options {
		o.Values = slices.Clone(o.Values)
		out[i] = o
	}
	return out
}

// Names returns the option names in schema order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.options))
	for i, o := range s.options {
		names[i] = o.Name
	}
	return names
}

// Lookup returns the declaration for name.
func (s *Schema) Lookup(name string) (Option, bool) {
	i, ok := s.index[name]
	if !ok {
		return Option{}, false
	}
	return s.options[i], true
}

// Defaults returns the declared defaults as a resolved set.
func (s *Schema) Defaults() Set {
	set := make(Set, len(s.options))
	for _, o := range s.options {
		set[o.Name] = o.Default
	}
	return set
}

// Resolve layers caller overrides onto the declared defaults.
// Every schema option is present in the result, possibly absent-valued.
func (s *Schema) Resolve(overrides map[string]string) (Set, error) {
	set := s.Defaults()

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		o, ok := s.Lookup(name)
		if !ok {
			return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
				"unknown option", map[string]any{"option": name})
		}
		v, err := o.Parse(overrides[name])
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid option override", err)
		}
		set[name] = v
	}

	return set, nil
}

// schemaDocument is the on-disk form. A list keeps declaration order.
type schemaDocument struct {
	Options []Option `yaml:"options"`
}

// ParseSchema decodes a YAML schema document.
func ParseSchema(data []byte) (*Schema, error) {
	var doc schemaDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "failed to parse option schema", err)
	}
	return NewSchema(doc.Options...)
}

// LoadSchema reads and decodes a YAML schema file.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeNotFound, fmt.Sprintf("failed to read option schema %s", path), err)
	}
	return ParseSchema(data)
}

// Set maps option names to their resolved values.
type Set map[string]Value

// Get returns the value for name; missing names are absent.
func (s Set) Get(name string) Value {
	return s[name]
}

// ParseOverrides parses name=value pairs as given on a command line.
func ParseOverrides(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
				"override must have the form name=value", map[string]any{"override": pair})
		}
		out[name] = value
	}
	return out, nil
}
