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
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/libhal/rtos-recipe/pkg/errors"
)

func testSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := NewSchema(
		Option{Name: "configUSE_PREEMPTION", Kind: KindBoolean, Default: Bool(true)},
		Option{Name: "configMAX_PRIORITIES", Kind: KindAny, Default: Int(5)},
		Option{Name: "configTICK_TYPE", Kind: KindEnum, Default: String("TICK_TYPE_WIDTH_32_BITS"),
			Values: []Value{String("TICK_TYPE_WIDTH_16_BITS"), String("TICK_TYPE_WIDTH_32_BITS")}},
		Option{Name: "heap", Kind: KindEnum, Default: Int(4), Values: []Value{Int(1), Int(2), Int(3), Int(4), Int(5)}},
		Option{Name: "configTOTAL_HEAP_SIZE", Kind: KindAny},
	)
	require.NoError(t, err)
	return s
}

func TestValueString(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"absent", Absent(), "None"},
		{"zero value", Value{}, "None"},
		{"true", Bool(true), "true"},
		{"false", Bool(false), "false"},
		{"string", String("((unsigned short)500)"), "((unsigned short)500)"},
		{"int", Int(16), "16"},
		{"negative int", Int(-1), "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.String())
		})
	}
}

func TestValueEqual(t *testing.T) {
	assert.True(t, Int(4).Equal(Int(4)))
	assert.False(t, Int(4).Equal(String("4")))
	assert.False(t, Bool(true).Equal(Int(1)))
	assert.True(t, Absent().Equal(Value{}))
	assert.True(t, IntText(8, "010").Equal(Int(8)))
	assert.Equal(t, Int(5), IntText(5, "5"))
}

func TestValueJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Value{"a": Bool(true), "b": Int(3), "c": String("x"), "d": Absent()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":true,"b":3,"c":"x","d":null}`, string(data))
}

func TestValueUnmarshalJSON(t *testing.T) {
	var got map[string]Value
	require.NoError(t, json.Unmarshal(
		[]byte(`{"a":true,"b":7,"c":"(5)","d":null,"e":1.5,"f":0}`), &got))

	assert.Equal(t, Bool(true), got["a"])
	assert.Equal(t, Int(7), got["b"])
	assert.Equal(t, String("(5)"), got["c"])
	assert.True(t, got["d"].IsAbsent())
	assert.Equal(t, String("1.5"), got["e"])
	assert.Equal(t, Int(0), got["f"])

	var v Value
	assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &v))
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &v))
}

func TestValueMarshalKeepsIntegerText(t *testing.T) {
	data, err := json.Marshal(IntText(32, "0x20"))
	require.NoError(t, err)
	assert.JSONEq(t, `"0x20"`, string(data))

	var back Value
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "0x20", back.String())
}

func TestOptionValidate(t *testing.T) {
	tests := []struct {
		name    string
		opt     Option
		wantErr bool
	}{
		{"valid boolean", Option{Name: "a", Kind: KindBoolean, Default: Bool(false)}, false},
		{"boolean with absent default", Option{Name: "a", Kind: KindBoolean}, false},
		{"boolean with int default", Option{Name: "a", Kind: KindBoolean, Default: Int(1)}, true},
		{"empty name", Option{Name: " ", Kind: KindAny}, true},
		{"unknown kind", Option{Name: "a", Kind: "float"}, true},
		{"enum without values", Option{Name: "a", Kind: KindEnum}, true},
		{"enum default outside", Option{Name: "a", Kind: KindEnum, Default: Int(9), Values: []Value{Int(1)}}, true},
		{"enum duplicate", Option{Name: "a", Kind: KindEnum, Values: []Value{Int(1), Int(1)}}, true},
		{"enum bool member", Option{Name: "a", Kind: KindEnum, Values: []Value{Bool(true)}}, true},
		{"any with values", Option{Name: "a", Kind: KindAny, Values: []Value{Int(1)}}, true},
		{"any with bool default", Option{Name: "a", Kind: KindAny, Default: Bool(true)}, true},
		{"any with string default", Option{Name: "a", Kind: KindAny, Default: String("(5)")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opt.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOptionParse(t *testing.T) {
	s := testSchema(t)
	preempt, _ := s.Lookup("configUSE_PREEMPTION")
	prio, _ := s.Lookup("configMAX_PRIORITIES")
	heap, _ := s.Lookup("heap")

	tests := []struct {
		name    string
		opt     Option
		text    string
		want    Value
		wantErr bool
	}{
		{"bool True", preempt, "True", Bool(true), false},
		{"bool false", preempt, "false", Bool(false), false},
		{"bool 1", preempt, "1", Bool(true), false},
		{"bool off", preempt, "off", Bool(false), false},
		{"bool garbage", preempt, "maybe", Absent(), true},
		{"any int", prio, " 7 ", Int(7), false},
		{"any text", prio, "(configMAX - 1)", String("(configMAX - 1)"), false},
		{"any None", prio, "None", Absent(), false},
		{"enum member", heap, "2", Int(2), false},
		{"enum outside", heap, "6", Absent(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.opt.Parse(tt.text)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOptionParseKeepsIntegerText(t *testing.T) {
	prio, _ := testSchema(t).Lookup("configMAX_PRIORITIES")

	tests := []struct {
		text string
		want int64
	}{
		{"010", 8},
		{"0x20", 32},
		{"+5", 5},
		{"007", 7},
		{"-3", -3},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := prio.Parse(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.text, got.String())
			n, ok := got.AsInt()
			require.True(t, ok)
			assert.Equal(t, tt.want, n)
		})
	}

	got, err := prio.Parse("08")
	require.NoError(t, err)
	assert.Equal(t, "08", got.String())
}

func TestParseSchemaKeepsIntegerText(t *testing.T) {
	s, err := ParseSchema([]byte(`
options:
  - name: configTIMER_QUEUE_LENGTH
    kind: any
    default: 0x20
  - name: configMAX_PRIORITIES
    kind: any
    default: 010
  - name: configTICK_RATE
    kind: any
    default: 1000
`))
	require.NoError(t, err)

	defaults := s.Defaults()
	assert.Equal(t, "0x20", defaults.Get("configTIMER_QUEUE_LENGTH").String())
	assert.Equal(t, "010", defaults.Get("configMAX_PRIORITIES").String())
	assert.Equal(t, Int(1000), defaults.Get("configTICK_RATE"))
}

func TestNewSchemaRejectsDuplicates(t *testing.T) {
	_, err := NewSchema(
		Option{Name: "a", Kind: KindAny},
		Option{Name: "a", Kind: KindBoolean},
	)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidRequest))
}

func TestSchemaOrder(t *testing.T) {
	s := testSchema(t)
	assert.Equal(t, []string{
		"configUSE_PREEMPTION",
		"configMAX_PRIORITIES",
		"configTICK_TYPE",
		"heap",
		"configTOTAL_HEAP_SIZE",
	}, s.Names())
	assert.Equal(t, 5, s.Len())
}

func TestSchemaOptionsIsCopy(t *testing.T) {
	s := testSchema(t)
	opts := s.Options()
	opts[3].Values[0] = Int(99)
	opts[0].Name = "mutated"

	heap, ok := s.Lookup("heap")
	require.True(t, ok)
	assert.Equal(t, Int(1), heap.Values[0])
	assert.Equal(t, "configUSE_PREEMPTION", s.Names()[0])
}

func TestSchemaResolve(t *testing.T) {
	s := testSchema(t)

	t.Run("defaults", func(t *testing.T) {
		set, err := s.Resolve(nil)
		require.NoError(t, err)
		assert.Len(t, set, s.Len())
		assert.Equal(t, Bool(true), set.Get("configUSE_PREEMPTION"))
		assert.True(t, set.Get("configTOTAL_HEAP_SIZE").IsAbsent())
	})

	t.Run("overrides", func(t *testing.T) {
		set, err := s.Resolve(map[string]string{
			"configUSE_PREEMPTION":  "False",
			"heap":                  "1",
			"configTOTAL_HEAP_SIZE": "((size_t)(4096))",
		})
		require.NoError(t, err)
		assert.Equal(t, Bool(false), set.Get("configUSE_PREEMPTION"))
		assert.Equal(t, Int(1), set.Get("heap"))
		assert.Equal(t, String("((size_t)(4096))"), set.Get("configTOTAL_HEAP_SIZE"))
	})

	t.Run("unknown option", func(t *testing.T) {
		_, err := s.Resolve(map[string]string{"configNOPE": "1"})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInvalidRequest, apperrors.CodeOf(err))
	})

	t.Run("out of domain", func(t *testing.T) {
		_, err := s.Resolve(map[string]string{"heap": "9"})
		require.Error(t, err)
	})

	t.Run("does not mutate defaults", func(t *testing.T) {
		_, err := s.Resolve(map[string]string{"configUSE_PREEMPTION": "0"})
		require.NoError(t, err)
		assert.Equal(t, Bool(true), s.Defaults().Get("configUSE_PREEMPTION"))
	})
}

func TestParseSchema(t *testing.T) {
	doc := []byte(`
options:
  - name: configUSE_PREEMPTION
    kind: boolean
    default: true
  - name: configMINIMAL_STACK_SIZE
    kind: any
    default: "((unsigned short)500)"
  - name: heap
    kind: enum
    default: 4
    values: [1, 2, 3, 4, 5]
  - name: configUNSET
    kind: any
    default: null
`)
	s, err := ParseSchema(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"configUSE_PREEMPTION", "configMINIMAL_STACK_SIZE", "heap", "configUNSET"}, s.Names())

	defaults := s.Defaults()
	assert.Equal(t, Bool(true), defaults.Get("configUSE_PREEMPTION"))
	assert.Equal(t, String("((unsigned short)500)"), defaults.Get("configMINIMAL_STACK_SIZE"))
	assert.Equal(t, Int(4), defaults.Get("heap"))
	assert.True(t, defaults.Get("configUNSET").IsAbsent())
}

func TestParseSchemaErrors(t *testing.T) {
	_, err := ParseSchema([]byte("options: [\n"))
	assert.Error(t, err)

	_, err = ParseSchema([]byte("options:\n  - name: a\n    kind: boolean\n    default: [1]\n"))
	assert.Error(t, err)
}

func TestLoadSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte("options:\n  - name: a\n    kind: boolean\n    default: false\n"), 0600))

	s, err := LoadSchema(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, s.Names())

	_, err = LoadSchema(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.CodeOf(err))
}

func TestParseOverrides(t *testing.T) {
	got, err := ParseOverrides([]string{"configUSE_TIMERS=True", "configTOTAL_HEAP_SIZE=((size_t)(0))", "x="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"configUSE_TIMERS":      "True",
		"configTOTAL_HEAP_SIZE": "((size_t)(0))",
		"x":                     "",
	}, got)

	_, err = ParseOverrides([]string{"novalue"})
	assert.Error(t, err)
	_, err = ParseOverrides([]string{"=1"})
	assert.Error(t, err)
}
