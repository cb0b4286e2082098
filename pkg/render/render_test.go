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

package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/libhal/rtos-recipe/pkg/errors"
	"github.com/libhal/rtos-recipe/pkg/option"
)

func schemaFor(t *testing.T, opts ...option.Option) *option.Schema {
	t.Helper()
	s, err := option.NewSchema(opts...)
	require.NoError(t, err)
	return s
}

func defineLines(out string) []string {
	var lines []string
	body, _, _ := strings.Cut(out, "\n\n"+FixedBlock)
	for _, l := range strings.Split(body, "\n") {
		if strings.HasPrefix(l, "#define ") && !strings.HasPrefix(l, "#define "+GuardMacro) {
			lines = append(lines, l)
		}
	}
	return lines
}

func TestRenderExact(t *testing.T) {
	s := schemaFor(t,
		option.Option{Name: "configUSE_PREEMPTION", Kind: option.KindBoolean, Default: option.Bool(true)},
		option.Option{Name: "configUSE_IDLE_HOOK", Kind: option.KindBoolean, Default: option.Bool(false)},
		option.Option{Name: "configMAX_PRIORITIES", Kind: option.KindAny, Default: option.String("(5)")},
	)

	got := Render(s, s.Defaults())
	want := "#ifndef FREERTOS_CONFIG_H\n" +
		"#define FREERTOS_CONFIG_H\n\n" +
		"#define configUSE_PREEMPTION 1\n" +
		"#define configUSE_IDLE_HOOK 0\n" +
		"#define configMAX_PRIORITIES (5)\n" +
		"\n" + FixedBlock +
		"\n#endif /* FREERTOS_CONFIG_H */\n"

	assert.Equal(t, want, got)
}

func TestRenderDeterministic(t *testing.T) {
	s := schemaFor(t,
		option.Option{Name: "b", Kind: option.KindAny, Default: option.Int(2)},
		option.Option{Name: "a", Kind: option.KindBoolean, Default: option.Bool(true)},
		option.Option{Name: "c", Kind: option.KindEnum, Default: option.String("x"),
			Values: []option.Value{option.String("x"), option.String("y")}},
	)
	set := s.Defaults()

	first := Render(s, set)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Render(s, set))
	}
}

func TestRenderFollowsSchemaOrder(t *testing.T) {
	s := schemaFor(t,
		option.Option{Name: "zeta", Kind: option.KindAny, Default: option.Int(1)},
		option.Option{Name: "alpha", Kind: option.KindAny, Default: option.Int(2)},
		option.Option{Name: "mid", Kind: option.KindAny, Default: option.Int(3)},
	)

	assert.Equal(t, []string{
		"#define zeta 1",
		"#define alpha 2",
		"#define mid 3",
	}, defineLines(Render(s, s.Defaults())))
}

func TestRenderBooleansAsDigits(t *testing.T) {
	s := schemaFor(t,
		option.Option{Name: "on", Kind: option.KindBoolean, Default: option.Bool(true)},
		option.Option{Name: "off", Kind: option.KindBoolean, Default: option.Bool(false)},
	)

	out := Render(s, s.Defaults())
	assert.Contains(t, out, "#define on 1\n")
	assert.Contains(t, out, "#define off 0\n")
	assert.NotContains(t, out, "true")
	assert.NotContains(t, out, "True")
	assert.NotContains(t, out, "false")
	assert.NotContains(t, out, "False")
}

func TestRenderVerbatimValues(t *testing.T) {
	s := schemaFor(t,
		option.Option{Name: "configMINIMAL_STACK_SIZE", Kind: option.KindAny, Default: option.String("((unsigned short)500)")},
		option.Option{Name: "heap", Kind: option.KindEnum, Default: option.Int(4),
			Values: []option.Value{option.Int(1), option.Int(4)}},
		option.Option{Name: "configMODE", Kind: option.KindEnum, Default: option.String("not a c token"),
			Values: []option.Value{option.String("not a c token")}},
	)

	assert.Equal(t, []string{
		"#define configMINIMAL_STACK_SIZE ((unsigned short)500)",
		"#define heap 4",
		"#define configMODE not a c token",
	}, defineLines(Render(s, s.Defaults())))
}

func TestRenderKeepsIntegerSpelling(t *testing.T) {
	s, err := option.ParseSchema([]byte(`
options:
  - name: configTIMER_QUEUE_LENGTH
    kind: any
    default: 0x20
  - name: configMAX_PRIORITIES
    kind: any
    default: 5
`))
	require.NoError(t, err)

	set, err := s.Resolve(map[string]string{"configMAX_PRIORITIES": "010"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"#define configTIMER_QUEUE_LENGTH 0x20",
		"#define configMAX_PRIORITIES 010",
	}, defineLines(Render(s, set)))
}

func TestRenderAbsentPlaceholder(t *testing.T) {
	s := schemaFor(t,
		option.Option{Name: "configTOTAL_HEAP_SIZE", Kind: option.KindAny},
		option.Option{Name: "configUSE_MUTEXES", Kind: option.KindBoolean},
	)

	out, err := New().Render(s, s.Defaults())
	require.NoError(t, err)
	assert.Contains(t, out, "#define configTOTAL_HEAP_SIZE None\n")
	assert.Contains(t, out, "#define configUSE_MUTEXES None\n")

	// Values missing from the set entirely behave the same way.
	assert.Contains(t, Render(s, option.Set{}), "#define configTOTAL_HEAP_SIZE None\n")
}

func TestRenderAbsentFatal(t *testing.T) {
	s := schemaFor(t,
		option.Option{Name: "configUSE_PREEMPTION", Kind: option.KindBoolean, Default: option.Bool(true)},
		option.Option{Name: "configTOTAL_HEAP_SIZE", Kind: option.KindAny},
	)

	r := New(WithMissingPolicy(MissingFatal))
	assert.Equal(t, MissingFatal, r.Policy())

	out, err := r.Render(s, s.Defaults())
	require.Error(t, err)
	assert.Empty(t, out)
	assert.Equal(t, apperrors.ErrCodeMissingValue, apperrors.CodeOf(err))
	assert.Contains(t, err.Error(), "option has no resolved value")

	set, err := s.Resolve(map[string]string{"configTOTAL_HEAP_SIZE": "((size_t)(0))"})
	require.NoError(t, err)
	out, err = r.Render(s, set)
	require.NoError(t, err)
	assert.Contains(t, out, "#define configTOTAL_HEAP_SIZE ((size_t)(0))\n")
}

func TestRenderTimerPrelude(t *testing.T) {
	s := schemaFor(t,
		option.Option{Name: "configUSE_MUTEXES", Kind: option.KindBoolean, Default: option.Bool(true)},
		option.Option{Name: TimerOption, Kind: option.KindBoolean, Default: option.Bool(false)},
		option.Option{Name: "configTIMER_QUEUE_LENGTH", Kind: option.KindAny, Default: option.Int(10)},
	)

	t.Run("timers on", func(t *testing.T) {
		set, err := s.Resolve(map[string]string{TimerOption: "True"})
		require.NoError(t, err)

		assert.Equal(t, []string{
			"#define configUSE_MUTEXES 1",
			TimerPrelude,
			"#define configUSE_TIMERS 1",
			"#define configTIMER_QUEUE_LENGTH 10",
		}, defineLines(Render(s, set)))
	})

	t.Run("timers off", func(t *testing.T) {
		out := Render(s, s.Defaults())
		assert.NotContains(t, out, TimerPrelude)
		assert.Contains(t, out, "#define configUSE_TIMERS 0\n")
	})

	t.Run("other true booleans get no prelude", func(t *testing.T) {
		other := schemaFor(t,
			option.Option{Name: "configUSE_TIMERS_EXTRA", Kind: option.KindBoolean, Default: option.Bool(true)},
		)
		assert.NotContains(t, Render(other, other.Defaults()), TimerPrelude)
	})
}

func TestRenderFixedBlockAndGuard(t *testing.T) {
	schemas := []*option.Schema{
		schemaFor(t),
		schemaFor(t, option.Option{Name: "a", Kind: option.KindAny}),
		schemaFor(t, option.Option{Name: "b", Kind: option.KindBoolean, Default: option.Bool(true)}),
	}

	for _, s := range schemas {
		out := Render(s, s.Defaults())
		assert.True(t, strings.HasPrefix(out, "#ifndef FREERTOS_CONFIG_H\n#define FREERTOS_CONFIG_H\n"))
		assert.True(t, strings.HasSuffix(out, FixedBlock+"\n#endif /* FREERTOS_CONFIG_H */\n"))
		assert.Equal(t, 1, strings.Count(out, FixedBlock))
	}
}

func TestDefine(t *testing.T) {
	assert.Equal(t, "#define X 1", Define("X", option.Bool(true)))
	assert.Equal(t, "#define X 0", Define("X", option.Bool(false)))
	assert.Equal(t, "#define X 42", Define("X", option.Int(42)))
	assert.Equal(t, "#define X abc", Define("X", option.String("abc")))
	assert.Equal(t, "#define X None", Define("X", option.Absent()))
}

func TestMissingPolicyString(t *testing.T) {
	assert.Equal(t, "placeholder", MissingPlaceholder.String())
	assert.Equal(t, "fatal", MissingFatal.String())
}
