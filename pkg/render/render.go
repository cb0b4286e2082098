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

	apperrors "github.com/libhal/rtos-recipe/pkg/errors"
	"github.com/libhal/rtos-recipe/pkg/option"
)

// GuardMacro is the include guard of the generated header.
const GuardMacro = "FREERTOS_CONFIG_H"

// TimerOption is the one option with a structural prelude.
const TimerOption = "configUSE_TIMERS"

// TimerPrelude is emitted immediately before TimerOption when it is true.
const TimerPrelude = "#define INCLUDE_xTimerPendFunctionCall 1"

// FixedBlock is appended after the option definitions in every render.
const FixedBlock = `/// @brief Value is ignored and is determined at runtime
#define configCPU_CLOCK_HZ ((unsigned long)100000000)
/// @brief Value is ignored and set at runtime
#define configTICK_RATE_HZ ((TickType_t)1000)

// Default PRIO BITS to 3 which is the default for Cortex-M processors
#define configPRIO_BITS 3

/* The maximum priority an interrupt that uses an interrupt safe FreeRTOS API
function can have. */
#define configMAX_SYSCALL_INTERRUPT_PRIORITY 5

/* The lowest interrupt priority. */
#define configLOWEST_INTERRUPT_PRIORITY 15

/* The highest user interrupt priority. */
#define configKERNEL_INTERRUPT_PRIORITY (configLOWEST_INTERRUPT_PRIORITY - 1)

/* Definitions that map the FreeRTOS port interrupt handlers to their CMSIS
standard names. */
#define vPortSVCHandler SVC_Handler
#define xPortPendSVHandler PendSV_Handler
#define xPortSysTickHandler SysTick_Handler
`

// MissingPolicy controls how absent option values are rendered.
type MissingPolicy int

const (
	// MissingPlaceholder renders absent values as the literal None.
	MissingPlaceholder MissingPolicy = iota
	// MissingFatal fails the render on the first absent value.
	MissingFatal
)

// String returns the policy name.
func (p MissingPolicy) String() string {
	if p == MissingFatal {
		return "fatal"
	}
	return "placeholder"
}

// Renderer produces FreeRTOSConfig.h text from a schema and resolved set.
// A Renderer holds no mutable state and is safe for concurrent use.
type Renderer struct {
	missing MissingPolicy
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMissingPolicy sets how absent values are handled.
func WithMissingPolicy(p MissingPolicy) Option {
	return func(r *Renderer) {
		r.missing = p
	}
}

// New returns a Renderer. The default policy is MissingPlaceholder.
func New(opts ...Option) *Renderer {
	r := &Renderer{missing: MissingPlaceholder}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Policy returns the renderer's missing-value policy.
func (r *Renderer) Policy() MissingPolicy {
	return r.missing
}

// Render folds the schema, in declaration order, into header text.
// Only MissingFatal renderers return an error.
func (r *Renderer) Render(schema *option.Schema, set option.Set) (string, error) {
	var b strings.Builder

	b.WriteString("#ifndef " + GuardMacro + "\n")
	b.WriteString("#define " + GuardMacro + "\n\n")

	for _, name := range schema.Names() {
		v := set.Get(name)
		if v.IsAbsent() && r.missing == MissingFatal {
			return "", apperrors.NewWithContext(apperrors.ErrCodeMissingValue,
				"option has no resolved value", map[string]any{"option": name})
		}

		if name == TimerOption {
			if on, _ := v.AsBool(); on {
				b.WriteString(TimerPrelude + "\n")
			}
		}
		b.WriteString(Define(name, v) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(FixedBlock)
	b.WriteString("\n#endif /* " + GuardMacro + " */\n")

	return b.String(), nil
}

// Define renders one definition line. Booleans become 1 or 0; every other
// value is written verbatim, absent values as None.
func Define(name string, v option.Value) string {
	if b, ok := v.AsBool(); ok {
		if b {
			return "#define " + name + " 1"
		}
		return "#define " + name + " 0"
	}
	return "#define " + name + " " + v.String()
}

// Render renders with the placeholder policy and never fails.
func Render(schema *option.Schema, set option.Set) string {
	out, _ := New().Render(schema, set)
	return out
}
