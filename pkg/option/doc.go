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

// Package option models the typed option schema of a recipe and the
// resolution of caller overrides onto declared defaults.
//
// A Schema is declared once, in a fixed order, and never mutated. Each Option
// has exactly one Kind (boolean, any, enum) and one default Value. Resolve
// produces a Set holding a value for every declared option:
//
//	schema := option.MustSchema(
//	    option.Option{Name: "configUSE_TIMERS", Kind: option.KindBoolean, Default: option.Bool(false)},
//	    option.Option{Name: "configMAX_PRIORITIES", Kind: option.KindAny, Default: option.Int(5)},
//	)
//	set, err := schema.Resolve(map[string]string{"configUSE_TIMERS": "True"})
//
// Schemas can also be declared in YAML; the list form preserves order:
//
//	options:
//	  - name: configUSE_PREEMPTION
//	    kind: boolean
//	    default: true
//	  - name: configTOTAL_HEAP_SIZE
//	    kind: any
//	    default: "((size_t)(0))"
package option
