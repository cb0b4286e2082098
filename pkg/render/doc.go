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

// Package render synthesizes the FreeRTOSConfig.h configuration header.
//
// The output is a pure function of the option schema and the resolved option
// set: an include guard, one #define per option in schema order, a fixed block
// of interrupt priority, handler alias and clock definitions, and the guard
// close.
//
// Absent values render as the literal None by default. Callers that prefer to
// stop the build instead construct the renderer with MissingFatal:
//
//	r := render.New(render.WithMissingPolicy(render.MissingFatal))
//	text, err := r.Render(schema, set)
package render
