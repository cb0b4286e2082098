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

// Package builder orchestrates the FreeRTOS recipe build and package steps.
//
// Build resolves the port, renders FreeRTOSConfig.h into the build folder and
// drives the build tool with the port and heap variant. Package assembles the
// package folder: license, public headers, the generated header, installed
// outputs and a checksum file.
//
//	b, err := builder.New(builder.WithConfig(config.NewConfig(
//	    config.WithSourceDir("freertos"),
//	    config.WithBuildDir("build"),
//	)))
//	res, err := b.Build(ctx, builder.Request{
//	    Target:    port.Descriptor{Arch: "thumbv7em", Processor: "cortex-m4", FloatABI: "hard"},
//	    OS:        "baremetal",
//	    Overrides: map[string]string{"configUSE_TIMERS": "True", "heap": "4"},
//	})
//
// Every invocation gets a UUID build id, attached to its logger and report.
// Reports are returned even when a step fails.
package builder
