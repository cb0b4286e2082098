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

// Package buildtool wraps the external build system that compiles the
// FreeRTOS kernel.
//
// Tool is the configure, build, install and test lifecycle. CMake implements
// it over a Runner, so tests substitute a fake and production code uses
// ExecRunner:
//
//	tool := buildtool.NewCMake(src, build, buildtool.WithBuildType("Release"))
//	if _, err := tool.CheckVersion(ctx, buildtool.MinCMakeVersion); err != nil {
//	    return err
//	}
//	_, err := tool.Configure(ctx, map[string]string{"FREERTOS_PORT": "ARM_CM4F", "FREERTOS_HEAP": "4"})
//
// Each invocation runs under defaults.BuildToolStepTimeout unless the parent
// context expires first. Failures are BUILD_FAILED or TIMEOUT structured
// errors carrying the step name and command line.
package buildtool
