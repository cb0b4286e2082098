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

// Package config provides configuration options for the recipe builder.
//
// # Configuration Options
//
//   - SourceDir, BuildDir, PackageDir: the three recipe folders
//   - Generator, Parallel, Programs, Env: build tool invocation
//   - CheckToolVersion: gate on the minimum cmake version (default true)
//   - IncludeChecksums: write checksums.txt into the package (default true)
//   - MissingPolicy: placeholder or fatal for absent header values
//   - Version: tool version stamped into reports
//
// # Usage
//
//	cfg := config.NewConfig(
//	    config.WithSourceDir("freertos"),
//	    config.WithBuildDir("build/Release"),
//	    config.WithMissingPolicy(render.MissingFatal),
//	)
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
