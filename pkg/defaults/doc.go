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

// Package defaults provides centralized timeout constants for the recipe tool.
//
// # Timeout Categories
//
//   - Build tool timeouts: external configure, build, install and test steps
//   - Packaging timeouts: package folder copies and OCI artifacts
//   - HTTP client timeouts: registry requests
//   - HTTP server timeouts: the serve command
//
// # Usage
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.BuildToolStepTimeout)
//	defer cancel()
//
// Steps should respect a parent context deadline when it is shorter.
package defaults
