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

// Package result defines the report produced by the builder.
//
// A Result is a serializable document (kind BuildReport or PackageReport)
// recording the target, the resolved port, the build tool steps and, for
// package runs, the packaged files with their checksums:
//
//	r := result.New(header.KindBuildReport, buildID, version)
//	r.AddStep(step)
//	r.MarkSuccess()
//	fmt.Println(r.Summary())
package result
