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

// Package header provides the common header of documents written by the
// recipe tool: build reports, package reports, option schema listings and
// target profiles.
//
//	h := header.New(header.WithKind(header.KindBuildReport))
//	h.Init(header.KindBuildReport, "v0.3.0")
//
// A document embeds Header inline so kind, apiVersion and metadata appear at
// the top level when serialized.
package header
