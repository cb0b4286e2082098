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

// Package port selects the FreeRTOS hardware port for a target.
//
// A Descriptor carries the architecture string, processor family and float
// ABI reported by the package manager. Resolve evaluates a fixed, ordered rule
// table and returns the first match:
//
//	cortex-m0*               -> ARM_CM0
//	cortex-m3                -> ARM_CM3
//	cortex-m4 + soft         -> ARM_CM3
//	cortex-m4 + hard         -> ARM_CM4F
//
// Anything else is rejected. Both rejections are fatal configuration errors
// and are never retried.
package port
