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

// Package serializer writes reports as JSON, YAML or a FIELD/VALUE table and
// reads JSON or YAML documents back from files or http(s) URLs.
//
// Writing:
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatYAML, outPath)
//	defer w.Close()
//	if err := w.Serialize(ctx, report); err != nil {
//	    return err
//	}
//
// Reading picks the format from the file extension:
//
//	profile, err := serializer.FromFile[Profile](ctx, "https://example.com/stm32f4.yaml")
//
// Table output flattens nested structs, maps and slices into dotted keys
// sorted alphabetically. It cannot be read back.
package serializer
