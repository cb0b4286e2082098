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

package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func FuzzParseVersion(f *testing.F) {
	for _, seed := range []string{
		"3", "3.15", "v3.27.4", "3.27.4-rc1", "3.28.0+g1a2b", "0.0.0",
		"", "v", ".", "1..2", "1.2.3.4", "-1", "a.b", " 3.15 ", "99999999999999999999",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		v, err := ParseVersion(input)
		if err != nil {
			return
		}
		require.True(t, v.IsValid(), "ParseVersion(%q) = %+v", input, v)

		again, err := ParseVersion(v.String())
		require.NoError(t, err, "round trip of %q", input)
		assert.Equal(t, v.Precision, again.Precision)
		assert.Zero(t, v.Compare(again))
		assert.Empty(t, again.Extras)
	})
}

func FuzzFromToolOutput(f *testing.F) {
	f.Add("cmake version 3.27.4\n\nCMake suite maintained and supported by Kitware (kitware.com/cmake).\n")
	f.Add("ctest version 3.22.1")
	f.Add("version")
	f.Add("no digits here")
	f.Add("")

	f.Fuzz(func(t *testing.T, out string) {
		v, err := FromToolOutput(out)
		if err != nil {
			return
		}
		assert.True(t, v.IsValid(), "FromToolOutput(%q) = %+v", out, v)
		assert.True(t, strings.Contains(strings.ToLower(out), "version"))
	})
}
