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

package buildtool

import (
	"context"
	"strings"
	"time"
)

// Step names.
const (
	StepConfigure = "configure"
	StepBuild     = "build"
	StepInstall   = "install"
	StepTest      = "test"
)

// Tool drives an external build system through its lifecycle.
type Tool interface {
	// Name returns the build system name.
	Name() string

	// Configure generates the build tree with the given cache variables.
	Configure(ctx context.Context, vars map[string]string) (*StepResult, error)

	// Build compiles the configured tree.
	Build(ctx context.Context) (*StepResult, error)

	// Install copies build outputs under prefix.
	Install(ctx context.Context, prefix string) (*StepResult, error)

	// Test runs the project's tests.
	Test(ctx context.Context) (*StepResult, error)
}

// StepResult records one build tool invocation.
type StepResult struct {
	Step     string        `json:"step" yaml:"step"`
	Command  string        `json:"command" yaml:"command"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	Output   []string      `json:"output,omitempty" yaml:"output,omitempty"`
}

// splitOutput turns combined process output into lines, dropping the
// trailing empty line.
func splitOutput(out []byte) []string {
	s := strings.TrimRight(string(out), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
