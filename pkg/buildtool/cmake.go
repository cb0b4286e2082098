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
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/libhal/rtos-recipe/pkg/defaults"
	apperrors "github.com/libhal/rtos-recipe/pkg/errors"
	"github.com/libhal/rtos-recipe/pkg/logging"
	"github.com/libhal/rtos-recipe/pkg/version"
)

const (
	// DefaultCMakeProgram is the cmake executable name.
	DefaultCMakeProgram = "cmake"

	// DefaultCTestProgram is the ctest executable name.
	DefaultCTestProgram = "ctest"

	// DefaultBuildType is used when no build type is configured.
	DefaultBuildType = "Release"
)

// MinCMakeVersion is the oldest cmake that supports -S/-B and --install.
var MinCMakeVersion = version.MustParseVersion("3.15")

// CMake runs configure, build, install and test through cmake and ctest.
type CMake struct {
	sourceDir   string
	buildDir    string
	buildType   string
	generator   string
	parallel    int
	env         map[string]string
	cmake       string
	ctest       string
	stepTimeout time.Duration
	runner      Runner
}

// CMakeOption configures a CMake tool.
type CMakeOption func(*CMake)

// WithRunner replaces the process runner.
func WithRunner(r Runner) CMakeOption {
	return func(c *CMake) {
		c.runner = r
	}
}

// WithBuildType sets CMAKE_BUILD_TYPE and the multi-config --config value.
func WithBuildType(t string) CMakeOption {
	return func(c *CMake) {
		if t != "" {
			c.buildType = t
		}
	}
}

// WithGenerator selects the cmake generator, for example "Ninja".
func WithGenerator(g string) CMakeOption {
	return func(c *CMake) {
		c.generator = g
	}
}

// WithParallel sets the number of parallel build jobs. Zero lets cmake decide.
func WithParallel(n int) CMakeOption {
	return func(c *CMake) {
		if n >= 0 {
			c.parallel = n
		}
	}
}

// WithEnv adds environment variables to every invocation.
func WithEnv(env map[string]string) CMakeOption {
	return func(c *CMake) {
		for k, v := range env {
			c.env[k] = v
		}
	}
}

// WithPrograms overrides the cmake and ctest executables.
func WithPrograms(cmake, ctest string) CMakeOption {
	return func(c *CMake) {
		if cmake != "" {
			c.cmake = cmake
		}
		if ctest != "" {
			c.ctest = ctest
		}
	}
}

// WithStepTimeout bounds each invocation.
func WithStepTimeout(d time.Duration) CMakeOption {
	return func(c *CMake) {
		if d > 0 {
			c.stepTimeout = d
		}
	}
}

// NewCMake returns a CMake tool for the source and build directories.
func NewCMake(sourceDir, buildDir string, opts ...CMakeOption) *CMake {
	c := &CMake{
		sourceDir:   sourceDir,
		buildDir:    buildDir,
		buildType:   DefaultBuildType,
		env:         make(map[string]string),
		cmake:       DefaultCMakeProgram,
		ctest:       DefaultCTestProgram,
		stepTimeout: defaults.BuildToolStepTimeout,
		runner:      ExecRunner{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name implements Tool.
func (c *CMake) Name() string {
	return "CMake"
}

// Configure implements Tool. Variables are passed as sorted -D definitions
// after CMAKE_BUILD_TYPE.
func (c *CMake) Configure(ctx context.Context, vars map[string]string) (*StepResult, error) {
	args := []string{"-S", c.sourceDir, "-B", c.buildDir, "-DCMAKE_BUILD_TYPE=" + c.buildType}
	if c.generator != "" {
		args = append(args, "-G", c.generator)
	}
	args = append(args, Definitions(vars)...)
	return c.run(ctx, StepConfigure, c.cmake, args)
}

// Build implements Tool.
func (c *CMake) Build(ctx context.Context) (*StepResult, error) {
	args := []string{"--build", c.buildDir, "--config", c.buildType}
	if c.parallel > 0 {
		args = append(args, "--parallel", strconv.Itoa(c.parallel))
	}
	return c.run(ctx, StepBuild, c.cmake, args)
}

// Install implements Tool.
func (c *CMake) Install(ctx context.Context, prefix string) (*StepResult, error) {
	if prefix == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "install prefix is required")
	}
	args := []string{"--install", c.buildDir, "--prefix", prefix, "--config", c.buildType}
	return c.run(ctx, StepInstall, c.cmake, args)
}

// Test implements Tool.
func (c *CMake) Test(ctx context.Context) (*StepResult, error) {
	args := []string{"--test-dir", c.buildDir, "--output-on-failure", "-C", c.buildType}
	return c.run(ctx, StepTest, c.ctest, args)
}

// CheckVersion verifies cmake is on the path and at least minimum.
func (c *CMake) CheckVersion(ctx context.Context, minimum version.Version) (version.Version, error) {
	if _, err := c.runner.LookPath(c.cmake); err != nil {
		return version.Version{}, apperrors.WrapWithContext(apperrors.ErrCodeNotFound,
			"build tool not found", err, map[string]any{"program": c.cmake})
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.BuildToolVersionTimeout)
	defer cancel()

	out, err := c.runner.Run(ctx, Command{Name: c.cmake, Args: []string{"--version"}, Env: c.env})
	if err != nil {
		return version.Version{}, apperrors.WrapWithContext(apperrors.ErrCodeBuildFailed,
			"failed to query build tool version", err, map[string]any{"program": c.cmake})
	}

	v, err := version.FromToolOutput(string(out))
	if err != nil {
		return version.Version{}, apperrors.WrapWithContext(apperrors.ErrCodeBuildFailed,
			"unrecognized build tool version output", err, map[string]any{"program": c.cmake})
	}
	if !v.EqualsOrNewer(minimum) {
		return v, apperrors.NewWithContext(apperrors.ErrCodeBuildFailed,
			fmt.Sprintf("%s %s is older than required %s", c.cmake, v, minimum),
			map[string]any{"program": c.cmake, "found": v.String(), "required": minimum.String()})
	}
	return v, nil
}

func (c *CMake) run(ctx context.Context, step, program string, args []string) (*StepResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.stepTimeout)
	defer cancel()

	cmd := Command{Name: program, Args: args, Env: c.env}
	log := logging.FromContext(ctx).With("step", step)
	log.Debug("running build tool", "command", cmd.String())

	start := time.Now()
	out, err := c.runner.Run(ctx, cmd)
	result := &StepResult{
		Step:     step,
		Command:  cmd.String(),
		Duration: time.Since(start),
		Output:   splitOutput(out),
	}

	if err != nil {
		code := apperrors.ErrCodeBuildFailed
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			code = apperrors.ErrCodeTimeout
		}
		log.Error("build tool step failed", "error", err, "duration", result.Duration)
		return result, apperrors.WrapWithContext(code, stepFailure(step, result.Output), err,
			map[string]any{"step": step, "command": result.Command})
	}

	log.Info("build tool step complete", "duration", result.Duration)
	return result, nil
}

// stepFailure keeps the tail of the tool output in the error message.
func stepFailure(step string, output []string) string {
	const tail = 20
	msg := fmt.Sprintf("%s step failed", step)
	if len(output) == 0 {
		return msg
	}
	if len(output) > tail {
		output = output[len(output)-tail:]
	}
	return msg + "\n\nBuild output:\n" + strings.Join(output, "\n")
}

// Definitions renders variables as -DKEY=VALUE in key order.
func Definitions(vars map[string]string) []string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	defs := make([]string, 0, len(keys))
	for _, k := range keys {
		defs = append(defs, fmt.Sprintf("-D%s=%s", k, vars[k]))
	}
	return defs
}
