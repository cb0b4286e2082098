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

package config

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/libhal/rtos-recipe/pkg/render"
)

// Default directory names, relative to the working directory.
const (
	DefaultSourceDir  = "."
	DefaultBuildDir   = "build"
	DefaultPackageDir = "package"
)

// Config holds the settings of one build or package invocation.
// Fields are unexported and read through getters.
type Config struct {
	// sourceDir is the FreeRTOS source tree containing CMakeLists.txt.
	sourceDir string
	// buildDir receives the build tree and the generated header.
	buildDir string
	// packageDir receives licenses, headers and installed artifacts.
	packageDir string
	// generator is the cmake generator, empty for the platform default.
	generator string
	// parallel is the number of build jobs.
	parallel int
	// cmakeProgram overrides the cmake executable.
	cmakeProgram string
	// ctestProgram overrides the ctest executable.
	ctestProgram string
	// checkToolVersion gates the build on the minimum cmake version.
	checkToolVersion bool
	// includeChecksums writes checksums.txt into the package folder.
	includeChecksums bool
	// missingPolicy controls absent header values.
	missingPolicy render.MissingPolicy
	// version is the tool version stamped into reports.
	version string
	// env is passed to every build tool invocation.
	env map[string]string
}

// SourceDir returns the source directory.
func (c *Config) SourceDir() string {
	return c.sourceDir
}

// BuildDir returns the build directory.
func (c *Config) BuildDir() string {
	return c.buildDir
}

// PackageDir returns the package directory.
func (c *Config) PackageDir() string {
	return c.packageDir
}

// Generator returns the cmake generator.
func (c *Config) Generator() string {
	return c.generator
}

// Parallel returns the number of build jobs.
func (c *Config) Parallel() int {
	return c.parallel
}

// CMakeProgram returns the cmake executable override.
func (c *Config) CMakeProgram() string {
	return c.cmakeProgram
}

// CTestProgram returns the ctest executable override.
func (c *Config) CTestProgram() string {
	return c.ctestProgram
}

// CheckToolVersion reports whether the cmake version is gated.
func (c *Config) CheckToolVersion() bool {
	return c.checkToolVersion
}

// IncludeChecksums reports whether checksums.txt is written.
func (c *Config) IncludeChecksums() bool {
	return c.includeChecksums
}

// MissingPolicy returns the header missing-value policy.
func (c *Config) MissingPolicy() render.MissingPolicy {
	return c.missingPolicy
}

// Version returns the tool version.
func (c *Config) Version() string {
	return c.version
}

// Env returns a copy of the build tool environment.
func (c *Config) Env() map[string]string {
	env := make(map[string]string, len(c.env))
	for k, v := range c.env {
		env[k] = v
	}
	return env
}

// HeaderPath returns where the generated header is written.
func (c *Config) HeaderPath(rel string) string {
	return filepath.Join(c.buildDir, filepath.FromSlash(rel))
}

// Validate checks if the Config has valid settings.
func (c *Config) Validate() error {
	if c.sourceDir == "" {
		return fmt.Errorf("source directory cannot be empty")
	}
	if c.buildDir == "" {
		return fmt.Errorf("build directory cannot be empty")
	}
	if c.packageDir == "" {
		return fmt.Errorf("package directory cannot be empty")
	}
	if c.parallel < 0 {
		return fmt.Errorf("invalid parallel job count: %d", c.parallel)
	}
	if filepath.Clean(c.buildDir) == filepath.Clean(c.packageDir) {
		return fmt.Errorf("build and package directories must differ: %s", c.buildDir)
	}
	return nil
}

// Option is a functional option for Config.
type Option func(*Config)

// WithSourceDir sets the source directory.
func WithSourceDir(dir string) Option {
	return func(c *Config) {
		c.sourceDir = dir
	}
}

// WithBuildDir sets the build directory.
func WithBuildDir(dir string) Option {
	return func(c *Config) {
		c.buildDir = dir
	}
}

// WithPackageDir sets the package directory.
func WithPackageDir(dir string) Option {
	return func(c *Config) {
		c.packageDir = dir
	}
}

// WithGenerator sets the cmake generator.
func WithGenerator(g string) Option {
	return func(c *Config) {
		c.generator = g
	}
}

// WithParallel sets the number of build jobs.
func WithParallel(n int) Option {
	return func(c *Config) {
		c.parallel = n
	}
}

// WithPrograms overrides the cmake and ctest executables.
func WithPrograms(cmake, ctest string) Option {
	return func(c *Config) {
		c.cmakeProgram = cmake
		c.ctestProgram = ctest
	}
}

// WithCheckToolVersion enables the minimum cmake version gate.
func WithCheckToolVersion(enabled bool) Option {
	return func(c *Config) {
		c.checkToolVersion = enabled
	}
}

// WithIncludeChecksums sets whether checksums.txt is written.
func WithIncludeChecksums(enabled bool) Option {
	return func(c *Config) {
		c.includeChecksums = enabled
	}
}

// WithMissingPolicy sets the header missing-value policy.
func WithMissingPolicy(p render.MissingPolicy) Option {
	return func(c *Config) {
		c.missingPolicy = p
	}
}

// WithVersion sets the tool version.
func WithVersion(version string) Option {
	return func(c *Config) {
		c.version = version
	}
}

// WithEnv adds build tool environment variables.
func WithEnv(env map[string]string) Option {
	return func(c *Config) {
		for k, v := range env {
			c.env[k] = v
		}
	}
}

// NewConfig returns a Config with defaults applied, then the options.
func NewConfig(opts ...Option) *Config {
	c := &Config{
		sourceDir:        DefaultSourceDir,
		buildDir:         DefaultBuildDir,
		packageDir:       DefaultPackageDir,
		parallel:         runtime.NumCPU(),
		checkToolVersion: true,
		includeChecksums: true,
		missingPolicy:    render.MissingPlaceholder,
		env:              make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
