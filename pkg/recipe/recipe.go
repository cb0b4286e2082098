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

package recipe

import (
	_ "embed"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	apperrors "github.com/libhal/rtos-recipe/pkg/errors"
	"github.com/libhal/rtos-recipe/pkg/option"
	"github.com/libhal/rtos-recipe/pkg/port"
	"github.com/libhal/rtos-recipe/pkg/render"
)

var (
	//go:embed schema/freertos.yaml
	headerSchemaYAML []byte

	//go:embed schema/build.yaml
	buildSchemaYAML []byte
)

// Build option names.
const (
	OptionHeap      = "heap"
	OptionBuildType = "build_type"
	OptionSkipTests = "skip_tests"
)

// HeaderPath is where the generated header lands, relative to the build folder.
const HeaderPath = "include/FreeRTOSConfig.h"

// Build tool variables set from the resolved recipe.
const (
	VarPort      = "FREERTOS_PORT"
	VarHeap      = "FREERTOS_HEAP"
	VarBuildType = "CMAKE_BUILD_TYPE"
	VarTesting   = "BUILD_TESTING"
)

// OSBareMetal is the os setting of targets without a hosted OS.
const OSBareMetal = "baremetal"

// Metadata is the static package description.
type Metadata struct {
	Name            string   `json:"name" yaml:"name"`
	Version         string   `json:"version" yaml:"version"`
	License         string   `json:"license" yaml:"license"`
	URL             string   `json:"url" yaml:"url"`
	Homepage        string   `json:"homepage" yaml:"homepage"`
	Description     string   `json:"description" yaml:"description"`
	Topics          []string `json:"topics" yaml:"topics"`
	Settings        []string `json:"settings" yaml:"settings"`
	ExportsSources  []string `json:"exportsSources" yaml:"exportsSources"`
	Libs            []string `json:"libs" yaml:"libs"`
	CMakeTargetName string   `json:"cmakeTargetName" yaml:"cmakeTargetName"`
}

// FreeRTOSMetadata returns the package description of the FreeRTOS recipe.
func FreeRTOSMetadata() Metadata {
	return Metadata{
		Name:            "freertos",
		Version:         "10.5.1",
		License:         "MIT",
		URL:             "https://github.com/conan-io/conan-center-index",
		Homepage:        "https://www.freertos.org",
		Description:     "FreeRTOS real-time kernel for ARM Cortex-M microcontrollers",
		Topics:          []string{"freertos", "rtos", "libhal", "kernel"},
		Settings:        []string{"compiler", "build_type", "os", "arch"},
		ExportsSources:  []string{"include/*", "src/*", "portable/*", "CMakeLists.txt", "LICENSE"},
		Libs:            []string{"freertos"},
		CMakeTargetName: "freertos::freertos",
	}
}

// Recipe binds the package metadata to its header and build option schemas.
type Recipe struct {
	Metadata Metadata

	header *option.Schema
	build  *option.Schema
}

// New returns a recipe over the given schemas.
func New(meta Metadata, header, build *option.Schema) *Recipe {
	return &Recipe{Metadata: meta, header: header, build: build}
}

var (
	loadOnce     sync.Once
	cachedRecipe *Recipe
	cachedErr    error
)

// Load returns the FreeRTOS recipe with its embedded schemas.
// The schemas are parsed once and cached for the life of the process.
func Load() (*Recipe, error) {
	loadOnce.Do(func() {
		schemaCacheMisses.Inc()

		header, err := option.ParseSchema(headerSchemaYAML)
		if err != nil {
			cachedErr = apperrors.Wrap(apperrors.ErrCodeInternal, "invalid embedded header schema", err)
			return
		}
		build, err := option.ParseSchema(buildSchemaYAML)
		if err != nil {
			cachedErr = apperrors.Wrap(apperrors.ErrCodeInternal, "invalid embedded build schema", err)
			return
		}
		cachedRecipe = New(FreeRTOSMetadata(), header, build)

		slog.Debug("recipe schemas loaded",
			"name", cachedRecipe.Metadata.Name,
			"header_options", header.Len(),
			"build_options", build.Len())
	})
	return cachedRecipe, cachedErr
}

// HeaderSchema returns the FreeRTOSConfig.h option schema.
func (r *Recipe) HeaderSchema() *option.Schema {
	return r.header
}

// BuildSchema returns the build option schema.
func (r *Recipe) BuildSchema() *option.Schema {
	return r.build
}

// Validate resolves the port for the target. Unsupported targets are fatal.
func (r *Recipe) Validate(d port.Descriptor) (port.Identifier, error) {
	id, err := port.Resolve(d)
	if err != nil {
		portResolutions.WithLabelValues(strings.ToLower(string(apperrors.CodeOf(err)))).Inc()
		slog.Debug("target rejected", "target", d.String(), "error", err)
		return "", err
	}

	portResolutions.WithLabelValues(id.String()).Inc()
	slog.Debug("port resolved", "target", d.String(), "port", id)
	return id, nil
}

// SplitOverrides separates build option overrides from header overrides.
// Names the build schema does not declare are treated as header options.
func (r *Recipe) SplitOverrides(overrides map[string]string) (header, build map[string]string) {
	header = make(map[string]string)
	build = make(map[string]string)
	for name, value := range overrides {
		if _, ok := r.build.Lookup(name); ok {
			build[name] = value
			continue
		}
		header[name] = value
	}
	return header, build
}

// ResolveHeader applies header overrides onto the schema defaults.
func (r *Recipe) ResolveHeader(overrides map[string]string) (option.Set, error) {
	return r.header.Resolve(overrides)
}

// RenderHeader resolves the header overrides and renders FreeRTOSConfig.h.
func (r *Recipe) RenderHeader(overrides map[string]string, opts ...render.Option) (string, error) {
	set, err := r.ResolveHeader(overrides)
	if err != nil {
		headerRenders.WithLabelValues(outcomeError).Inc()
		return "", err
	}

	text, err := render.New(opts...).Render(r.header, set)
	if err != nil {
		headerRenders.WithLabelValues(outcomeError).Inc()
		return "", err
	}

	headerRenders.WithLabelValues(outcomeOK).Inc()
	return text, nil
}

// BuildOptions are the typed build option values.
type BuildOptions struct {
	Heap      int    `json:"heap" yaml:"heap"`
	BuildType string `json:"buildType" yaml:"buildType"`
	SkipTests bool   `json:"skipTests" yaml:"skipTests"`
}

// ResolveBuild applies build overrides onto the build schema defaults.
func (r *Recipe) ResolveBuild(overrides map[string]string) (BuildOptions, error) {
	set, err := r.build.Resolve(overrides)
	if err != nil {
		return BuildOptions{}, err
	}

	heap, ok := set.Get(OptionHeap).AsInt()
	if !ok {
		return BuildOptions{}, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"heap must be an integer", map[string]any{"value": set.Get(OptionHeap).String()})
	}
	skip, _ := set.Get(OptionSkipTests).AsBool()

	return BuildOptions{
		Heap:      int(heap),
		BuildType: set.Get(OptionBuildType).String(),
		SkipTests: skip,
	}, nil
}

// Variables returns the named build parameters for the build tool.
func (b BuildOptions) Variables(id port.Identifier, bareMetal bool) map[string]string {
	vars := map[string]string{
		VarPort:      id.String(),
		VarHeap:      strconv.Itoa(b.Heap),
		VarBuildType: b.BuildType,
	}
	if bareMetal {
		vars[VarTesting] = "OFF"
	}
	return vars
}

// RunTests reports whether tests run after the build.
func (b BuildOptions) RunTests(bareMetal bool) bool {
	return !b.SkipTests && !bareMetal
}

// IsBareMetal reports whether the os setting names a bare-metal target.
func IsBareMetal(osName string) bool {
	return strings.EqualFold(strings.TrimSpace(osName), OSBareMetal)
}

// ObserveBuildStep records the duration of a build step.
func ObserveBuildStep(step string, d time.Duration) {
	buildDuration.WithLabelValues(step).Observe(d.Seconds())
}

// String returns name/version.
func (m Metadata) String() string {
	return fmt.Sprintf("%s/%s", m.Name, m.Version)
}
