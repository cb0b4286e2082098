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

package builder

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/libhal/rtos-recipe/pkg/builder/config"
	"github.com/libhal/rtos-recipe/pkg/builder/result"
	"github.com/libhal/rtos-recipe/pkg/buildtool"
	apperrors "github.com/libhal/rtos-recipe/pkg/errors"
	"github.com/libhal/rtos-recipe/pkg/header"
	"github.com/libhal/rtos-recipe/pkg/logging"
	"github.com/libhal/rtos-recipe/pkg/port"
	"github.com/libhal/rtos-recipe/pkg/recipe"
	"github.com/libhal/rtos-recipe/pkg/render"
	"github.com/libhal/rtos-recipe/pkg/version"
)

// ToolFactory creates the build tool for one invocation.
type ToolFactory func(cfg *config.Config, buildType string) buildtool.Tool

// versionChecker is implemented by tools that can gate on their version.
type versionChecker interface {
	CheckVersion(ctx context.Context, minimum version.Version) (version.Version, error)
}

// Builder runs the recipe build and package steps.
//
// Thread-safety: Builder holds no per-invocation state and is safe for
// concurrent use with distinct build directories.
type Builder struct {
	// Config holds directories and build tool settings.
	Config *config.Config

	recipe  *recipe.Recipe
	newTool ToolFactory
}

// Option defines a functional option for configuring Builder.
type Option func(*Builder)

// WithConfig sets the builder configuration.
func WithConfig(cfg *config.Config) Option {
	return func(b *Builder) {
		if cfg != nil {
			b.Config = cfg
		}
	}
}

// WithRecipe replaces the embedded FreeRTOS recipe.
func WithRecipe(r *recipe.Recipe) Option {
	return func(b *Builder) {
		if r != nil {
			b.recipe = r
		}
	}
}

// WithToolFactory replaces the CMake tool factory.
func WithToolFactory(f ToolFactory) Option {
	return func(b *Builder) {
		if f != nil {
			b.newTool = f
		}
	}
}

// New creates a Builder. The embedded recipe is loaded unless WithRecipe is given.
func New(opts ...Option) (*Builder, error) {
	b := &Builder{
		Config:  config.NewConfig(),
		newTool: CMakeFactory,
	}
	for _, opt := range opts {
		opt(b)
	}

	if err := b.Config.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid builder configuration", err)
	}

	if b.recipe == nil {
		r, err := recipe.Load()
		if err != nil {
			return nil, err
		}
		b.recipe = r
	}
	return b, nil
}

// CMakeFactory builds a CMake tool from the configuration.
func CMakeFactory(cfg *config.Config, buildType string) buildtool.Tool {
	return buildtool.NewCMake(cfg.SourceDir(), cfg.BuildDir(),
		buildtool.WithBuildType(buildType),
		buildtool.WithGenerator(cfg.Generator()),
		buildtool.WithParallel(cfg.Parallel()),
		buildtool.WithPrograms(cfg.CMakeProgram(), cfg.CTestProgram()),
		buildtool.WithEnv(cfg.Env()),
	)
}

// Recipe returns the recipe the builder uses.
func (b *Builder) Recipe() *recipe.Recipe {
	return b.recipe
}

// Request describes the target and option overrides of one invocation.
type Request struct {
	// Target is the architecture descriptor from the package manager.
	Target port.Descriptor `json:"target" yaml:"target"`

	// OS is the os setting; "baremetal" disables tests.
	OS string `json:"os,omitempty" yaml:"os,omitempty"`

	// Overrides are name=value option overrides, header and build options mixed.
	Overrides map[string]string `json:"overrides,omitempty" yaml:"overrides,omitempty"`
}

// BareMetal reports whether the request targets a bare-metal OS.
func (r Request) BareMetal() bool {
	return recipe.IsBareMetal(r.OS)
}

// Plan is a validated request: resolved port, rendered header and build options.
type Plan struct {
	Port    port.Identifier
	Header  string
	Options recipe.BuildOptions
}

// Prepare validates the target, resolves every option and renders the header.
// It performs no I/O.
func (b *Builder) Prepare(req Request) (*Plan, error) {
	id, err := b.recipe.Validate(req.Target)
	if err != nil {
		return nil, err
	}

	headerOverrides, buildOverrides := b.recipe.SplitOverrides(req.Overrides)

	opts, err := b.recipe.ResolveBuild(buildOverrides)
	if err != nil {
		return nil, err
	}

	text, err := b.recipe.RenderHeader(headerOverrides, render.WithMissingPolicy(b.Config.MissingPolicy()))
	if err != nil {
		return nil, err
	}

	return &Plan{Port: id, Header: text, Options: opts}, nil
}

// begin starts an invocation: a build id, a logger carrying it, and an empty report.
func (b *Builder) begin(ctx context.Context, kind header.Kind, req Request) (context.Context, *result.Result) {
	id := uuid.NewString()
	log := logging.FromContext(ctx).With("build_id", id, "target", req.Target.String())
	ctx = logging.WithLogger(ctx, log)

	res := result.New(kind, id, b.Config.Version())
	res.Target = req.Target.String()
	return ctx, res
}

// apply copies the plan into the report.
func apply(res *result.Result, plan *Plan) {
	res.Port = plan.Port.String()
	res.Heap = plan.Options.Heap
	res.BuildType = plan.Options.BuildType
}

// fail marks the report failed and returns it with err.
func fail(ctx context.Context, res *result.Result, start time.Time, err error) (*result.Result, error) {
	res.Duration = time.Since(start)
	res.MarkFailed(err)
	logging.FromContext(ctx).Error("recipe step failed", "kind", res.Kind, "error", err)
	return res, err
}

// step runs one build tool step and records it.
func step(res *result.Result, name string, fn func() (*buildtool.StepResult, error)) error {
	s, err := fn()
	res.AddStep(s)
	if s != nil {
		recipe.ObserveBuildStep(name, s.Duration)
	}
	return err
}

// checkTool gates on the minimum tool version when the tool supports it.
func (b *Builder) checkTool(ctx context.Context, tool buildtool.Tool) error {
	if !b.Config.CheckToolVersion() {
		return nil
	}
	vc, ok := tool.(versionChecker)
	if !ok {
		return nil
	}
	v, err := vc.CheckVersion(ctx, buildtool.MinCMakeVersion)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Debug("build tool version ok", "tool", tool.Name(), "version", v.String())
	return nil
}
