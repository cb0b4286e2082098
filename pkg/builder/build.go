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
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/libhal/rtos-recipe/pkg/builder/result"
	"github.com/libhal/rtos-recipe/pkg/buildtool"
	apperrors "github.com/libhal/rtos-recipe/pkg/errors"
	"github.com/libhal/rtos-recipe/pkg/header"
	"github.com/libhal/rtos-recipe/pkg/logging"
	"github.com/libhal/rtos-recipe/pkg/recipe"
)

// Build runs the recipe build step:
//
//  1. resolve the port for the target (fatal when unsupported)
//  2. resolve header and build options
//  3. render FreeRTOSConfig.h into <build>/include/
//  4. configure and build with FREERTOS_PORT and FREERTOS_HEAP
//  5. run tests unless skipped or bare metal
//
// The returned report is never nil, even on failure.
func (b *Builder) Build(ctx context.Context, req Request) (*result.Result, error) {
	start := time.Now()
	ctx, res := b.begin(ctx, header.KindBuildReport, req)
	log := logging.FromContext(ctx)

	plan, err := b.Prepare(req)
	if err != nil {
		return fail(ctx, res, start, err)
	}
	apply(res, plan)
	log.Info("building", "port", plan.Port, "heap", plan.Options.Heap, "build_type", plan.Options.BuildType)

	path := b.Config.HeaderPath(recipe.HeaderPath)
	if err := WriteHeader(path, plan.Header); err != nil {
		return fail(ctx, res, start, err)
	}
	res.HeaderPath = path
	res.HeaderSize = int64(len(plan.Header))

	tool := b.newTool(b.Config, plan.Options.BuildType)
	if err := b.checkTool(ctx, tool); err != nil {
		return fail(ctx, res, start, err)
	}

	vars := plan.Options.Variables(plan.Port, req.BareMetal())
	if err := step(res, buildtool.StepConfigure, func() (*buildtool.StepResult, error) {
		return tool.Configure(ctx, vars)
	}); err != nil {
		return fail(ctx, res, start, err)
	}

	if err := step(res, buildtool.StepBuild, func() (*buildtool.StepResult, error) {
		return tool.Build(ctx)
	}); err != nil {
		return fail(ctx, res, start, err)
	}

	if plan.Options.RunTests(req.BareMetal()) {
		if err := step(res, buildtool.StepTest, func() (*buildtool.StepResult, error) {
			return tool.Test(ctx)
		}); err != nil {
			return fail(ctx, res, start, err)
		}
		res.TestsRun = true
	} else {
		log.Debug("tests skipped", "skip_tests", plan.Options.SkipTests, "bare_metal", req.BareMetal())
	}

	res.Duration = time.Since(start)
	res.MarkSuccess()
	log.Info("build complete", "duration", res.Duration)
	return res, nil
}

// WriteHeader writes header text to path, creating parent directories.
func WriteHeader(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal,
			fmt.Sprintf("failed to create header directory for %s", path), err)
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal,
			fmt.Sprintf("failed to write header %s", path), err)
	}
	return nil
}
