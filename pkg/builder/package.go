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
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/libhal/rtos-recipe/pkg/builder/checksum"
	"github.com/libhal/rtos-recipe/pkg/builder/result"
	"github.com/libhal/rtos-recipe/pkg/buildtool"
	"github.com/libhal/rtos-recipe/pkg/defaults"
	apperrors "github.com/libhal/rtos-recipe/pkg/errors"
	"github.com/libhal/rtos-recipe/pkg/header"
	"github.com/libhal/rtos-recipe/pkg/logging"
	"github.com/libhal/rtos-recipe/pkg/recipe"
)

// LicenseFile is copied from the source root into <package>/licenses.
const LicenseFile = "LICENSE"

// headerExtensions are the public header suffixes copied from <source>/include.
var headerExtensions = []string{".h", ".hpp"}

// Package runs the recipe package step:
//
//  1. copy LICENSE into <package>/licenses
//  2. copy public headers from <source>/include and the generated
//     FreeRTOSConfig.h into <package>/include
//  3. install build outputs into <package>
//  4. write <package>/checksums.txt
//
// Build must have run against the same build directory first.
func (b *Builder) Package(ctx context.Context, req Request) (*result.Result, error) {
	start := time.Now()
	ctx, res := b.begin(ctx, header.KindPackageReport, req)
	log := logging.FromContext(ctx)

	plan, err := b.Prepare(req)
	if err != nil {
		return fail(ctx, res, start, err)
	}
	apply(res, plan)

	pkgDir := b.Config.PackageDir()
	if err := os.MkdirAll(pkgDir, 0755); err != nil {
		return fail(ctx, res, start, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create package directory", err))
	}

	if err := b.copyPackageFiles(ctx); err != nil {
		return fail(ctx, res, start, err)
	}

	tool := b.newTool(b.Config, plan.Options.BuildType)
	if err := step(res, buildtool.StepInstall, func() (*buildtool.StepResult, error) {
		return tool.Install(ctx, pkgDir)
	}); err != nil {
		return fail(ctx, res, start, err)
	}

	if err := b.recordFiles(ctx, res); err != nil {
		return fail(ctx, res, start, err)
	}

	res.Duration = time.Since(start)
	res.MarkSuccess()
	log.Info("package complete", "files", len(res.Files), "bytes", res.TotalSize, "duration", res.Duration)
	return res, nil
}

// copyJob is one file copy.
type copyJob struct {
	src, dst string
}

// copyPackageFiles copies the license and headers concurrently.
func (b *Builder) copyPackageFiles(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaults.PackageCopyTimeout)
	defer cancel()

	jobs, err := b.packageJobs()
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Debug("copying package files", "count", len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, b.Config.Parallel()))
	for _, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return copyFile(job.src, job.dst)
		})
	}
	if err := g.Wait(); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, "failed to copy package files", err)
	}
	return nil
}

// packageJobs lists the copies for the package step. A missing license or
// include directory contributes nothing.
func (b *Builder) packageJobs() ([]copyJob, error) {
	src := b.Config.SourceDir()
	pkg := b.Config.PackageDir()
	generatedDst := filepath.Join(pkg, filepath.FromSlash(recipe.HeaderPath))
	var jobs []copyJob

	license := filepath.Join(src, LicenseFile)
	if _, err := os.Stat(license); err == nil {
		jobs = append(jobs, copyJob{src: license, dst: filepath.Join(pkg, "licenses", LicenseFile)})
	}

	includeDir := filepath.Join(src, "include")
	err := filepath.WalkDir(includeDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == includeDir && os.IsNotExist(err) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || !isHeader(path) {
			return nil
		}
		rel, err := filepath.Rel(includeDir, path)
		if err != nil {
			return err
		}
		// The generated header always wins over a checked-in copy.
		if dst := filepath.Join(pkg, "include", rel); dst != generatedDst {
			jobs = append(jobs, copyJob{src: path, dst: dst})
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, fmt.Sprintf("failed to list headers in %s", includeDir), err)
	}

	generated := b.Config.HeaderPath(recipe.HeaderPath)
	if _, err := os.Stat(generated); err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeNotFound,
			"generated header not found, run build first", err, map[string]any{"path": generated})
	}
	jobs = append(jobs, copyJob{src: generated, dst: generatedDst})

	return jobs, nil
}

// recordFiles lists the package folder into the report, with checksums when enabled.
func (b *Builder) recordFiles(ctx context.Context, res *result.Result) error {
	pkgDir := b.Config.PackageDir()

	if b.Config.IncludeChecksums() {
		entries, err := checksum.GenerateDir(ctx, pkgDir)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInternal, "failed to generate checksums", err)
		}
		for _, e := range entries {
			res.AddFile(e.Path, e.Size, e.Digest)
		}
		return nil
	}

	files, err := checksum.Collect(pkgDir)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, "failed to list package files", err)
	}
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInternal, "failed to stat package file", err)
		}
		rel, _ := filepath.Rel(pkgDir, f)
		res.AddFile(filepath.ToSlash(rel), info.Size(), "")
	}
	return nil
}

func isHeader(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, h := range headerExtensions {
		if ext == h {
			return true
		}
	}
	return false
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}
