/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/urfave/cli/v3"

	"github.com/libhal/rtos-recipe/pkg/builder"
	apperrors "github.com/libhal/rtos-recipe/pkg/errors"
	"github.com/libhal/rtos-recipe/pkg/recipe"
	"github.com/libhal/rtos-recipe/pkg/render"
)

func strictFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "strict",
		Usage: "fail with MISSING_VALUE instead of rendering None for options without a value",
	}
}

func missingPolicy(cmd *cli.Command) render.MissingPolicy {
	if cmd.Bool("strict") {
		return render.MissingFatal
	}
	return render.MissingPlaceholder
}

func headerCmd() *cli.Command {
	return &cli.Command{
		Name:  "header",
		Usage: "Render FreeRTOSConfig.h from the option defaults and overrides",
		Description: `Writes the header to stdout, or to --output. Build options such as heap
are accepted and ignored. With --check, compares the rendered header with an
existing file and prints a unified diff when they differ:

  rtosrecipe header --set configUSE_TIMERS=True --check include/FreeRTOSConfig.h`,
		Flags: []cli.Flag{
			outputFlag(),
			profileFlag(),
			setFlag(),
			strictFlag(),
			&cli.StringFlag{
				Name:  "check",
				Usage: "compare with this file instead of writing; exit non-zero on difference",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p, err := loadProfile(ctx, cmd)
			if err != nil {
				return err
			}
			overrides, err := overridesFromCmd(cmd, p)
			if err != nil {
				return err
			}

			r, err := recipe.Load()
			if err != nil {
				return err
			}
			headerOverrides, _ := r.SplitOverrides(overrides)

			text, err := r.RenderHeader(headerOverrides, render.WithMissingPolicy(missingPolicy(cmd)))
			if err != nil {
				return err
			}

			if path := cmd.String("check"); path != "" {
				return checkHeader(cmd, path, text)
			}

			out := strings.TrimSpace(cmd.String("output"))
			if out == "" || out == "-" {
				_, err := fmt.Fprint(stdout(cmd), text)
				return err
			}
			if err := builder.WriteHeader(out, text); err != nil {
				return err
			}
			slog.Info("header written", "path", out, "bytes", len(text))
			return nil
		},
	}
}

// checkHeader prints a unified diff of path against text and fails when they differ.
func checkHeader(cmd *cli.Command, path, text string) error {
	existing, err := os.ReadFile(path)
	if err != nil {
		return apperrors.WrapWithContext(apperrors.ErrCodeNotFound, "failed to read header to check", err,
			map[string]any{"path": path})
	}
	if string(existing) == text {
		slog.Info("header up to date", "path", path)
		return nil
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(existing)),
		B:        difflib.SplitLines(text),
		FromFile: path,
		ToFile:   "rendered",
		Context:  3,
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, "failed to diff header", err)
	}
	fmt.Fprint(stdout(cmd), diff)

	return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
		"header differs from rendered output", map[string]any{"path": path})
}
