/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"errors"
	"log/slog"
	"runtime"

	"github.com/urfave/cli/v3"

	"github.com/libhal/rtos-recipe/pkg/builder"
	"github.com/libhal/rtos-recipe/pkg/builder/config"
	"github.com/libhal/rtos-recipe/pkg/builder/result"
	"github.com/libhal/rtos-recipe/pkg/buildtool"
	"github.com/libhal/rtos-recipe/pkg/defaults"
)

// toolFactory creates the build tool; tests replace it.
var toolFactory builder.ToolFactory = builder.CMakeFactory

// builderFlags configure directories and the build tool.
func builderFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "source-dir",
			Value:   config.DefaultSourceDir,
			Usage:   "FreeRTOS source folder",
			Sources: cli.EnvVars("RTOS_RECIPE_SOURCE_DIR"),
		},
		&cli.StringFlag{
			Name:    "build-dir",
			Value:   config.DefaultBuildDir,
			Usage:   "build folder; the header is written to <build-dir>/include/FreeRTOSConfig.h",
			Sources: cli.EnvVars("RTOS_RECIPE_BUILD_DIR"),
		},
		&cli.StringFlag{
			Name:    "package-dir",
			Value:   config.DefaultPackageDir,
			Usage:   "package folder",
			Sources: cli.EnvVars("RTOS_RECIPE_PACKAGE_DIR"),
		},
		&cli.StringFlag{
			Name:  "generator",
			Usage: "CMake generator (e.g. Ninja)",
		},
		&cli.IntFlag{
			Name:  "parallel",
			Value: runtime.NumCPU(),
			Usage: "parallel build jobs; 0 lets the build tool decide",
		},
		&cli.StringFlag{
			Name:  "cmake",
			Value: buildtool.DefaultCMakeProgram,
			Usage: "cmake program",
		},
		&cli.StringFlag{
			Name:  "ctest",
			Value: buildtool.DefaultCTestProgram,
			Usage: "ctest program",
		},
		&cli.BoolFlag{
			Name:  "skip-version-check",
			Usage: "do not check the cmake version before configuring",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Value: defaults.CLIBuildTimeout,
			Usage: "overall time limit",
		},
		strictFlag(),
	}
}

// newBuilder creates a builder from the command flags.
func newBuilder(cmd *cli.Command, extra ...config.Option) (*builder.Builder, error) {
	opts := []config.Option{
		config.WithSourceDir(cmd.String("source-dir")),
		config.WithBuildDir(cmd.String("build-dir")),
		config.WithPackageDir(cmd.String("package-dir")),
		config.WithGenerator(cmd.String("generator")),
		config.WithParallel(cmd.Int("parallel")),
		config.WithPrograms(cmd.String("cmake"), cmd.String("ctest")),
		config.WithCheckToolVersion(!cmd.Bool("skip-version-check")),
		config.WithMissingPolicy(missingPolicy(cmd)),
		config.WithVersion(version),
	}
	opts = append(opts, extra...)

	return builder.New(
		builder.WithConfig(config.NewConfig(opts...)),
		builder.WithToolFactory(toolFactory),
	)
}

func buildCmd() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "Resolve the port, write FreeRTOSConfig.h, configure, build and test",
		Description: `Runs the recipe build for one target and writes a build report:

  rtosrecipe build --arch thumbv7em --processor cortex-m4 --float-abi hard \
    --set heap=4 --set configUSE_TIMERS=True

Tests are skipped for --os baremetal and when skip_tests is set.`,
		Flags: append(append(targetFlags(), profileFlag(), setFlag(), outputFlag(), formatFlag()), builderFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}
			req, err := requestFromCmd(ctx, cmd)
			if err != nil {
				return err
			}
			b, err := newBuilder(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			res, buildErr := b.Build(ctx, req)
			return report(ctx, cmd, res, buildErr)
		},
	}
}

// report writes the result document and returns the invocation error.
func report(ctx context.Context, cmd *cli.Command, res *result.Result, runErr error) error {
	if res != nil {
		slog.Info(res.Summary())
		if err := serialize(ctx, cmd, res); err != nil {
			return errors.Join(runErr, err)
		}
	}
	return runErr
}
