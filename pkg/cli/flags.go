/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/libhal/rtos-recipe/pkg/builder"
	apperrors "github.com/libhal/rtos-recipe/pkg/errors"
	"github.com/libhal/rtos-recipe/pkg/header"
	"github.com/libhal/rtos-recipe/pkg/option"
	"github.com/libhal/rtos-recipe/pkg/port"
	"github.com/libhal/rtos-recipe/pkg/serializer"
)

// settingOS is the profile settings key of the target OS.
const settingOS = "os"

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output file path (default: stdout)",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatYAML),
		Usage:   fmt.Sprintf("output format (supported: %s)", strings.Join(serializer.SupportedFormats(), ", ")),
	}
}

func profileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "profile",
		Aliases: []string{"p"},
		Usage:   "path or http(s) URL of a YAML/JSON profile with settings: and options: maps",
		Sources: cli.EnvVars("RTOS_RECIPE_PROFILE"),
	}
}

func setFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:    "set",
		Aliases: []string{"s"},
		Usage:   "option override as name=value, repeatable (e.g. --set configUSE_TIMERS=True --set heap=2)",
	}
}

// targetFlags describe the build target. They override profile settings.
func targetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "arch",
			Usage: "instruction set (e.g. thumbv7em)",
		},
		&cli.StringFlag{
			Name:  "processor",
			Usage: "processor family (e.g. cortex-m4)",
		},
		&cli.StringFlag{
			Name:  "float-abi",
			Usage: fmt.Sprintf("float ABI (%s or %s, default %s)", port.FloatABISoft, port.FloatABIHard, port.DefaultFloatABI),
		},
		&cli.StringFlag{
			Name:  "os",
			Usage: "target OS; \"baremetal\" disables tests",
		},
	}
}

// Profile is a reusable target description with option overrides.
type Profile struct {
	header.Header `json:",inline" yaml:",inline"`

	Settings map[string]string `json:"settings" yaml:"settings"`
	Options  map[string]string `json:"options" yaml:"options"`
}

// parseOutputFormat validates the --format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q, supported: %s", f, strings.Join(serializer.SupportedFormats(), ", "))
	}
	return f, nil
}

// newOutputWriter returns a serializer on --output, or on the command writer.
func newOutputWriter(cmd *cli.Command) (*serializer.Writer, error) {
	f, err := parseOutputFormat(cmd)
	if err != nil {
		return nil, err
	}
	path := strings.TrimSpace(cmd.String("output"))
	if path == "" || path == "-" {
		return serializer.NewWriter(f, stdout(cmd)), nil
	}
	return serializer.NewFileWriterOrStdout(f, path), nil
}

// stdout returns the writer configured on the root command.
func stdout(cmd *cli.Command) io.Writer {
	return cmd.Root().Writer
}

// loadProfile reads --profile, or returns an empty profile.
func loadProfile(ctx context.Context, cmd *cli.Command) (*Profile, error) {
	path := cmd.String("profile")
	if path == "" {
		return &Profile{}, nil
	}
	p, err := serializer.FromFile[Profile](ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if p.Kind != "" && p.Kind != header.KindProfile {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"document is not a profile", map[string]any{"path": path, "kind": p.Kind.String()})
	}
	return p, nil
}

// overridesFromCmd merges profile options with --set pairs, which win.
func overridesFromCmd(cmd *cli.Command, p *Profile) (map[string]string, error) {
	set, err := option.ParseOverrides(cmd.StringSlice("set"))
	if err != nil {
		return nil, fmt.Errorf("invalid --set flag: %w", err)
	}
	out := make(map[string]string, len(p.Options)+len(set))
	maps.Copy(out, p.Options)
	maps.Copy(out, set)
	return out, nil
}

// requestFromCmd builds a builder request from the profile and flags.
func requestFromCmd(ctx context.Context, cmd *cli.Command) (builder.Request, error) {
	p, err := loadProfile(ctx, cmd)
	if err != nil {
		return builder.Request{}, err
	}

	settings := make(map[string]string, len(p.Settings)+4)
	maps.Copy(settings, p.Settings)
	for flagName, key := range map[string]string{
		"arch":      port.SettingArch,
		"processor": port.SettingProcessor,
		"float-abi": port.SettingFloatABI,
		"os":        settingOS,
	} {
		if cmd.IsSet(flagName) {
			settings[key] = cmd.String(flagName)
		}
	}

	overrides, err := overridesFromCmd(cmd, p)
	if err != nil {
		return builder.Request{}, err
	}

	return builder.Request{
		Target:    port.FromSettings(settings),
		OS:        strings.TrimSpace(settings[settingOS]),
		Overrides: overrides,
	}, nil
}
