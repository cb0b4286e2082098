/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/libhal/rtos-recipe/pkg/builder/config"
	"github.com/libhal/rtos-recipe/pkg/oci"
	"github.com/libhal/rtos-recipe/pkg/recipe"
)

// pushOptions holds the parsed OCI flags of the package command.
type pushOptions struct {
	ref         *oci.Reference
	plainHTTP   bool
	insecureTLS bool
}

// parsePushOptions validates --push. A nil result means no push.
func parsePushOptions(cmd *cli.Command, defaultTag string) (*pushOptions, error) {
	target := cmd.String("push")
	if target == "" {
		return nil, nil
	}

	ref, err := oci.ParseOutputTarget(target)
	if err != nil {
		return nil, err
	}
	if !ref.IsOCI {
		return nil, fmt.Errorf("--push must be an %s URI, got %q", oci.URIScheme, target)
	}
	if ref.Tag == "" {
		ref = ref.WithTag(defaultTag)
	}

	return &pushOptions{
		ref:         ref,
		plainHTTP:   cmd.Bool("plain-http"),
		insecureTLS: cmd.Bool("insecure-tls"),
	}, nil
}

func packageCmd() *cli.Command {
	flags := append(targetFlags(), profileFlag(), setFlag(), outputFlag(), formatFlag())
	flags = append(flags, builderFlags()...)
	flags = append(flags,
		&cli.BoolFlag{
			Name:  "no-checksums",
			Usage: "do not write checksums.txt into the package folder",
		},
		&cli.StringFlag{
			Name:  "push",
			Usage: "push the package folder as an OCI artifact (oci://registry/repository[:tag], tag defaults to the recipe version)",
		},
		&cli.BoolFlag{
			Name:  "plain-http",
			Usage: "use HTTP instead of HTTPS for the registry",
		},
		&cli.BoolFlag{
			Name:  "insecure-tls",
			Usage: "skip registry TLS certificate verification",
		},
	)

	return &cli.Command{
		Name:  "package",
		Usage: "Copy licenses and headers, install the build and optionally push to a registry",
		Description: `Runs after build. Copies LICENSE and the public headers into the package
folder, installs the build outputs there and records checksums:

  rtosrecipe package --arch thumbv7em --processor cortex-m4 \
    --push oci://ghcr.io/libhal/freertos`,
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}
			r, err := recipe.Load()
			if err != nil {
				return err
			}
			push, err := parsePushOptions(cmd, r.Metadata.Version)
			if err != nil {
				return err
			}
			req, err := requestFromCmd(ctx, cmd)
			if err != nil {
				return err
			}
			b, err := newBuilder(cmd, config.WithIncludeChecksums(!cmd.Bool("no-checksums")))
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			res, pkgErr := b.Package(ctx, req)
			if pkgErr == nil && push != nil {
				pushed, err := oci.PackageAndPush(ctx, oci.OutputConfig{
					SourceDir:   b.Config.PackageDir(),
					OutputDir:   b.Config.BuildDir(),
					Reference:   push.ref,
					Version:     r.Metadata.Version,
					PlainHTTP:   push.plainHTTP,
					InsecureTLS: push.insecureTLS,
				})
				if err != nil {
					res.MarkFailed(err)
					pkgErr = err
				} else {
					res.Metadata["reference"] = pushed.Reference
					res.Metadata["digest"] = pushed.Digest
					slog.Info("package pushed", "reference", pushed.Reference, "digest", pushed.Digest)
				}
			}
			return report(ctx, cmd, res, pkgErr)
		},
	}
}
