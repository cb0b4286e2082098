/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/libhal/rtos-recipe/pkg/header"
	"github.com/libhal/rtos-recipe/pkg/option"
	"github.com/libhal/rtos-recipe/pkg/recipe"
	"github.com/libhal/rtos-recipe/pkg/serializer"
)

// Option scopes.
const (
	scopeAll    = "all"
	scopeHeader = "header"
	scopeBuild  = "build"
)

// optionListing is the document written by the options command.
type optionListing struct {
	header.Header `json:",inline" yaml:",inline"`

	Recipe        recipe.Metadata `json:"recipe" yaml:"recipe"`
	HeaderOptions []option.Option `json:"headerOptions,omitempty" yaml:"headerOptions,omitempty"`
	BuildOptions  []option.Option `json:"buildOptions,omitempty" yaml:"buildOptions,omitempty"`
}

func optionsCmd() *cli.Command {
	return &cli.Command{
		Name:  "options",
		Usage: "List the recipe options with their kinds, defaults and allowed values",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "scope",
				Value: scopeAll,
				Usage: fmt.Sprintf("options to list (%s, %s, %s)", scopeAll, scopeHeader, scopeBuild),
			},
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			scope := strings.ToLower(cmd.String("scope"))
			if scope != scopeAll && scope != scopeHeader && scope != scopeBuild {
				return fmt.Errorf("invalid --scope %q, supported: %s, %s, %s", scope, scopeAll, scopeHeader, scopeBuild)
			}

			r, err := recipe.Load()
			if err != nil {
				return err
			}

			doc := &optionListing{Recipe: r.Metadata}
			doc.Init(header.KindOptionSchema, version)
			if scope != scopeBuild {
				doc.HeaderOptions = r.HeaderSchema().Options()
			}
			if scope != scopeHeader {
				doc.BuildOptions = r.BuildSchema().Options()
			}

			if format == serializer.FormatTable && cmd.String("output") == "" {
				return writeOptionTable(cmd, append(doc.BuildOptions, doc.HeaderOptions...))
			}
			return serialize(ctx, cmd, doc)
		},
	}
}

func writeOptionTable(cmd *cli.Command, opts []option.Option) error {
	title := cases.Title(language.English)

	tw := tabwriter.NewWriter(stdout(cmd), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tDEFAULT\tVALUES")
	for _, o := range opts {
		values := make([]string, 0, len(o.Values))
		for _, v := range o.Values {
			values = append(values, v.String())
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", o.Name, title.String(string(o.Kind)), o.Default.String(), strings.Join(values, ","))
	}
	return tw.Flush()
}
