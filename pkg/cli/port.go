/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/libhal/rtos-recipe/pkg/header"
	"github.com/libhal/rtos-recipe/pkg/port"
	"github.com/libhal/rtos-recipe/pkg/recipe"
	"github.com/libhal/rtos-recipe/pkg/serializer"
)

// portRule is one row of the port table.
type portRule struct {
	Rule string `json:"rule" yaml:"rule"`
	Port string `json:"port" yaml:"port"`
}

// portTable lists the resolution rules, or a single resolution.
type portTable struct {
	header.Header `json:",inline" yaml:",inline"`

	Target string     `json:"target,omitempty" yaml:"target,omitempty"`
	Port   string     `json:"port,omitempty" yaml:"port,omitempty"`
	Rules  []portRule `json:"rules,omitempty" yaml:"rules,omitempty"`
}

func portCmd() *cli.Command {
	return &cli.Command{
		Name:  "port",
		Usage: "Resolve the FreeRTOS port for a target, or list the resolution rules",
		Description: `Without target flags or a profile, prints the rules in evaluation order.
With a target, prints the port the build would use:

  rtosrecipe port --arch thumbv7em --processor cortex-m4 --float-abi hard

Unsupported targets fail with UNSUPPORTED_ARCHITECTURE or UNSUPPORTED_TARGET.`,
		Flags: append(targetFlags(), profileFlag(), outputFlag(), formatFlag()),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			doc := &portTable{}
			doc.Init(header.KindPortTable, version)

			if !hasTarget(cmd) {
				for _, r := range port.Rules() {
					doc.Rules = append(doc.Rules, portRule{Rule: r.Name, Port: r.Port.String()})
				}
				if format == serializer.FormatTable && cmd.String("output") == "" {
					return writeRuleTable(cmd, doc.Rules)
				}
				return serialize(ctx, cmd, doc)
			}

			req, err := requestFromCmd(ctx, cmd)
			if err != nil {
				return err
			}
			r, err := recipe.Load()
			if err != nil {
				return err
			}
			id, err := r.Validate(req.Target)
			if err != nil {
				return err
			}
			slog.Debug("port resolved", "target", req.Target.String(), "port", id)

			doc.Target = req.Target.String()
			doc.Port = id.String()
			return serialize(ctx, cmd, doc)
		},
	}
}

func hasTarget(cmd *cli.Command) bool {
	for _, f := range []string{"arch", "processor", "float-abi", "profile"} {
		if cmd.IsSet(f) {
			return true
		}
	}
	return false
}

func writeRuleTable(cmd *cli.Command, rules []portRule) error {
	tw := tabwriter.NewWriter(stdout(cmd), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RULE\tPORT")
	for _, r := range rules {
		fmt.Fprintf(tw, "%s\t%s\n", r.Rule, r.Port)
	}
	return tw.Flush()
}

// serialize writes v with the command's output flags.
func serialize(ctx context.Context, cmd *cli.Command, v any) error {
	w, err := newOutputWriter(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := w.Close(); err != nil {
			slog.Warn("failed to close output", "error", err)
		}
	}()
	return w.Serialize(ctx, v)
}
