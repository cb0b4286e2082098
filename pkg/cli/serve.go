/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"

	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"

	"github.com/libhal/rtos-recipe/pkg/server"
)

func serveCmd() *cli.Command {
	d := server.NewConfig()
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve port resolution and header rendering over HTTP",
		Description: `Starts the recipe API server and blocks until interrupted:

  rtosrecipe serve --port 8080
  curl 'localhost:8080/v1/ports?arch=thumbv7em&processor=cortex-m4&float_abi=hard'
  curl 'localhost:8080/v1/header?set=configUSE_TIMERS=1'`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "address",
				Usage:   "listen address; empty listens on all interfaces",
				Sources: cli.EnvVars("RTOS_RECIPE_ADDRESS"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   d.Port,
				Usage:   "listen port",
				Sources: cli.EnvVars("RTOS_RECIPE_PORT", "PORT"),
			},
			&cli.FloatFlag{
				Name:  "rate-limit",
				Value: float64(d.RateLimit),
				Usage: "API requests per second",
			},
			&cli.IntFlag{
				Name:  "rate-burst",
				Value: d.RateLimitBurst,
				Usage: "API request burst size",
			},
			&cli.DurationFlag{
				Name:  "request-timeout",
				Value: d.RequestTimeout,
				Usage: "maximum duration of a single API request",
			},
			&cli.DurationFlag{
				Name:  "shutdown-timeout",
				Value: d.ShutdownTimeout,
				Usage: "grace period for in-flight requests on shutdown",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := server.NewConfig()
			cfg.Name = name
			cfg.Version = version
			cfg.Address = cmd.String("address")
			cfg.Port = cmd.Int("port")
			cfg.RateLimit = rate.Limit(cmd.Float("rate-limit"))
			cfg.RateLimitBurst = cmd.Int("rate-burst")
			cfg.RequestTimeout = cmd.Duration("request-timeout")
			cfg.ShutdownTimeout = cmd.Duration("shutdown-timeout")

			return server.Run(ctx, cfg)
		},
	}
}
