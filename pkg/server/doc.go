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

// Package server exposes the recipe over HTTP.
//
// The API is stateless. Every response except the rendered header is JSON,
// or YAML when requested with ?format=yaml or an Accept header naming yaml.
//
// # Endpoints
//
//	GET  /v1/ports                      port resolution rules
//	GET  /v1/ports?arch=&processor=&float_abi=
//	                                    resolve the port for a target
//	GET  /v1/options[?scope=header|build]
//	                                    option schemas and defaults
//	GET  /v1/header?set=name=value&strict=true
//	POST /v1/header                     render FreeRTOSConfig.h
//	GET  /health, /ready                liveness and readiness
//	GET  /metrics                       Prometheus metrics
//
// Unsupported targets answer 422 with the UNSUPPORTED_ARCHITECTURE or
// UNSUPPORTED_TARGET code. Invalid overrides answer 400.
//
// # Middleware
//
// API routes are wrapped with Prometheus instrumentation, request ID
// propagation (X-Request-Id), panic recovery, token bucket rate limiting
// (golang.org/x/time/rate), a request body limit and a per-request timeout.
//
// # Usage
//
//	cfg := server.NewConfig()
//	cfg.Port = 9090
//	if err := server.Run(ctx, cfg); err != nil {
//	    return err
//	}
package server
