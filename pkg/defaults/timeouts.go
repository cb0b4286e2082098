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

package defaults

import "time"

// Build tool timeouts for external configure/build/test steps.
const (
	// BuildToolStepTimeout bounds a single build tool invocation.
	// Steps respect parent context deadlines when shorter.
	BuildToolStepTimeout = 10 * time.Minute

	// BuildToolVersionTimeout bounds the build tool version probe.
	BuildToolVersionTimeout = 10 * time.Second

	// BuildTimeout bounds a complete build, all steps included.
	BuildTimeout = 30 * time.Minute
)

// Packaging timeouts for package folder and artifact operations.
const (
	// PackageCopyTimeout bounds copying licenses and headers into the package folder.
	PackageCopyTimeout = 1 * time.Minute

	// OCIPackageTimeout bounds writing the local OCI image layout.
	OCIPackageTimeout = 2 * time.Minute

	// OCIPushTimeout bounds pushing an artifact to a remote registry.
	OCIPushTimeout = 5 * time.Minute
)

// HTTP client timeouts for registry requests.
const (
	// HTTPClientTimeout is the default total timeout for HTTP requests.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second
)

// HTTP server timeouts for the serve command.
const (
	// ServerReadTimeout is the maximum duration for reading a request.
	ServerReadTimeout = 10 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the keep-alive idle limit.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout bounds graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second

	// ServerRequestTimeout bounds a single API request.
	ServerRequestTimeout = 5 * time.Second
)

// CLI defaults.
const (
	// CLIBuildTimeout is the default timeout for the build and package commands.
	CLIBuildTimeout = BuildTimeout
)
