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

package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/libhal/rtos-recipe/pkg/builder/config"
	"github.com/libhal/rtos-recipe/pkg/buildtool"
	"github.com/libhal/rtos-recipe/pkg/serializer"
)

// runCLI runs the root command with args and returns what it wrote to stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.Writer = &out
	root.ErrWriter = io.Discard
	err := root.Run(context.Background(), append([]string{name, "--log-level", "error"}, args...))
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// fakeTool records build tool calls instead of running cmake.
type fakeTool struct {
	mu    sync.Mutex
	calls []string
	vars  map[string]string
}

func (f *fakeTool) Name() string { return "fake" }

func (f *fakeTool) record(step string) (*buildtool.StepResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, step)
	return &buildtool.StepResult{Step: step, Command: "fake " + step, Duration: time.Millisecond}, nil
}

func (f *fakeTool) Configure(_ context.Context, vars map[string]string) (*buildtool.StepResult, error) {
	f.vars = vars
	return f.record(buildtool.StepConfigure)
}

func (f *fakeTool) Build(context.Context) (*buildtool.StepResult, error) {
	return f.record(buildtool.StepBuild)
}

func (f *fakeTool) Install(_ context.Context, prefix string) (*buildtool.StepResult, error) {
	if err := os.MkdirAll(filepath.Join(prefix, "lib"), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(prefix, "lib", "libfreertos.a"), []byte("!<arch>\n"), 0o644); err != nil {
		return nil, err
	}
	return f.record(buildtool.StepInstall)
}

func (f *fakeTool) Test(context.Context) (*buildtool.StepResult, error) {
	return f.record(buildtool.StepTest)
}

// useFakeTool swaps the tool factory for the duration of the test.
func useFakeTool(t *testing.T) *fakeTool {
	t.Helper()
	tool := &fakeTool{}
	prev := toolFactory
	toolFactory = func(*config.Config, string) buildtool.Tool { return tool }
	t.Cleanup(func() { toolFactory = prev })
	return tool
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		wantFormat serializer.Format
		wantErr    bool
	}{
		{name: "yaml", format: "yaml", wantFormat: serializer.FormatYAML},
		{name: "json", format: "json", wantFormat: serializer.FormatJSON},
		{name: "table", format: "table", wantFormat: serializer.FormatTable},
		{name: "xml", format: "xml", wantErr: true},
		{name: "empty", format: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cli.Command{
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Value: tt.format},
				},
				Action: func(_ context.Context, c *cli.Command) error {
					got, err := parseOutputFormat(c)
					if (err != nil) != tt.wantErr {
						t.Errorf("parseOutputFormat() error = %v, wantErr %v", err, tt.wantErr)
						return nil
					}
					if !tt.wantErr && got != tt.wantFormat {
						t.Errorf("parseOutputFormat() = %v, want %v", got, tt.wantFormat)
					}
					return nil
				},
			}
			require.NoError(t, cmd.Run(context.Background(), []string{"test"}))
		})
	}
}
