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

package result

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/libhal/rtos-recipe/pkg/buildtool"
	"github.com/libhal/rtos-recipe/pkg/header"
)

// Result is the report of one build or package invocation.
type Result struct {
	header.Header `json:",inline" yaml:",inline"`

	// BuildID identifies the invocation in logs and reports.
	BuildID string `json:"buildId" yaml:"buildId"`

	// Target is the arch/processor/float-abi descriptor.
	Target string `json:"target" yaml:"target"`

	// Port is the resolved FreeRTOS port identifier.
	Port string `json:"port" yaml:"port"`

	Heap      int    `json:"heap" yaml:"heap"`
	BuildType string `json:"buildType" yaml:"buildType"`

	// HeaderPath is where FreeRTOSConfig.h was written.
	HeaderPath string `json:"headerPath,omitempty" yaml:"headerPath,omitempty"`
	HeaderSize int64  `json:"headerSize,omitempty" yaml:"headerSize,omitempty"`

	// Steps are the build tool invocations, in order.
	Steps []*buildtool.StepResult `json:"steps,omitempty" yaml:"steps,omitempty"`

	TestsRun bool `json:"testsRun" yaml:"testsRun"`

	// Files lists the package folder contents.
	Files     []File `json:"files,omitempty" yaml:"files,omitempty"`
	TotalSize int64  `json:"totalSizeBytes,omitempty" yaml:"totalSizeBytes,omitempty"`

	Duration time.Duration `json:"duration" yaml:"duration"`
	Success  bool          `json:"success" yaml:"success"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// File is one packaged file.
type File struct {
	Path   string `json:"path" yaml:"path"`
	Size   int64  `json:"size" yaml:"size"`
	SHA256 string `json:"sha256,omitempty" yaml:"sha256,omitempty"`
}

// New returns an empty result with an initialized header.
func New(kind header.Kind, buildID, version string) *Result {
	r := &Result{
		BuildID: buildID,
		Steps:   []*buildtool.StepResult{},
		Files:   []File{},
	}
	r.Init(kind, version)
	r.Metadata["buildId"] = buildID
	return r
}

// AddStep appends a build tool step. Nil steps are ignored.
func (r *Result) AddStep(s *buildtool.StepResult) {
	if s == nil {
		return
	}
	r.Steps = append(r.Steps, s)
}

// AddFile records a packaged file and adds its size to the total.
func (r *Result) AddFile(path string, size int64, digest string) {
	r.Files = append(r.Files, File{Path: path, Size: size, SHA256: digest})
	r.TotalSize += size
}

// MarkSuccess marks the result successful.
func (r *Result) MarkSuccess() {
	r.Success = true
	r.Error = ""
}

// MarkFailed records err and marks the result failed.
func (r *Result) MarkFailed(err error) {
	r.Success = false
	if err != nil {
		r.Error = err.Error()
	}
}

// StepDuration returns the summed duration of all steps.
func (r *Result) StepDuration() time.Duration {
	var d time.Duration
	for _, s := range r.Steps {
		d += s.Duration
	}
	return d
}

// Summary returns a one-line human-readable summary.
func (r *Result) Summary() string {
	status := "succeeded"
	if !r.Success {
		status = "failed"
	}

	s := fmt.Sprintf("%s %s for %s (port %s, heap_%d) %s in %v",
		r.Kind, r.BuildID, r.Target, r.Port, r.Heap, status, r.Duration.Round(time.Millisecond))
	if len(r.Files) > 0 {
		s += fmt.Sprintf(": %s files, %s", humanize.Comma(int64(len(r.Files))), humanize.Bytes(uint64(r.TotalSize)))
	}
	return s
}
