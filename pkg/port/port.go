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

package port

import (
	"fmt"
	"strings"

	apperrors "github.com/libhal/rtos-recipe/pkg/errors"
)

// ArchPrefix is the instruction-set prefix shared by every supported target.
const ArchPrefix = "thumb"

// Float ABI values.
const (
	FloatABISoft = "soft"
	FloatABIHard = "hard"

	// DefaultFloatABI applies when the descriptor omits the float ABI.
	DefaultFloatABI = FloatABISoft
)

// Settings keys used by package managers to describe the target.
const (
	SettingArch      = "arch"
	SettingProcessor = "arch.processor"
	SettingFloatABI  = "arch.float_abi"
)

// Identifier names a hardware-specific kernel port.
type Identifier string

// Supported ports.
const (
	ARMCM0  Identifier = "ARM_CM0"
	ARMCM3  Identifier = "ARM_CM3"
	ARMCM4F Identifier = "ARM_CM4F"
)

// String returns the port name.
func (i Identifier) String() string {
	return string(i)
}

// Descriptor identifies the instruction set, processor family and float ABI of a build target.
type Descriptor struct {
	Arch      string `json:"arch" yaml:"arch"`
	Processor string `json:"processor,omitempty" yaml:"processor,omitempty"`
	FloatABI  string `json:"floatABI,omitempty" yaml:"floatABI,omitempty"`
}

// EffectiveFloatABI returns the float ABI, applying DefaultFloatABI when unset.
func (d Descriptor) EffectiveFloatABI() string {
	if d.FloatABI == "" {
		return DefaultFloatABI
	}
	return d.FloatABI
}

// String formats the descriptor for logs.
func (d Descriptor) String() string {
	return fmt.Sprintf("%s/%s/%s", d.Arch, d.Processor, d.EffectiveFloatABI())
}

// FromSettings builds a descriptor from package-manager settings.
func FromSettings(settings map[string]string) Descriptor {
	return Descriptor{
		Arch:      strings.TrimSpace(settings[SettingArch]),
		Processor: strings.TrimSpace(settings[SettingProcessor]),
		FloatABI:  strings.TrimSpace(settings[SettingFloatABI]),
	}
}

// Rule maps a processor family, optionally gated on float ABI, to a port.
type Rule struct {
	// Name describes the rule in listings.
	Name string
	// Match is evaluated against the processor family and the effective float ABI.
	Match func(processor, floatABI string) bool
	// Port is the result when Match succeeds.
	Port Identifier
}

var rules = []Rule{
	{
		Name:  "processor cortex-m0*",
		Match: func(p, _ string) bool { return strings.HasPrefix(p, "cortex-m0") },
		Port:  ARMCM0,
	},
	{
		Name:  "processor cortex-m3",
		Match: func(p, _ string) bool { return p == "cortex-m3" },
		Port:  ARMCM3,
	},
	{
		// No FPU use without a hard float ABI.
		Name:  "processor cortex-m4, float ABI soft",
		Match: func(p, abi string) bool { return p == "cortex-m4" && abi == FloatABISoft },
		Port:  ARMCM3,
	},
	{
		Name:  "processor cortex-m4, float ABI hard",
		Match: func(p, abi string) bool { return p == "cortex-m4" && abi == FloatABIHard },
		Port:  ARMCM4F,
	},
}

// Rules returns the resolution table in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Resolve maps a descriptor to a port identifier. The first matching rule wins.
// Architectures outside the thumb family fail with ErrCodeUnsupportedArchitecture;
// combinations no rule covers fail with ErrCodeUnsupportedTarget.
func Resolve(d Descriptor) (Identifier, error) {
	if !strings.HasPrefix(d.Arch, ArchPrefix) {
		return "", apperrors.NewWithContext(apperrors.ErrCodeUnsupportedArchitecture,
			fmt.Sprintf("architecture not supported: %q", d.Arch),
			map[string]any{"arch": d.Arch})
	}

	abi := d.EffectiveFloatABI()
	for _, r := range rules {
		if r.Match(d.Processor, abi) {
			return r.Port, nil
		}
	}

	return "", apperrors.NewWithContext(apperrors.ErrCodeUnsupportedTarget,
		fmt.Sprintf("processor and float ABI combination not supported: processor %q, float ABI %q", d.Processor, abi),
		map[string]any{"processor": d.Processor, "float_abi": abi})
}

// SupportedPorts returns every port the table can produce, without duplicates.
func SupportedPorts() []Identifier {
	seen := make(map[Identifier]bool, len(rules))
	out := make([]Identifier, 0, len(rules))
	for _, r := range rules {
		if !seen[r.Port] {
			seen[r.Port] = true
			out = append(out, r.Port)
		}
	}
	return out
}
