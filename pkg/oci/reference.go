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

package oci

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/distribution/reference"

	apperrors "github.com/libhal/rtos-recipe/pkg/errors"
)

// URIScheme is the URI scheme for OCI registry output (e.g., "oci://ghcr.io/org/repo:tag").
const URIScheme = "oci://"

// Reference is a parsed output target: an OCI registry reference or a local directory.
type Reference struct {
	IsOCI      bool
	Registry   string
	Repository string
	// Tag is empty when the URI carried none; callers apply a default.
	Tag       string
	LocalPath string
}

// ParseOutputTarget parses oci://registry/repository[:tag] or a plain local path.
func ParseOutputTarget(target string) (*Reference, error) {
	if !strings.HasPrefix(target, URIScheme) {
		return &Reference{LocalPath: target}, nil
	}

	ref, err := reference.ParseNormalizedNamed(strings.TrimPrefix(target, URIScheme))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid OCI reference", err)
	}
	if _, digested := ref.(reference.Digested); digested {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"OCI output must be tagged, not pinned by digest", map[string]any{"target": target})
	}

	registry := reference.Domain(ref)
	repository := reference.Path(ref)

	var tag string
	if tagged, ok := ref.(reference.Tagged); ok {
		tag = tagged.Tag()
	}

	if err := ValidateRegistryReference(registry, repository); err != nil {
		return nil, err
	}

	return &Reference{
		IsOCI:      true,
		Registry:   registry,
		Repository: repository,
		Tag:        tag,
	}, nil
}

// ValidateRegistryReference checks that registry and repository form a
// valid image name. A leading http(s):// on the registry is ignored.
func ValidateRegistryReference(registry, repository string) error {
	name := fmt.Sprintf("%s/%s", stripProtocol(registry), repository)
	named, err := reference.ParseNamed(name)
	if err != nil {
		return apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest, "invalid registry reference", err,
			map[string]any{"registry": registry, "repository": repository})
	}
	if !reference.IsNameOnly(named) {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"repository must not carry a tag or digest", map[string]any{"repository": repository})
	}
	return nil
}

// String returns the reference with its oci:// scheme, or the local path.
func (r *Reference) String() string {
	if !r.IsOCI {
		return r.LocalPath
	}
	return URIScheme + r.ImageReference()
}

// ImageReference returns registry/repository[:tag], or "" for local paths.
func (r *Reference) ImageReference() string {
	if !r.IsOCI {
		return ""
	}
	if r.Tag == "" {
		return fmt.Sprintf("%s/%s", r.Registry, r.Repository)
	}
	return fmt.Sprintf("%s/%s:%s", r.Registry, r.Repository, r.Tag)
}

// WithTag returns a copy carrying tag. Local references are returned unchanged.
func (r *Reference) WithTag(tag string) *Reference {
	if !r.IsOCI {
		return r
	}
	c := *r
	c.Tag = tag
	return &c
}

// OutputConfig configures the package-then-push workflow.
type OutputConfig struct {
	SourceDir   string
	OutputDir   string
	Reference   *Reference
	Version     string
	PlainHTTP   bool
	InsecureTLS bool
	// Annotations replace the default manifest annotations when set.
	Annotations map[string]string
}

// PackageAndPushResult contains the result of a successful package and push.
type PackageAndPushResult struct {
	Digest    string
	Reference string
	StorePath string
}

// DefaultAnnotations returns the manifest annotations for a kernel package.
func DefaultAnnotations(version string) map[string]string {
	return map[string]string{
		"org.opencontainers.image.version": version,
		"org.opencontainers.image.vendor":  "libhal",
		"org.opencontainers.image.title":   "FreeRTOS kernel package",
		"org.opencontainers.image.source":  "https://github.com/libhal/rtos-recipe",
	}
}

// PackageAndPush packages a directory as an OCI artifact and pushes it to a registry.
func PackageAndPush(ctx context.Context, cfg OutputConfig) (*PackageAndPushResult, error) {
	if cfg.Reference == nil || !cfg.Reference.IsOCI {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "OCI reference is required for PackageAndPush")
	}
	if cfg.Reference.Tag == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "tag is required for OCI packaging")
	}

	annotations := cfg.Annotations
	if annotations == nil {
		annotations = DefaultAnnotations(cfg.Version)
	}

	pkg, err := Package(ctx, PackageOptions{
		SourceDir:   cfg.SourceDir,
		OutputDir:   cfg.OutputDir,
		Registry:    cfg.Reference.Registry,
		Repository:  cfg.Reference.Repository,
		Tag:         cfg.Reference.Tag,
		Annotations: annotations,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("pushing OCI artifact",
		"reference", pkg.Reference,
		"digest", pkg.Digest,
	)

	pushed, err := PushFromStore(ctx, pkg.StorePath, PushOptions{
		Registry:    cfg.Reference.Registry,
		Repository:  cfg.Reference.Repository,
		Tag:         cfg.Reference.Tag,
		PlainHTTP:   cfg.PlainHTTP,
		InsecureTLS: cfg.InsecureTLS,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to push OCI artifact to registry", err)
	}

	return &PackageAndPushResult{
		Digest:    pushed.Digest,
		Reference: pushed.Reference,
		StorePath: pkg.StorePath,
	}, nil
}
