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

package server

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"

	apperrors "github.com/libhal/rtos-recipe/pkg/errors"
	"github.com/libhal/rtos-recipe/pkg/header"
	"github.com/libhal/rtos-recipe/pkg/logging"
	"github.com/libhal/rtos-recipe/pkg/option"
	"github.com/libhal/rtos-recipe/pkg/port"
	"github.com/libhal/rtos-recipe/pkg/recipe"
	"github.com/libhal/rtos-recipe/pkg/render"
	"github.com/libhal/rtos-recipe/pkg/serializer"
)

// PortRule is one row of the port resolution table.
type PortRule struct {
	Rule string `json:"rule" yaml:"rule"`
	Port string `json:"port" yaml:"port"`
}

// PortResponse is the GET /v1/ports body: the rule table when no target
// is given, otherwise the resolved port.
type PortResponse struct {
	header.Header `json:",inline" yaml:",inline"`

	Target string     `json:"target,omitempty" yaml:"target,omitempty"`
	Port   string     `json:"port,omitempty" yaml:"port,omitempty"`
	Rules  []PortRule `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// OptionsResponse is the GET /v1/options body.
type OptionsResponse struct {
	header.Header `json:",inline" yaml:",inline"`

	Recipe        recipe.Metadata `json:"recipe" yaml:"recipe"`
	HeaderOptions []option.Option `json:"headerOptions,omitempty" yaml:"headerOptions,omitempty"`
	BuildOptions  []option.Option `json:"buildOptions,omitempty" yaml:"buildOptions,omitempty"`
}

// HeaderRequest is the POST /v1/header body. Options take native scalars or
// override text. Build options in Options are accepted and ignored.
type HeaderRequest struct {
	Options map[string]option.Value `json:"options,omitempty" yaml:"options,omitempty"`
	Strict  bool                    `json:"strict,omitempty" yaml:"strict,omitempty"`
}

// Overrides returns the options as override text. Booleans become 1 or 0.
func (h *HeaderRequest) Overrides() map[string]string {
	out := make(map[string]string, len(h.Options))
	for name, v := range h.Options {
		if b, ok := v.AsBool(); ok {
			out[name] = "0"
			if b {
				out[name] = "1"
			}
			continue
		}
		out[name] = v.String()
	}
	return out
}

// handlePorts handles GET /v1/ports
func (s *Server) handlePorts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	doc := &PortResponse{}
	doc.Init(header.KindPortTable, s.config.Version)

	target := targetFromQuery(r.URL.Query())
	if target == (port.Descriptor{}) {
		for _, rule := range port.Rules() {
			doc.Rules = append(doc.Rules, PortRule{Rule: rule.Name, Port: rule.Port.String()})
		}
		respond(w, r, http.StatusOK, doc)
		return
	}

	id, err := s.recipe.Validate(target)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	doc.Target = target.String()
	doc.Port = id.String()
	respond(w, r, http.StatusOK, doc)
}

// targetFromQuery reads the target from short or settings-style keys.
func targetFromQuery(q url.Values) port.Descriptor {
	first := func(keys ...string) string {
		for _, k := range keys {
			if v := q.Get(k); v != "" {
				return v
			}
		}
		return ""
	}
	return port.FromSettings(map[string]string{
		port.SettingArch:      first(port.SettingArch),
		port.SettingProcessor: first("processor", port.SettingProcessor),
		port.SettingFloatABI:  first("float_abi", port.SettingFloatABI),
	})
}

// handleOptions handles GET /v1/options
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	doc := &OptionsResponse{Recipe: s.recipe.Metadata}
	doc.Init(header.KindOptionSchema, s.config.Version)

	switch scope := r.URL.Query().Get("scope"); scope {
	case "", "all":
		doc.HeaderOptions = s.recipe.HeaderSchema().Options()
		doc.BuildOptions = s.recipe.BuildSchema().Options()
	case "header":
		doc.HeaderOptions = s.recipe.HeaderSchema().Options()
	case "build":
		doc.BuildOptions = s.recipe.BuildSchema().Options()
	default:
		writeAppError(w, r, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"unknown option scope", map[string]any{"scope": scope}))
		return
	}

	respond(w, r, http.StatusOK, doc)
}

// handleHeader handles GET and POST /v1/header. GET takes repeated
// set=name=value and strict query parameters; POST takes a HeaderRequest.
func (s *Server) handleHeader(w http.ResponseWriter, r *http.Request) {
	var (
		req       HeaderRequest
		overrides map[string]string
	)
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		parsed, err := option.ParseOverrides(q["set"])
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		overrides = parsed
		if v := q.Get("strict"); v != "" {
			strict, err := strconv.ParseBool(v)
			if err != nil {
				writeAppError(w, r, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
					"strict must be a boolean", map[string]any{"strict": v}))
				return
			}
			req.Strict = strict
		}
	case http.MethodPost:
		if err := decodeBody(r, &req); err != nil {
			writeAppError(w, r, err)
			return
		}
		overrides = req.Overrides()
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
		return
	}

	headerOverrides, buildOverrides := s.recipe.SplitOverrides(overrides)
	if len(buildOverrides) > 0 {
		logging.FromContext(r.Context()).Debug("build options ignored for header rendering",
			"count", len(buildOverrides))
	}

	policy := render.MissingPlaceholder
	if req.Strict {
		policy = render.MissingFatal
	}

	text, err := s.recipe.RenderHeader(headerOverrides, render.WithMissingPolicy(policy))
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/x-c; charset=utf-8")
	w.Header().Set("Content-Disposition", "inline; filename=\""+path.Base(recipe.HeaderPath)+"\"")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, text); err != nil {
		logging.FromContext(r.Context()).Warn("failed to write header", "error", err)
	}
}

// decodeBody reads a JSON or YAML request body into v. An empty body
// leaves v unchanged.
func decodeBody(r *http.Request, v any) error {
	reader, err := serializer.NewReader(requestFormat(r), r.Body)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "unsupported request body", err)
	}
	if err := reader.Deserialize(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
				"request body too large", map[string]any{"limit": tooLarge.Limit})
		}
		return apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid request body", err)
	}
	return nil
}
