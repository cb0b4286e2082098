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
	"log/slog"
	"net/http"
	"strings"

	"github.com/libhal/rtos-recipe/pkg/logging"
	"github.com/libhal/rtos-recipe/pkg/serializer"
)

const (
	contentTypeJSON = "application/json"
	contentTypeYAML = "application/yaml"
)

// negotiateFormat picks the response format from the format query
// parameter, then the Accept header. JSON is the default.
func negotiateFormat(r *http.Request) serializer.Format {
	switch strings.ToLower(r.URL.Query().Get("format")) {
	case string(serializer.FormatYAML):
		return serializer.FormatYAML
	case string(serializer.FormatJSON):
		return serializer.FormatJSON
	}
	if strings.Contains(r.Header.Get("Accept"), "yaml") {
		return serializer.FormatYAML
	}
	return serializer.FormatJSON
}

// requestFormat picks the body format from Content-Type.
func requestFormat(r *http.Request) serializer.Format {
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		return serializer.FormatYAML
	}
	return serializer.FormatJSON
}

// respond serializes v in the negotiated format.
func respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	format := negotiateFormat(r)
	if format == serializer.FormatYAML {
		w.Header().Set("Content-Type", contentTypeYAML)
	} else {
		w.Header().Set("Content-Type", contentTypeJSON)
	}
	w.WriteHeader(status)

	if err := serializer.NewWriter(format, w).Serialize(r.Context(), v); err != nil {
		logging.FromContext(r.Context()).Warn("failed to write response",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
	}
}
