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
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	apperrors "github.com/libhal/rtos-recipe/pkg/errors"
	"github.com/libhal/rtos-recipe/pkg/header"
	"github.com/libhal/rtos-recipe/pkg/option"
	"github.com/libhal/rtos-recipe/pkg/recipe"
	"github.com/libhal/rtos-recipe/pkg/render"
)

func newTestServer(t *testing.T, mutate ...func(*Config)) *Server {
	t.Helper()
	cfg := NewConfig()
	cfg.Port = 0
	for _, m := range mutate {
		m(cfg)
	}
	s, err := New(WithConfig(cfg))
	require.NoError(t, err)
	s.setReady(true)
	return s
}

func do(t *testing.T, s *Server, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestNew(t *testing.T) {
	s := newTestServer(t)
	assert.NotNil(t, s.config)
	assert.NotNil(t, s.recipe)
	assert.NotNil(t, s.httpServer)
	assert.NotNil(t, s.rateLimiter)

	_, err := New(WithConfig(&Config{Port: 70000, RateLimit: 1, RateLimitBurst: 1}))
	assert.Error(t, err)

	_, err = New(WithConfig(&Config{Port: 8080}))
	assert.Error(t, err, "zero rate limit")
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9191")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "7")

	cfg := NewConfig()
	assert.Equal(t, 9191, cfg.Port)
	assert.Equal(t, 7*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, ":9191", cfg.Addr())

	t.Setenv("PORT", "not-a-port")
	assert.Equal(t, 8080, NewConfig().Port)
}

func TestHealthAndReady(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, contentTypeJSON, rec.Header().Get("Content-Type"))

	rec = do(t, s, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	s.setReady(false)
	rec = do(t, s, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(t, s, http.MethodPost, "/health", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}

func TestRootAndNotFound(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var root RootResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &root))
	assert.Equal(t, "freertos/10.5.1", root.Recipe)
	assert.True(t, root.Ready)
	assert.Contains(t, root.Routes, "POST /v1/header")

	rec = do(t, s, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ErrCodeNotFound, decodeError(t, rec).Code)
}

func TestPortsListsRules(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/v1/ports", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PortResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, header.KindPortTable, resp.Kind)
	assert.Empty(t, resp.Port)
	require.Len(t, resp.Rules, 4)
	assert.Equal(t, "ARM_CM0", resp.Rules[0].Port)
	assert.Equal(t, "ARM_CM4F", resp.Rules[3].Port)
}

func TestPortsResolve(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		query    string
		status   int
		wantPort string
		wantCode string
	}{
		{"m4 hard", "arch=thumbv7em&processor=cortex-m4&float_abi=hard", http.StatusOK, "ARM_CM4F", ""},
		{"m4 default soft", "arch=thumbv7em&processor=cortex-m4", http.StatusOK, "ARM_CM3", ""},
		{"settings keys", "arch=thumbv6m&arch.processor=cortex-m0plus", http.StatusOK, "ARM_CM0", ""},
		{"m3", "arch=thumbv7m&processor=cortex-m3", http.StatusOK, "ARM_CM3", ""},
		{"x86", "arch=x86_64&processor=cortex-m4", http.StatusUnprocessableEntity, "",
			string(apperrors.ErrCodeUnsupportedArchitecture)},
		{"m7", "arch=thumbv7em&processor=cortex-m7&float_abi=hard", http.StatusUnprocessableEntity, "",
			string(apperrors.ErrCodeUnsupportedTarget)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, "/v1/ports?"+tt.query, nil)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			if tt.wantCode != "" {
				resp := decodeError(t, rec)
				assert.Equal(t, tt.wantCode, resp.Code)
				assert.False(t, resp.Retryable)
				assert.NotEmpty(t, resp.RequestID)
				return
			}
			var resp PortResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantPort, resp.Port)
			assert.NotEmpty(t, resp.Target)
		})
	}
}

func TestOptions(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/v1/options", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp OptionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "freertos", resp.Recipe.Name)
	require.NotEmpty(t, resp.HeaderOptions)
	assert.Equal(t, "configUSE_PREEMPTION", resp.HeaderOptions[0].Name)
	assert.NotEmpty(t, resp.BuildOptions)

	rec = do(t, s, http.MethodGet, "/v1/options?scope=build", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = OptionsResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.HeaderOptions)
	assert.NotEmpty(t, resp.BuildOptions)

	rec = do(t, s, http.MethodGet, "/v1/options?scope=everything", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptionsYAML(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/v1/options?format=yaml&scope=header", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, contentTypeYAML, rec.Header().Get("Content-Type"))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "OptionSchema", doc["kind"])
}

func TestHeaderGet(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/v1/header?set=configUSE_TIMERS=True&set=heap=2", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/x-c")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "FreeRTOSConfig.h")

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "#ifndef FREERTOS_CONFIG_H\n"))
	assert.Contains(t, body, render.TimerPrelude+"\n#define configUSE_TIMERS 1\n")
	assert.NotContains(t, body, "#define heap")

	rec = do(t, s, http.MethodGet, "/v1/header?set=broken", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/v1/header?strict=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHeaderPost(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/v1/header",
		strings.NewReader(`{"options":{"configTOTAL_HEAP_SIZE":"((size_t)(32 * 1024))"},"strict":true}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "#define configTOTAL_HEAP_SIZE ((size_t)(32 * 1024))\n")

	rec = do(t, s, http.MethodPost, "/v1/header", strings.NewReader(""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "#define configUSE_PREEMPTION 1\n")

	rec = do(t, s, http.MethodPost, "/v1/header",
		strings.NewReader(`{"options":{"configUSE_TIMERS":"maybe"}}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(apperrors.ErrCodeInvalidRequest), decodeError(t, rec).Code)

	rec = do(t, s, http.MethodPost, "/v1/header", strings.NewReader("{not json"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodDelete, "/v1/header", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, []string{http.MethodGet, http.MethodPost}, rec.Header().Values("Allow"))
}

func TestHeaderPostNativeScalars(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/v1/header",
		strings.NewReader(`{"options":{"configUSE_TIMERS":true,"configUSE_MUTEXES":false,"configMAX_PRIORITIES":7,"configTIMER_QUEUE_LENGTH":"0x20","heap":2}}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := rec.Body.String()
	assert.Contains(t, body, "#define INCLUDE_xTimerPendFunctionCall 1\n#define configUSE_TIMERS 1\n")
	assert.Contains(t, body, "#define configUSE_MUTEXES 0\n")
	assert.Contains(t, body, "#define configMAX_PRIORITIES 7\n")
	assert.Contains(t, body, "#define configTIMER_QUEUE_LENGTH 0x20\n")

	rec = do(t, s, http.MethodPost, "/v1/header",
		strings.NewReader(`{"options":{"configMAX_PRIORITIES":{"nested":1}}}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHeaderPostYAMLNativeScalars(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/header",
		strings.NewReader("options:\n  configUSE_TIMERS: true\n  configMAX_PRIORITIES: 010\n"))
	req.Header.Set("Content-Type", contentTypeYAML)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "#define configUSE_TIMERS 1\n")
	assert.Contains(t, rec.Body.String(), "#define configMAX_PRIORITIES 010\n")
}

func TestHeaderPostYAML(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/header",
		strings.NewReader("options:\n  configUSE_MUTEXES: \"0\"\n"))
	req.Header.Set("Content-Type", contentTypeYAML)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "#define configUSE_MUTEXES 0\n")
}

func TestHeaderBodyLimit(t *testing.T) {
	s := newTestServer(t, func(c *Config) { c.MaxBodyBytes = 16 })

	rec := do(t, s, http.MethodPost, "/v1/header",
		strings.NewReader(`{"options":{"configUSE_MUTEXES":"0"}}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, "too large")
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(apperrors.ErrCodeInvalidRequest))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(apperrors.ErrCodeUnsupportedTarget))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(apperrors.ErrCodeMissingValue))
	assert.Equal(t, http.StatusNotFound, statusFor(apperrors.ErrCodeNotFound))
	assert.Equal(t, http.StatusGatewayTimeout, statusFor(apperrors.ErrCodeTimeout))
	assert.Equal(t, http.StatusInternalServerError, statusFor(""))
}

func TestServeAndShutdown(t *testing.T) {
	s := newTestServer(t)
	s.setReady(false)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, l) }()

	url := "http://" + l.Addr().String() + "/v1/ports?arch=thumbv7em&processor=cortex-m4&float_abi=hard"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)
	assert.True(t, s.isReady())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.False(t, s.isReady())
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/v1/ports", nil).Code)
	require.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/v1/ports?arch=thumbv6m&processor=cortex-m0", nil).Code)

	rec := do(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(),
		`rtos_recipe_api_requests_total{code="200",method="GET",route="/v1/ports"}`)
	assert.Contains(t, rec.Body.String(), "rtos_recipe_port_resolutions_total")
}

func TestHeaderStrictMissingValue(t *testing.T) {
	r := recipe.New(recipe.FreeRTOSMetadata(),
		option.MustSchema(option.Option{Name: "configTOTAL_HEAP_SIZE", Kind: option.KindAny}),
		option.MustSchema())
	s, err := New(WithRecipe(r))
	require.NoError(t, err)

	rec := do(t, s, http.MethodGet, "/v1/header", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "#define configTOTAL_HEAP_SIZE None\n")

	rec = do(t, s, http.MethodGet, "/v1/header?strict=true", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, string(apperrors.ErrCodeMissingValue), resp.Code)
	assert.False(t, resp.Retryable)
}
