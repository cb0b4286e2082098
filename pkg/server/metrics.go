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
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rtos_recipe_api_requests_total",
		Help: "API requests by route, method and status code.",
	}, []string{"route", "method", "code"})

	apiLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rtos_recipe_api_request_duration_seconds",
		Help:    "API request latency by route.",
		Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
	}, []string{"route"})

	apiInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rtos_recipe_api_requests_in_flight",
		Help: "API requests currently being served.",
	})

	rateLimitRejects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rtos_recipe_api_rate_limited_total",
		Help: "API requests rejected by the rate limiter.",
	})

	panicRecoveries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rtos_recipe_api_panics_total",
		Help: "Handler panics recovered by the API middleware.",
	})
)

// metricsMiddleware instruments one route. The route label is the
// registered pattern, never the raw request path.
func (s *Server) metricsMiddleware(route string, next http.HandlerFunc) http.HandlerFunc {
	latency := apiLatency.WithLabelValues(route)
	return func(w http.ResponseWriter, r *http.Request) {
		apiInFlight.Inc()
		defer apiInFlight.Dec()

		start := time.Now()
		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		latency.Observe(time.Since(start).Seconds())
		apiRequests.WithLabelValues(route, r.Method, strconv.Itoa(rw.Status())).Inc()
	}
}
