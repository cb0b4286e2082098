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

package recipe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

var (
	// Build metrics
	buildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rtos_recipe_build_duration_seconds",
			Help:    "Duration of recipe build steps in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"step"},
	)

	// Port resolution metrics, labelled by port or error code
	portResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rtos_recipe_port_resolutions_total",
			Help: "Total number of port resolutions by outcome",
		},
		[]string{"outcome"},
	)

	// Header render metrics
	headerRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rtos_recipe_header_renders_total",
			Help: "Total number of FreeRTOSConfig.h renders by outcome",
		},
		[]string{"outcome"},
	)

	// Embedded schema cache metrics
	schemaCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rtos_recipe_schema_cache_misses_total",
			Help: "Total number of embedded schema loads",
		},
	)
)
