// Package recipe declares the FreeRTOS package recipe.
//
// # Overview
//
// A Recipe carries the static package metadata and two option schemas, both
// embedded as YAML at build time:
//
//   - schema/freertos.yaml: the FreeRTOSConfig.h options, in header order
//   - schema/build.yaml: heap variant, build type and test switch
//
// Header options flow through the renderer into the generated header. Build
// options never reach the header; they become named build tool variables
// together with the resolved port:
//
//	r, err := recipe.Load()
//	if err != nil {
//	    return err
//	}
//	id, err := r.Validate(port.Descriptor{Arch: "thumbv7em", Processor: "cortex-m4", FloatABI: "hard"})
//	if err != nil {
//	    return err // UNSUPPORTED_ARCHITECTURE or UNSUPPORTED_TARGET
//	}
//	header, build := r.SplitOverrides(overrides)
//	text, err := r.RenderHeader(header)
//	opts, err := r.ResolveBuild(build)
//	vars := opts.Variables(id, recipe.IsBareMetal(osName))
//
// # Metrics
//
// The package registers Prometheus collectors on the default registry:
//
//   - rtos_recipe_build_duration_seconds{step}
//   - rtos_recipe_port_resolutions_total{outcome}
//   - rtos_recipe_header_renders_total{outcome}
//   - rtos_recipe_schema_cache_misses_total
package recipe
