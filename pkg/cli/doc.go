// Package cli implements the rtosrecipe command-line interface.
//
// # Commands
//
// port - Resolve or list kernel ports:
//
//	rtosrecipe port
//	rtosrecipe port --arch thumbv7em --processor cortex-m4 --float-abi hard
//
// options - List header and build options:
//
//	rtosrecipe options --scope header --format table
//
// header - Render FreeRTOSConfig.h, or check an existing one:
//
//	rtosrecipe header --set configUSE_TIMERS=True -o FreeRTOSConfig.h
//	rtosrecipe header --check include/FreeRTOSConfig.h
//
// build - Write the header, configure, build and test:
//
//	rtosrecipe build --profile stm32f4.yaml --set heap=2
//
// package - Copy licenses and headers, install, and optionally push:
//
//	rtosrecipe package --profile stm32f4.yaml --push oci://ghcr.io/libhal/freertos
//
// serve - Serve port resolution and header rendering over HTTP:
//
//	rtosrecipe serve --port 8080
//
// # Profiles
//
// A profile holds package-manager style settings and option overrides.
// Flags override profile settings and --set overrides profile options:
//
//	kind: Profile
//	settings:
//	  arch: thumbv7em
//	  arch.processor: cortex-m4
//	  arch.float_abi: hard
//	  os: baremetal
//	options:
//	  heap: "4"
//	  configUSE_TIMERS: "True"
//
// # Global Flags
//
//	--log-level      debug, info, warn or error (env RTOS_RECIPE_LOG_LEVEL, LOG_LEVEL)
//	--metrics-file   write Prometheus metrics in text format on exit
//
// Errors are printed to stderr and the process exits 1.
package cli
