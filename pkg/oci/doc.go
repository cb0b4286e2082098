// Package oci publishes kernel package folders as OCI artifacts.
//
// Package archives the folder as one reproducible gzip layer under an OCI 1.1
// manifest with ArtifactType, written to a local image layout. PushFromStore
// copies that artifact to a remote registry using Docker credential helpers:
//
//	ref, err := oci.ParseOutputTarget("oci://ghcr.io/libhal/freertos:10.5.1")
//	res, err := oci.PackageAndPush(ctx, oci.OutputConfig{
//	    SourceDir: "build/package",
//	    OutputDir: "build",
//	    Reference: ref,
//	    Version:   "10.5.1",
//	})
package oci
