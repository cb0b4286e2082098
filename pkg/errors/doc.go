// Package errors provides structured error types for better observability
// and programmatic error handling across the recipe.
//
// The two fatal target errors raised by the port resolver carry the offending
// values in Context so the package manager can present them to the operator:
//
//	err := errors.NewWithContext(
//	    errors.ErrCodeUnsupportedTarget,
//	    "processor and float ABI combination not supported",
//	    map[string]any{
//	        "processor": "cortex-m7",
//	        "float_abi": "hard",
//	    },
//	)
package errors
