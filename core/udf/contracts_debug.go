//go:build udf_debug

package udf

// debugContracts turns outcome contract violations into panics.
// Build with: go test -tags udf_debug
const debugContracts = true
