//go:build !udf_debug

package udf

const debugContracts = false
