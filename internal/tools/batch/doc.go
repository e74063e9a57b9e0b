// Package batch provides common utilities for batch tool parameters.
//
// Batch tools accept lists of items in their arguments. This package
// includes helpers for:
//   - Parsing parameters that accept both single values and arrays
//   - Decoding lists of JSON objects into typed slices
package batch
