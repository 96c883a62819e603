// Package shared holds code used across packages that belongs to no single
// domain layer.
//
// The testutil subpackage provides a capturing slog handler, transaction and
// ads fixtures, and helpers that write Excel workbooks for loader tests.
package shared
