// Package shared holds helpers used by several welldata packages.
//
// The testutil subpackage captures slog output in tests and builds small
// xlsx workbooks on disk with excelize for ingestion and export tests.
package shared
