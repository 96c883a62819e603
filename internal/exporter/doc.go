// Package exporter writes analysis results as CSV files for spreadsheet users.
//
// CSVWriter handles file placement under the reports directory and prefixes
// files with a UTF-8 BOM so Excel detects the encoding. The strategy and
// customer exporters build the rows; EncodeStrategies writes the same table to
// any io.Writer for HTTP downloads.
//
// FormatRupiah renders amounts in the short Indonesian notation used in the
// executive summary.
package exporter
