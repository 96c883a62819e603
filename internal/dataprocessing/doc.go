// Package dataprocessing turns the raw sales and ads workbooks into the
// canonical transaction and ads tables used by the rest of the pipeline.
//
// # Components
//
//  1. Loader: reads one sheet per period from an Excel workbook into RawRows
//  2. Normalizer: validates the header set, filters completed sales, parses
//     day-first dates and decimal revenue, and cleans product names
//  3. Summarizer: computes the executive summary of an analysis window
//
// # Data Flow
//
//	Workbook → LoadWorkbook → []RawRow → Normalizer → SalesTable / AdsTable → Summarizer
//
// # Error Handling
//
// Missing required columns are reported as *errors.SchemaError and abort the
// run. Individual rows that cannot be parsed are dropped and recorded in
// NormalizeStats. A table with no usable rows yields *errors.EmptyInputError.
package dataprocessing
