// Package services holds the application services behind the HTTP handlers
// and the CLI.
//
// AnalysisService runs the analysis pipeline for a period and shapes its
// output for the summary, customers, segments and strategies views. It also
// exports the strategy and customer tables as CSV.
//
// HealthService reports liveness, readiness and version information.
// Readiness requires both input workbooks to be present.
package services
