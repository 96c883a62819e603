// Package rfm derives Recency, Frequency and Monetary features per customer
// from the cleaned transaction table.
//
// The snapshot date is the latest transaction of the selected window plus one
// day, so the most recent buyer has a recency of 1. Features are recomputed
// for every window and never stored.
package rfm
