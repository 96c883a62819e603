// Package strategy derives one marketing recommendation per customer segment.
//
// For every segment present it takes the dominant city, province and product
// of the segment's transaction lines, looks up the age bucket with the most
// ad-driven purchases for that product and fills the segment's strategy
// template.
//
// Ties are resolved deterministically: Mode and TargetAge both prefer the
// lexicographically smallest candidate.
package strategy
