// Package tournament provides the canonical tournament model shared by
// every source adapter and by the cache document.
//
// The tournament package handles normalization of source-shaped listings
// into Tournament records, calendar date parsing across the formats the
// facility sites use, league/tournament classification of multi-day date
// spans, and deduplication of the pooled records from all sources.
package tournament
