// Package refresh runs the aggregation pipeline: fetch every source
// concurrently, normalize and filter the listings, deduplicate, and
// persist the resulting cache document. A filesystem lock keeps runs
// single-flight across processes.
package refresh
