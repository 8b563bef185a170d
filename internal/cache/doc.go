// Package cache provides the on-disk aggregate cache and the lock that
// serializes refreshes.
//
// The cache is a single JSON document replaced atomically on every
// successful refresh: writers produce a temporary file next to the cache
// and rename it into place, so a concurrent reader always sees either the
// previous or the new complete document. The lock is a directory created
// with an atomic create-if-absent, reclaimable once it goes stale.
package cache
