// Package tips serves species care tips. Generated tips come from a remote
// generation.TipGenerator, are memoized per species for the life of the
// process and are backed by a static fallback derived from the catalog.
package tips
