// Package driven defines the outbound ports of the screening engine:
// the annotation sink the checks write through, table readers and
// writers, the run-history store, and the config store. Adapters
// implement these interfaces; the core depends only on them.
package driven
