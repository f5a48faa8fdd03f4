// Package domain contains the core types of the screening engine:
// records, field mappings, identity keys, violations, and run
// statistics. It holds no I/O and no adapter concerns.
package domain
