// Package kernel contains shared value objects used across all domain
// aggregates: entity identifiers (UUID) and monetary amounts (Money).
// Value objects are immutable and validated at construction.
package kernel
