// Package stock contains the per-product stock ledger: the Record aggregate
// holding the available/reserved/ordered counters and the append-only Change
// audit trail paired with every counter movement.
package stock
