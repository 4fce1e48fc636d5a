// Package order contains the Order aggregate: ordered lines, the captured
// total, the delivery method, and the lifecycle status machine that governs
// every status change in the system.
package order
