// Package aggregates defines domain-facing aggregate contracts.
//
// These contracts avoid persistence/transport details and mark the write
// boundaries where mobile ingestion invariants are enforced atomically.
package aggregates
