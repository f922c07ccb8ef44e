// Package aggregates implements the domain aggregate contracts on top of the
// table repos in internal/data/repos.
//
// Each aggregate owns the transaction of its write operation. Ingestion runs
// every stream of a sync inside one transaction, so a failure in any stream
// leaves no partial writes behind.
package aggregates
