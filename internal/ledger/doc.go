// Package ledger provides the SQLite-backed release ledger: the single
// "releases" table keyed by (release, branch) that downstream build
// machinery consumes.
//
// The ledger's one non-trivial operation is Reconcile, which runs inside
// a transaction and has exactly three outcomes:
//
//   - no row for the key: insert a fresh row in state NEW
//   - a row exists with the same commit: no-op
//   - a row exists with a different commit: delete it and insert afresh
//     (the tag was deleted and re-created between pushes)
//
// Rows are otherwise immutable except for the state transition recorded
// by the build dispatcher. The engine never writes the "built" column;
// it is reserved for whatever actually performs builds.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - single connection: SQLite supports one writer at a time
//
// Any SQLite client (including the sqlite3 command-line utility) can
// open and inspect the database.
package ledger
