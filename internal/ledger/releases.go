package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/reltrack/reltrack/internal/release"
)

// States recorded in the "state" column. A row starts in StateNew and
// moves to StateSuccess or a failure marker exactly once.
const (
	StateNew     = "NEW"
	StateSuccess = "SUCCESS"
)

// FailureState encodes a build executor's non-zero exit status as a
// terminal state, e.g. "FAILED (3)".
func FailureState(code int) string {
	return fmt.Sprintf("FAILED (%d)", code)
}

// timeLayout is how timestamps are rendered into DATETIME columns.
const timeLayout = "2006-01-02 15:04:05"

// PendingBuild identifies a ledger row awaiting a build.
type PendingBuild struct {
	Commit  string
	Branch  string
	Release string
}

// Reconcile folds one discovered candidate into the ledger inside a
// single transaction. If no row exists for (version, branch) a fresh row
// is inserted in state NEW. If a row exists pinned to the same commit
// nothing happens. If it is pinned to a different commit the old row is
// deleted and the candidate inserted afresh, picking up a new added
// timestamp and resetting the state to NEW.
func (l *Ledger) Reconcile(ctx context.Context, c release.Candidate) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("reconcile: begin tx: %w", err)
	}
	defer tx.Rollback() // no-op if committed

	const selectSQL = `SELECT "commit" FROM "releases" WHERE "release" = ? AND "branch" = ?`
	var existing string
	err = tx.QueryRowContext(ctx, selectSQL, c.Version, c.Branch).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// fall through to insert
	case err != nil:
		return fmt.Errorf("while executing %q: %w", selectSQL, err)
	case existing == c.Commit:
		// Already recorded against this exact commit; the rollback
		// makes the transaction a no-op.
		return nil
	default:
		const deleteSQL = `DELETE FROM "releases" WHERE "release" = ? AND "branch" = ?`
		if _, err := tx.ExecContext(ctx, deleteSQL, c.Version, c.Branch); err != nil {
			return fmt.Errorf("while executing %q: %w", deleteSQL, err)
		}
	}

	const insertSQL = `
		INSERT INTO "releases" ("release", "branch", "commit", "when", "added", "state")
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, insertSQL,
		c.Version,
		c.Branch,
		c.Commit,
		c.When.Format(timeLayout),
		time.Now().UTC().Format(timeLayout),
		StateNew,
	)
	if err != nil {
		return fmt.Errorf("while executing %q: %w", insertSQL, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("reconcile: commit tx: %w", err)
	}

	slog.Info("added release",
		"commit", release.ShortHash(c.Commit),
		"release", c.Version,
		"branch", c.Branch)
	return nil
}

// Pending returns every row still in state NEW, in a stable order.
func (l *Ledger) Pending(ctx context.Context) ([]PendingBuild, error) {
	const querySQL = `
		SELECT "commit", "branch", "release" FROM "releases"
		WHERE "state" = ?
		ORDER BY "branch", "release"`
	rows, err := l.db.QueryContext(ctx, querySQL, StateNew)
	if err != nil {
		return nil, fmt.Errorf("while executing %q: %w", querySQL, err)
	}
	defer rows.Close()

	var pending []PendingBuild
	for rows.Next() {
		var p PendingBuild
		if err := rows.Scan(&p.Commit, &p.Branch, &p.Release); err != nil {
			return nil, fmt.Errorf("scan pending build: %w", err)
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending builds: %w", err)
	}
	return pending, nil
}

// RecordOutcome sets the terminal state for a (release, branch) key.
// The update is unconditional; callers drive each pending row exactly
// once per pass.
func (l *Ledger) RecordOutcome(ctx context.Context, version, branch, state string) error {
	const updateSQL = `UPDATE "releases" SET "state" = ? WHERE "release" = ? AND "branch" = ?`
	if _, err := l.db.ExecContext(ctx, updateSQL, state, version, branch); err != nil {
		return fmt.Errorf("while executing %q: %w", updateSQL, err)
	}
	return nil
}

// ReleaseForCommit returns the version recorded for a commit on a
// branch, or ok=false if the ledger holds no such row.
func (l *Ledger) ReleaseForCommit(ctx context.Context, branch, commit string) (string, bool, error) {
	const querySQL = `SELECT "release" FROM "releases" WHERE "branch" = ? AND "commit" = ?`
	var version string
	err := l.db.QueryRowContext(ctx, querySQL, branch, commit).Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("while executing %q: %w", querySQL, err)
	}
	return version, true, nil
}
