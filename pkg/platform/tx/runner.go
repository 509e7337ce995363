package tx

import (
	"context"
	"database/sql"
	"fmt"
)

// Runner executes units of work in serializable SQL transactions, carrying
// the transaction to participating stores via context.
type Runner struct {
	db *sql.DB
}

func NewRunner(db *sql.DB) *Runner {
	return &Runner{db: db}
}

// RunInTx begins a serializable transaction, runs fn with the transaction in
// context, and commits. Any error from fn rolls back and is returned as-is
// so domain codes survive the round trip.
func (r *Runner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	sqlTx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(WithTx(ctx, sqlTx)); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
