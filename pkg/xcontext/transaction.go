package xcontext

import (
	"context"

	"gorm.io/gorm"
)

type transaction struct {
	db   *gorm.DB
	done bool
}

// WithDBTransaction begins a database transaction. Until it is committed or
// rolled back, DB(ctx) returns the transaction. Transactions do not nest.
//
// Usage:
//
//	ctx = xcontext.WithDBTransaction(ctx)
//	defer xcontext.RollbackDBTransaction(ctx)
//	...
//	if err := xcontext.CommitDBTransaction(ctx); err != nil { ... }
func WithDBTransaction(ctx context.Context) context.Context {
	return context.WithValue(ctx, txKey{}, &transaction{db: DB(ctx).Begin()})
}

// CommitDBTransaction commits the transaction of ctx. Later rollbacks are
// no-ops.
func CommitDBTransaction(ctx context.Context) error {
	tx, ok := ctx.Value(txKey{}).(*transaction)
	if !ok || tx.done {
		return nil
	}

	tx.done = true
	return tx.db.Commit().Error
}

// RollbackDBTransaction rolls back the transaction of ctx if it was not
// committed yet.
func RollbackDBTransaction(ctx context.Context) {
	tx, ok := ctx.Value(txKey{}).(*transaction)
	if !ok || tx.done {
		return
	}

	tx.done = true
	tx.db.Rollback()
}

// InTransaction reports whether ctx carries an open transaction.
func InTransaction(ctx context.Context) bool {
	tx, ok := ctx.Value(txKey{}).(*transaction)
	return ok && !tx.done
}
