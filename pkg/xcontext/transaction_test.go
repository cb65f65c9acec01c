package xcontext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type counter struct {
	ID    string `gorm:"primarykey"`
	Value int
}

func newTestContext(t *testing.T) context.Context {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&counter{}))
	return WithDB(context.Background(), db)
}

func TestTransaction_Commit(t *testing.T) {
	ctx := newTestContext(t)

	txCtx := WithDBTransaction(ctx)
	require.True(t, InTransaction(txCtx))
	require.NoError(t, DB(txCtx).Create(&counter{ID: "a", Value: 1}).Error)
	require.NoError(t, CommitDBTransaction(txCtx))
	require.False(t, InTransaction(txCtx))

	// Rollback after commit does nothing.
	RollbackDBTransaction(txCtx)

	var c counter
	require.NoError(t, DB(ctx).Take(&c, "id=?", "a").Error)
	require.Equal(t, 1, c.Value)
}

func TestTransaction_Rollback(t *testing.T) {
	ctx := newTestContext(t)

	txCtx := WithDBTransaction(ctx)
	require.NoError(t, DB(txCtx).Create(&counter{ID: "b", Value: 1}).Error)
	RollbackDBTransaction(txCtx)

	var c counter
	err := DB(ctx).Take(&c, "id=?", "b").Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRequestUserID(t *testing.T) {
	ctx := context.Background()
	require.Equal(t, "", RequestUserID(ctx))

	ctx = WithRequestUserID(ctx, "alice")
	require.Equal(t, "alice", RequestUserID(ctx))
}
