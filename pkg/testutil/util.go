package testutil

import (
	"context"
	"time"

	"github.com/questx-lab/lotterypool/config"
	"github.com/questx-lab/lotterypool/migration"
	"github.com/questx-lab/lotterypool/pkg/logger"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const AssetAdmin = "asset-admin"

// MockContext returns a context with a fresh in-memory database.
func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	// Every connection to :memory: opens a different database.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := config.Default()
	cfg.Auth.AccessToken.Expiration = time.Minute
	cfg.Auth.NonceExpiration = time.Minute
	cfg.Asset.Admin = AssetAdmin

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithDB(ctx, db)

	if err := migration.Migrate(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}

// WithUserID replaces the caller of ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return xcontext.WithRequestUserID(ctx, userID)
}
