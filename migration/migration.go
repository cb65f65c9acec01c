package migration

import (
	"context"
	"errors"
	"sort"

	"github.com/questx-lab/lotterypool/internal/entity"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
	"gorm.io/gorm"
)

type Migrator func(context.Context) error

// Migrators are applied in version order. Each version is applied once and
// recorded in the migrations table.
var Migrators = map[string]Migrator{
	"0000": migrate0000,
	"0001": migrate0001,
}

func Migrate(ctx context.Context) error {
	if err := xcontext.DB(ctx).AutoMigrate(&entity.Migration{}); err != nil {
		return err
	}

	versions := make([]string, 0, len(Migrators))
	for v := range Migrators {
		versions = append(versions, v)
	}
	sort.Strings(versions)

	for _, v := range versions {
		if err := Apply(ctx, v); err != nil {
			return err
		}
	}

	return nil
}

// Apply runs the migrator of version if it has not been applied yet.
func Apply(ctx context.Context, version string) error {
	migrator, ok := Migrators[version]
	if !ok {
		return errors.New("not found migration version " + version)
	}

	var m entity.Migration
	err := xcontext.DB(ctx).Take(&m, "version=?", version).Error
	if err == nil {
		return nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := migrator(ctx); err != nil {
		return err
	}

	xcontext.Logger(ctx).Infof("Applied migration %s", version)
	return xcontext.DB(ctx).Create(&entity.Migration{Version: version}).Error
}
