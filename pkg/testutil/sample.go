package testutil

import (
	"context"
	"reflect"

	"github.com/google/uuid"
	"github.com/questx-lab/lotterypool/internal/entity"
	"github.com/questx-lab/lotterypool/internal/repository"
	"github.com/questx-lab/lotterypool/pkg/ethutil"
)

// SamplePool creates a pool without rounds whose fields are randomized. The
// sample can be overwritten by non-zero fields of init.
func SamplePool(ctx context.Context, init *entity.Pool) (entity.Pool, error) {
	sample := &entity.Pool{
		Base:          entity.Base{ID: uuid.NewString()},
		Handle:        uuid.NewString(),
		Admin:         uuid.NewString(),
		Asset:         "USDC",
		Account:       uuid.NewString(),
		YieldSource:   entity.YieldSourceNone,
		RoundDuration: 3600,
		MinDeposit:    1,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewPoolRepository().Create(ctx, sample); err != nil {
		return *sample, err
	}

	return *sample, nil
}

// Fund credits amount of asset to every account on the asset ledger. Hex
// accounts are credited in checksum form.
func Fund(ctx context.Context, asset string, amount int64, accounts ...string) error {
	repo := repository.NewAssetBalanceRepository()
	for _, account := range accounts {
		if err := repo.Increase(ctx, asset, ethutil.NormalizeAccount(account), amount); err != nil {
			return err
		}
	}

	return nil
}

func overwriteFields[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if !overwriteField.IsZero() {
			originValue.Field(i).Set(overwriteField)
		}
	}
}
