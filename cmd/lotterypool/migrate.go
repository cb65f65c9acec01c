package main

import (
	"fmt"

	"github.com/questx-lab/lotterypool/migration"
	"github.com/urfave/cli/v2"
)

// startMigrate applies every pending version, then the one given by
// --version, if any.
func (s *srv) startMigrate(cctx *cli.Context) error {
	if err := s.loadDatabase(); err != nil {
		return err
	}

	version := cctx.String("version")
	if version == "" {
		return nil
	}

	if _, ok := migration.Migrators[version]; !ok {
		return fmt.Errorf("not found version %s", version)
	}

	return migration.Apply(s.ctx, version)
}
