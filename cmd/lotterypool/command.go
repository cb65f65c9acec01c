package main

import (
	"github.com/urfave/cli/v2"
)

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "lotterypool"
	app.Usage = "Pooled-deposit yield lottery"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path of the TOML configuration file",
			EnvVars: []string{"LOTTERYPOOL_CONFIG"},
		},
	}
	app.Before = s.loadConfig
	app.Commands = []*cli.Command{
		{
			Action:   s.startApi,
			Name:     "api",
			Usage:    "Start service api",
			Category: "Api",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "keeper",
					Usage: "also run the keeper in this process",
				},
			},
			Description: `Serves every lottery operation over HTTP.`,
		},
		{
			Action:      s.startKeeper,
			Name:        "keeper",
			Usage:       "Start keeper",
			Category:    "Worker",
			Description: `Settles or renews the ended rounds of every pool periodically.`,
		},
		{
			Action:      s.startWatch,
			Name:        "watch",
			Usage:       "Print pool events from the message bus",
			Category:    "Worker",
			Description: `Subscribes to the lottery event topic and logs every event.`,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "group",
					Value: "lotterypool-watch",
					Usage: "consumer group id",
				},
			},
		},
		{
			Action:   s.startMigrate,
			Name:     "migrate",
			Usage:    "Migrate the database",
			Category: "Database",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "version",
					Usage: "apply only this version",
				},
			},
		},
		{
			Action:   s.initializePool,
			Name:     "pool-init",
			Usage:    "Initialize a pool as its admin",
			Category: "Admin",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "handle", Required: true},
				&cli.StringFlag{Name: "admin", Required: true},
				&cli.StringFlag{Name: "asset", Required: true},
				&cli.StringFlag{Name: "account", Required: true, Usage: "the pool's own account on the asset"},
				&cli.StringFlag{Name: "yield-source", Value: "none", Usage: "none, rate_time_mock or external_pool"},
				&cli.Int64Flag{Name: "yield-rate", Usage: "annual rate in basis points"},
				&cli.StringFlag{Name: "market", Usage: "market address of external_pool"},
				&cli.Int64Flag{Name: "round-duration", Value: 86400, Usage: "in seconds"},
				&cli.Int64Flag{Name: "min-deposit", Value: 1},
			},
		},
		{
			Action:   s.mint,
			Name:     "mint",
			Usage:    "Mint ledger asset as the asset admin",
			Category: "Admin",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "asset", Required: true},
				&cli.StringFlag{Name: "to", Required: true},
				&cli.Int64Flag{Name: "amount", Required: true},
			},
		},
	}

	s.app = app
}
