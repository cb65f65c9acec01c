package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/questx-lab/lotterypool/config"
	"github.com/questx-lab/lotterypool/internal/domain"
	"github.com/questx-lab/lotterypool/internal/domain/asset"
	"github.com/questx-lab/lotterypool/internal/domain/auth"
	"github.com/questx-lab/lotterypool/internal/domain/clock"
	"github.com/questx-lab/lotterypool/internal/domain/entry"
	"github.com/questx-lab/lotterypool/internal/domain/lock"
	"github.com/questx-lab/lotterypool/internal/domain/notify"
	"github.com/questx-lab/lotterypool/internal/domain/round"
	"github.com/questx-lab/lotterypool/internal/domain/settlement"
	"github.com/questx-lab/lotterypool/internal/domain/stats"
	"github.com/questx-lab/lotterypool/internal/domain/yield"
	"github.com/questx-lab/lotterypool/internal/model"
	"github.com/questx-lab/lotterypool/internal/repository"
	"github.com/questx-lab/lotterypool/migration"
	"github.com/questx-lab/lotterypool/pkg/authenticator"
	"github.com/questx-lab/lotterypool/pkg/kafka"
	"github.com/questx-lab/lotterypool/pkg/logger"
	"github.com/questx-lab/lotterypool/pkg/pubsub"
	"github.com/questx-lab/lotterypool/pkg/router"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
	"github.com/questx-lab/lotterypool/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context

	redisClient xredis.Client
	publisher   pubsub.Publisher
	ethClient   *ethclient.Client
	tokenEngine authenticator.TokenEngine[model.AccessToken]

	poolRepo         repository.PoolRepository
	roundRepo        repository.RoundRepository
	playerEntryRepo  repository.PlayerEntryRepository
	poolEventRepo    repository.PoolEventRepository
	assetBalanceRepo repository.AssetBalanceRepository
	marketPosRepo    repository.MarketPositionRepository

	tokens   asset.Provider
	market   yield.Market
	clock    clock.Clock
	locker   lock.Locker
	notifier *notify.Notifier
	registry *round.Registry

	lotteryDomain    domain.LotteryDomain
	assetDomain      domain.AssetDomain
	walletAuthDomain domain.WalletAuthDomain

	router *router.Router
}

func (s *srv) loadConfig(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}

	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(logger.ParseLevel(cfg.LogLevel)))
	return nil
}

func (s *srv) loadDatabase() error {
	cfg := xcontext.Configs(s.ctx).Database

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.New(mysql.Config{
			DSN:                       cfg.ConnectionString(),
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		})
	case "sqlite":
		dialector = sqlite.Open(cfg.ConnectionString())
	default:
		return fmt.Errorf("unknown database driver %s", cfg.Driver)
	}

	logLevel := gormlogger.Silent
	if xcontext.Configs(s.ctx).LogLevel == "debug" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(logLevel)})
	if err != nil {
		return err
	}

	if cfg.Driver == "sqlite" {
		// sqlite allows a single writer.
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	s.ctx = xcontext.WithDB(s.ctx, db)
	return migration.Migrate(s.ctx)
}

func (s *srv) loadRedisClient() error {
	if !xcontext.Configs(s.ctx).Redis.Enable {
		xcontext.Logger(s.ctx).Warnf("Redis is disabled, locks and nonces are kept in process memory")
		s.redisClient = xredis.NewMemoryClient()
		return nil
	}

	client, err := xredis.NewClient(s.ctx)
	if err != nil {
		return err
	}

	s.redisClient = client
	return nil
}

func (s *srv) loadPublisher() error {
	cfg := xcontext.Configs(s.ctx).Kafka
	if !cfg.Enable {
		return nil
	}

	publisher, err := kafka.NewPublisher(cfg.ClientID, strings.Split(cfg.Addr, ","))
	if err != nil {
		return err
	}

	s.publisher = publisher
	return nil
}

func (s *srv) loadEthClient() error {
	cfg := xcontext.Configs(s.ctx)
	if cfg.Asset.Backend != "erc20" && cfg.Clock.Source != "eth" {
		return nil
	}

	client, err := ethclient.DialContext(s.ctx, cfg.Eth.RPC)
	if err != nil {
		return err
	}

	s.ethClient = client
	return nil
}

func (s *srv) loadRepos() {
	s.poolRepo = repository.NewPoolRepository()
	s.roundRepo = repository.NewRoundRepository()
	s.playerEntryRepo = repository.NewPlayerEntryRepository()
	s.poolEventRepo = repository.NewPoolEventRepository()
	s.assetBalanceRepo = repository.NewAssetBalanceRepository()
	s.marketPosRepo = repository.NewMarketPositionRepository()
}

func (s *srv) loadCollaborators() error {
	cfg := xcontext.Configs(s.ctx)

	switch cfg.Asset.Backend {
	case "ledger":
		s.tokens = asset.NewLedgerProvider(s.assetBalanceRepo)
	case "erc20":
		provider, err := asset.NewERC20Provider(s.ctx, s.ethClient, cfg.Eth.PrivateKey)
		if err != nil {
			return err
		}
		s.tokens = provider
	default:
		return fmt.Errorf("unknown asset backend %s", cfg.Asset.Backend)
	}

	switch cfg.Market.Backend {
	case "ledger":
		s.market = yield.NewLedgerMarket(s.marketPosRepo, s.tokens)
	case "rpc":
		client, err := rpc.DialContext(s.ctx, cfg.Market.RPC)
		if err != nil {
			return err
		}
		s.market = yield.NewRPCMarket(client)
	default:
		return fmt.Errorf("unknown market backend %s", cfg.Market.Backend)
	}

	switch cfg.Clock.Source {
	case "system":
		c, err := clock.NewSystemClock(cfg.Clock.NodeID)
		if err != nil {
			return err
		}
		s.clock = c
	case "eth":
		s.clock = clock.NewEthClock(s.ethClient)
	default:
		return fmt.Errorf("unknown clock source %s", cfg.Clock.Source)
	}

	if cfg.Redis.Enable {
		s.locker = lock.NewRedisLocker(s.redisClient, cfg.Redis.LockTTL)
	} else {
		s.locker = lock.NewLocalLocker()
	}

	s.tokenEngine = authenticator.NewTokenEngine[model.AccessToken](
		cfg.Auth.TokenSecret, cfg.Auth.AccessToken.Expiration)
	return nil
}

func (s *srv) loadDomains() {
	yields := yield.NewFactory(s.tokens, s.market)
	s.notifier = notify.NewNotifier(s.poolEventRepo, s.publisher)
	s.registry = round.NewRegistry(s.poolRepo, s.roundRepo, s.clock, auth.NewRequestVerifier())

	s.lotteryDomain = domain.NewLotteryDomain(
		s.registry,
		entry.NewLedger(s.registry, s.poolRepo, s.roundRepo, s.playerEntryRepo, s.tokens, yields, s.notifier),
		settlement.NewEngine(s.registry, s.roundRepo, s.playerEntryRepo, s.tokens, yields, s.notifier),
		stats.NewAggregator(s.registry),
		s.poolEventRepo,
		s.locker,
		s.notifier,
	)
	s.assetDomain = domain.NewAssetDomain(s.tokens)
	s.walletAuthDomain = domain.NewWalletAuthDomain(s.redisClient, s.tokenEngine)
}

// loadAll prepares everything a command serving lottery operations needs.
func (s *srv) loadAll() error {
	loaders := []func() error{
		s.loadDatabase,
		s.loadRedisClient,
		s.loadPublisher,
		s.loadEthClient,
	}

	for _, load := range loaders {
		if err := load(); err != nil {
			return err
		}
	}

	s.loadRepos()
	if err := s.loadCollaborators(); err != nil {
		return err
	}

	s.loadDomains()
	return nil
}
