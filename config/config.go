package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env      string
	LogLevel string

	Database  DatabaseConfigs
	ApiServer ServerConfigs
	Auth      AuthConfigs
	Redis     RedisConfigs
	Kafka     KafkaConfigs
	Eth       EthConfigs
	Asset     AssetConfigs
	Market    MarketConfigs
	Clock     ClockConfigs
	Keeper    KeeperConfigs
}

type DatabaseConfigs struct {
	// Driver is either mysql or sqlite.
	Driver   string
	Host     string
	Port     string
	Database string
	User     string
	Password string
	File     string
}

func (d *DatabaseConfigs) ConnectionString() string {
	if d.Driver == "sqlite" {
		return d.File
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host         string
	Port         string
	AllowOrigins []string
}

type AuthConfigs struct {
	TokenSecret     string
	AccessToken     TokenConfigs
	NonceExpiration time.Duration
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type RedisConfigs struct {
	Enable  bool
	Addr    string
	// LockTTL is how long a pool lock outlives a crashed holder. A live holder
	// renews it until released.
	LockTTL time.Duration
}

type KafkaConfigs struct {
	Enable   bool
	Addr     string
	ClientID string
}

type EthConfigs struct {
	RPC string
	// PrivateKey signs asset transfers out of pool accounts when the asset
	// backend is erc20.
	PrivateKey string
}

type AssetConfigs struct {
	// Backend is either ledger or erc20.
	Backend string
	// Admin is the only account allowed to mint on the ledger backend.
	Admin string
}

type MarketConfigs struct {
	// Backend is either ledger or rpc.
	Backend string
	RPC     string
}

type ClockConfigs struct {
	// Source is either system or eth.
	Source string
	NodeID int64
}

type KeeperConfigs struct {
	Interval time.Duration
}

func Default() Configs {
	return Configs{
		Env:      "local",
		LogLevel: "info",
		Database: DatabaseConfigs{
			Driver: "sqlite",
			File:   "lotterypool.db",
		},
		ApiServer: ServerConfigs{
			Host:         "localhost",
			Port:         "8080",
			AllowOrigins: []string{"*"},
		},
		Auth: AuthConfigs{
			TokenSecret: "secret",
			AccessToken: TokenConfigs{
				Name:       "access_token",
				Expiration: 24 * time.Hour,
			},
			NonceExpiration: 5 * time.Minute,
		},
		Redis: RedisConfigs{
			LockTTL: 30 * time.Second,
		},
		Kafka: KafkaConfigs{
			ClientID: "lotterypool",
		},
		Asset: AssetConfigs{
			Backend: "ledger",
		},
		Market: MarketConfigs{
			Backend: "ledger",
		},
		Clock: ClockConfigs{
			Source: "system",
			NodeID: 1,
		},
		Keeper: KeeperConfigs{
			Interval: 30 * time.Second,
		},
	}
}

// Load decodes the TOML file at path over the default configurations. An
// empty path returns the defaults.
func Load(path string) (Configs, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("cannot decode config file %s: %w", path, err)
	}

	return cfg, nil
}
