package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

var ErrUnsupportedAdapterType = errors.New("unsupported adapter type")

const (
	AdapterSQLX    = "sqlx.db"
	AdapterSQLDB   = "sql.db"
	AdapterPGXPool = "pgx.pool"
)

const (
	DriverSQLite3   = "sqlite3"
	DriverPostgres  = "postgres"
	SQLiteMemoryDSN = ":memory:"
)

const (
	envPrefix      = "CRITERIA"
	configFileName = "shopquery"

	keyAdapterType = "adapter_type"
	keyDriver      = "driver"
	keyDialect     = "dialect"
	keyDSN         = "dsn"
)

// DatabaseConfig selects how the example connects to its database.
type DatabaseConfig struct {
	AdapterType string
	Driver      string
	Dialect     string // empty: derived from the driver
	DSN         string
}

// DefaultDatabaseConfig is an in-memory SQLite database through sqlx.
func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		AdapterType: AdapterSQLX,
		Driver:      DriverSQLite3,
		DSN:         SQLiteMemoryDSN,
	}
}

// NewViper returns a viper instance with the defaults and environment bindings of DatabaseConfig.
// CRITERIA_ADAPTER_TYPE, CRITERIA_DRIVER, CRITERIA_DIALECT and CRITERIA_DSN override the file.
func NewViper() *viper.Viper {
	defaults := DefaultDatabaseConfig()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault(keyAdapterType, defaults.AdapterType)
	v.SetDefault(keyDriver, defaults.Driver)
	v.SetDefault(keyDialect, defaults.Dialect)
	v.SetDefault(keyDSN, defaults.DSN)

	return v
}

// LoadDatabaseConfig reads shopquery.yaml from configPath if there is one; a missing file is not an error.
func LoadDatabaseConfig(v *viper.Viper, configPath string) (DatabaseConfig, error) {
	if configPath != "" {
		v.SetConfigName(configFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(configPath)

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return DatabaseConfig{}, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	cfg := DatabaseConfig{
		AdapterType: v.GetString(keyAdapterType),
		Driver:      v.GetString(keyDriver),
		Dialect:     v.GetString(keyDialect),
		DSN:         v.GetString(keyDSN),
	}

	if err := cfg.validate(); err != nil {
		return DatabaseConfig{}, err
	}

	return cfg, nil
}

func (c DatabaseConfig) validate() error {
	switch c.AdapterType {
	case AdapterSQLX, AdapterSQLDB, AdapterPGXPool:
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedAdapterType, c.AdapterType)
	}

	if c.DSN == "" {
		return errors.New("empty dsn supplied")
	}

	return nil
}
