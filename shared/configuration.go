package shared

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const CONFIG_PREFIX = "AURORABABY"

type AppConfig struct {
	SqlDialect             string `split_words:"true" default:"postgres"`
	PgUsername             string `split_words:"true" default:"postgres"`
	PgPassword             string `split_words:"true" default:"postgres"`
	PgContactPoint         string `split_words:"true" default:"127.0.0.1"`
	PgContactPort          string `split_words:"true" default:"5432"`
	PgDbName               string `split_words:"true" default:"aurorababy"`
	SqlitePath             string `split_words:"true" default:"./aurora_baby.db"`
	SqlMigrationsSourceDir string `split_words:"true" default:"./sql"`
	StartupMigration       bool   `split_words:"true" default:"false"`

	JwtSecret      string `split_words:"true" default:"secret_key"`
	HttpPort       string `split_words:"true" default:"5000"`
	FrontendOrigin string `split_words:"true" default:"http://localhost:3000"`
}

func (c *AppConfig) ConnectString() string {
	if c.SqlDialect == "sqlite3" {
		return c.SqlitePath
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.PgContactPoint,
		c.PgContactPort,
		c.PgUsername,
		c.PgPassword,
		c.PgDbName)
}

func InitAppConfiguration() (config *AppConfig, err error) {
	// .env is optional, explicit env vars win
	godotenv.Load()

	config = &AppConfig{}
	if err := envconfig.Process(CONFIG_PREFIX, config); err != nil {
		return nil, fmt.Errorf("failed to parse env vars: %v", err)
	}

	return
}
