package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	EnvToken     = "TINKOFF_INVEST_TOKEN"
	EnvAccountID = "TINKOFF_INVEST_ACCOUNT_ID"
)

func Parse(filename string) (cfg Config, err error) {
	if _, err = toml.DecodeFile(filename, &cfg); err != nil {
		return
	}
	applyEnv(&cfg)
	return
}

// LoadDotEnv fills the process environment from the given files.
// Missing files are ignored.
func LoadDotEnv(filenames ...string) error {
	for _, f := range filenames {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvToken); v != "" {
		cfg.Clients.TinkoffInvest.Token = v
	}
	if v := os.Getenv(EnvAccountID); v != "" {
		cfg.Clients.TinkoffInvest.AccountID = v
	}
}
