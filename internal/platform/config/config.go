package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Config is used to hold all runtime configuration.
type Config struct {
	Marketplace struct {
		Creator        string `envconfig:"CREATOR_ADDRESS"`
		Notary         string `envconfig:"NOTARY_ADDRESS"`
		MaxMakerFeeBps int16  `default:"500" envconfig:"MAX_MAKER_FEE_BPS"`
		MaxTakerFeeBps uint16 `default:"500" envconfig:"MAX_TAKER_FEE_BPS"`
		RecordDeposit  uint64 `default:"2000" envconfig:"RECORD_DEPOSIT"`
		IsTest         bool   `default:"true" envconfig:"IS_TEST"`
	}
	AWS struct {
		Region          string `default:"ap-southeast-2" envconfig:"AWS_REGION" json:"AWS_REGION"`
		AccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID" json:"AWS_ACCESS_KEY_ID"`
		SecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY" json:"AWS_SECRET_ACCESS_KEY"`
	}
	Storage struct {
		Bucket string `default:"standalone" envconfig:"MARKET_STORAGE_BUCKET"`
		Root   string `default:"./tmp" envconfig:"MARKET_STORAGE_ROOT"`
	}
}

// SafeConfig masks sensitive config values
func SafeConfig(cfg Config) *Config {
	cfgSafe := cfg

	if len(cfgSafe.AWS.AccessKeyID) > 0 {
		cfgSafe.AWS.AccessKeyID = "*** Masked ***"
	}
	if len(cfgSafe.AWS.SecretAccessKey) > 0 {
		cfgSafe.AWS.SecretAccessKey = "*** Masked ***"
	}

	return &cfgSafe
}

// Environment returns configuration sourced from environment variables
func Environment() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("M2", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
