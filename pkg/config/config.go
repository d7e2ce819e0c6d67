package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Bucket               string  `mapstructure:"bucket" validate:"required"`
	Prefix               string  `mapstructure:"prefix"`
	DistributionID       string  `mapstructure:"distribution_id"`
	Profile              string  `mapstructure:"profile"`
	Region               string  `mapstructure:"region"`
	MinSavings           float64 `mapstructure:"min_savings"`
	RecommendationTarget string  `mapstructure:"recommendation_target"`
}

// Load reads configuration from the given file, with RIGHTSIZING_*
// environment variables taking precedence. The file may be omitted when
// everything comes from the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("prefix", "projects/ec2-rightsizing")
	v.SetDefault("min_savings", 0.01)
	v.SetDefault("recommendation_target", "CROSS_INSTANCE_FAMILY")

	v.SetEnvPrefix("RIGHTSIZING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal only sees env values for keys viper knows about.
	for _, key := range []string{
		"bucket", "prefix", "distribution_id", "profile",
		"region", "min_savings", "recommendation_target",
	} {
		_ = v.BindEnv(key)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse publisher config: %w", err)
	}

	if config.Bucket == "" {
		return nil, errors.New("bucket is required")
	}
	return &config, nil
}
