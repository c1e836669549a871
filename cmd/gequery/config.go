package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config keys. Flags share the names.
const (
	keyDocuments  = "documents"
	keyPipeline   = "pipeline"
	keyOutput     = "output"
	keyCollection = "collection"
	keyMetrics    = "metrics"
)

type config struct {
	Documents  string `mapstructure:"documents"`
	Pipeline   string `mapstructure:"pipeline"`
	Output     string `mapstructure:"output"`
	Collection string `mapstructure:"collection"`
	Metrics    bool   `mapstructure:"metrics"`
}

// loadConfig merges, from lowest to highest priority, the config file, the
// GEQUERY_ environment and the flags set on cmd.
func loadConfig(cmd *cobra.Command) (config, error) {
	v := viper.New()
	v.SetEnvPrefix("GEQUERY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return config{}, err
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.Pipeline == "" {
		return config{}, fmt.Errorf("missing %s", keyPipeline)
	}
	return cfg, nil
}
