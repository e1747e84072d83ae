// Package config loads studybank settings via viper: baked-in defaults,
// an optional config file in the data dir, and STUDYBANK_* environment
// overrides, in that order of precedence (lowest first).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all runtime settings.
type Config struct {
	DataDir  string `mapstructure:"data_dir"`
	AssetDir string `mapstructure:"asset_dir"`

	CorpusCandidates []string `mapstructure:"corpus_candidates"`
	BookmarkAsset    string   `mapstructure:"bookmark_asset"`
	WeakAsset        string   `mapstructure:"weak_asset"`

	WeakDays      int `mapstructure:"weak_days"`
	WeakMinErrors int `mapstructure:"weak_min_errors"`
	TestLimit     int `mapstructure:"test_limit"`

	LogLevel      string `mapstructure:"log_level"`
	LogMaxSizeMB  int    `mapstructure:"log_max_size_mb"`
	LogMaxBackups int    `mapstructure:"log_max_backups"`
	LogMaxAgeDays int    `mapstructure:"log_max_age_days"`
}

// DefaultDataDir is ~/.studybank.
func DefaultDataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".studybank")
}

// Load reads the configuration. cfgFile may be empty, in which case
// <data dir>/config.yaml is used when present.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	dataDir := DefaultDataDir()
	v.SetDefault("data_dir", dataDir)
	v.SetDefault("asset_dir", filepath.Join(dataDir, "assets"))
	v.SetDefault("corpus_candidates", []string{"questions.json.gz", "questions.json"})
	v.SetDefault("bookmark_asset", "付箋出題.md")
	v.SetDefault("weak_asset", "弱点出題.md")
	v.SetDefault("weak_days", 30)
	v.SetDefault("weak_min_errors", 2)
	v.SetDefault("test_limit", 10)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_max_size_mb", 20)
	v.SetDefault("log_max_backups", 3)
	v.SetDefault("log_max_age_days", 30)

	v.SetEnvPrefix("STUDYBANK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(v.GetString("data_dir"))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("config: read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	// asset_dir tracks a non-default data_dir unless set explicitly.
	if cfg.AssetDir == filepath.Join(dataDir, "assets") && cfg.DataDir != dataDir {
		cfg.AssetDir = filepath.Join(cfg.DataDir, "assets")
	}
	return &cfg, nil
}
