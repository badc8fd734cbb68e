package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configName = "timebox"
	envPrefix  = "TIMEBOX"
)

type Config struct {
	DataDir     string
	StoreDir    string
	CacheDBPath string
	ServerDB    string
	ServerAddr  string
	SyncAPIBase string
	SyncTimeout time.Duration
	LogLevel    string
	Location    *time.Location
}

// Load resolves configuration from defaults, an optional timebox.yaml in
// dataDir, and TIMEBOX_* environment variables, in increasing precedence.
func Load(dataDir string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.AddConfigPath(dataDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("store_dir", filepath.Join(dataDir, "store"))
	v.SetDefault("cache_db", filepath.Join(dataDir, "cache.db"))
	v.SetDefault("server_db", filepath.Join(dataDir, "server.db"))
	v.SetDefault("server.addr", ":8787")
	v.SetDefault("sync.api_base", "")
	v.SetDefault("sync.timeout", 30*time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("timezone", "Local")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	loc, err := time.LoadLocation(v.GetString("timezone"))
	if err != nil {
		return Config{}, fmt.Errorf("load timezone: %w", err)
	}
	timeout := v.GetDuration("sync.timeout")
	if timeout <= 0 {
		return Config{}, fmt.Errorf("sync.timeout must be positive")
	}

	return Config{
		DataDir:     dataDir,
		StoreDir:    v.GetString("store_dir"),
		CacheDBPath: v.GetString("cache_db"),
		ServerDB:    v.GetString("server_db"),
		ServerAddr:  v.GetString("server.addr"),
		SyncAPIBase: strings.TrimRight(v.GetString("sync.api_base"), "/"),
		SyncTimeout: timeout,
		LogLevel:    v.GetString("log_level"),
		Location:    loc,
	}, nil
}
