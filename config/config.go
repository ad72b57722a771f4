package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"pack-mod-manager/fsutil"
	"pack-mod-manager/games"
)

// Config holds all configuration for the application.
// Values are loaded by Viper from a config file and/or environment variables.
type Config struct {
	GameKey           string `mapstructure:"GAME"`
	GamePath          string `mapstructure:"GAME_PATH"`
	SecondaryModsPath string `mapstructure:"SECONDARY_MODS_PATH"`
	StoreAPIURL       string `mapstructure:"STORE_API_URL"`
	StoreAPIKey       string `mapstructure:"STORE_API_KEY"`
	UserAgent         string `mapstructure:"USERAGENT"`
	SkipEnrichment    bool   `mapstructure:"SKIP_ENRICHMENT"`
	ConfigDir         string `mapstructure:"CONFIG_DIR"`
	DatabasePath      string `mapstructure:"-"` // Not from env, derived
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	vipErr := viper.ReadInConfig()
	if _, ok := vipErr.(viper.ConfigFileNotFoundError); ok {
		slog.Info("Config file (.env) not found, relying on environment variables.")
	} else if vipErr != nil {
		return Config{}, fmt.Errorf("fatal error config file: %w", vipErr)
	}

	viper.AutomaticEnv()

	for key, env := range map[string]string{
		"game":                "GAME",
		"game_path":           "GAME_PATH",
		"secondary_mods_path": "SECONDARY_MODS_PATH",
		"store_api_url":       "STORE_API_URL",
		"store_api_key":       "STORE_API_KEY",
		"useragent":           "USERAGENT",
		"skip_enrichment":     "SKIP_ENRICHMENT",
		"config_dir":          "CONFIG_DIR",
	} {
		if bindErr := viper.BindEnv(key, env); bindErr != nil {
			slog.Warn("Unable to bind env var", "var", env, "error", bindErr)
		}
	}

	if vipErr = viper.Unmarshal(&config); vipErr != nil {
		return Config{}, fmt.Errorf("unable to decode into struct, %w", vipErr)
	}

	processConfigDefaults(&config)

	if config.GameKey == "" {
		slog.Error("GAME is not set")
		return Config{}, fmt.Errorf("GAME is required")
	}
	if _, err := games.Get(config.GameKey); err != nil {
		return Config{}, err
	}
	if config.GamePath == "" {
		slog.Error("GAME_PATH is not set")
		return Config{}, fmt.Errorf("GAME_PATH is required")
	}

	if err := validateAndEnsureDirectories(&config); err != nil {
		return Config{}, err
	}

	// Place the metadata cache next to the registry documents.
	config.DatabasePath = filepath.Join(config.ConfigDir, "metadata_cache.db")

	return config, nil
}

// processConfigDefaults fills in values not provided by file or environment.
func processConfigDefaults(cfg *Config) {
	if cfg.UserAgent == "" {
		cfg.UserAgent = "pack-mod-manager/dev (unknown-user)"
		slog.Warn("USERAGENT not set in config or environment, using default.")
	}
	if cfg.StoreAPIURL == "" {
		cfg.StoreAPIURL = "https://api.workshop.example.com/v1"
	}
	if cfg.ConfigDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base = "."
		}
		cfg.ConfigDir = filepath.Join(base, "pack-mod-manager")
	}
}

// validateAndEnsureDirectories creates the directories the manager owns.
// The game installation itself is never created here: a missing game path
// degrades to an empty scan instead.
func validateAndEnsureDirectories(cfg *Config) error {
	if err := os.MkdirAll(cfg.ConfigDir, 0755); err != nil {
		slog.Error("Failed to create config directory", "path", cfg.ConfigDir, "error", err)
		return err
	}
	if cfg.SecondaryModsPath != "" {
		if err := os.MkdirAll(cfg.SecondaryModsPath, 0755); err != nil {
			slog.Error("Failed to create secondary mods directory", "path", cfg.SecondaryModsPath, "error", err)
			return err
		}
	}
	return nil
}

// Game returns the capability descriptor for the configured title.
func (c Config) Game() *games.Game {
	g, _ := games.Get(c.GameKey)
	return g
}

// SecondaryPathFor returns the per-game secondary mods folder, creating it
// on first use. Returns "" when the base path is unset or the title has no
// secondary folder support.
func (c Config) SecondaryPathFor(game *games.Game) string {
	if c.SecondaryModsPath == "" || !game.SupportsSecondaryFolder {
		return ""
	}
	path := filepath.Join(c.SecondaryModsPath, game.Key)
	if err := os.MkdirAll(path, 0755); err != nil {
		slog.Warn("Failed to create per-game secondary folder", "path", path, "error", err)
		return ""
	}
	return fsutil.Canonical(path)
}

// ExtractedDir is the scratch folder regenerated from pack resources after
// every load-order rebuild.
func (c Config) ExtractedDir() string {
	return filepath.Join(c.ConfigDir, "extracted", c.GameKey)
}
