package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestProcessConfigDefaults(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		viper.Reset()
		cfg := Config{}
		processConfigDefaults(&cfg)

		if cfg.UserAgent == "" {
			t.Error("Expected UserAgent to have a default value")
		}
		if cfg.StoreAPIURL == "" {
			t.Error("Expected StoreAPIURL to have a default value")
		}
		if cfg.ConfigDir == "" {
			t.Error("Expected ConfigDir to have a default value")
		}
	})

	t.Run("respects existing values", func(t *testing.T) {
		viper.Reset()
		cfg := Config{
			UserAgent:   "custom-agent",
			StoreAPIURL: "https://example.test/api",
			ConfigDir:   "/tmp/custom",
		}
		processConfigDefaults(&cfg)

		if cfg.UserAgent != "custom-agent" {
			t.Errorf("Expected UserAgent to stay custom-agent, got %s", cfg.UserAgent)
		}
		if cfg.StoreAPIURL != "https://example.test/api" {
			t.Errorf("Expected StoreAPIURL to stay custom, got %s", cfg.StoreAPIURL)
		}
		if cfg.ConfigDir != "/tmp/custom" {
			t.Errorf("Expected ConfigDir to stay custom, got %s", cfg.ConfigDir)
		}
	})
}

func TestValidateAndEnsureDirectories(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("creates config and secondary directories", func(t *testing.T) {
		cfg := Config{
			ConfigDir:         filepath.Join(tmpDir, "config"),
			SecondaryModsPath: filepath.Join(tmpDir, "secondary"),
		}
		if err := validateAndEnsureDirectories(&cfg); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		for _, path := range []string{cfg.ConfigDir, cfg.SecondaryModsPath} {
			if _, err := os.Stat(path); os.IsNotExist(err) {
				t.Errorf("Directory %s was not created", path)
			}
		}
	})

	t.Run("never creates the game path", func(t *testing.T) {
		gamePath := filepath.Join(tmpDir, "game")
		cfg := Config{
			ConfigDir: filepath.Join(tmpDir, "config2"),
			GamePath:  gamePath,
		}
		if err := validateAndEnsureDirectories(&cfg); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if _, err := os.Stat(gamePath); !os.IsNotExist(err) {
			t.Error("Expected game path to be left alone")
		}
	})
}

func TestSecondaryPathFor(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("unsupported title yields empty", func(t *testing.T) {
		cfg := Config{SecondaryModsPath: tmpDir, GameKey: "empire"}
		if got := cfg.SecondaryPathFor(cfg.Game()); got != "" {
			t.Errorf("Expected empty secondary path, got %s", got)
		}
	})

	t.Run("supported title gets per-game folder", func(t *testing.T) {
		cfg := Config{SecondaryModsPath: tmpDir, GameKey: "warhammer_3"}
		got := cfg.SecondaryPathFor(cfg.Game())
		if got == "" {
			t.Fatal("Expected a secondary path")
		}
		if filepath.Base(got) != "warhammer_3" {
			t.Errorf("Expected per-game folder, got %s", got)
		}
		if _, err := os.Stat(got); err != nil {
			t.Errorf("Expected folder to exist: %v", err)
		}
	})
}
