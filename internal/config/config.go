package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// SetDefaults registers every configuration default on the given viper
// instance. Keys mirror the config file structure and are overridable via
// DEGREES_ environment variables.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", filepath.Join("$HOME", ".local", "share", "degrees", "degrees.db"))

	v.SetDefault("llm.provider", "heuristic")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.max_tokens", 1000)
	v.SetDefault("llm.rate_limit", 60)

	v.SetDefault("pipeline.concurrency", 4)

	v.SetDefault("gmail.token_file", filepath.Join("$HOME", ".config", "degrees", "token.json"))
	v.SetDefault("gmail.query", "-category:promotions -category:social")
	v.SetDefault("gmail.max_messages", 500)
}
