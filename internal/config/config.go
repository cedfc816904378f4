package config

import (
	"github.com/spf13/viper"

	"github.com/akhmelev/evo-backend/internal/engine"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Game     engine.Rules   `mapstructure:"game"`
}

type ServerConfig struct {
	HTTPAddress string `mapstructure:"http_address"`
	Namespace   string `mapstructure:"namespace"`
}

type DatabaseConfig struct {
	// DSN empty means the in-memory user store.
	DSN string `mapstructure:"dsn"`
}

// Load reads config.yaml from path with environment overrides. A missing
// file is fine: every key has a default and env vars still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetDefault("server.http_address", ":8080")
	v.SetDefault("server.namespace", "evo")
	v.SetDefault("database.dsn", "")

	defaults := engine.DefaultRules()
	v.SetDefault("game.continent_slots", defaults.ContinentSlots)
	v.SetDefault("game.max_traits_per_animal", defaults.MaxTraitsPerAnimal)
	v.SetDefault("game.hand_size", defaults.HandSize)
	v.SetDefault("game.copies_per_kind", defaults.CopiesPerKind)
	v.SetDefault("game.food_base", defaults.FoodBase)
	v.SetDefault("game.food_dice", defaults.FoodDice)

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
