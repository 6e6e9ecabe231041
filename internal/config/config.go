// internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Engine   EngineConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled           bool
	RedisURL          string
	RedisHost         string
	RedisPort         string
	RedisPassword     string
	RedisDB           int
	SummaryTTLSeconds int
}

// EngineConfig holds the forecasting thresholds: consumption lookback window,
// dead stock cutoff, overstock multiplier and the days-of-cover fallback used
// when no reorder policy row exists for a product.
type EngineConfig struct {
	LookbackDays        int
	DeadStockDays       int
	OverstockMultiplier float64
	DefaultDaysOfCover  int
	RecalcWorkers       int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "inventory")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_SUMMARY_TTL_SECONDS", 60)
		viper.SetDefault("ENGINE_LOOKBACK_DAYS", 30)
		viper.SetDefault("ENGINE_DEAD_STOCK_DAYS", 90)
		viper.SetDefault("ENGINE_OVERSTOCK_MULTIPLIER", 3.0)
		viper.SetDefault("ENGINE_DEFAULT_DAYS_OF_COVER", 14)
		viper.SetDefault("ENGINE_RECALC_WORKERS", 4)

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:           viper.GetBool("CACHE_ENABLED"),
				RedisURL:          viper.GetString("REDIS_URL"),
				RedisHost:         viper.GetString("REDIS_HOST"),
				RedisPort:         viper.GetString("REDIS_PORT"),
				RedisPassword:     viper.GetString("REDIS_PASSWORD"),
				RedisDB:           viper.GetInt("REDIS_DB"),
				SummaryTTLSeconds: viper.GetInt("CACHE_SUMMARY_TTL_SECONDS"),
			},
			Engine: EngineConfig{
				LookbackDays:        viper.GetInt("ENGINE_LOOKBACK_DAYS"),
				DeadStockDays:       viper.GetInt("ENGINE_DEAD_STOCK_DAYS"),
				OverstockMultiplier: viper.GetFloat64("ENGINE_OVERSTOCK_MULTIPLIER"),
				DefaultDaysOfCover:  viper.GetInt("ENGINE_DEFAULT_DAYS_OF_COVER"),
				RecalcWorkers:       viper.GetInt("ENGINE_RECALC_WORKERS"),
			},
		}
	})

	return instance
}
