package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	GitHub   GitHubConfig
	Sync     SyncConfig
}

type ServerConfig struct {
	Port         string
	Mode         string
	ReadTimeout  int
	WriteTimeout int
}

type DatabaseConfig struct {
	Path string
}

type GitHubConfig struct {
	// Token is optional. Without it the API still works, just with the
	// lower unauthenticated rate budget.
	Token string
}

type SyncConfig struct {
	BatchSize         int
	BatchDelaySeconds int
	FreshnessHours    int
	MaxIssues         int
	MaxPullRequests   int
	MaxReleases       int
	MaxBranches       int
	MaxContributors   int
}

var AppConfig *Config

// Load loads configuration from .env file and environment variables
func Load() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Mode:         getEnv("GIN_MODE", "release"),
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 15),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./reposcope.db"),
		},
		GitHub: GitHubConfig{
			Token: getEnv("GITHUB_TOKEN", ""),
		},
		Sync: SyncConfig{
			BatchSize:         getEnvAsInt("SYNC_BATCH_SIZE", 5),
			BatchDelaySeconds: getEnvAsInt("SYNC_BATCH_DELAY_SECONDS", 2),
			FreshnessHours:    getEnvAsInt("SYNC_FRESHNESS_HOURS", 1),
			MaxIssues:         getEnvAsInt("SYNC_MAX_ISSUES", 20),
			MaxPullRequests:   getEnvAsInt("SYNC_MAX_PRS", 20),
			MaxReleases:       getEnvAsInt("SYNC_MAX_RELEASES", 10),
			MaxBranches:       getEnvAsInt("SYNC_MAX_BRANCHES", 20),
			MaxContributors:   getEnvAsInt("SYNC_MAX_CONTRIBUTORS", 10),
		},
	}

	return nil
}

// SyncDefaults returns the configured sync knobs, falling back to the
// built-in defaults when Load has not been called (e.g. in tests).
func SyncDefaults() SyncConfig {
	if AppConfig != nil {
		return AppConfig.Sync
	}
	return SyncConfig{
		BatchSize:         5,
		BatchDelaySeconds: 2,
		FreshnessHours:    1,
		MaxIssues:         20,
		MaxPullRequests:   20,
		MaxReleases:       10,
		MaxBranches:       20,
		MaxContributors:   10,
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
