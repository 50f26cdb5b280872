package config

import (
	"os"
	"path/filepath"
	"strconv"
)

// Config holds the configuration for the recommender service
type Config struct {
	Server      ServerConfig
	Data        DataConfig
	Recommender RecommenderConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port       string
	EnableCORS bool
}

// DataConfig holds the location of the flat-file data tables
type DataConfig struct {
	Dir             string
	ItemsFile       string
	RatingsFile     string
	GroundTruthFile string
	ImageDir        string
}

// RecommenderConfig holds ranking and evaluation tuning
type RecommenderConfig struct {
	DefaultTopK        int
	RelevanceThreshold float64
	RankWorkers        int
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	dataDir := GetStringEnv("MUSIQ_DATA_DIR", "./data")
	return &Config{
		Server: ServerConfig{
			Port:       GetStringEnv("MUSIQ_PORT", ":8080"),
			EnableCORS: GetBoolEnv("MUSIQ_ENABLE_CORS", true),
		},
		Data: DataConfig{
			Dir:             dataDir,
			ItemsFile:       GetStringEnv("MUSIQ_ITEMS_FILE", filepath.Join(dataDir, "items.csv")),
			RatingsFile:     GetStringEnv("MUSIQ_RATINGS_FILE", filepath.Join(dataDir, "ratings.csv")),
			GroundTruthFile: GetStringEnv("MUSIQ_GROUND_TRUTH_FILE", filepath.Join(dataDir, "ground_truth.csv")),
			ImageDir:        GetStringEnv("MUSIQ_IMAGE_DIR", filepath.Join(dataDir, "image")),
		},
		Recommender: RecommenderConfig{
			DefaultTopK:        GetIntEnv("RECOMMENDER_DEFAULT_TOP_K", 10),
			RelevanceThreshold: GetFloatEnv("RECOMMENDER_RELEVANCE_THRESHOLD", 0.6),
			RankWorkers:        GetIntEnv("RECOMMENDER_RANK_WORKERS", 0), // 0 means one worker per CPU
		},
	}
}

func GetStringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
