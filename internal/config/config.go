package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"shiftlens/internal/analysis"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Buffers  analysis.BufferConfig
	DataPath string
	LogDir   string
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory first
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve data paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := filepath.Join(dataPath, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}

	// 4. Engine defaults, overridable per deployment
	buffers := analysis.DefaultConfig()
	buffers.IntraJobBufferMin = getEnvFloat("SHIFTLENS_INTRA_JOB_BUFFER_MIN", buffers.IntraJobBufferMin)
	buffers.JobTransitionBufferMin = getEnvFloat("SHIFTLENS_JOB_TRANSITION_BUFFER_MIN", buffers.JobTransitionBufferMin)
	buffers.AlertThresholdMin = getEnvFloat("SHIFTLENS_ALERT_THRESHOLD_MIN", buffers.AlertThresholdMin)
	buffers.FlowBucketIntervalMin = getEnvInt("SHIFTLENS_FLOW_BUCKET_INTERVAL_MIN", buffers.FlowBucketIntervalMin)
	buffers.FlowExcludeEmpty = getEnvBool("SHIFTLENS_FLOW_EXCLUDE_EMPTY", buffers.FlowExcludeEmpty)
	buffers.UtilizationCap = getEnvInt("SHIFTLENS_UTILIZATION_CAP", buffers.UtilizationCap)
	if method := getEnv("SHIFTLENS_FLOW_METHOD", ""); method != "" {
		buffers.FlowCalculationMethod = analysis.FlowMethod(method)
	}

	cfg := &AppConfig{
		Buffers:  buffers,
		DataPath: dataPath,
		LogDir:   logDir,
	}

	return cfg, nil
}

// LoadBufferProfile overlays a YAML buffer-config profile onto base.
// Absent fields keep their current values.
func LoadBufferProfile(path string, base analysis.BufferConfig) (analysis.BufferConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read buffer profile: %w", err)
	}

	profile := base
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return base, fmt.Errorf("parse buffer profile %q: %w", path, err)
	}

	log.Debug().Str("path", path).Msg("Loaded buffer profile")
	return profile, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return fallback
}
