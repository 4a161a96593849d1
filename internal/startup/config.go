package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"photo-timeline/internal/histogram"
	"photo-timeline/internal/logging"
)

// Config holds all application configuration
type Config struct {
	PhotosDir        string
	PhotosURLPrefix  string
	Port             string
	MetricsPort      string
	MetricsEnabled   bool
	ReloadInterval   time.Duration
	WatchEnabled     bool
	WatchDebounce    time.Duration
	Recursive        bool
	Location         *time.Location
	HistogramBuckets int
	LogStaticFiles   bool
	LogHealthChecks  bool

	// ConfigFile is the file the settings were read from, if any.
	ConfigFile string
}

// newViper returns a viper instance with every default registered and the
// environment bound.
func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("PHOTOS_DIR", "./photos")
	v.SetDefault("PHOTOS_URL_PREFIX", "/photos")
	v.SetDefault("PORT", "8080")
	v.SetDefault("METRICS_PORT", "9090")
	v.SetDefault("METRICS_ENABLED", "true")
	v.SetDefault("RELOAD_INTERVAL", "30m")
	v.SetDefault("WATCH_ENABLED", "true")
	v.SetDefault("WATCH_DEBOUNCE", "2s")
	v.SetDefault("RECURSIVE", "false")
	v.SetDefault("TIMEZONE", "UTC")
	v.SetDefault("HISTOGRAM_BUCKETS", strconv.Itoa(histogram.DefaultBuckets))
	v.SetDefault("LOG_STATIC_FILES", "false")
	v.SetDefault("LOG_HEALTH_CHECKS", "true")

	v.AutomaticEnv()
	return v
}

// LoadConfig loads and validates configuration from the environment and the
// optional CONFIG_FILE.
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()
	return loadConfig(newViper())
}

func loadConfig(v *viper.Viper) (*Config, error) {
	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		logging.Info("  CONFIG_FILE:         %s", v.ConfigFileUsed())
	}

	photosDir := v.GetString("PHOTOS_DIR")
	urlPrefix := "/" + strings.Trim(v.GetString("PHOTOS_URL_PREFIX"), "/")
	port := v.GetString("PORT")
	metricsPort := v.GetString("METRICS_PORT")
	metricsEnabled := getBool(v, "METRICS_ENABLED", true)
	reloadInterval := getDuration(v, "RELOAD_INTERVAL", 30*time.Minute)
	watchEnabled := getBool(v, "WATCH_ENABLED", true)
	watchDebounce := getDuration(v, "WATCH_DEBOUNCE", 2*time.Second)
	recursive := getBool(v, "RECURSIVE", false)
	timezone := v.GetString("TIMEZONE")
	buckets := getInt(v, "HISTOGRAM_BUCKETS", histogram.DefaultBuckets)
	logStaticFiles := getBool(v, "LOG_STATIC_FILES", false)
	logHealthChecks := getBool(v, "LOG_HEALTH_CHECKS", true)

	logging.Info("  PHOTOS_DIR:          %s", photosDir)
	logging.Info("  PHOTOS_URL_PREFIX:   %s", urlPrefix)
	logging.Info("  PORT:                %s", port)
	logging.Info("  METRICS_PORT:        %s", metricsPort)
	logging.Info("  METRICS_ENABLED:     %v", metricsEnabled)
	logging.Info("  RELOAD_INTERVAL:     %v", reloadInterval)
	logging.Info("  WATCH_ENABLED:       %v", watchEnabled)
	logging.Info("  WATCH_DEBOUNCE:      %v", watchDebounce)
	logging.Info("  RECURSIVE:           %v", recursive)
	logging.Info("  TIMEZONE:            %s", timezone)
	logging.Info("  HISTOGRAM_BUCKETS:   %d", buckets)
	logging.Info("  LOG_STATIC_FILES:    %v", logStaticFiles)
	logging.Info("  LOG_HEALTH_CHECKS:   %v", logHealthChecks)
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		logging.Warn("  Invalid TIMEZONE %q, using default: UTC", timezone)
		loc = time.UTC
	}

	if port == metricsPort && metricsEnabled {
		return nil, fmt.Errorf("PORT and METRICS_PORT must differ (both %s)", port)
	}

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	photosDir, err = filepath.Abs(photosDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve photos directory path: %w", err)
	}
	logging.Info("  Photos directory (absolute): %s", photosDir)

	// Warning only: an absent directory is an empty library.
	if err := ensureDirectory(photosDir, "photos"); err != nil {
		logging.Warn("  Photos directory issue: %v", err)
	}

	return &Config{
		PhotosDir:        photosDir,
		PhotosURLPrefix:  urlPrefix,
		Port:             port,
		MetricsPort:      metricsPort,
		MetricsEnabled:   metricsEnabled,
		ReloadInterval:   reloadInterval,
		WatchEnabled:     watchEnabled,
		WatchDebounce:    watchDebounce,
		Recursive:        recursive,
		Location:         loc,
		HistogramBuckets: buckets,
		LogStaticFiles:   logStaticFiles,
		LogHealthChecks:  logHealthChecks,
		ConfigFile:       v.ConfigFileUsed(),
	}, nil
}

func getBool(v *viper.Viper, key string, defaultValue bool) bool {
	value := v.GetString(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getDuration(v *viper.Viper, key string, defaultValue time.Duration) time.Duration {
	value := v.GetString(key)
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed < 0 {
		logging.Warn("  Invalid %s %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getInt(v *viper.Viper, key string, defaultValue int) int {
	value := v.GetString(key)
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		logging.Warn("  Invalid %s %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")
	return nil
}
