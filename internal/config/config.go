// Package config provides configuration management for lazyframe operations
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/paveg/lazyframe/internal/index"
	"github.com/paveg/lazyframe/internal/sequence"
	"gopkg.in/yaml.v3"
)

// Config represents the global configuration for DataFrame and Series operations
type Config struct {
	// Storage Configuration
	ColumnarBake    bool `json:"columnar_bake" yaml:"columnar_bake"`         // Bake homogeneous columns into Arrow arrays
	ColumnarMinRows int  `json:"columnar_min_rows" yaml:"columnar_min_rows"` // Minimum rows for Arrow-backed storage

	// Alignment Configuration
	AlignStrategy  string `json:"align_strategy" yaml:"align_strategy"`   // auto, hash, merge or scan
	ScanThreshold  int    `json:"scan_threshold" yaml:"scan_threshold"`   // Source rows at or below which a linear scan is used
	MergeThreshold int    `json:"merge_threshold" yaml:"merge_threshold"` // Source rows from which sorted keys are merged

	// Debugging Configuration
	VerboseLogging  bool   `json:"verbose_logging" yaml:"verbose_logging"`   // Log traced operations
	TraceOperations bool   `json:"trace_operations" yaml:"trace_operations"` // Record operation traces
	LogLevel        string `json:"log_level" yaml:"log_level"`               // debug, info, warn or error
}

// Global configuration instance
var (
	globalConfig Config
	configMutex  sync.RWMutex
)

// Default configuration values
const (
	DefaultColumnarMinRows = 1
	DefaultAlignStrategy   = "auto"
	DefaultScanThreshold   = 8
	DefaultMergeThreshold  = 1024
	DefaultLogLevel        = "info"
)

var validStrategies = map[string]bool{
	"auto":  true,
	"hash":  true,
	"merge": true,
	"scan":  true,
}

// Initialize global configuration with defaults
func init() {
	globalConfig = NewConfig()
}

// NewConfig creates a new configuration with default values
func NewConfig() Config {
	return Config{
		// Storage defaults
		ColumnarBake:    true,
		ColumnarMinRows: DefaultColumnarMinRows,

		// Alignment defaults
		AlignStrategy:  DefaultAlignStrategy,
		ScanThreshold:  DefaultScanThreshold,
		MergeThreshold: DefaultMergeThreshold,

		// Debugging defaults (disabled)
		VerboseLogging:  false,
		TraceOperations: false,
		LogLevel:        DefaultLogLevel,
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	if c.ColumnarMinRows < 0 {
		return fmt.Errorf("ColumnarMinRows must be non-negative, got %d", c.ColumnarMinRows)
	}

	if !validStrategies[strings.ToLower(c.AlignStrategy)] {
		return fmt.Errorf("AlignStrategy must be one of auto, hash, merge, scan, got %q", c.AlignStrategy)
	}

	if c.ScanThreshold < 0 {
		return fmt.Errorf("ScanThreshold must be non-negative, got %d", c.ScanThreshold)
	}

	if c.MergeThreshold <= 0 {
		return fmt.Errorf("MergeThreshold must be positive, got %d", c.MergeThreshold)
	}

	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// WithDefaults returns a new configuration with default values filled in for zero values
func (c Config) WithDefaults() Config {
	defaults := NewConfig()

	if c.ColumnarMinRows == 0 {
		c.ColumnarMinRows = defaults.ColumnarMinRows
	}
	if c.AlignStrategy == "" {
		c.AlignStrategy = defaults.AlignStrategy
	}
	if c.MergeThreshold == 0 {
		c.MergeThreshold = defaults.MergeThreshold
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}

	// ScanThreshold and boolean fields keep their zero values so an explicit
	// 0 or false survives. A ScanThreshold of 0 disables the linear scan.
	// Use NewConfig() directly if you need boolean defaults.

	return c
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = config
}

// GetGlobalConfig returns the current global configuration
func GetGlobalConfig() Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// LoadFromJSON loads configuration from JSON data
func LoadFromJSON(data []byte) (Config, error) {
	config := NewConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing JSON configuration: %w", err)
	}
	return finish(config)
}

// LoadFromFile loads configuration from a JSON or YAML file
func LoadFromFile(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", filename, err)
	}

	config := NewConfig()
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".json":
		err = json.Unmarshal(data, &config)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		return Config{}, fmt.Errorf("unsupported config file format: %s", ext)
	}

	if err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", filename, err)
	}

	return finish(config)
}

func finish(config Config) (Config, error) {
	config = config.WithDefaults()
	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// LoadFromEnv loads configuration from environment variables. Unparseable
// values are ignored.
func LoadFromEnv() Config {
	config := NewConfig()

	if val := os.Getenv("LAZYFRAME_COLUMNAR_BAKE"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.ColumnarBake = parsed
		}
	}

	if val := os.Getenv("LAZYFRAME_COLUMNAR_MIN_ROWS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.ColumnarMinRows = parsed
		}
	}

	if val := os.Getenv("LAZYFRAME_ALIGN_STRATEGY"); val != "" {
		if validStrategies[strings.ToLower(val)] {
			config.AlignStrategy = strings.ToLower(val)
		}
	}

	if val := os.Getenv("LAZYFRAME_SCAN_THRESHOLD"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.ScanThreshold = parsed
		}
	}

	if val := os.Getenv("LAZYFRAME_MERGE_THRESHOLD"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.MergeThreshold = parsed
		}
	}

	if val := os.Getenv("LAZYFRAME_VERBOSE_LOGGING"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.VerboseLogging = parsed
		}
	}

	if val := os.Getenv("LAZYFRAME_TRACE_OPERATIONS"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.TraceOperations = parsed
		}
	}

	if val := os.Getenv("LAZYFRAME_LOG_LEVEL"); val != "" {
		if _, err := parseLevel(val); err == nil {
			config.LogLevel = val
		}
	}

	return config
}

func parseLevel(name string) (slog.Level, error) {
	if name == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LogLevel must be one of debug, info, warn, error, got %q", name)
	}
	return level, nil
}

// Level returns the configured log level. Verbose logging lowers it to debug.
func (c Config) Level() slog.Level {
	if c.VerboseLogging {
		return slog.LevelDebug
	}
	level, _ := parseLevel(c.LogLevel)
	return level
}

// Logger returns a text logger writing to stderr at the configured level.
func (c Config) Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.Level()}))
}

// BakeOptions translates the storage settings into sequence bake options.
func (c Config) BakeOptions() []sequence.BakeOption {
	return []sequence.BakeOption{
		sequence.WithColumnar(c.ColumnarBake),
		sequence.WithColumnarMinRows(c.ColumnarMinRows),
	}
}

// Planner builds the alignment planner for the configured strategy.
// Unknown strategies fall back to automatic selection.
func (c Config) Planner() index.Planner {
	planner := index.DefaultPlanner()
	if strategy, err := index.ParseStrategy(c.AlignStrategy); err == nil {
		planner.Strategy = strategy
	}
	if c.ScanThreshold >= 0 {
		planner.ScanThreshold = c.ScanThreshold
	}
	if c.MergeThreshold > 0 {
		planner.MergeThreshold = c.MergeThreshold
	}
	return planner
}
