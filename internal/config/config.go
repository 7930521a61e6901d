package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// JPS (source site)
	JPSUser     string
	JPSPassword string
	JPSBase     string

	// SugoiMusic (target site)
	SMUser     string
	SMPassword string
	SMBase     string

	// Per-run filters
	ExcAudioFormat string
	ExcMedia       string
	ExcCategory    string
	MinSeeders     int
	MaxSizeBytes   uint64 // 0 = unlimited
	SkipDuplicates bool

	// Mediainfo probing (consumed by the local media discovery path)
	MediaRoots []string

	// Batch behaviour
	BatchDelaySeconds int    // cooperative throttle between listing pages
	WatchCron         string // cron expression for watch mode

	// Session caching
	SessionMaxAgeHours int

	// Paths
	JPSSessionFile string // $CONFIG_DIR/jps_session.json
	SMSessionFile  string // $CONFIG_DIR/sm_session.json
	DatabaseFile   string // $CONFIG_DIR/jps2sm.db
	BlacklistFile  string // $CONFIG_DIR/blacklist.txt
	TorrentDir     string // saved .torrent files
	ResponseDir    string // raw submission-response HTML dumps

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	// The config directory itself may hold the .env, e.g. when set via
	// the --config flag.
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		viper.AddConfigPath(dir)
	}
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	viper.SetDefault("JPS_BASE", "https://jpopsuki.eu")
	viper.SetDefault("SM_BASE", "https://sugoimusic.me")
	viper.SetDefault("MIN_SEEDERS", 0)
	viper.SetDefault("MAX_SIZE", "")
	viper.SetDefault("SKIP_DUPLICATES", true)
	viper.SetDefault("BATCH_DELAY_SECONDS", 5)
	viper.SetDefault("WATCH_CRON", "0 * * * *")
	viper.SetDefault("SESSION_MAX_AGE_HOURS", 12)
	viper.SetDefault("LOG_LEVEL", "info")

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "jps2sm")
	} else {
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.SetDefault("TORRENT_DIR", filepath.Join(configDir, "torrents"))
	viper.SetDefault("RESPONSE_DIR", filepath.Join(configDir, "responses"))

	var maxSize uint64
	if raw := viper.GetString("MAX_SIZE"); raw != "" {
		parsed, err := humanize.ParseBytes(raw)
		if err != nil {
			return nil, fmt.Errorf("MAX_SIZE is not a valid size: %w", err)
		}
		maxSize = parsed
	}

	config := &Config{
		JPSUser:     viper.GetString("JPS_USER"),
		JPSPassword: viper.GetString("JPS_PASSWORD"),
		JPSBase:     viper.GetString("JPS_BASE"),

		SMUser:     viper.GetString("SM_USER"),
		SMPassword: viper.GetString("SM_PASSWORD"),
		SMBase:     viper.GetString("SM_BASE"),

		ExcAudioFormat: viper.GetString("EXC_AUDIOFORMAT"),
		ExcMedia:       viper.GetString("EXC_MEDIA"),
		ExcCategory:    viper.GetString("EXC_CATEGORY"),
		MinSeeders:     viper.GetInt("MIN_SEEDERS"),
		MaxSizeBytes:   maxSize,
		SkipDuplicates: viper.GetBool("SKIP_DUPLICATES"),

		MediaRoots: viper.GetStringSlice("MEDIA_ROOTS"),

		BatchDelaySeconds: viper.GetInt("BATCH_DELAY_SECONDS"),
		WatchCron:         viper.GetString("WATCH_CRON"),

		SessionMaxAgeHours: viper.GetInt("SESSION_MAX_AGE_HOURS"),

		JPSSessionFile: filepath.Join(configDir, "jps_session.json"),
		SMSessionFile:  filepath.Join(configDir, "sm_session.json"),
		DatabaseFile:   filepath.Join(configDir, "jps2sm.db"),
		BlacklistFile:  filepath.Join(configDir, "blacklist.txt"),
		TorrentDir:     viper.GetString("TORRENT_DIR"),
		ResponseDir:    viper.GetString("RESPONSE_DIR"),

		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	for _, dir := range []string{config.TorrentDir, config.ResponseDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	// Validate required fields
	if config.JPSUser == "" {
		return nil, fmt.Errorf("JPS_USER is required")
	}
	if config.JPSPassword == "" {
		return nil, fmt.Errorf("JPS_PASSWORD is required")
	}
	if config.SMUser == "" {
		return nil, fmt.Errorf("SM_USER is required")
	}
	if config.SMPassword == "" {
		return nil, fmt.Errorf("SM_PASSWORD is required")
	}

	return config, nil
}
