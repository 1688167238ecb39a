// Package config loads vidconv settings from a YAML file and VIDCONV_* environment variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"vidconv/internal/errors"
)

// Name is the config file base name and the per-user config directory.
const Name = "vidconv"

// EnvPrefix prefixes environment overrides, e.g. VIDCONV_FFMPEG_PATH.
const EnvPrefix = "VIDCONV"

// Keys
const (
	KeyFFmpegPath       = "ffmpeg_path"
	KeyOutputDir        = "output_dir"
	KeyConfirmOverwrite = "confirm_overwrite"
	KeyLogLevel         = "log_level"
	KeyLogFile          = "log_file"
)

// Config holds the resolved settings.
type Config struct {
	FFmpegPath       string `mapstructure:"ffmpeg_path"`
	OutputDir        string `mapstructure:"output_dir"`
	ConfirmOverwrite bool   `mapstructure:"confirm_overwrite"`
	LogLevel         string `mapstructure:"log_level"`
	LogFile          string `mapstructure:"log_file"`

	// File is the config file that was read, empty if none was found.
	File string `mapstructure:"-"`
}

// New returns a viper instance with defaults, search paths and env bindings set.
// An explicit file overrides the search paths.
func New(file string) *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyFFmpegPath, "")
	v.SetDefault(KeyOutputDir, "")
	v.SetDefault(KeyConfirmOverwrite, false)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFile, "")

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, Name))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

// Read reads the config file into v. A missing file is only an error when it was set explicitly.
func Read(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return errors.Wrap(err, "read config")
}

// Decode resolves v into a Config.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	cfg.File = v.ConfigFileUsed()
	return &cfg, nil
}

// Load reads file (or searches for vidconv.yaml) and returns the resolved config.
func Load(file string) (*Config, error) {
	if file != "" {
		if _, err := os.Stat(file); err != nil {
			return nil, errors.NewFileError("stat", file, err)
		}
	}
	v := New(file)
	if err := Read(v); err != nil {
		return nil, err
	}
	return Decode(v)
}
