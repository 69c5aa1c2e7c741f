package config

import (
	"os"
	"path/filepath"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigtoml"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// FileName is the name of the optional config file in the project root
const FileName = "bootstrap.toml"

// Config describes all configuration options
type Config struct {
	StampDir string `default:"out" toml:"stamp_dir" env:"STAMP_DIR" usage:"Directory for stamp files, relative to the project root"`
	Manifest string `toml:"manifest" env:"MANIFEST" usage:"Action manifest (.yml or .star); looked up in the project root if empty"`
	Log      struct {
		Level string `default:"info" toml:"level" env:"LEVEL"`
		JSON  bool   `default:"false" toml:"json" env:"JSON" usage:"Output JSON lines instead of pretty console messages"`
	} `toml:"log"`
}

var logLevels = map[string]zerolog.Level{
	"trace":   zerolog.TraceLevel,
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
}

// Load reads the defaults, <root>/bootstrap.toml (if it exists) and BOOTSTRAP_* environment
// variables, in that order. Command line flags are applied by the caller.
func Load(root string) (*Config, error) {
	cfg := Config{}

	files := []string{}
	path := filepath.Join(root, FileName)
	_, err := os.Stat(path)
	if err == nil {
		files = append(files, path)
	} else if !eris.Is(err, os.ErrNotExist) {
		return nil, eris.Wrapf(err, "Failed to check %s", path)
	}

	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipFlags:        true,
		AllowUnknownEnvs: true,
		EnvPrefix:        "BOOTSTRAP",
		Files:            files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".toml": aconfigtoml.New(),
		},
	})

	if err = loader.Load(); err != nil {
		return nil, eris.Wrap(err, "Failed to load config")
	}

	return &cfg, nil
}

// Validate verifies that all config fields have valid values
func (cfg *Config) Validate() error {
	if cfg.StampDir == "" {
		return eris.New("stamp_dir must not be empty")
	}

	_, ok := logLevels[cfg.Log.Level]
	if !ok {
		return eris.Errorf(`Invalid value for log.level: %s`, cfg.Log.Level)
	}

	return nil
}

// LogLevel converts the .Log.Level field to a zerolog.Level
func (cfg *Config) LogLevel() zerolog.Level {
	return logLevels[cfg.Log.Level]
}
