package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "scanmask/internal/platform/errors"
)

const (
	FileName   = "scanmask.yaml"
	EnvPrefix  = "SCANMASK_"
	dataSubdir = ".scanmask"
)

type Config struct {
	DataDir       string        `yaml:"-"`
	DBPath        string        `yaml:"db_path"`
	TickInterval  time.Duration `yaml:"-"`
	RawTick       string        `yaml:"tick_interval"`
	DefaultVolume float64       `yaml:"default_volume"`
	SoundDir      string        `yaml:"sound_dir"`
	RenderDir     string        `yaml:"render_dir"`
	Player        PlayerConfig  `yaml:"player"`
	Server        ServerConfig  `yaml:"server"`
	Log           LogConfig     `yaml:"log"`
}

// PlayerConfig describes an external audio player. Args may contain the
// {file} and {volume} placeholders.
type PlayerConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// New returns the defaults rooted at dataDir without reading any files.
func New(dataDir string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("%w: data dir is required", apperrors.ErrInvalidInput)
	}
	return Config{
		DataDir:       dataDir,
		DBPath:        filepath.Join(dataDir, dataSubdir, "scanmask.db"),
		TickInterval:  time.Second,
		RawTick:       "1s",
		DefaultVolume: 0.7,
		SoundDir:      filepath.Join(dataDir, "sounds"),
		RenderDir:     filepath.Join(dataDir, "renders"),
		Log:           LogConfig{Level: "info", Format: "text"},
	}, nil
}

// Load applies, in order: defaults, <dataDir>/.env, <dataDir>/scanmask.yaml
// (with ${VAR} expansion) and SCANMASK_* environment overrides.
func Load(dataDir string) (Config, error) {
	cfg, err := New(dataDir)
	if err != nil {
		return Config{}, err
	}
	if err := loadDotEnv(filepath.Join(dataDir, ".env")); err != nil {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}

	data, err := os.ReadFile(filepath.Join(dataDir, FileName))
	switch {
	case err == nil:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", FileName, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("config: read %s: %w", FileName, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.resolve(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func applyEnv(cfg *Config) error {
	if v, ok := lookup("DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := lookup("TICK_INTERVAL"); ok {
		cfg.RawTick = v
	}
	if v, ok := lookup("DEFAULT_VOLUME"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %sDEFAULT_VOLUME: %v", apperrors.ErrInvalidInput, EnvPrefix, err)
		}
		cfg.DefaultVolume = f
	}
	if v, ok := lookup("SOUND_DIR"); ok {
		cfg.SoundDir = v
	}
	if v, ok := lookup("PLAYER"); ok {
		cfg.Player.Command = v
	}
	if v, ok := lookup("ADDR"); ok {
		cfg.Server.Addr = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	if v, ok := lookup("LOG_FORMAT"); ok {
		cfg.Log.Format = v
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

func (c *Config) resolve() error {
	if c.RawTick != "" {
		d, err := time.ParseDuration(c.RawTick)
		if err != nil {
			return fmt.Errorf("%w: tick_interval: %v", apperrors.ErrInvalidInput, err)
		}
		c.TickInterval = d
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("%w: tick_interval must be positive", apperrors.ErrInvalidInput)
	}
	if c.DefaultVolume < 0 || c.DefaultVolume > 1 {
		return fmt.Errorf("%w: default_volume must be within [0,1]", apperrors.ErrInvalidInput)
	}
	for _, p := range []*string{&c.DBPath, &c.SoundDir, &c.RenderDir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(c.DataDir, *p)
		}
	}
	return nil
}

// StateDir holds process state that is not part of the database, such as
// the active session marker.
func (c Config) StateDir() string {
	return filepath.Join(c.DataDir, dataSubdir)
}
