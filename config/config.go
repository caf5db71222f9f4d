package config

import (
	"os"
	"path"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// SysConfig system config
type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
	NodeID   int64  `yaml:"node_id"` // snowflake node for the bolt store
	Demo     bool   `yaml:"demo"`    // seed demo sets into an empty collection
}

// WebConfig web server config
type WebConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StoreConfig remote store config. Driver is one of postgres, redis, bolt, memory.
type StoreConfig struct {
	Driver        string `yaml:"driver"`
	Dsn           string `yaml:"dsn"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	BoltPath      string `yaml:"bolt_path"`
	Debug         bool   `yaml:"debug"`
}

// LogConfig logger config
type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

// CacheConfig list cache config
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Revalidate string `yaml:"revalidate"` // cron spec, e.g. "@every 5m"
}

type AppConfig struct {
	System SysConfig   `yaml:"system"`
	Web    WebConfig   `yaml:"web"`
	Store  StoreConfig `yaml:"store"`
	Logger LogConfig   `yaml:"logger"`
	Cache  CacheConfig `yaml:"cache"`
}

// GetLogDir returns the log directory under the workdir
func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

// GetDataDir returns the data directory under the workdir
func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

func (c *AppConfig) initDirs() error {
	for _, dir := range []string{c.GetLogDir(), c.GetDataDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// DefaultAppConfig returns the built-in configuration
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		System: SysConfig{
			Appid:    "BrickStore",
			Location: "Europe/Oslo",
			Workdir:  "/var/brickstore",
			Debug:    false,
			NodeID:   1,
		},
		Web: WebConfig{
			Host: "0.0.0.0",
			Port: 1880,
		},
		Store: StoreConfig{
			Driver:    "bolt",
			Dsn:       "host=127.0.0.1 user=brickstore password=brickstore dbname=brickstore port=5432 sslmode=disable",
			RedisAddr: "127.0.0.1:6379",
			BoltPath:  "",
		},
		Logger: LogConfig{
			Mode:       "development",
			FileEnable: false,
			Filename:   "",
		},
		Cache: CacheConfig{
			Enabled:    true,
			Revalidate: "@every 5m",
		},
	}
}

// LoadConfig reads the YAML file at cfile (if any), then the .env file in
// the working directory (if any), then applies BRICKSTORE_* overrides.
func LoadConfig(cfile string) (*AppConfig, error) {
	cfg := DefaultAppConfig()
	if cfile != "" {
		data, err := os.ReadFile(cfile)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		zap.S().Warnf("load .env: %v", err)
	}
	applyEnv(cfg)

	if cfg.Logger.Filename == "" {
		cfg.Logger.Filename = path.Join(cfg.GetLogDir(), "brickstore.log")
	}
	if cfg.Store.BoltPath == "" {
		cfg.Store.BoltPath = path.Join(cfg.GetDataDir(), "brickstore.db")
	}
	if err := cfg.initDirs(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *AppConfig) {
	setEnvValue("BRICKSTORE_SYSTEM_WORKER_DIR", &cfg.System.Workdir)
	setEnvValue("BRICKSTORE_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvBoolValue("BRICKSTORE_SYSTEM_DEBUG", &cfg.System.Debug)
	setEnvInt64Value("BRICKSTORE_SYSTEM_NODE_ID", &cfg.System.NodeID)
	setEnvBoolValue("BRICKSTORE_SYSTEM_DEMO", &cfg.System.Demo)

	setEnvValue("BRICKSTORE_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("BRICKSTORE_WEB_PORT", &cfg.Web.Port)

	setEnvValue("BRICKSTORE_STORE_DRIVER", &cfg.Store.Driver)
	setEnvValue("BRICKSTORE_STORE_DSN", &cfg.Store.Dsn)
	setEnvValue("BRICKSTORE_STORE_REDIS_ADDR", &cfg.Store.RedisAddr)
	setEnvValue("BRICKSTORE_STORE_REDIS_PASSWORD", &cfg.Store.RedisPassword)
	setEnvIntValue("BRICKSTORE_STORE_REDIS_DB", &cfg.Store.RedisDB)
	setEnvValue("BRICKSTORE_STORE_BOLT_PATH", &cfg.Store.BoltPath)
	setEnvBoolValue("BRICKSTORE_STORE_DEBUG", &cfg.Store.Debug)

	setEnvValue("BRICKSTORE_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("BRICKSTORE_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvValue("BRICKSTORE_LOGGER_FILENAME", &cfg.Logger.Filename)

	setEnvBoolValue("BRICKSTORE_CACHE_ENABLED", &cfg.Cache.Enabled)
	setEnvValue("BRICKSTORE_CACHE_REVALIDATE", &cfg.Cache.Revalidate)
}

func setEnvValue(name string, val *string) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		*val = v
	}
}

func setEnvBoolValue(name string, val *bool) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		*val = cast.ToBool(v)
	}
}

func setEnvIntValue(name string, val *int) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		*val = cast.ToInt(v)
	}
}

func setEnvInt64Value(name string, val *int64) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		*val = cast.ToInt64(v)
	}
}
