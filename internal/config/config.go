package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DefaultConfigFile = "configs/config.yaml"

type Config struct {
	Server struct {
		Port                int      `mapstructure:"port"`
		CorsAllowedOrigins  []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods  []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders  []string `mapstructure:"cors_allowed_headers"`
		ReadTimeoutSeconds  int      `mapstructure:"read_timeout_seconds"`
		WriteTimeoutSeconds int      `mapstructure:"write_timeout_seconds"`
	} `mapstructure:"server"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		MaxConns int32  `mapstructure:"max_conns"`
		// MigrationsDir is read at runtime so schema changes ship without a rebuild.
		MigrationsDir string `mapstructure:"migrations_dir"`
	} `mapstructure:"database"`

	Storage struct {
		Driver string `mapstructure:"driver"` // postgres or memory
	} `mapstructure:"storage"`

	JWT struct {
		Secret          string `mapstructure:"secret"`
		ExpirationHours int    `mapstructure:"expiration_hours"`
		Issuer          string `mapstructure:"issuer"`
	} `mapstructure:"jwt"`

	// Admin is the bootstrap account created on first start.
	Admin struct {
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"admin"`

	Parish Parish `mapstructure:"parish"`

	Certificates struct {
		UploadLimitMB       int    `mapstructure:"upload_limit_mb"`
		UploadReminderHours int    `mapstructure:"upload_reminder_hours"`
		LogoPath            string `mapstructure:"logo_path"`
	} `mapstructure:"certificates"`

	Archive Archive `mapstructure:"archive"`

	Redis struct {
		Addr               string `mapstructure:"addr"`
		Password           string `mapstructure:"password"`
		DB                 int    `mapstructure:"db"`
		RegistryTTLSeconds int    `mapstructure:"registry_ttl_seconds"`
	} `mapstructure:"redis"`

	Log struct {
		Level  string `mapstructure:"level"`
		Pretty bool   `mapstructure:"pretty"`
	} `mapstructure:"log"`
}

// Parish is the letterhead printed on every certificate.
type Parish struct {
	Diocese     string `mapstructure:"diocese"`
	Name        string `mapstructure:"name"`
	Location    string `mapstructure:"location"`
	PriestName  string `mapstructure:"priest_name"`
	PriestTitle string `mapstructure:"priest_title"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("server.cors_allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("server.cors_allowed_headers", []string{"Authorization", "Content-Type"})
	v.SetDefault("server.read_timeout_seconds", 30)
	v.SetDefault("server.write_timeout_seconds", 60)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "parish_db")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.migrations_dir", "migrations")

	v.SetDefault("storage.driver", "postgres")

	v.SetDefault("jwt.expiration_hours", 12)
	v.SetDefault("jwt.issuer", "parish-backend")

	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.name", "Parish Office")

	v.SetDefault("parish.diocese", "Diocese of Borongan")
	v.SetDefault("parish.name", "Quasi Parish of Our Lady of the Miraculous Medal")
	v.SetDefault("parish.location", "Sabang, Borongan City")
	v.SetDefault("parish.priest_title", "Parish Priest")

	v.SetDefault("certificates.upload_limit_mb", 10)
	v.SetDefault("certificates.upload_reminder_hours", 24)

	v.SetDefault("archive.region", "auto")
	v.SetDefault("archive.prefix", "certificates/")

	v.SetDefault("redis.registry_ttl_seconds", 300)

	v.SetDefault("log.level", "info")
}

// Load reads the default config file and exits on malformed configuration.
func Load() *Config {
	cfg, err := LoadFile(DefaultConfigFile)
	if err != nil {
		log.Fatalf("[Config] %v", err)
	}
	return cfg
}

// LoadFile reads path (optional), the environment and .env, in increasing
// order of precedence below the explicit DB_*, JWT_SECRET and ADMIN_* vars.
func LoadFile(path string) (*Config, error) {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found at %s, using defaults", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Database.Port = n
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}
	if cfg.JWT.Secret == "" || cfg.JWT.Secret == "${JWT_SECRET}" {
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	}
	if pass := os.Getenv("ADMIN_PASSWORD"); pass != "" {
		cfg.Admin.Password = pass
	}
	if key := os.Getenv("ARCHIVE_ACCESS_KEY"); key != "" {
		cfg.Archive.AccessKey = key
	}
	if secret := os.Getenv("ARCHIVE_SECRET_KEY"); secret != "" {
		cfg.Archive.SecretKey = secret
	}
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("storage.driver must be postgres or memory, got %q", c.Storage.Driver)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	if c.Certificates.UploadLimitMB <= 0 {
		return fmt.Errorf("certificates.upload_limit_mb must be positive")
	}
	if c.Archive.Enabled && c.Archive.Bucket == "" {
		return fmt.Errorf("archive.bucket is required when archive is enabled")
	}
	return nil
}

// DSN is the pgx connection string for the database section.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

func (c *Config) UploadLimitBytes() int64 {
	return int64(c.Certificates.UploadLimitMB) << 20
}
