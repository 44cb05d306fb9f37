package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"vidTube/storage"
)

// configFile is read if present. It is required in production.
const configFile = ".config.json"

// envPrefix prefixes environment variables overriding config values, e.g.
// VIDTUBE_DATABASE_HOST overrides database.host.
const envPrefix = "VIDTUBE"

type Config struct {
	Port     int            `mapstructure:"port"`
	Env      string         `mapstructure:"env"`
	Database PostgresConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Storage  StorageConfig  `mapstructure:"storage"`
}

func (c Config) IsProd() bool {
	return c.Env == "prod"
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

func (pc PostgresConfig) ConnectionInfo() string {
	if pc.Password == "" {
		return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Name)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Password, pc.Name)
}

// AuthConfig holds what's needed to verify the access tokens issued by the
// auth provider.
type AuthConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// StorageConfig picks where uploaded media goes. Driver is either "local"
// or "minio".
type StorageConfig struct {
	Driver string              `mapstructure:"driver"`
	Local  LocalStorageConfig  `mapstructure:"local"`
	Minio  storage.MinioConfig `mapstructure:"minio"`
}

type LocalStorageConfig struct {
	Dir     string `mapstructure:"dir"`
	BaseURL string `mapstructure:"base_url"`
}

const devAuthSecret = "secret-dev-signing-key"

func DefaultConfig() Config {
	return Config{
		Port:     1111,
		Env:      "dev",
		Database: DefaultPostgresConfig(),
		Auth: AuthConfig{
			Secret: devAuthSecret,
		},
		Storage: StorageConfig{
			Driver: "local",
			Local: LocalStorageConfig{
				Dir:     "assets",
				BaseURL: "http://localhost:1111/assets",
			},
		},
	}
}

func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "",
		Name:     "vidtube",
	}
}

// LoadConfig builds the config from the defaults, the .config.json file and
// environment variables, in increasing order of precedence. A .env file is
// loaded into the environment first if there is one. If isProd is true, the
// .config.json file is required.
func LoadConfig(isProd bool) (Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return Config{}, fmt.Errorf("err loading .env: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(configFile); err == nil {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("err reading %s: %w", configFile, err)
		}
	} else if isProd {
		return Config{}, fmt.Errorf("%s is required in production: %w", configFile, err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("err decoding config: %w", err)
	}
	if isProd {
		c.Env = "prod"
		if c.Auth.Secret == "" || c.Auth.Secret == devAuthSecret {
			return Config{}, errors.New("auth.secret must be set in production")
		}
	}
	if c.Storage.Driver != "local" && c.Storage.Driver != "minio" {
		return Config{}, fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return c, nil
}

// setDefaults registers every config key with viper, which is also what
// makes the keys overridable by environment variables.
func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("port", c.Port)
	v.SetDefault("env", c.Env)
	v.SetDefault("database.host", c.Database.Host)
	v.SetDefault("database.port", c.Database.Port)
	v.SetDefault("database.user", c.Database.User)
	v.SetDefault("database.password", c.Database.Password)
	v.SetDefault("database.name", c.Database.Name)
	v.SetDefault("auth.secret", c.Auth.Secret)
	v.SetDefault("auth.issuer", c.Auth.Issuer)
	v.SetDefault("storage.driver", c.Storage.Driver)
	v.SetDefault("storage.local.dir", c.Storage.Local.Dir)
	v.SetDefault("storage.local.base_url", c.Storage.Local.BaseURL)
	v.SetDefault("storage.minio.endpoint", c.Storage.Minio.Endpoint)
	v.SetDefault("storage.minio.region", c.Storage.Minio.Region)
	v.SetDefault("storage.minio.bucket", c.Storage.Minio.Bucket)
	v.SetDefault("storage.minio.access_key", c.Storage.Minio.AccessKey)
	v.SetDefault("storage.minio.secret_key", c.Storage.Minio.SecretKey)
	v.SetDefault("storage.minio.use_ssl", c.Storage.Minio.UseSSL)
	v.SetDefault("storage.minio.path_style", c.Storage.Minio.PathStyle)
	v.SetDefault("storage.minio.public_url", c.Storage.Minio.PublicURL)
}
