package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const keyEnv = "ENV"
const envLocal = "local"

const (
	defaultPort        = "8080"
	defaultSecretsPath = ".secrets/secrets.toml"
)

type Config struct {
	config *viper.Viper
}

func Load(env string) (*Config, error) {

	if len(env) == 0 {
		if env = os.Getenv(keyEnv); len(env) == 0 {
			env = envLocal
		}
	}

	configPath, err := getConfigPath(env)

	viperConfig := viper.New()
	if err == nil {
		viperConfig.SetConfigFile(configPath)
		if err := viperConfig.ReadInConfig(); err != nil {
			slog.Warn(fmt.Sprintf("error reading config file, %s", err))
		}
	}
	viperConfig.AutomaticEnv()

	cfg := &Config{
		config: viperConfig,
	}

	return cfg, nil
}

// BindFlag lets a command line flag override the file value of key. Environment variables still win.
func (c *Config) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("no flag to bind for config key %s", key)
	}
	return c.config.BindPFlag(key, flag)
}

func (c *Config) GetEnv() string {
	env := c.config.GetString(keyEnv)
	if len(env) == 0 {
		env = envLocal
	}

	return env
}

func (c *Config) GetPort() string {
	port := c.getString("PORT", "server.port")
	if len(port) == 0 {
		port = defaultPort
	}

	return port
}

func (c *Config) GetLogLevel() string {
	return c.getString("LOG_LEVEL", "log.level")
}

// GetSecretsPath is the TOML file holding tokens and user ids.
func (c *Config) GetSecretsPath() string {
	secretsPath := c.getString("SECRETS_PATH", "secrets.path")
	if len(secretsPath) == 0 {
		secretsPath = defaultSecretsPath
	}

	return secretsPath
}

// GetSecretsDBPath is the optional local vault. Empty means no vault is opened.
func (c *Config) GetSecretsDBPath() string {
	return c.getString("SECRETS_DB_PATH", "secrets.db_path")
}

// GetHTTPTimeout is zero unless configured, which leaves outbound calls without a client timeout.
func (c *Config) GetHTTPTimeout() time.Duration {
	timeout := c.config.GetDuration("HTTP_TIMEOUT")
	if timeout == 0 {
		timeout = c.config.GetDuration("http.timeout")
	}

	return timeout
}

// GetVariantEndpoint returns the configured endpoint for a variant, or "" to use the variant's default.
func (c *Config) GetVariantEndpoint(variant string) string {
	envKey := fmt.Sprintf("VARIANT_%s_ENDPOINT", strings.ToUpper(strings.ReplaceAll(variant, "-", "_")))
	return c.getString(envKey, fmt.Sprintf("variants.%s.endpoint", variant))
}

func (c *Config) getString(envKey string, fileKey string) string {
	value := c.config.GetString(envKey)
	if len(value) == 0 {
		value = c.config.GetString(fileKey)
	}

	return value
}

func getProjectRoot() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	for {
		configDir := filepath.Join(currentDir, "config")
		if info, err := os.Stat(configDir); err == nil && info.IsDir() {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)

		if parent == currentDir {
			break
		}

		currentDir = parent
	}

	return "", fmt.Errorf("could not find project root (directory containing 'config' folder)")
}

func getConfigPath(env string) (string, error) {
	configFile := fmt.Sprintf("config.%s.yaml", env)

	projectRoot, err := getProjectRoot()
	if err != nil {
		slog.Warn("failed to find project root with config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("failed to find project root: %w", err)
	}
	configPath := filepath.Join(projectRoot, "config", configFile)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		slog.Warn("failed to find config file within config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("config file does not exist: %s", configPath)
	}

	return configPath, nil
}
