package secrets

import (
	"fmt"
	"os"

	"github.com/meghashyamc/searchform/logger"
	"github.com/spf13/viper"
)

// FileStore reads a flat TOML secrets file, e.g.
//
//	indiav1_jwt_token = "..."
//	indiav1_user_id = "..."
//
// An environment variable named after the upper-cased key takes precedence over the file.
type FileStore struct {
	config *viper.Viper
	logger logger.Logger
}

func NewFileStore(logger logger.Logger, path string) (*FileStore, error) {
	viperConfig := viper.New()
	viperConfig.SetConfigType("toml")

	if len(path) > 0 {
		if _, err := os.Stat(path); err != nil {
			logger.Warn("secrets file not readable, will use environment variables only", "path", path, "err", err.Error())
		} else {
			viperConfig.SetConfigFile(path)
			if err := viperConfig.ReadInConfig(); err != nil {
				logger.Error("failed to read secrets file", "path", path, "err", err.Error())
				return nil, fmt.Errorf("failed to read secrets file %s: %w", path, err)
			}
		}
	}
	viperConfig.AutomaticEnv()

	return &FileStore{config: viperConfig, logger: logger}, nil
}

func (f *FileStore) Get(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}

	value := f.config.GetString(key)
	if len(value) == 0 {
		return "", &NotFoundError{Key: key}
	}

	return value, nil
}
