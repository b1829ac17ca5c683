package secrets

import (
	"github.com/meghashyamc/searchform/config"
	"github.com/meghashyamc/searchform/logger"
)

// Open builds the lookup chain from config: the secrets file (with environment overrides)
// first, then the vault when one is configured. The caller closes the returned vault.
func Open(logger logger.Logger, cfg *config.Config) (Chain, *BoltStore, error) {
	fileStore, err := NewFileStore(logger, cfg.GetSecretsPath())
	if err != nil {
		return nil, nil, err
	}

	vaultPath := cfg.GetSecretsDBPath()
	if len(vaultPath) == 0 {
		return Chain{fileStore}, nil, nil
	}

	vault, err := NewBoltStore(logger, vaultPath)
	if err != nil {
		return nil, nil, err
	}

	return Chain{fileStore, vault}, vault, nil
}
