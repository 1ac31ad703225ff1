package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cometbft/cometbft/config"
	"github.com/cometbft/cometbft/crypto"
	"github.com/cometbft/cometbft/p2p"
	"github.com/cometbft/cometbft/privval"
)

// VaultAppConfig carries the application-side settings that live next to
// the comet config in the same TOML file.
type VaultAppConfig struct {
	Home string `mapstructure:"-"`

	// IndexerListen is the HTTP listen address of the read-side API.
	// Empty disables the indexer.
	IndexerListen string `mapstructure:"indexer_listen"`
	// IndexerDB is the sqlite file backing the indexer, relative to Home.
	IndexerDB string `mapstructure:"indexer_db"`
}

func NewVaultAppConfig(home string) *VaultAppConfig {
	return &VaultAppConfig{
		Home:      home,
		IndexerDB: "indexer.db",
	}
}

type Config struct {
	*config.Config `mapstructure:",squash"`

	App *VaultAppConfig `mapstructure:"app"`
}

func DefaultConfig(home string) *Config {
	if len(home) == 0 {
		home = os.ExpandEnv("$HOME/.fundvault")
	}
	cfg := &Config{
		DefaultVaultCometConfig(),
		NewVaultAppConfig(home),
	}
	cfg.RootDir = home
	_ = os.MkdirAll(home+"/config", 0755)
	return cfg
}

func NewVaultConfig(home string) *Config {
	if len(home) == 0 {
		home = os.ExpandEnv("$HOME/.fundvault")
	}
	_ = os.MkdirAll(home+"/config", 0755)
	cfg := &Config{
		DefaultVaultCometConfig(),
		NewVaultAppConfig(home),
	}
	cfg.RootDir = home
	return cfg
}

func InitializeNodeValidatorFiles(config *Config, privKey crypto.PrivKey) (nodeID string, pk crypto.PubKey, err error) {
	nodeKey, err := p2p.LoadOrGenNodeKey(config.NodeKeyFile())
	if err != nil {
		return "", nil, err
	}
	nodeID = string(nodeKey.ID())

	pvKeyFile := config.PrivValidatorKeyFile()
	if err := os.MkdirAll(filepath.Dir(pvKeyFile), 0o777); err != nil {
		return "", nil, fmt.Errorf("could not create directory %q: %w", filepath.Dir(pvKeyFile), err)
	}

	pvStateFile := config.PrivValidatorStateFile()
	if err := os.MkdirAll(filepath.Dir(pvStateFile), 0o777); err != nil {
		return "", nil, fmt.Errorf("could not create directory %q: %w", filepath.Dir(pvStateFile), err)
	}

	var filePV *privval.FilePV
	if privKey == nil {
		filePV = privval.LoadOrGenFilePV(pvKeyFile, pvStateFile)
	} else {
		filePV = privval.NewFilePV(privKey, pvKeyFile, pvStateFile)
		filePV.Save()
	}
	pukey, err := filePV.GetPubKey()
	if err != nil {
		return "", nil, err
	}

	return nodeID, pukey, nil
}

func DefaultVaultCometConfig() *config.Config {
	cometConfig := config.DefaultConfig()
	cometConfig.Consensus.TimeoutPropose = time.Second * 10
	cometConfig.Consensus.TimeoutPrevote = time.Second * 1
	cometConfig.Consensus.TimeoutPrecommit = time.Second * 1
	cometConfig.Consensus.TimeoutCommit = time.Millisecond * 1200
	return cometConfig
}
