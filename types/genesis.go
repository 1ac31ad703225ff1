package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cometbft/cometbft/crypto"
	cmtjson "github.com/cometbft/cometbft/libs/json"
	cmttypes "github.com/cometbft/cometbft/types"
)

const ModuleName = "fundvault"
const DefaultPower = 1000

// DefaultMilestoneQuorum is the fallback number of distinct contributor
// votes required to release a milestone when a campaign does not set its
// own quorum.
const DefaultMilestoneQuorum = 3

// MaxPlatformFeeBps caps the platform fee at 10%.
const MaxPlatformFeeBps = 1000

const (
	FlagOverwrite = "overwrite"
	FlagChainID   = "chain-id"
	FlagHome      = "home"
)

type GenesisState map[string]json.RawMessage

type GenesisValidator struct {
	Address crypto.Address `json:"address"`
	PubKey  crypto.PubKey  `json:"pub_key"`
	Power   int64          `json:"power"`
	Name    string         `json:"name"`
}

// GenesisAccount funds a ledger account at chain start.
type GenesisAccount struct {
	PubKey  []byte            `json:"pub_key"`
	Balance uint64            `json:"balance"`
	Assets  map[string]uint64 `json:"assets,omitempty"`
}

// AppState seeds the ledger: the administrator and fee collector accounts,
// the platform fee, and any prefunded balances.
type AppState struct {
	AdminPubKey        []byte           `json:"admin_pub_key"`
	FeeCollectorPubKey []byte           `json:"fee_collector_pub_key"`
	PlatformFeeBps     uint64           `json:"platform_fee_bps"`
	Accounts           []GenesisAccount `json:"accounts"`
}

// GenesisDoc defines the initial conditions for the chain, in particular its
// validator set and the ledger app state.
type GenesisDoc struct {
	GenesisTime     time.Time                 `json:"genesis_time"`
	ChainID         string                    `json:"chain_id"`
	InitialHeight   int64                     `json:"initial_height"`
	ConsensusParams *cmttypes.ConsensusParams `json:"consensus_params,omitempty"`
	Validators      []GenesisValidator        `json:"validators"`
	AppHash         []byte                    `json:"app_hash"`
	AppState        json.RawMessage           `json:"app_state"`
}

// SaveAs is a utility method for saving GenesisDoc as a JSON file.
func (genDoc *GenesisDoc) SaveAs(file string) error {
	genDocBytes, err := cmtjson.MarshalIndent(genDoc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, genDocBytes, 0o600)
}

func (ag *GenesisDoc) ValidateAndComplete() error {
	if ag.ChainID == "" {
		return errors.New("genesis doc must include non-empty chain_id")
	}

	if ag.InitialHeight < 0 {
		return fmt.Errorf("initial_height cannot be negative (got %v)", ag.InitialHeight)
	}

	if ag.InitialHeight == 0 {
		ag.InitialHeight = 1
	}

	if ag.GenesisTime.IsZero() {
		ag.GenesisTime = time.Now().Round(0).UTC()
	}

	return nil
}

func ExportGenesisFile(genesis *GenesisDoc, genFile string) error {
	if err := genesis.ValidateAndComplete(); err != nil {
		return err
	}
	return genesis.SaveAs(genFile)
}
