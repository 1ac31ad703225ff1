package app

import (
	"context"
	"encoding/json"

	"github.com/fundvault/fundvault-app/config"
	"github.com/fundvault/fundvault-app/state"
	"github.com/fundvault/fundvault-app/tx"
	"github.com/fundvault/fundvault-app/tx/handler"
	vault_types "github.com/fundvault/fundvault-app/types"
	abcitypes "github.com/cometbft/cometbft/abci/types"
	"github.com/cometbft/cometbft/crypto/ed25519"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/cometbft/cometbft/store"
	"github.com/ethereum/go-ethereum/common"
)

type finalizeBlock struct {
	Height uint64
	Hash   common.Hash
}

func (b *finalizeBlock) Set(blk *abcitypes.RequestFinalizeBlock) {
	b.Height = uint64(blk.Height)
	b.Hash = common.BytesToHash(blk.Hash)
}

var _ abcitypes.Application = &VaultApp{}

type VaultApp struct {
	cfg    *config.VaultAppConfig
	logger cmtlog.Logger

	db       *state.StateDB
	lastBlk  finalizeBlock
	txHdlrs  map[tx.VaultTxType]handler.TxHandler
	queriers map[string]Querier

	st *state.State
}

func NewVaultApp(cfg *config.VaultAppConfig, logger cmtlog.Logger) (app *VaultApp, err error) {
	logger = logger.With("module", "app")

	dir := cfg.Home + "/data"
	db, err := state.NewStateDB(dir, logger)
	if err != nil {
		return nil, err
	}

	app = &VaultApp{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		txHdlrs:  make(map[tx.VaultTxType]handler.TxHandler),
		queriers: make(map[string]Querier),
	}
	app.registerTxHandler()
	app.registerQuerier()
	return
}

func (app *VaultApp) Start(bs *store.BlockStore) {
	height := app.db.Header().Height
	if height > 0 {
		blk := bs.LoadBlock(int64(height))
		if blk == nil {
			panic("unexpected BlockStore")
		}
		app.lastBlk.Height = height
		app.lastBlk.Hash = common.BytesToHash(blk.Hash())
	}
}

func (app *VaultApp) Stop() {
	err := app.db.Close()
	if err != nil {
		app.logger.Error("close db fail", "err", err)
	}
	app.logger.Info("vault app stopped")
}

func (app *VaultApp) DB() *state.StateDB {
	return app.db
}

func (app *VaultApp) registerTxHandler() {
	app.txHdlrs = map[tx.VaultTxType]handler.TxHandler{
		tx.VaultTxTypeCreateCampaign:    handler.NewCreateCampaignTxHandler(app.logger),
		tx.VaultTxTypeContribute:        handler.NewContributeTxHandler(app.logger),
		tx.VaultTxTypeContributeAsset:   handler.NewContributeAssetTxHandler(app.logger),
		tx.VaultTxTypeVoteMilestone:     handler.NewVoteMilestoneTxHandler(app.logger),
		tx.VaultTxTypeCancelCampaign:    handler.NewCancelCampaignTxHandler(app.logger),
		tx.VaultTxTypeClaimRefund:       handler.NewClaimRefundTxHandler(app.logger),
		tx.VaultTxTypeCreatePool:        handler.NewCreatePoolTxHandler(app.logger),
		tx.VaultTxTypeAddFunds:          handler.NewAddFundsTxHandler(app.logger),
		tx.VaultTxTypeRemoveFunds:       handler.NewRemoveFundsTxHandler(app.logger),
		tx.VaultTxTypeDistributeFunds:   handler.NewDistributeFundsTxHandler(app.logger),
		tx.VaultTxTypeEmergencyWithdraw: handler.NewEmergencyWithdrawTxHandler(app.logger),
		tx.VaultTxTypePausePool:         handler.NewPausePoolTxHandler(app.logger),
		tx.VaultTxTypeUnpausePool:       handler.NewUnpausePoolTxHandler(app.logger),
		tx.VaultTxTypeUpdateFee:         handler.NewUpdateFeeTxHandler(app.logger),
		tx.VaultTxTypeUpdateCollector:   handler.NewUpdateCollectorTxHandler(app.logger),
		tx.VaultTxTypeSetPause:          handler.NewSetPauseTxHandler(app.logger),
	}
}

func (app *VaultApp) registerQuerier() {
	app.queriers["/accounts/"] = NewAccountQuerier(app.db, app.logger)
	app.queriers["/campaigns/"] = NewCampaignQuerier(app.db, app.logger)
	app.queriers["/pools/"] = NewPoolQuerier(app.db, app.logger)
}

func (app *VaultApp) InitChain(_ context.Context, chain *abcitypes.RequestInitChain) (res *abcitypes.ResponseInitChain, err error) {
	st := app.db.NewState()
	st.SetChainId(chain.ChainId)
	st.SetBlockTime(chain.Time.Unix())
	var appState *vault_types.AppState
	if len(chain.AppStateBytes) > 0 {
		appState = &vault_types.AppState{}
		if err = json.Unmarshal(chain.AppStateBytes, appState); err != nil {
			app.logger.Error("InitChain parse app state fail", "err", err)
			return nil, err
		}
		for _, ga := range appState.Accounts {
			acnt := state.Account{
				Balance:       ga.Balance,
				AssetBalances: ga.Assets,
			}
			acnt.SetPubKey(ga.PubKey)
			if err = st.AddAccount(&acnt); err != nil {
				app.logger.Error("InitChain add genesis account fail", "err", err)
				return nil, err
			}
		}
	}
	// Validator keys may double as prefunded genesis accounts.
	for _, v := range chain.Validators {
		if _, err = app.ensureAccount(st, v.PubKey.GetEd25519()); err != nil {
			app.logger.Error("InitChain add validator account fail", "err", err)
			return nil, err
		}
	}
	if appState != nil {
		if err = app.applyAppState(st, appState); err != nil {
			return nil, err
		}
	}
	var h common.Hash
	_, err = st.Update()
	if err != nil {
		app.logger.Error("InitChain update state fail", "err", err)
		return nil, err
	}
	h, err = app.db.SetState(st)
	if err != nil {
		app.logger.Error("InitChain apply state fail", "err", err)
		return nil, err
	}
	return &abcitypes.ResponseInitChain{
		AppHash: h.Bytes(),
	}, nil
}

func (app *VaultApp) applyAppState(st *state.State, appState *vault_types.AppState) (err error) {
	admin, err := app.ensureAccount(st, appState.AdminPubKey)
	if err != nil {
		return err
	}
	st.SetAdmin(admin.Index)
	collector, err := app.ensureAccount(st, appState.FeeCollectorPubKey)
	if err != nil {
		return err
	}
	st.SetFeeCollector(collector.Index)
	if err = st.SetPlatformFeeBps(appState.PlatformFeeBps); err != nil {
		app.logger.Error("InitChain fee out of range", "bps", appState.PlatformFeeBps)
		return err
	}
	return nil
}

// ensureAccount resolves a genesis pubkey to its ledger account, creating
// an empty one when the key is not a validator or prefunded account.
func (app *VaultApp) ensureAccount(st *state.State, pubkey []byte) (*state.Account, error) {
	addr := ed25519.PubKey(pubkey).Address()
	acnt, err := st.FindAccount(addr)
	if err != nil {
		return nil, err
	}
	if acnt != nil {
		return acnt, nil
	}
	var n state.Account
	n.SetPubKey(pubkey)
	if err = st.AddAccount(&n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (app *VaultApp) Info(ctx context.Context, info *abcitypes.RequestInfo) (*abcitypes.ResponseInfo, error) {
	header := app.db.Header()
	return &abcitypes.ResponseInfo{
		LastBlockHeight:  int64(header.Height),
		LastBlockAppHash: header.Hash,
	}, nil
}

func (app *VaultApp) ExtendVote(_ context.Context, extend *abcitypes.RequestExtendVote) (*abcitypes.ResponseExtendVote, error) {
	return &abcitypes.ResponseExtendVote{}, nil
}

func (app *VaultApp) VerifyVoteExtension(_ context.Context, verify *abcitypes.RequestVerifyVoteExtension) (*abcitypes.ResponseVerifyVoteExtension, error) {
	return &abcitypes.ResponseVerifyVoteExtension{}, nil
}

func (app *VaultApp) ApplySnapshotChunk(context.Context, *abcitypes.RequestApplySnapshotChunk) (*abcitypes.ResponseApplySnapshotChunk, error) {
	return nil, nil
}

func (app *VaultApp) ListSnapshots(context.Context, *abcitypes.RequestListSnapshots) (*abcitypes.ResponseListSnapshots, error) {
	return nil, nil
}

func (app *VaultApp) LoadSnapshotChunk(context.Context, *abcitypes.RequestLoadSnapshotChunk) (*abcitypes.ResponseLoadSnapshotChunk, error) {
	return nil, nil
}

func (app *VaultApp) OfferSnapshot(context.Context, *abcitypes.RequestOfferSnapshot) (*abcitypes.ResponseOfferSnapshot, error) {
	return nil, nil
}
