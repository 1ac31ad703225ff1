package handler

import (
	"context"

	"github.com/fundvault/fundvault-app/state"
	"github.com/fundvault/fundvault-app/tx"
	"github.com/fundvault/fundvault-app/types"
	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
)

type ContributeTxHandler struct {
	logger cmtlog.Logger

	senderSet map[uint64]bool
}

func NewContributeTxHandler(logger cmtlog.Logger) (h *ContributeTxHandler) {
	logger = logger.With("module", "contributeTx")
	h = &ContributeTxHandler{
		logger:    logger,
		senderSet: make(map[uint64]bool),
	}
	return
}

func (h *ContributeTxHandler) Check(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	stx := btx.Tx.(*tx.ContributeTx)
	_, err1 := st.Contribute(stx, btx.Sender, true)
	if err1 != nil {
		h.logger.Info("CheckTx contribute fail", "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *ContributeTxHandler) NewContext(ctx context.Context) {
	h.senderSet = make(map[uint64]bool)
}

func (h *ContributeTxHandler) handle(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ExecTxResult, err error) {
	if _, ok := h.senderSet[btx.Sender]; ok {
		return nil, state.ErrOneActionInOneBlock
	}
	stx := btx.Tx.(*tx.ContributeTx)
	event, err := st.Contribute(stx, btx.Sender, false)
	if err != nil {
		return nil, err
	}
	h.senderSet[btx.Sender] = true
	res = &abcitypes.ExecTxResult{}
	if event != nil {
		res.Events = []abcitypes.Event{types.EncodeEventContribution(event)}
	}
	return
}

func (h *ContributeTxHandler) Prepare(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}

func (h *ContributeTxHandler) Process(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}

type ContributeAssetTxHandler struct {
	logger cmtlog.Logger

	senderSet map[uint64]bool
}

func NewContributeAssetTxHandler(logger cmtlog.Logger) (h *ContributeAssetTxHandler) {
	logger = logger.With("module", "contributeAssetTx")
	h = &ContributeAssetTxHandler{
		logger:    logger,
		senderSet: make(map[uint64]bool),
	}
	return
}

func (h *ContributeAssetTxHandler) Check(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	stx := btx.Tx.(*tx.ContributeAssetTx)
	_, err1 := st.ContributeAsset(stx, btx.Sender, true)
	if err1 != nil {
		h.logger.Info("CheckTx contribute asset fail", "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *ContributeAssetTxHandler) NewContext(ctx context.Context) {
	h.senderSet = make(map[uint64]bool)
}

func (h *ContributeAssetTxHandler) handle(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ExecTxResult, err error) {
	if _, ok := h.senderSet[btx.Sender]; ok {
		return nil, state.ErrOneActionInOneBlock
	}
	stx := btx.Tx.(*tx.ContributeAssetTx)
	event, err := st.ContributeAsset(stx, btx.Sender, false)
	if err != nil {
		return nil, err
	}
	h.senderSet[btx.Sender] = true
	res = &abcitypes.ExecTxResult{}
	if event != nil {
		res.Events = []abcitypes.Event{types.EncodeEventTokenContribution(event)}
	}
	return
}

func (h *ContributeAssetTxHandler) Prepare(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}

func (h *ContributeAssetTxHandler) Process(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}
