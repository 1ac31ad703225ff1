package handler

import (
	"context"

	"github.com/fundvault/fundvault-app/state"
	"github.com/fundvault/fundvault-app/tx"
	"github.com/fundvault/fundvault-app/types"
	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
)

type CreateCampaignTxHandler struct {
	logger cmtlog.Logger

	senderSet map[uint64]bool
}

func NewCreateCampaignTxHandler(logger cmtlog.Logger) (h *CreateCampaignTxHandler) {
	logger = logger.With("module", "createCampaignTx")
	h = &CreateCampaignTxHandler{
		logger:    logger,
		senderSet: make(map[uint64]bool),
	}
	return
}

func (h *CreateCampaignTxHandler) Check(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	stx := btx.Tx.(*tx.CreateCampaignTx)
	_, err1 := st.CreateCampaign(stx, btx.Sender, true)
	if err1 != nil {
		h.logger.Info("CheckTx create campaign fail", "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *CreateCampaignTxHandler) NewContext(ctx context.Context) {
	h.senderSet = make(map[uint64]bool)
}

func (h *CreateCampaignTxHandler) handle(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ExecTxResult, err error) {
	if _, ok := h.senderSet[btx.Sender]; ok {
		return nil, state.ErrOneActionInOneBlock
	}
	stx := btx.Tx.(*tx.CreateCampaignTx)
	event, err := st.CreateCampaign(stx, btx.Sender, false)
	if err != nil {
		return nil, err
	}
	h.senderSet[btx.Sender] = true
	res = &abcitypes.ExecTxResult{}
	if event != nil {
		res.Events = []abcitypes.Event{types.EncodeEventCampaignCreated(event)}
	}
	return
}

func (h *CreateCampaignTxHandler) Prepare(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}

func (h *CreateCampaignTxHandler) Process(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}

type CancelCampaignTxHandler struct {
	logger cmtlog.Logger

	senderSet map[uint64]bool
}

func NewCancelCampaignTxHandler(logger cmtlog.Logger) (h *CancelCampaignTxHandler) {
	logger = logger.With("module", "cancelCampaignTx")
	h = &CancelCampaignTxHandler{
		logger:    logger,
		senderSet: make(map[uint64]bool),
	}
	return
}

func (h *CancelCampaignTxHandler) Check(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	stx := btx.Tx.(*tx.CancelCampaignTx)
	_, err1 := st.CancelCampaign(stx, btx.Sender, true)
	if err1 != nil {
		h.logger.Info("CheckTx cancel campaign fail", "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *CancelCampaignTxHandler) NewContext(ctx context.Context) {
	h.senderSet = make(map[uint64]bool)
}

func (h *CancelCampaignTxHandler) handle(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ExecTxResult, err error) {
	if _, ok := h.senderSet[btx.Sender]; ok {
		return nil, state.ErrOneActionInOneBlock
	}
	stx := btx.Tx.(*tx.CancelCampaignTx)
	event, err := st.CancelCampaign(stx, btx.Sender, false)
	if err != nil {
		return nil, err
	}
	h.senderSet[btx.Sender] = true
	res = &abcitypes.ExecTxResult{}
	if event != nil {
		res.Events = []abcitypes.Event{types.EncodeEventCampaignCancelled(event)}
	}
	return
}

func (h *CancelCampaignTxHandler) Prepare(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}

func (h *CancelCampaignTxHandler) Process(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}
