package handler

import (
	"context"

	"github.com/fundvault/fundvault-app/state"
	"github.com/fundvault/fundvault-app/tx"
	"github.com/fundvault/fundvault-app/types"
	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
)

type ClaimRefundTxHandler struct {
	logger cmtlog.Logger

	senderSet map[uint64]bool
}

func NewClaimRefundTxHandler(logger cmtlog.Logger) (h *ClaimRefundTxHandler) {
	logger = logger.With("module", "claimRefundTx")
	h = &ClaimRefundTxHandler{
		logger:    logger,
		senderSet: make(map[uint64]bool),
	}
	return
}

func (h *ClaimRefundTxHandler) Check(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	stx := btx.Tx.(*tx.ClaimRefundTx)
	_, err1 := st.ClaimRefund(stx, btx.Sender, true)
	if err1 != nil {
		h.logger.Info("CheckTx claim refund fail", "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *ClaimRefundTxHandler) NewContext(ctx context.Context) {
	h.senderSet = make(map[uint64]bool)
}

func (h *ClaimRefundTxHandler) handle(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ExecTxResult, err error) {
	if _, ok := h.senderSet[btx.Sender]; ok {
		return nil, state.ErrOneActionInOneBlock
	}
	stx := btx.Tx.(*tx.ClaimRefundTx)
	event, err := st.ClaimRefund(stx, btx.Sender, false)
	if err != nil {
		return nil, err
	}
	h.senderSet[btx.Sender] = true
	res = &abcitypes.ExecTxResult{}
	if event != nil {
		res.Events = []abcitypes.Event{types.EncodeEventRefund(event)}
	}
	return
}

func (h *ClaimRefundTxHandler) Prepare(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}

func (h *ClaimRefundTxHandler) Process(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}
