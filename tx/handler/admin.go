package handler

import (
	"context"

	"github.com/fundvault/fundvault-app/state"
	"github.com/fundvault/fundvault-app/tx"
	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
)

// AdminTxHandler serves the operator transactions. None of them emit
// events; block explorers read the resulting header fields directly.
type AdminTxHandler struct {
	logger cmtlog.Logger

	senderSet map[uint64]bool
	apply     func(st *state.State, btx *tx.VaultTx, checkOnly bool) error
}

func newAdminTxHandler(logger cmtlog.Logger, module string,
	apply func(st *state.State, btx *tx.VaultTx, checkOnly bool) error) *AdminTxHandler {
	return &AdminTxHandler{
		logger:    logger.With("module", module),
		senderSet: make(map[uint64]bool),
		apply:     apply,
	}
}

func NewUpdateFeeTxHandler(logger cmtlog.Logger) *AdminTxHandler {
	return newAdminTxHandler(logger, "updateFeeTx", func(st *state.State, btx *tx.VaultTx, checkOnly bool) error {
		return st.UpdatePlatformFee(btx.Tx.(*tx.UpdateFeeTx), btx.Sender, checkOnly)
	})
}

func NewUpdateCollectorTxHandler(logger cmtlog.Logger) *AdminTxHandler {
	return newAdminTxHandler(logger, "updateCollectorTx", func(st *state.State, btx *tx.VaultTx, checkOnly bool) error {
		return st.UpdateFeeCollector(btx.Tx.(*tx.UpdateCollectorTx), btx.Sender, checkOnly)
	})
}

func NewSetPauseTxHandler(logger cmtlog.Logger) *AdminTxHandler {
	return newAdminTxHandler(logger, "setPauseTx", func(st *state.State, btx *tx.VaultTx, checkOnly bool) error {
		return st.SetPause(btx.Tx.(*tx.SetPauseTx), btx.Sender, checkOnly)
	})
}

func (h *AdminTxHandler) Check(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	if err1 := h.apply(st, btx, true); err1 != nil {
		h.logger.Info("CheckTx admin op fail", "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *AdminTxHandler) NewContext(ctx context.Context) {
	h.senderSet = make(map[uint64]bool)
}

func (h *AdminTxHandler) handle(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ExecTxResult, err error) {
	if _, ok := h.senderSet[btx.Sender]; ok {
		return nil, state.ErrOneActionInOneBlock
	}
	if err = h.apply(st, btx, false); err != nil {
		return nil, err
	}
	h.senderSet[btx.Sender] = true
	res = &abcitypes.ExecTxResult{}
	return
}

func (h *AdminTxHandler) Prepare(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}

func (h *AdminTxHandler) Process(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}
