package handler

import (
	"context"

	"github.com/fundvault/fundvault-app/state"
	"github.com/fundvault/fundvault-app/tx"
	"github.com/fundvault/fundvault-app/types"
	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
)

// PoolTxHandler serves all pool operations through a per-type apply
// closure; the envelope plumbing is identical for each of them.
type PoolTxHandler struct {
	logger cmtlog.Logger

	senderSet map[uint64]bool
	apply     func(st *state.State, btx *tx.VaultTx, checkOnly bool) ([]abcitypes.Event, error)
}

func newPoolTxHandler(logger cmtlog.Logger, module string,
	apply func(st *state.State, btx *tx.VaultTx, checkOnly bool) ([]abcitypes.Event, error)) *PoolTxHandler {
	return &PoolTxHandler{
		logger:    logger.With("module", module),
		senderSet: make(map[uint64]bool),
		apply:     apply,
	}
}

func NewCreatePoolTxHandler(logger cmtlog.Logger) *PoolTxHandler {
	return newPoolTxHandler(logger, "createPoolTx", func(st *state.State, btx *tx.VaultTx, checkOnly bool) ([]abcitypes.Event, error) {
		event, err := st.CreatePool(btx.Tx.(*tx.CreatePoolTx), btx.Sender, checkOnly)
		if err != nil || event == nil {
			return nil, err
		}
		return []abcitypes.Event{types.EncodeEventPoolCreated(event)}, nil
	})
}

func NewAddFundsTxHandler(logger cmtlog.Logger) *PoolTxHandler {
	return newPoolTxHandler(logger, "addFundsTx", func(st *state.State, btx *tx.VaultTx, checkOnly bool) ([]abcitypes.Event, error) {
		event, err := st.AddFunds(btx.Tx.(*tx.AddFundsTx), btx.Sender, checkOnly)
		if err != nil || event == nil {
			return nil, err
		}
		return []abcitypes.Event{types.EncodeEventFundsAdded(event)}, nil
	})
}

func NewRemoveFundsTxHandler(logger cmtlog.Logger) *PoolTxHandler {
	return newPoolTxHandler(logger, "removeFundsTx", func(st *state.State, btx *tx.VaultTx, checkOnly bool) ([]abcitypes.Event, error) {
		event, err := st.RemoveFunds(btx.Tx.(*tx.RemoveFundsTx), btx.Sender, checkOnly)
		if err != nil || event == nil {
			return nil, err
		}
		return []abcitypes.Event{types.EncodeEventFundsRemoved(event)}, nil
	})
}

func NewDistributeFundsTxHandler(logger cmtlog.Logger) *PoolTxHandler {
	return newPoolTxHandler(logger, "distributeFundsTx", func(st *state.State, btx *tx.VaultTx, checkOnly bool) ([]abcitypes.Event, error) {
		event, err := st.DistributeFunds(btx.Tx.(*tx.DistributeFundsTx), btx.Sender, checkOnly)
		if err != nil || event == nil {
			return nil, err
		}
		return []abcitypes.Event{types.EncodeEventFundsDistributed(event)}, nil
	})
}

func NewEmergencyWithdrawTxHandler(logger cmtlog.Logger) *PoolTxHandler {
	return newPoolTxHandler(logger, "emergencyWithdrawTx", func(st *state.State, btx *tx.VaultTx, checkOnly bool) ([]abcitypes.Event, error) {
		_, err := st.EmergencyWithdraw(btx.Tx.(*tx.EmergencyWithdrawTx), btx.Sender, checkOnly)
		return nil, err
	})
}

func NewPausePoolTxHandler(logger cmtlog.Logger) *PoolTxHandler {
	return newPoolTxHandler(logger, "pausePoolTx", func(st *state.State, btx *tx.VaultTx, checkOnly bool) ([]abcitypes.Event, error) {
		return nil, st.SetPoolPause(btx.Tx.(*tx.PausePoolTx).Pool, btx.Sender, true, checkOnly)
	})
}

func NewUnpausePoolTxHandler(logger cmtlog.Logger) *PoolTxHandler {
	return newPoolTxHandler(logger, "unpausePoolTx", func(st *state.State, btx *tx.VaultTx, checkOnly bool) ([]abcitypes.Event, error) {
		return nil, st.SetPoolPause(btx.Tx.(*tx.UnpausePoolTx).Pool, btx.Sender, false, checkOnly)
	})
}

func (h *PoolTxHandler) Check(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	_, err1 := h.apply(st, btx, true)
	if err1 != nil {
		h.logger.Info("CheckTx pool op fail", "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *PoolTxHandler) NewContext(ctx context.Context) {
	h.senderSet = make(map[uint64]bool)
}

func (h *PoolTxHandler) handle(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ExecTxResult, err error) {
	if _, ok := h.senderSet[btx.Sender]; ok {
		return nil, state.ErrOneActionInOneBlock
	}
	events, err := h.apply(st, btx, false)
	if err != nil {
		return nil, err
	}
	h.senderSet[btx.Sender] = true
	res = &abcitypes.ExecTxResult{Events: events}
	return
}

func (h *PoolTxHandler) Prepare(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}

func (h *PoolTxHandler) Process(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}
