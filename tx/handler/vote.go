package handler

import (
	"context"

	"github.com/fundvault/fundvault-app/state"
	"github.com/fundvault/fundvault-app/tx"
	"github.com/fundvault/fundvault-app/types"
	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
)

// VoteMilestoneTxHandler applies one vote per sender per block; the voter
// set inside the milestone enforces once-per-milestone.
type VoteMilestoneTxHandler struct {
	logger cmtlog.Logger

	senderSet map[uint64]bool
}

func NewVoteMilestoneTxHandler(logger cmtlog.Logger) (h *VoteMilestoneTxHandler) {
	logger = logger.With("module", "voteMilestoneTx")
	h = &VoteMilestoneTxHandler{
		logger:    logger,
		senderSet: make(map[uint64]bool),
	}
	return
}

func (h *VoteMilestoneTxHandler) Check(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	stx := btx.Tx.(*tx.VoteMilestoneTx)
	_, err1 := st.VoteMilestone(stx, btx.Sender, true)
	if err1 != nil {
		h.logger.Info("CheckTx vote milestone fail", "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *VoteMilestoneTxHandler) NewContext(ctx context.Context) {
	h.senderSet = make(map[uint64]bool)
}

func (h *VoteMilestoneTxHandler) handle(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ExecTxResult, err error) {
	if _, ok := h.senderSet[btx.Sender]; ok {
		return nil, state.ErrOneActionInOneBlock
	}
	stx := btx.Tx.(*tx.VoteMilestoneTx)
	event, err := st.VoteMilestone(stx, btx.Sender, false)
	if err != nil {
		return nil, err
	}
	h.senderSet[btx.Sender] = true
	res = &abcitypes.ExecTxResult{}
	if event != nil {
		res.Events = []abcitypes.Event{types.EncodeEventMilestoneCompleted(event)}
	}
	return
}

func (h *VoteMilestoneTxHandler) Prepare(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}

func (h *VoteMilestoneTxHandler) Process(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}
