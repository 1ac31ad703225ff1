package handler

import (
	"context"

	"github.com/fundvault/fundvault-app/state"
	"github.com/fundvault/fundvault-app/tx"
	abcitypes "github.com/cometbft/cometbft/abci/types"
)

type TxHandler interface {
	Check(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ResponseCheckTx, err error)
	NewContext(ctx context.Context)
	Prepare(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ExecTxResult, err error)
	Process(ctx context.Context, st *state.State, btx *tx.VaultTx) (res *abcitypes.ExecTxResult, err error)
}
