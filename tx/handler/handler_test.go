package handler

import (
	"context"
	"testing"

	"github.com/fundvault/fundvault-app/state"
	"github.com/fundvault/fundvault-app/tx"
	"github.com/cometbft/cometbft/crypto/ed25519"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/stretchr/testify/require"
)

func newHandlerState(t *testing.T) *state.State {
	t.Helper()
	db, err := state.NewStateDB(t.TempDir(), cmtlog.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st := db.NewState()
	st.SetChainId("vault-test")
	st.SetBlockTime(1700000000)
	return st
}

func addAccount(t *testing.T, st *state.State, balance uint64) *state.Account {
	t.Helper()
	priv := ed25519.GenPrivKey()
	a := &state.Account{Balance: balance}
	a.SetPubKey(priv.PubKey().Bytes())
	require.NoError(t, st.AddAccount(a))
	return a
}

func TestOneActionInOneBlock(t *testing.T) {
	st := newHandlerState(t)
	creator := addAccount(t, st, 0)
	alice := addAccount(t, st, 2000)
	_, err := st.CreateCampaign(&tx.CreateCampaignTx{
		Title:                 "bridge repair",
		GoalAmount:            1000,
		Duration:              3600,
		MinContribution:       10,
		MaxContribution:       1000,
		MilestonePercentages:  []uint64{100},
		MilestoneDescriptions: []string{"work"},
		MilestoneDurations:    []int64{7200},
	}, creator.Index, false)
	require.NoError(t, err)

	h := NewContributeTxHandler(cmtlog.NewNopLogger())
	ctx := context.Background()
	h.NewContext(ctx)

	btx := &tx.VaultTx{
		Version: tx.VaultTxVersion1,
		Type:    tx.VaultTxTypeContribute,
		Sender:  alice.Index,
		Tx:      &tx.ContributeTx{Campaign: 0, Amount: 100},
	}
	res, err := h.Process(ctx, st, btx)
	require.NoError(t, err)
	require.Len(t, res.Events, 1)

	// Same sender again in the same block is rejected.
	_, err = h.Process(ctx, st, btx)
	require.ErrorIs(t, err, state.ErrOneActionInOneBlock)

	// A fresh block clears the guard.
	h.NewContext(ctx)
	_, err = h.Process(ctx, st, btx)
	require.NoError(t, err)
}

func TestCheckDoesNotMutate(t *testing.T) {
	st := newHandlerState(t)
	creator := addAccount(t, st, 0)
	alice := addAccount(t, st, 2000)
	_, err := st.CreateCampaign(&tx.CreateCampaignTx{
		Title:                 "bridge repair",
		GoalAmount:            1000,
		Duration:              3600,
		MinContribution:       10,
		MaxContribution:       1000,
		MilestonePercentages:  []uint64{100},
		MilestoneDescriptions: []string{"work"},
		MilestoneDurations:    []int64{7200},
	}, creator.Index, false)
	require.NoError(t, err)

	h := NewContributeTxHandler(cmtlog.NewNopLogger())
	ctx := context.Background()
	btx := &tx.VaultTx{
		Version: tx.VaultTxVersion1,
		Type:    tx.VaultTxTypeContribute,
		Sender:  alice.Index,
		Tx:      &tx.ContributeTx{Campaign: 0, Amount: 100},
	}
	res, err := h.Check(ctx, st, btx)
	require.NoError(t, err)
	require.Equal(t, uint32(0), res.Code)

	a, err := st.GetAccount(alice.Index)
	require.NoError(t, err)
	require.Equal(t, uint64(2000), a.Balance)

	// Invalid amounts surface as a non-zero code, not an error.
	btx.Tx = &tx.ContributeTx{Campaign: 0, Amount: 1}
	res, err = h.Check(ctx, st, btx)
	require.NoError(t, err)
	require.NotEqual(t, uint32(0), res.Code)

	// An expired campaign is reported as not active; the mempool state
	// keeps the stored status, settlement happens in the block that
	// applies the next campaign operation.
	st.SetBlockTime(1700000000 + 3600)
	btx.Tx = &tx.ContributeTx{Campaign: 0, Amount: 100}
	res, err = h.Check(ctx, st, btx)
	require.NoError(t, err)
	require.NotEqual(t, uint32(0), res.Code)
	require.Contains(t, res.Log, "not active")
}
