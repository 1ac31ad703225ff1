package state

import (
	"testing"

	"github.com/fundvault/fundvault-app/tx"
	"github.com/cometbft/cometbft/crypto/ed25519"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/cosmos/iavl"
	dbm "github.com/cosmos/iavl/db"
	"github.com/stretchr/testify/require"
)

const testTime = int64(1700000000)

func newTestState(t *testing.T) *State {
	t.Helper()
	logger := cmtlog.NewNopLogger()
	ldb, err := dbm.NewDB("fundvault", "goleveldb", t.TempDir())
	require.NoError(t, err)
	tree := iavl.NewMutableTree(ldb, 128, true, Cometbft2CosmosLogger(logger))
	t.Cleanup(func() { tree.Close() })
	st := newState(tree, logger)
	require.NoError(t, st.load())
	st.SetChainId("vault-test")
	st.SetBlockTime(testTime)
	return st
}

func addTestAccount(t *testing.T, st *State, balance uint64, assets map[string]uint64) *Account {
	t.Helper()
	priv := ed25519.GenPrivKey()
	a := &Account{Balance: balance, AssetBalances: assets}
	a.SetPubKey(priv.PubKey().Bytes())
	require.NoError(t, st.AddAccount(a))
	return a
}

func balanceOf(t *testing.T, st *State, idx uint64) uint64 {
	t.Helper()
	a, err := st.GetAccount(idx)
	require.NoError(t, err)
	require.NotNil(t, a)
	return a.Balance
}

func assetBalanceOf(t *testing.T, st *State, idx uint64, asset string) uint64 {
	t.Helper()
	a, err := st.GetAccount(idx)
	require.NoError(t, err)
	require.NotNil(t, a)
	return a.AssetBalance(asset)
}

func TestVerifyTx(t *testing.T) {
	st := newTestState(t)
	priv := ed25519.GenPrivKey()
	a := &Account{Balance: 100}
	a.SetPubKey(priv.PubKey().Bytes())
	require.NoError(t, st.AddAccount(a))

	btx := &tx.VaultTx{
		Version: tx.VaultTxVersion1,
		Type:    tx.VaultTxTypeContribute,
		Nonce:   0,
		Sender:  a.Index,
		Tx:      &tx.ContributeTx{Campaign: 0, Amount: 10},
	}
	dat, err := btx.SigData([]byte("vault-test"))
	require.NoError(t, err)
	sig, err := priv.Sign(dat)
	require.NoError(t, err)
	btx.Sig = [][]byte{sig}

	succ, err := st.Verify(btx, false)
	require.NoError(t, err)
	require.True(t, succ)

	btx.Nonce = 5
	_, err = st.Verify(btx, false)
	require.ErrorIs(t, err, ErrTxNonceInvalid)
	_, err = st.Verify(btx, true)
	require.ErrorIs(t, err, ErrTxSigInvalid)

	btx.Sender = a.Index + 100
	_, err = st.Verify(btx, true)
	require.ErrorIs(t, err, ErrAccountNoexists)
}

func TestUpdatePersistsAcrossStates(t *testing.T) {
	st := newTestState(t)
	a := addTestAccount(t, st, 5000, nil)
	_, err := st.CreateCampaign(&tx.CreateCampaignTx{
		Title:                 "persisted",
		GoalAmount:            1000,
		Duration:              3600,
		MinContribution:       1,
		MaxContribution:       1000,
		MilestonePercentages:  []uint64{100},
		MilestoneDescriptions: []string{"all"},
		MilestoneDurations:    []int64{7200},
	}, a.Index, false)
	require.NoError(t, err)
	_, err = st.Update()
	require.NoError(t, err)
	_, err = st.save()
	require.NoError(t, err)

	next := st.nextState()
	c, err := next.getCampaign(0)
	require.NoError(t, err)
	require.Equal(t, "persisted", c.Title)
	got, err := next.GetAccount(a.Index)
	require.NoError(t, err)
	require.Equal(t, uint64(5000), got.Balance)
}
