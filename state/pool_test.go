package state

import (
	"testing"

	"github.com/fundvault/fundvault-app/tx"
	"github.com/stretchr/testify/require"
)

func TestPoolLifecycle(t *testing.T) {
	st := newTestState(t)
	owner := addTestAccount(t, st, 0, nil)
	alice := addTestAccount(t, st, 1000, nil)
	bob := addTestAccount(t, st, 1000, nil)

	ev, err := st.CreatePool(&tx.CreatePoolTx{}, owner.Index, false)
	require.NoError(t, err)
	require.Equal(t, uint64(0), ev.Pool)

	_, err = st.AddFunds(&tx.AddFundsTx{Pool: 0, Amount: 0}, alice.Index, false)
	require.ErrorIs(t, err, ErrAmountZero)
	_, err = st.AddFunds(&tx.AddFundsTx{Pool: 0, Amount: 5000}, alice.Index, false)
	require.ErrorIs(t, err, ErrInsufficientBalance)
	_, err = st.AddFunds(&tx.AddFundsTx{Pool: 9, Amount: 100}, alice.Index, false)
	require.ErrorIs(t, err, ErrPoolNoexists)

	_, err = st.AddFunds(&tx.AddFundsTx{Pool: 0, Amount: 300}, alice.Index, false)
	require.NoError(t, err)
	fev, err := st.AddFunds(&tx.AddFundsTx{Pool: 0, Amount: 700}, bob.Index, false)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), fev.TotalBalance)

	// Shares track deposits in basis points.
	p, err := st.getPool(0)
	require.NoError(t, err)
	require.Equal(t, uint64(3000), p.Users[alice.Index].Percentage)
	require.Equal(t, uint64(7000), p.Users[bob.Index].Percentage)
	require.Equal(t, uint64(700), balanceOf(t, st, alice.Index))

	// Full-stake exit rebalances the rest.
	fev, err = st.RemoveFunds(&tx.RemoveFundsTx{Pool: 0}, alice.Index, false)
	require.NoError(t, err)
	require.Equal(t, uint64(300), fev.Amount)
	require.Equal(t, uint64(1000), balanceOf(t, st, alice.Index))
	p, err = st.getPool(0)
	require.NoError(t, err)
	require.Equal(t, uint64(10000), p.Users[bob.Index].Percentage)
	require.False(t, p.Users[alice.Index].IsActive)

	_, err = st.RemoveFunds(&tx.RemoveFundsTx{Pool: 0}, alice.Index, false)
	require.ErrorIs(t, err, ErrNotPoolMember)

	// Draining the pool auto-pauses it.
	_, err = st.RemoveFunds(&tx.RemoveFundsTx{Pool: 0}, bob.Index, false)
	require.NoError(t, err)
	p, err = st.getPool(0)
	require.NoError(t, err)
	require.True(t, p.Paused)
	require.Equal(t, uint64(0), p.TotalBalance)

	_, err = st.AddFunds(&tx.AddFundsTx{Pool: 0, Amount: 100}, bob.Index, false)
	require.ErrorIs(t, err, ErrPoolPaused)
}

func TestPoolPauseToggle(t *testing.T) {
	st := newTestState(t)
	owner := addTestAccount(t, st, 0, nil)
	other := addTestAccount(t, st, 0, nil)
	_, err := st.CreatePool(&tx.CreatePoolTx{}, owner.Index, false)
	require.NoError(t, err)

	require.ErrorIs(t, st.SetPoolPause(0, other.Index, true, false), ErrNotOwner)
	require.ErrorIs(t, st.SetPoolPause(0, owner.Index, false, false), ErrPoolNotPaused)
	require.NoError(t, st.SetPoolPause(0, owner.Index, true, false))
	require.ErrorIs(t, st.SetPoolPause(0, owner.Index, true, false), ErrPoolPaused)
	require.NoError(t, st.SetPoolPause(0, owner.Index, false, false))
}

func TestDistributeFunds(t *testing.T) {
	st := newTestState(t)
	owner := addTestAccount(t, st, 0, nil)
	alice := addTestAccount(t, st, 1000, nil)
	bob := addTestAccount(t, st, 1000, nil)
	_, err := st.CreatePool(&tx.CreatePoolTx{}, owner.Index, false)
	require.NoError(t, err)
	_, err = st.AddFunds(&tx.AddFundsTx{Pool: 0, Amount: 300}, alice.Index, false)
	require.NoError(t, err)
	_, err = st.AddFunds(&tx.AddFundsTx{Pool: 0, Amount: 700}, bob.Index, false)
	require.NoError(t, err)

	_, err = st.DistributeFunds(&tx.DistributeFundsTx{Pool: 0}, alice.Index, false)
	require.ErrorIs(t, err, ErrNotOwner)
	_, err = st.DistributeFunds(&tx.DistributeFundsTx{Pool: 0}, owner.Index, false)
	require.ErrorIs(t, err, ErrPoolNotPaused)

	require.NoError(t, st.SetPoolPause(0, owner.Index, true, false))
	ev, err := st.DistributeFunds(&tx.DistributeFundsTx{Pool: 0}, owner.Index, false)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), ev.Amount)
	require.Equal(t, uint64(1000), balanceOf(t, st, alice.Index))
	require.Equal(t, uint64(1000), balanceOf(t, st, bob.Index))

	p, err := st.getPool(0)
	require.NoError(t, err)
	require.Equal(t, uint64(0), p.TotalBalance)
	require.Empty(t, p.ActiveUsers)

	_, err = st.DistributeFunds(&tx.DistributeFundsTx{Pool: 0}, owner.Index, false)
	require.ErrorIs(t, err, ErrPoolEmpty)
}

func TestDistributeFundsTruncation(t *testing.T) {
	st := newTestState(t)
	owner := addTestAccount(t, st, 0, nil)
	alice := addTestAccount(t, st, 10, nil)
	bob := addTestAccount(t, st, 10, nil)
	_, err := st.CreatePool(&tx.CreatePoolTx{}, owner.Index, false)
	require.NoError(t, err)
	_, err = st.AddFunds(&tx.AddFundsTx{Pool: 0, Amount: 1}, alice.Index, false)
	require.NoError(t, err)
	_, err = st.AddFunds(&tx.AddFundsTx{Pool: 0, Amount: 2}, bob.Index, false)
	require.NoError(t, err)
	require.NoError(t, st.SetPoolPause(0, owner.Index, true, false))

	// Shares of 3333 and 6666 bps on a total of 3 floor to 0 and 1.
	ev, err := st.DistributeFunds(&tx.DistributeFundsTx{Pool: 0}, owner.Index, false)
	require.NoError(t, err)
	require.Equal(t, uint64(1), ev.Amount)
	require.Equal(t, uint64(9), balanceOf(t, st, alice.Index))
	require.Equal(t, uint64(9), balanceOf(t, st, bob.Index))
}

func TestDistributeFundsZeroShare(t *testing.T) {
	st := newTestState(t)
	owner := addTestAccount(t, st, 0, nil)
	dust := addTestAccount(t, st, 10, nil)
	whale := addTestAccount(t, st, 30000, nil)
	_, err := st.CreatePool(&tx.CreatePoolTx{}, owner.Index, false)
	require.NoError(t, err)
	_, err = st.AddFunds(&tx.AddFundsTx{Pool: 0, Amount: 1}, dust.Index, false)
	require.NoError(t, err)
	_, err = st.AddFunds(&tx.AddFundsTx{Pool: 0, Amount: 29999}, whale.Index, false)
	require.NoError(t, err)

	// 1 of 30000 floors to 0 bps.
	p, err := st.getPool(0)
	require.NoError(t, err)
	require.Equal(t, uint64(0), p.Users[dust.Index].Percentage)

	require.NoError(t, st.SetPoolPause(0, owner.Index, true, false))
	_, err = st.DistributeFunds(&tx.DistributeFundsTx{Pool: 0}, owner.Index, false)
	require.NoError(t, err)

	// The zero-share stake is cleared with everyone else's.
	p, err = st.getPool(0)
	require.NoError(t, err)
	require.Equal(t, uint64(0), p.TotalBalance)
	require.Empty(t, p.ActiveUsers)
	require.Equal(t, uint64(0), p.Users[dust.Index].Balance)
	require.False(t, p.Users[dust.Index].IsActive)

	// Re-entering after distribution builds a fresh stake, and leaving
	// again never pays out more than the pool holds.
	require.NoError(t, st.SetPoolPause(0, owner.Index, false, false))
	_, err = st.AddFunds(&tx.AddFundsTx{Pool: 0, Amount: 1}, dust.Index, false)
	require.NoError(t, err)
	p, err = st.getPool(0)
	require.NoError(t, err)
	require.Equal(t, []uint64{dust.Index}, p.ActiveUsers)
	require.Equal(t, uint64(10000), p.Users[dust.Index].Percentage)

	ev, err := st.RemoveFunds(&tx.RemoveFundsTx{Pool: 0}, dust.Index, false)
	require.NoError(t, err)
	require.Equal(t, uint64(1), ev.Amount)
	require.Equal(t, uint64(0), ev.TotalBalance)
	require.Equal(t, uint64(9), balanceOf(t, st, dust.Index))
}

func TestEmergencyWithdraw(t *testing.T) {
	st := newTestState(t)
	owner := addTestAccount(t, st, 0, nil)
	alice := addTestAccount(t, st, 1000, nil)
	_, err := st.CreatePool(&tx.CreatePoolTx{}, owner.Index, false)
	require.NoError(t, err)
	_, err = st.AddFunds(&tx.AddFundsTx{Pool: 0, Amount: 400}, alice.Index, false)
	require.NoError(t, err)

	_, err = st.EmergencyWithdraw(&tx.EmergencyWithdrawTx{Pool: 0}, alice.Index, false)
	require.ErrorIs(t, err, ErrNotOwner)

	ev, err := st.EmergencyWithdraw(&tx.EmergencyWithdrawTx{Pool: 0}, owner.Index, false)
	require.NoError(t, err)
	require.Equal(t, uint64(400), ev.Amount)
	require.Equal(t, uint64(400), balanceOf(t, st, owner.Index))

	p, err := st.getPool(0)
	require.NoError(t, err)
	require.Equal(t, uint64(0), p.TotalBalance)
	require.Empty(t, p.ActiveUsers)
	require.Equal(t, uint64(0), p.Users[alice.Index].Balance)
}

func TestAssetPool(t *testing.T) {
	st := newTestState(t)
	owner := addTestAccount(t, st, 0, nil)
	alice := addTestAccount(t, st, 0, map[string]uint64{"usdq": 500})
	_, err := st.CreatePool(&tx.CreatePoolTx{Asset: "usdq"}, owner.Index, false)
	require.NoError(t, err)

	_, err = st.AddFunds(&tx.AddFundsTx{Pool: 0, Amount: 600}, alice.Index, false)
	require.ErrorIs(t, err, ErrInsufficientBalance)
	_, err = st.AddFunds(&tx.AddFundsTx{Pool: 0, Amount: 500}, alice.Index, false)
	require.NoError(t, err)
	require.Equal(t, uint64(0), assetBalanceOf(t, st, alice.Index, "usdq"))

	_, err = st.RemoveFunds(&tx.RemoveFundsTx{Pool: 0}, alice.Index, false)
	require.NoError(t, err)
	require.Equal(t, uint64(500), assetBalanceOf(t, st, alice.Index, "usdq"))
}

func TestGlobalPauseBlocksPoolFunds(t *testing.T) {
	st := newTestState(t)
	admin := addTestAccount(t, st, 0, nil)
	st.SetAdmin(admin.Index)
	owner := addTestAccount(t, st, 0, nil)
	alice := addTestAccount(t, st, 1000, nil)
	_, err := st.CreatePool(&tx.CreatePoolTx{}, owner.Index, false)
	require.NoError(t, err)
	_, err = st.AddFunds(&tx.AddFundsTx{Pool: 0, Amount: 100}, alice.Index, false)
	require.NoError(t, err)

	require.NoError(t, st.SetPause(&tx.SetPauseTx{Paused: true}, admin.Index, false))
	_, err = st.AddFunds(&tx.AddFundsTx{Pool: 0, Amount: 100}, alice.Index, false)
	require.ErrorIs(t, err, ErrLedgerPaused)
	_, err = st.RemoveFunds(&tx.RemoveFundsTx{Pool: 0}, alice.Index, false)
	require.ErrorIs(t, err, ErrLedgerPaused)
}

func TestAdminOps(t *testing.T) {
	st := newTestState(t)
	admin := addTestAccount(t, st, 0, nil)
	other := addTestAccount(t, st, 0, nil)
	st.SetAdmin(admin.Index)

	require.ErrorIs(t, st.UpdatePlatformFee(&tx.UpdateFeeTx{FeeBps: 100}, other.Index, false), ErrNotAdmin)
	require.ErrorIs(t, st.UpdatePlatformFee(&tx.UpdateFeeTx{FeeBps: 1001}, admin.Index, false), ErrFeeTooHigh)
	require.NoError(t, st.UpdatePlatformFee(&tx.UpdateFeeTx{FeeBps: 1000}, admin.Index, false))
	require.Equal(t, uint64(1000), st.Header().PlatformFeeBps)

	require.ErrorIs(t, st.UpdateFeeCollector(&tx.UpdateCollectorTx{Collector: other.Index + 50}, admin.Index, false), ErrAccountNoexists)
	require.NoError(t, st.UpdateFeeCollector(&tx.UpdateCollectorTx{Collector: other.Index}, admin.Index, false))
	require.Equal(t, other.Index, st.Header().FeeCollector)

	require.ErrorIs(t, st.SetPause(&tx.SetPauseTx{Paused: true}, other.Index, false), ErrNotAdmin)
}
