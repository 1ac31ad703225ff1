package tx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnmarshalVaultTx(t *testing.T) {
	btx := &VaultTx{
		Version: VaultTxVersion1,
		Type:    VaultTxTypeContribute,
		Nonce:   7,
		Sender:  65537,
		Tx:      &ContributeTx{Campaign: 3, Amount: 250},
		Sig:     [][]byte{{0x01, 0x02}},
	}
	dat, err := MarshalVaultTx(btx)
	require.NoError(t, err)

	got, err := UnmarshalVaultTx(dat)
	require.NoError(t, err)
	require.Equal(t, btx.Version, got.Version)
	require.Equal(t, btx.Type, got.Type)
	require.Equal(t, btx.Nonce, got.Nonce)
	require.Equal(t, btx.Sender, got.Sender)
	require.Equal(t, btx.Sig, got.Sig)

	stx, ok := got.Tx.(*ContributeTx)
	require.True(t, ok)
	require.Equal(t, uint64(3), stx.Campaign)
	require.Equal(t, uint64(250), stx.Amount)
}

func TestUnmarshalVaultTxDispatch(t *testing.T) {
	cases := []struct {
		tp      VaultTxType
		payload any
		check   func(t *testing.T, got any)
	}{
		{VaultTxTypeCreateCampaign, &CreateCampaignTx{Title: "x", GoalAmount: 10}, func(t *testing.T, got any) {
			stx, ok := got.(*CreateCampaignTx)
			require.True(t, ok)
			require.Equal(t, "x", stx.Title)
		}},
		{VaultTxTypeVoteMilestone, &VoteMilestoneTx{Campaign: 2}, func(t *testing.T, got any) {
			stx, ok := got.(*VoteMilestoneTx)
			require.True(t, ok)
			require.Equal(t, uint64(2), stx.Campaign)
		}},
		{VaultTxTypeDistributeFunds, &DistributeFundsTx{Pool: 4}, func(t *testing.T, got any) {
			stx, ok := got.(*DistributeFundsTx)
			require.True(t, ok)
			require.Equal(t, uint64(4), stx.Pool)
		}},
		{VaultTxTypeSetPause, &SetPauseTx{Paused: true}, func(t *testing.T, got any) {
			stx, ok := got.(*SetPauseTx)
			require.True(t, ok)
			require.True(t, stx.Paused)
		}},
	}
	for _, tc := range cases {
		dat, err := MarshalVaultTx(&VaultTx{Version: VaultTxVersion1, Type: tc.tp, Tx: tc.payload})
		require.NoError(t, err)
		got, err := UnmarshalVaultTx(dat)
		require.NoError(t, err)
		require.Equal(t, tc.tp, got.Type)
		tc.check(t, got.Tx)
	}
}

func TestUnmarshalVaultTxUnsupported(t *testing.T) {
	dat, err := MarshalVaultTx(&VaultTx{Version: VaultTxVersion1, Type: 99})
	require.NoError(t, err)
	_, err = UnmarshalVaultTx(dat)
	require.ErrorIs(t, err, ErrUnsupportedTxType)

	_, err = UnmarshalVaultTx([]byte("{}"))
	require.ErrorIs(t, err, ErrUnsupportedTxType)
}

func TestSigDataSalting(t *testing.T) {
	btx := &VaultTx{
		Version: VaultTxVersion1,
		Type:    VaultTxTypeContribute,
		Nonce:   1,
		Sender:  65536,
		Tx:      &ContributeTx{Campaign: 0, Amount: 50},
	}
	a, err := btx.SigData([]byte("chain-a"))
	require.NoError(t, err)
	b, err := btx.SigData([]byte("chain-b"))
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	// The salt replaces the signature slots, so signing leaves the
	// canonical bytes unchanged.
	btx.Sig = [][]byte{{0xaa}}
	c, err := btx.SigData([]byte("chain-a"))
	require.NoError(t, err)
	require.Equal(t, a, c)
}
