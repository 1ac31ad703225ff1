package state

import (
	"testing"

	"github.com/fundvault/fundvault-app/tx"
	vault_types "github.com/fundvault/fundvault-app/types"
	"github.com/stretchr/testify/require"
)

func defaultCampaignTx() *tx.CreateCampaignTx {
	return &tx.CreateCampaignTx{
		Title:                 "solar farm",
		Description:           "community solar installation",
		GoalAmount:            1000,
		Duration:              3600,
		MinContribution:       10,
		MaxContribution:       1000,
		MilestonePercentages:  []uint64{50, 50},
		MilestoneDescriptions: []string{"panels", "grid hookup"},
		MilestoneDurations:    []int64{7200, 14400},
		MilestoneQuorum:       2,
	}
}

func TestCreateCampaignValidation(t *testing.T) {
	st := newTestState(t)
	creator := addTestAccount(t, st, 0, nil)

	cases := []struct {
		name   string
		mutate func(*tx.CreateCampaignTx)
		want   error
	}{
		{"zero goal", func(c *tx.CreateCampaignTx) { c.GoalAmount = 0 }, ErrGoalZero},
		{"zero duration", func(c *tx.CreateCampaignTx) { c.Duration = 0 }, ErrDurationZero},
		{"negative duration", func(c *tx.CreateCampaignTx) { c.Duration = -5 }, ErrDurationZero},
		{"zero min", func(c *tx.CreateCampaignTx) { c.MinContribution = 0 }, ErrContributionBounds},
		{"max below min", func(c *tx.CreateCampaignTx) { c.MaxContribution = 5 }, ErrContributionBounds},
		{"arrays mismatch", func(c *tx.CreateCampaignTx) { c.MilestoneDurations = c.MilestoneDurations[:1] }, ErrMilestoneArrays},
		{"split not 100", func(c *tx.CreateCampaignTx) { c.MilestonePercentages = []uint64{50, 40} }, ErrMilestoneSplit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stx := defaultCampaignTx()
			tc.mutate(stx)
			_, err := st.CreateCampaign(stx, creator.Index, false)
			require.ErrorIs(t, err, tc.want)
		})
	}

	_, err := st.CreateCampaign(defaultCampaignTx(), creator.Index+999, false)
	require.ErrorIs(t, err, ErrAccountNoexists)
}

func TestCreateCampaign(t *testing.T) {
	st := newTestState(t)
	creator := addTestAccount(t, st, 0, nil)

	ev, err := st.CreateCampaign(defaultCampaignTx(), creator.Index, false)
	require.NoError(t, err)
	require.NotNil(t, ev)
	require.Equal(t, uint64(0), ev.Campaign)
	require.Equal(t, testTime+3600, ev.Deadline)

	c, err := st.getCampaign(0)
	require.NoError(t, err)
	require.Equal(t, vault_types.CampaignStatusActive, c.Status)
	require.Equal(t, uint64(2), c.MilestoneQuorum)
	require.Len(t, c.Milestones, 2)
	require.Equal(t, testTime+7200, c.Milestones[0].Deadline)

	// Zero quorum selects the default.
	stx := defaultCampaignTx()
	stx.MilestoneQuorum = 0
	_, err = st.CreateCampaign(stx, creator.Index, false)
	require.NoError(t, err)
	c, err = st.getCampaign(1)
	require.NoError(t, err)
	require.Equal(t, uint64(vault_types.DefaultMilestoneQuorum), c.MilestoneQuorum)

	_, err = st.getCampaign(2)
	require.ErrorIs(t, err, ErrCampaignNoexists)
}

func TestContribute(t *testing.T) {
	st := newTestState(t)
	creator := addTestAccount(t, st, 0, nil)
	alice := addTestAccount(t, st, 2000, nil)
	bob := addTestAccount(t, st, 5, nil)
	_, err := st.CreateCampaign(defaultCampaignTx(), creator.Index, false)
	require.NoError(t, err)

	_, err = st.Contribute(&tx.ContributeTx{Campaign: 0, Amount: 5}, alice.Index, false)
	require.ErrorIs(t, err, ErrAmountOutOfBounds)
	_, err = st.Contribute(&tx.ContributeTx{Campaign: 0, Amount: 1500}, alice.Index, false)
	require.ErrorIs(t, err, ErrAmountOutOfBounds)
	_, err = st.Contribute(&tx.ContributeTx{Campaign: 0, Amount: 10}, bob.Index, false)
	require.ErrorIs(t, err, ErrInsufficientBalance)

	ev, err := st.Contribute(&tx.ContributeTx{Campaign: 0, Amount: 600}, alice.Index, false)
	require.NoError(t, err)
	require.Equal(t, uint64(600), ev.Raised)
	require.Equal(t, uint64(1400), balanceOf(t, st, alice.Index))

	// Second contribution would push the per-account total past max.
	_, err = st.Contribute(&tx.ContributeTx{Campaign: 0, Amount: 500}, alice.Index, false)
	require.ErrorIs(t, err, ErrCumulativeExceedsMax)

	// checkOnly validates without moving funds.
	_, err = st.Contribute(&tx.ContributeTx{Campaign: 0, Amount: 400}, alice.Index, true)
	require.NoError(t, err)
	require.Equal(t, uint64(1400), balanceOf(t, st, alice.Index))
	c, err := st.getCampaign(0)
	require.NoError(t, err)
	require.Equal(t, uint64(600), c.RaisedAmount)

	ev, err = st.Contribute(&tx.ContributeTx{Campaign: 0, Amount: 400}, alice.Index, false)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), ev.Raised)
	c, err = st.getCampaign(0)
	require.NoError(t, err)
	require.Equal(t, vault_types.CampaignStatusSuccessful, c.Status)

	// Goal reached: no further contributions.
	_, err = st.Contribute(&tx.ContributeTx{Campaign: 0, Amount: 100}, alice.Index, false)
	require.ErrorIs(t, err, ErrCampaignNotActive)
}

func TestContributeExpiry(t *testing.T) {
	st := newTestState(t)
	creator := addTestAccount(t, st, 0, nil)
	alice := addTestAccount(t, st, 2000, nil)
	_, err := st.CreateCampaign(defaultCampaignTx(), creator.Index, false)
	require.NoError(t, err)
	_, err = st.Contribute(&tx.ContributeTx{Campaign: 0, Amount: 100}, alice.Index, false)
	require.NoError(t, err)

	st.SetBlockTime(testTime + 3600)

	// checkOnly sees the expired campaign as not active but leaves the
	// stored status untouched.
	_, err = st.Contribute(&tx.ContributeTx{Campaign: 0, Amount: 100}, alice.Index, true)
	require.ErrorIs(t, err, ErrCampaignNotActive)
	c, err := st.getCampaign(0)
	require.NoError(t, err)
	require.Equal(t, vault_types.CampaignStatusActive, c.Status)

	_, err = st.Contribute(&tx.ContributeTx{Campaign: 0, Amount: 100}, alice.Index, false)
	require.ErrorIs(t, err, ErrCampaignNotActive)
	c, err = st.getCampaign(0)
	require.NoError(t, err)
	require.Equal(t, vault_types.CampaignStatusFailed, c.Status)
}

func TestContributeAsset(t *testing.T) {
	st := newTestState(t)
	creator := addTestAccount(t, st, 0, nil)
	alice := addTestAccount(t, st, 0, map[string]uint64{"usdq": 500})
	stx := defaultCampaignTx()
	stx.AcceptsAssets = true
	stx.AcceptedAssets = []string{"usdq"}
	_, err := st.CreateCampaign(stx, creator.Index, false)
	require.NoError(t, err)

	_, err = st.ContributeAsset(&tx.ContributeAssetTx{Campaign: 0, Asset: "usdq", Amount: 0}, alice.Index, false)
	require.ErrorIs(t, err, ErrAmountZero)
	_, err = st.ContributeAsset(&tx.ContributeAssetTx{Campaign: 0, Asset: "gold", Amount: 10}, alice.Index, false)
	require.ErrorIs(t, err, ErrAssetNotAccepted)
	_, err = st.ContributeAsset(&tx.ContributeAssetTx{Campaign: 0, Asset: "usdq", Amount: 600}, alice.Index, false)
	require.ErrorIs(t, err, ErrInsufficientBalance)

	ev, err := st.ContributeAsset(&tx.ContributeAssetTx{Campaign: 0, Asset: "usdq", Amount: 200}, alice.Index, false)
	require.NoError(t, err)
	require.Equal(t, "usdq", ev.Asset)
	require.Equal(t, uint64(300), assetBalanceOf(t, st, alice.Index, "usdq"))

	// Asset contributions never count towards the goal.
	c, err := st.getCampaign(0)
	require.NoError(t, err)
	require.Equal(t, uint64(0), c.RaisedAmount)
	require.Equal(t, vault_types.CampaignStatusActive, c.Status)
	require.True(t, c.IsContributor(alice.Index))
}

func TestVoteMilestoneRelease(t *testing.T) {
	st := newTestState(t)
	admin := addTestAccount(t, st, 0, nil)
	collector := addTestAccount(t, st, 0, nil)
	st.SetAdmin(admin.Index)
	st.SetFeeCollector(collector.Index)
	require.NoError(t, st.SetPlatformFeeBps(250))

	creator := addTestAccount(t, st, 0, nil)
	alice := addTestAccount(t, st, 2000, nil)
	bob := addTestAccount(t, st, 2000, nil)
	outsider := addTestAccount(t, st, 2000, nil)
	_, err := st.CreateCampaign(defaultCampaignTx(), creator.Index, false)
	require.NoError(t, err)

	// Voting needs a Successful campaign.
	_, err = st.VoteMilestone(&tx.VoteMilestoneTx{Campaign: 0}, alice.Index, false)
	require.ErrorIs(t, err, ErrCampaignNotActive)

	_, err = st.Contribute(&tx.ContributeTx{Campaign: 0, Amount: 600}, alice.Index, false)
	require.NoError(t, err)
	_, err = st.Contribute(&tx.ContributeTx{Campaign: 0, Amount: 400}, bob.Index, false)
	require.NoError(t, err)

	_, err = st.VoteMilestone(&tx.VoteMilestoneTx{Campaign: 0}, outsider.Index, false)
	require.ErrorIs(t, err, ErrNotContributor)

	// First vote is below quorum: no release yet.
	ev, err := st.VoteMilestone(&tx.VoteMilestoneTx{Campaign: 0}, alice.Index, false)
	require.NoError(t, err)
	require.Nil(t, ev)
	require.Equal(t, uint64(0), balanceOf(t, st, creator.Index))

	_, err = st.VoteMilestone(&tx.VoteMilestoneTx{Campaign: 0}, alice.Index, false)
	require.ErrorIs(t, err, ErrAlreadyVoted)

	// Second vote reaches quorum 2. Release 50% of 1000 with a 2.5% fee:
	// 500 gross, 12 fee, 488 to the creator.
	ev, err = st.VoteMilestone(&tx.VoteMilestoneTx{Campaign: 0}, bob.Index, false)
	require.NoError(t, err)
	require.NotNil(t, ev)
	require.Equal(t, uint64(0), ev.Milestone)
	require.Equal(t, uint64(488), ev.Released)
	require.Equal(t, uint64(12), ev.Fee)
	require.Equal(t, uint64(488), balanceOf(t, st, creator.Index))
	require.Equal(t, uint64(12), balanceOf(t, st, collector.Index))

	c, err := st.getCampaign(0)
	require.NoError(t, err)
	require.Equal(t, uint64(1), c.CurrentMilestone)
	require.True(t, c.Milestones[0].Released)

	// Second milestone releases the remaining tranche.
	_, err = st.VoteMilestone(&tx.VoteMilestoneTx{Campaign: 0}, alice.Index, false)
	require.NoError(t, err)
	ev, err = st.VoteMilestone(&tx.VoteMilestoneTx{Campaign: 0}, bob.Index, false)
	require.NoError(t, err)
	require.NotNil(t, ev)
	require.Equal(t, uint64(976), balanceOf(t, st, creator.Index))
	require.Equal(t, uint64(24), balanceOf(t, st, collector.Index))

	_, err = st.VoteMilestone(&tx.VoteMilestoneTx{Campaign: 0}, alice.Index, false)
	require.ErrorIs(t, err, ErrAllMilestonesDone)
}

func TestCancelCampaign(t *testing.T) {
	st := newTestState(t)
	admin := addTestAccount(t, st, 0, nil)
	st.SetAdmin(admin.Index)
	creator := addTestAccount(t, st, 0, nil)
	other := addTestAccount(t, st, 0, nil)
	_, err := st.CreateCampaign(defaultCampaignTx(), creator.Index, false)
	require.NoError(t, err)
	_, err = st.CreateCampaign(defaultCampaignTx(), creator.Index, false)
	require.NoError(t, err)

	_, err = st.CancelCampaign(&tx.CancelCampaignTx{Campaign: 0}, other.Index, false)
	require.ErrorIs(t, err, ErrNotCreatorOrAdmin)

	ev, err := st.CancelCampaign(&tx.CancelCampaignTx{Campaign: 0}, creator.Index, false)
	require.NoError(t, err)
	require.Equal(t, creator.Index, ev.By)
	c, err := st.getCampaign(0)
	require.NoError(t, err)
	require.Equal(t, vault_types.CampaignStatusCancelled, c.Status)

	_, err = st.CancelCampaign(&tx.CancelCampaignTx{Campaign: 0}, creator.Index, false)
	require.ErrorIs(t, err, ErrCampaignNotActive)

	// Admin can cancel too.
	ev, err = st.CancelCampaign(&tx.CancelCampaignTx{Campaign: 1}, admin.Index, false)
	require.NoError(t, err)
	require.Equal(t, admin.Index, ev.By)
}

func TestClaimRefund(t *testing.T) {
	st := newTestState(t)
	creator := addTestAccount(t, st, 0, nil)
	alice := addTestAccount(t, st, 2000, map[string]uint64{"usdq": 500})
	stx := defaultCampaignTx()
	stx.AcceptsAssets = true
	stx.AcceptedAssets = []string{"usdq"}
	_, err := st.CreateCampaign(stx, creator.Index, false)
	require.NoError(t, err)
	_, err = st.Contribute(&tx.ContributeTx{Campaign: 0, Amount: 300}, alice.Index, false)
	require.NoError(t, err)
	_, err = st.ContributeAsset(&tx.ContributeAssetTx{Campaign: 0, Asset: "usdq", Amount: 200}, alice.Index, false)
	require.NoError(t, err)

	// Active campaigns are not refundable.
	_, err = st.ClaimRefund(&tx.ClaimRefundTx{Campaign: 0}, alice.Index, false)
	require.ErrorIs(t, err, ErrCampaignNotSettable)

	// Deadline passes below goal: ClaimRefund settles the campaign Failed
	// and pays out in the same call. A checkOnly pass validates against
	// the effective status without settling.
	st.SetBlockTime(testTime + 3600)
	_, err = st.ClaimRefund(&tx.ClaimRefundTx{Campaign: 0}, alice.Index, true)
	require.NoError(t, err)
	c, err := st.getCampaign(0)
	require.NoError(t, err)
	require.Equal(t, vault_types.CampaignStatusActive, c.Status)

	ev, err := st.ClaimRefund(&tx.ClaimRefundTx{Campaign: 0}, alice.Index, false)
	require.NoError(t, err)
	require.Equal(t, uint64(300), ev.Amount)
	require.Equal(t, uint64(2000), balanceOf(t, st, alice.Index))
	require.Equal(t, uint64(500), assetBalanceOf(t, st, alice.Index, "usdq"))

	c, err = st.getCampaign(0)
	require.NoError(t, err)
	require.Equal(t, vault_types.CampaignStatusFailed, c.Status)
	require.Equal(t, uint64(300), c.RaisedAmount)

	_, err = st.ClaimRefund(&tx.ClaimRefundTx{Campaign: 0}, alice.Index, false)
	require.ErrorIs(t, err, ErrNotContributor)
	_, err = st.ClaimRefund(&tx.ClaimRefundTx{Campaign: 0}, creator.Index, false)
	require.ErrorIs(t, err, ErrNotContributor)
}

func TestGlobalPauseBlocksContribute(t *testing.T) {
	st := newTestState(t)
	admin := addTestAccount(t, st, 0, nil)
	st.SetAdmin(admin.Index)
	creator := addTestAccount(t, st, 0, nil)
	alice := addTestAccount(t, st, 2000, nil)
	_, err := st.CreateCampaign(defaultCampaignTx(), creator.Index, false)
	require.NoError(t, err)

	require.NoError(t, st.SetPause(&tx.SetPauseTx{Paused: true}, admin.Index, false))
	_, err = st.Contribute(&tx.ContributeTx{Campaign: 0, Amount: 100}, alice.Index, false)
	require.ErrorIs(t, err, ErrLedgerPaused)

	require.NoError(t, st.SetPause(&tx.SetPauseTx{Paused: false}, admin.Index, false))
	_, err = st.Contribute(&tx.ContributeTx{Campaign: 0, Amount: 100}, alice.Index, false)
	require.NoError(t, err)
}
