package state

import (
	"github.com/fundvault/fundvault-app/tx"
	vault_types "github.com/fundvault/fundvault-app/types"
)

// settleExpiry applies the deadline transition lazily: an Active campaign
// past its deadline that never reached its goal turns Failed before the
// calling operation runs its own checks. Returns the effective status;
// the transition is written back only on a real apply.
func (s *State) settleExpiry(c *vault_types.Campaign, checkOnly bool) vault_types.CampaignStatus {
	if c.Status != vault_types.CampaignStatusActive {
		return c.Status
	}
	if s.Now() >= c.Deadline && c.RaisedAmount < c.GoalAmount {
		if checkOnly {
			return vault_types.CampaignStatusFailed
		}
		c.Status = vault_types.CampaignStatusFailed
		s.markCampaign(c)
	}
	return c.Status
}

func (s *State) CreateCampaign(stx *tx.CreateCampaignTx, sender uint64, checkOnly bool) (event *vault_types.EventCampaignCreated, err error) {
	s.logger.Debug("apply create campaign", "sender", sender, "height", s.header.Height)
	a, err := s.GetAccount(sender)
	if err != nil {
		return nil, err
	}
	if a == nil {
		err = ErrTxSenderNoexists
		return
	}
	if stx.GoalAmount == 0 {
		err = ErrGoalZero
		return
	}
	if stx.Duration <= 0 {
		err = ErrDurationZero
		return
	}
	if stx.MinContribution == 0 || stx.MaxContribution < stx.MinContribution {
		err = ErrContributionBounds
		return
	}
	n := len(stx.MilestonePercentages)
	if n != len(stx.MilestoneDescriptions) || n != len(stx.MilestoneDurations) {
		err = ErrMilestoneArrays
		return
	}
	var pctSum uint64
	for _, pct := range stx.MilestonePercentages {
		pctSum += pct
	}
	if pctSum != 100 {
		err = ErrMilestoneSplit
		return
	}
	if !checkOnly {
		quorum := stx.MilestoneQuorum
		if quorum == 0 {
			quorum = vault_types.DefaultMilestoneQuorum
		}
		now := s.Now()
		milestones := make([]vault_types.Milestone, n)
		for i := range milestones {
			milestones[i] = vault_types.Milestone{
				Description: stx.MilestoneDescriptions[i],
				Percentage:  stx.MilestonePercentages[i],
				Deadline:    now + stx.MilestoneDurations[i],
				Voters:      make(map[uint64]bool),
			}
		}
		c := &vault_types.Campaign{
			Index:              s.header.CampaignIdx,
			Creator:            a.Index,
			CreatorAddress:     a.Address(),
			Title:              stx.Title,
			Description:        stx.Description,
			GoalAmount:         stx.GoalAmount,
			Deadline:           now + stx.Duration,
			MinContribution:    stx.MinContribution,
			MaxContribution:    stx.MaxContribution,
			Status:             vault_types.CampaignStatusActive,
			Milestones:         milestones,
			MilestoneQuorum:    quorum,
			AcceptsAssets:      stx.AcceptsAssets,
			AcceptedAssets:     append([]string(nil), stx.AcceptedAssets...),
			Contributions:      make(map[uint64]uint64),
			AssetContributions: make(map[uint64]map[string]uint64),
		}
		s.header.CampaignIdx += 1
		s.markCampaign(c)
		s.touchAccount(a)

		event = &vault_types.EventCampaignCreated{
			Campaign:       c.Index,
			Creator:        a.Index,
			CreatorAddress: a.Address(),
			Title:          c.Title,
			GoalAmount:     c.GoalAmount,
			Deadline:       c.Deadline,
		}
	}
	return
}

func (s *State) Contribute(stx *tx.ContributeTx, sender uint64, checkOnly bool) (event *vault_types.EventContribution, err error) {
	s.logger.Debug("apply contribute", "sender", sender, "campaign", stx.Campaign, "amount", stx.Amount)
	if s.header.Paused {
		err = ErrLedgerPaused
		return
	}
	a, err := s.GetAccount(sender)
	if err != nil {
		return nil, err
	}
	if a == nil {
		err = ErrTxSenderNoexists
		return
	}
	c, err := s.getCampaign(stx.Campaign)
	if err != nil {
		return nil, err
	}
	if s.settleExpiry(c, checkOnly).Terminal() {
		err = ErrCampaignNotActive
		return
	}
	if stx.Amount < c.MinContribution || stx.Amount > c.MaxContribution {
		err = ErrAmountOutOfBounds
		return
	}
	if c.Contributions[sender]+stx.Amount > c.MaxContribution {
		err = ErrCumulativeExceedsMax
		return
	}
	if a.Balance < stx.Amount {
		err = ErrInsufficientBalance
		return
	}
	if !checkOnly {
		if err = s.debitNative(a, stx.Amount); err != nil {
			return nil, err
		}
		c.Contributions[sender] += stx.Amount
		c.RaisedAmount += stx.Amount
		if c.RaisedAmount >= c.GoalAmount {
			c.Status = vault_types.CampaignStatusSuccessful
		}
		s.markCampaign(c)
		s.touchAccount(a)

		event = &vault_types.EventContribution{
			Campaign:           c.Index,
			Contributor:        a.Index,
			ContributorAddress: a.Address(),
			Amount:             stx.Amount,
			Raised:             c.RaisedAmount,
		}
	}
	return
}

func (s *State) ContributeAsset(stx *tx.ContributeAssetTx, sender uint64, checkOnly bool) (event *vault_types.EventContribution, err error) {
	s.logger.Debug("apply contribute asset", "sender", sender, "campaign", stx.Campaign, "asset", stx.Asset)
	if s.header.Paused {
		err = ErrLedgerPaused
		return
	}
	a, err := s.GetAccount(sender)
	if err != nil {
		return nil, err
	}
	if a == nil {
		err = ErrTxSenderNoexists
		return
	}
	c, err := s.getCampaign(stx.Campaign)
	if err != nil {
		return nil, err
	}
	if s.settleExpiry(c, checkOnly).Terminal() {
		err = ErrCampaignNotActive
		return
	}
	if stx.Amount == 0 {
		err = ErrAmountZero
		return
	}
	if !c.AcceptsAsset(stx.Asset) {
		err = ErrAssetNotAccepted
		return
	}
	if a.AssetBalance(stx.Asset) < stx.Amount {
		err = ErrInsufficientBalance
		return
	}
	if !checkOnly {
		if err = s.debitAsset(a, stx.Asset, stx.Amount); err != nil {
			return nil, err
		}
		if c.AssetContributions[sender] == nil {
			c.AssetContributions[sender] = make(map[string]uint64)
		}
		// Tracked separately: asset contributions never move RaisedAmount
		// and play no part in milestone release arithmetic.
		c.AssetContributions[sender][stx.Asset] += stx.Amount
		s.markCampaign(c)
		s.touchAccount(a)

		event = &vault_types.EventContribution{
			Campaign:           c.Index,
			Contributor:        a.Index,
			ContributorAddress: a.Address(),
			Amount:             stx.Amount,
			Asset:              stx.Asset,
			Raised:             c.RaisedAmount,
		}
	}
	return
}

// VoteMilestone records the sender's approval of the current milestone.
// Reaching the quorum releases the tranche: state is mutated first and the
// creator/fee transfers happen last within the same atomic apply.
func (s *State) VoteMilestone(stx *tx.VoteMilestoneTx, sender uint64, checkOnly bool) (event *vault_types.EventMilestoneCompleted, err error) {
	s.logger.Debug("apply vote milestone", "sender", sender, "campaign", stx.Campaign)
	a, err := s.GetAccount(sender)
	if err != nil {
		return nil, err
	}
	if a == nil {
		err = ErrTxSenderNoexists
		return
	}
	c, err := s.getCampaign(stx.Campaign)
	if err != nil {
		return nil, err
	}
	if c.Status != vault_types.CampaignStatusSuccessful {
		err = ErrCampaignNotActive
		return
	}
	if c.CurrentMilestone >= uint64(len(c.Milestones)) {
		err = ErrAllMilestonesDone
		return
	}
	if !c.IsContributor(sender) {
		err = ErrNotContributor
		return
	}
	m := &c.Milestones[c.CurrentMilestone]
	if m.Voters[sender] {
		err = ErrAlreadyVoted
		return
	}
	if !checkOnly {
		m.Voters[sender] = true
		if m.VotesReceived() >= c.MilestoneQuorum {
			m.Released = true
			// Release base is the frozen total raised. Percentages sum
			// to 100, so payouts sum to the total minus truncation.
			release := c.RaisedAmount * m.Percentage / 100
			fee := release * s.header.PlatformFeeBps / vault_types.BpsDenominator
			milestone := c.CurrentMilestone
			c.CurrentMilestone += 1
			s.markCampaign(c)
			s.touchAccount(a)
			if err = s.creditNative(c.Creator, release-fee); err != nil {
				return nil, err
			}
			if fee > 0 {
				if err = s.creditNative(s.header.FeeCollector, fee); err != nil {
					return nil, err
				}
			}
			event = &vault_types.EventMilestoneCompleted{
				Campaign:  c.Index,
				Milestone: milestone,
				Released:  release - fee,
				Fee:       fee,
				Votes:     m.VotesReceived(),
			}
		} else {
			s.markCampaign(c)
			s.touchAccount(a)
		}
	}
	return
}

func (s *State) CancelCampaign(stx *tx.CancelCampaignTx, sender uint64, checkOnly bool) (event *vault_types.EventCampaignCancelled, err error) {
	s.logger.Debug("apply cancel campaign", "sender", sender, "campaign", stx.Campaign)
	a, err := s.GetAccount(sender)
	if err != nil {
		return nil, err
	}
	if a == nil {
		err = ErrTxSenderNoexists
		return
	}
	c, err := s.getCampaign(stx.Campaign)
	if err != nil {
		return nil, err
	}
	if sender != c.Creator && sender != s.header.Admin {
		err = ErrNotCreatorOrAdmin
		return
	}
	if c.Status.Terminal() {
		err = ErrCampaignNotActive
		return
	}
	if !checkOnly {
		c.Status = vault_types.CampaignStatusCancelled
		s.markCampaign(c)
		s.touchAccount(a)

		event = &vault_types.EventCampaignCancelled{
			Campaign: c.Index,
			By:       sender,
		}
	}
	return
}

// ClaimRefund zeroes the caller's contribution records on a Failed or
// Cancelled campaign and returns the funds. RaisedAmount keeps its final
// value. A second claim fails the contribution check.
func (s *State) ClaimRefund(stx *tx.ClaimRefundTx, sender uint64, checkOnly bool) (event *vault_types.EventRefund, err error) {
	s.logger.Debug("apply claim refund", "sender", sender, "campaign", stx.Campaign)
	a, err := s.GetAccount(sender)
	if err != nil {
		return nil, err
	}
	if a == nil {
		err = ErrTxSenderNoexists
		return
	}
	c, err := s.getCampaign(stx.Campaign)
	if err != nil {
		return nil, err
	}
	status := s.settleExpiry(c, checkOnly)
	if status != vault_types.CampaignStatusFailed && status != vault_types.CampaignStatusCancelled {
		err = ErrCampaignNotSettable
		return
	}
	amount := c.Contributions[sender]
	assets := c.AssetContributions[sender]
	if amount == 0 && len(assets) == 0 {
		err = ErrNotContributor
		return
	}
	if !checkOnly {
		delete(c.Contributions, sender)
		delete(c.AssetContributions, sender)
		s.markCampaign(c)
		s.touchAccount(a)
		if amount > 0 {
			if err = s.creditNative(sender, amount); err != nil {
				return nil, err
			}
		}
		for asset, amt := range assets {
			if amt == 0 {
				continue
			}
			if err = s.creditAsset(sender, asset, amt); err != nil {
				return nil, err
			}
		}

		event = &vault_types.EventRefund{
			Campaign:           c.Index,
			Contributor:        a.Index,
			ContributorAddress: a.Address(),
			Amount:             amount,
		}
	}
	return
}
