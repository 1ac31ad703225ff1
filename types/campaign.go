package types

type CampaignStatus uint64

const (
	CampaignStatusActive     CampaignStatus = 1
	CampaignStatusSuccessful CampaignStatus = 2
	CampaignStatusFailed     CampaignStatus = 3
	CampaignStatusCancelled  CampaignStatus = 4
)

func (s CampaignStatus) Terminal() bool {
	return s != CampaignStatusActive
}

type Milestone struct {
	Description string          `json:"description"`
	Percentage  uint64          `json:"percentage"`
	Deadline    int64           `json:"deadline"`
	Released    bool            `json:"released"`
	Voters      map[uint64]bool `json:"voters"`
}

func (m *Milestone) VotesReceived() uint64 {
	return uint64(len(m.Voters))
}

type Campaign struct {
	Index            uint64         `json:"index"`
	Creator          uint64         `json:"creator"`
	CreatorAddress   string         `json:"creatorAddress"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	GoalAmount       uint64         `json:"goalAmount"`
	RaisedAmount     uint64         `json:"raisedAmount"`
	Deadline         int64          `json:"deadline"`
	MinContribution  uint64         `json:"minContribution"`
	MaxContribution  uint64         `json:"maxContribution"`
	Status           CampaignStatus `json:"status"`
	Milestones       []Milestone    `json:"milestones"`
	CurrentMilestone uint64         `json:"currentMilestone"`
	MilestoneQuorum  uint64         `json:"milestoneQuorum"`
	AcceptsAssets    bool           `json:"acceptsAssets"`
	AcceptedAssets   []string       `json:"acceptedAssets"`

	// Contributions maps account index to cumulative native contribution.
	// Refunds zero an entry but never decrement RaisedAmount.
	Contributions map[uint64]uint64 `json:"contributions"`
	// AssetContributions maps account index to asset id to amount.
	AssetContributions map[uint64]map[string]uint64 `json:"assetContributions"`
}

func (c *Campaign) AcceptsAsset(asset string) bool {
	if !c.AcceptsAssets {
		return false
	}
	for _, a := range c.AcceptedAssets {
		if a == asset {
			return true
		}
	}
	return false
}

// IsContributor reports whether the account has any recorded contribution,
// native or in an accepted asset.
func (c *Campaign) IsContributor(account uint64) bool {
	if c.Contributions[account] > 0 {
		return true
	}
	for _, asset := range c.AcceptedAssets {
		if c.AssetContributions[account][asset] > 0 {
			return true
		}
	}
	return false
}

func (c *Campaign) Clone() *Campaign {
	n := *c
	n.Milestones = make([]Milestone, len(c.Milestones))
	for i, m := range c.Milestones {
		nm := m
		nm.Voters = make(map[uint64]bool, len(m.Voters))
		for k, v := range m.Voters {
			nm.Voters[k] = v
		}
		n.Milestones[i] = nm
	}
	n.AcceptedAssets = append([]string(nil), c.AcceptedAssets...)
	n.Contributions = make(map[uint64]uint64, len(c.Contributions))
	for k, v := range c.Contributions {
		n.Contributions[k] = v
	}
	n.AssetContributions = make(map[uint64]map[string]uint64, len(c.AssetContributions))
	for k, m := range c.AssetContributions {
		nm := make(map[string]uint64, len(m))
		for a, v := range m {
			nm[a] = v
		}
		n.AssetContributions[k] = nm
	}
	return &n
}
