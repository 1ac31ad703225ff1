package indexer

// sqlite models

type Height struct {
	Id     uint64 `gorm:"primaryKey" json:"id"`
	Height uint64 `json:"height"`
}

type Campaign struct {
	Id              uint64 `gorm:"primaryKey" json:"id"`
	CreatorIndex    uint64 `json:"creator_index"`
	CreatorAddress  string `json:"creator_address"`
	Title           string `json:"title"`
	GoalAmount      uint64 `json:"goal_amount"`
	RaisedAmount    uint64 `json:"raised_amount"`
	Deadline        int64  `json:"deadline"`
	Status          uint64 `json:"status"`
	CreateHeight    uint64 `json:"create_height"`
	CancelHeight    uint64 `json:"cancel_height"`
	MilestonesDone  uint64 `json:"milestones_done"`
	ReleasedAmount  uint64 `json:"released_amount"`
	CollectedFees   uint64 `json:"collected_fees"`
	CreateTimestamp int64  `json:"create_timestamp"`
}

type Contribution struct {
	Id                 uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Campaign           uint64 `json:"campaign"`
	ContributorIndex   uint64 `json:"contributor_index"`
	ContributorAddress string `json:"contributor_address"`
	Amount             uint64 `json:"amount"`
	Asset              string `json:"asset"`
	Height             uint64 `json:"height"`
}

type MilestoneRelease struct {
	Id        uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Campaign  uint64 `json:"campaign"`
	Milestone uint64 `json:"milestone"`
	Released  uint64 `json:"released"`
	Fee       uint64 `json:"fee"`
	Votes     uint64 `json:"votes"`
	Height    uint64 `json:"height"`
}

type Refund struct {
	Id                 uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Campaign           uint64 `json:"campaign"`
	ContributorIndex   uint64 `json:"contributor_index"`
	ContributorAddress string `json:"contributor_address"`
	Amount             uint64 `json:"amount"`
	Height             uint64 `json:"height"`
}

type Pool struct {
	Id           uint64 `gorm:"primaryKey" json:"id"`
	OwnerIndex   uint64 `json:"owner_index"`
	OwnerAddress string `json:"owner_address"`
	Asset        string `json:"asset"`
	TotalBalance uint64 `json:"total_balance"`
	CreateHeight uint64 `json:"create_height"`
}

type PoolActivity struct {
	Id           uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Pool         uint64 `json:"pool"`
	AccountIndex uint64 `json:"account_index"`
	Kind         string `json:"kind"`
	Amount       uint64 `json:"amount"`
	TotalBalance uint64 `json:"total_balance"`
	Height       uint64 `json:"height"`
}
