package indexer

import (
	"context"
	"errors"
	"time"

	vault_types "github.com/fundvault/fundvault-app/types"
	abci "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	comethttp "github.com/cometbft/cometbft/rpc/client/http"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

// ChainIndexer tails block results over RPC and mirrors ledger events
// into sqlite for the read-side API.
type ChainIndexer struct {
	logger        cmtlog.Logger
	Url           string
	Height        int64
	db            *gorm.DB
	cli           *comethttp.HTTP
	eventHandlers map[string]eventHandler
}

func NewChainIndexer(logger cmtlog.Logger, dbPath string, chainUrl string) (*ChainIndexer, error) {
	logger.Info("NewChainIndexer", "dbPath", dbPath, "url", chainUrl)
	cli, err := comethttp.New(chainUrl, "/websocket")
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Height{}, &Campaign{}, &Contribution{}, &MilestoneRelease{}, &Refund{}, &Pool{}, &PoolActivity{}).Error; err != nil {
		return nil, err
	}
	h := Height{Id: 1}
	if err = db.First(&h).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	c := ChainIndexer{
		logger:        logger.With("module", "indexer"),
		Url:           chainUrl,
		Height:        int64(h.Height + 1),
		db:            db,
		cli:           cli,
		eventHandlers: map[string]eventHandler{},
	}

	c.eventHandlers = map[string]eventHandler{
		vault_types.EventCampaignCreatedType:    c.handleEventCampaignCreated,
		vault_types.EventContributionType:       c.handleEventContribution,
		vault_types.EventTokenContributionType:  c.handleEventContribution,
		vault_types.EventMilestoneCompletedType: c.handleEventMilestoneCompleted,
		vault_types.EventCampaignCancelledType:  c.handleEventCampaignCancelled,
		vault_types.EventRefundType:             c.handleEventRefund,
		vault_types.EventPoolCreatedType:        c.handleEventPoolCreated,
		vault_types.EventFundsAddedType:         c.handleEventPoolFunds,
		vault_types.EventFundsRemovedType:       c.handleEventPoolFunds,
		vault_types.EventFundsDistributedType:   c.handleEventPoolFunds,
	}
	return &c, nil
}

type eventHandler func(ctx context.Context, event abci.Event, height int64)

func (c *ChainIndexer) handleEvent(ctx context.Context, event abci.Event, height int64) {
	if h, ok := c.eventHandlers[event.Type]; ok {
		h(ctx, event, height)
	}
}

func (c *ChainIndexer) handleEventCampaignCreated(ctx context.Context, event abci.Event, height int64) {
	ev := vault_types.DecodeEventCampaignCreated(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	campaign := Campaign{
		Id:              ev.Campaign,
		CreatorIndex:    ev.Creator,
		CreatorAddress:  ev.CreatorAddress,
		Title:           ev.Title,
		GoalAmount:      ev.GoalAmount,
		Deadline:        ev.Deadline,
		Status:          uint64(vault_types.CampaignStatusActive),
		CreateHeight:    uint64(height),
		CreateTimestamp: time.Now().Unix(),
	}
	if err := c.db.Save(&campaign).Error; err != nil {
		c.logger.Error("save campaign fail", "err", err)
	}
}

func (c *ChainIndexer) handleEventContribution(ctx context.Context, event abci.Event, height int64) {
	ev := vault_types.DecodeEventContribution(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	contribution := Contribution{
		Campaign:           ev.Campaign,
		ContributorIndex:   ev.Contributor,
		ContributorAddress: ev.ContributorAddress,
		Amount:             ev.Amount,
		Asset:              ev.Asset,
		Height:             uint64(height),
	}
	if err := c.db.Create(&contribution).Error; err != nil {
		c.logger.Error("save contribution fail", "err", err)
		return
	}
	if ev.Asset != "" {
		return
	}
	var campaign Campaign
	if err := c.db.First(&campaign, ev.Campaign).Error; err != nil {
		c.logger.Error("get campaign fail", "err", err)
		return
	}
	campaign.RaisedAmount = ev.Raised
	if campaign.RaisedAmount >= campaign.GoalAmount {
		campaign.Status = uint64(vault_types.CampaignStatusSuccessful)
	}
	if err := c.db.Save(&campaign).Error; err != nil {
		c.logger.Error("save campaign fail", "err", err)
	}
}

func (c *ChainIndexer) handleEventMilestoneCompleted(ctx context.Context, event abci.Event, height int64) {
	ev := vault_types.DecodeEventMilestoneCompleted(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	release := MilestoneRelease{
		Campaign:  ev.Campaign,
		Milestone: ev.Milestone,
		Released:  ev.Released,
		Fee:       ev.Fee,
		Votes:     ev.Votes,
		Height:    uint64(height),
	}
	if err := c.db.Create(&release).Error; err != nil {
		c.logger.Error("save milestone release fail", "err", err)
		return
	}
	var campaign Campaign
	if err := c.db.First(&campaign, ev.Campaign).Error; err != nil {
		c.logger.Error("get campaign fail", "err", err)
		return
	}
	campaign.MilestonesDone = ev.Milestone + 1
	campaign.ReleasedAmount += ev.Released
	campaign.CollectedFees += ev.Fee
	if err := c.db.Save(&campaign).Error; err != nil {
		c.logger.Error("save campaign fail", "err", err)
	}
}

func (c *ChainIndexer) handleEventCampaignCancelled(ctx context.Context, event abci.Event, height int64) {
	ev := vault_types.DecodeEventCampaignCancelled(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	var campaign Campaign
	if err := c.db.First(&campaign, ev.Campaign).Error; err != nil {
		c.logger.Error("get campaign fail", "err", err)
		return
	}
	campaign.Status = uint64(vault_types.CampaignStatusCancelled)
	campaign.CancelHeight = uint64(height)
	if err := c.db.Save(&campaign).Error; err != nil {
		c.logger.Error("save campaign fail", "err", err)
	}
}

func (c *ChainIndexer) handleEventRefund(ctx context.Context, event abci.Event, height int64) {
	ev := vault_types.DecodeEventRefund(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	refund := Refund{
		Campaign:           ev.Campaign,
		ContributorIndex:   ev.Contributor,
		ContributorAddress: ev.ContributorAddress,
		Amount:             ev.Amount,
		Height:             uint64(height),
	}
	if err := c.db.Create(&refund).Error; err != nil {
		c.logger.Error("save refund fail", "err", err)
	}
}

func (c *ChainIndexer) handleEventPoolCreated(ctx context.Context, event abci.Event, height int64) {
	ev := vault_types.DecodeEventPoolCreated(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	pool := Pool{
		Id:           ev.Pool,
		OwnerIndex:   ev.Owner,
		OwnerAddress: ev.OwnerAddress,
		Asset:        ev.Asset,
		CreateHeight: uint64(height),
	}
	if err := c.db.Save(&pool).Error; err != nil {
		c.logger.Error("save pool fail", "err", err)
	}
}

func (c *ChainIndexer) handleEventPoolFunds(ctx context.Context, event abci.Event, height int64) {
	ev := vault_types.DecodeEventPoolFunds(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	activity := PoolActivity{
		Pool:         ev.Pool,
		AccountIndex: ev.Account,
		Kind:         event.Type,
		Amount:       ev.Amount,
		TotalBalance: ev.TotalBalance,
		Height:       uint64(height),
	}
	if err := c.db.Create(&activity).Error; err != nil {
		c.logger.Error("save pool activity fail", "err", err)
		return
	}
	var pool Pool
	if err := c.db.First(&pool, ev.Pool).Error; err != nil {
		c.logger.Error("get pool fail", "err", err)
		return
	}
	pool.TotalBalance = ev.TotalBalance
	if err := c.db.Save(&pool).Error; err != nil {
		c.logger.Error("save pool fail", "err", err)
	}
}

func (c *ChainIndexer) Start(ctx context.Context) {
	var err error
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.cli == nil {
				c.cli, err = comethttp.New(c.Url, "/websocket")
				if err != nil {
					c.logger.Error("connect fail", "err", err)
					continue
				}
			}
			b, err := c.cli.Status(context.TODO())
			if err != nil {
				c.logger.Error("get status fail", "err", err)
				if !c.cli.IsRunning() {
					c.cli.Stop()
					c.cli, err = comethttp.New(c.Url, "/websocket")
					if err != nil {
						c.logger.Error("reconnect fail", "err", err)
						continue
					}
				}
				continue
			}
			for b.SyncInfo.LatestBlockHeight > c.Height {
				events, err := c.cli.BlockResults(ctx, &c.Height)
				if err != nil {
					c.logger.Error("get block results fail", "height", c.Height, "err", err)
					if !c.cli.IsRunning() {
						c.cli.Stop()
						c.cli, err = comethttp.New(c.Url, "/websocket")
						if err != nil {
							c.logger.Error("reconnect fail", "err", err)
						}
					}
					break
				}
				for _, res := range events.TxsResults {
					for _, event := range res.Events {
						c.handleEvent(ctx, event, c.Height)
					}
				}
				if err := c.db.Save(Height{
					Id:     1,
					Height: uint64(c.Height),
				}).Error; err != nil {
					c.logger.Error("save height fail", "err", err)
					break
				}
				c.Height++
			}
		}
	}
}

func (c *ChainIndexer) getCampaigns(page int, pageSize int) ([]Campaign, uint64, error) {
	var campaigns []Campaign
	err := c.db.Order("id desc").Offset(page * pageSize).Limit(pageSize).Find(&campaigns).Error
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	err = c.db.Model(&Campaign{}).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}
	return campaigns, total, nil
}

func (c *ChainIndexer) getCampaignById(id uint64) (Campaign, error) {
	var campaign Campaign
	err := c.db.Where("id = ?", id).First(&campaign).Error
	if err != nil {
		return Campaign{}, err
	}
	return campaign, nil
}

func (c *ChainIndexer) getCampaignsByCreator(creator string, page int, pageSize int) ([]Campaign, uint64, error) {
	var campaigns []Campaign
	err := c.db.Where("creator_address = ?", creator).Order("id desc").Offset(page * pageSize).Limit(pageSize).Find(&campaigns).Error
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	err = c.db.Model(&Campaign{}).Where("creator_address = ?", creator).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}
	return campaigns, total, nil
}

func (c *ChainIndexer) getContributionsByCampaign(campaign uint64, page int, pageSize int) ([]Contribution, uint64, error) {
	var contributions []Contribution
	err := c.db.Where("campaign = ?", campaign).Order("id desc").Offset(page * pageSize).Limit(pageSize).Find(&contributions).Error
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	err = c.db.Model(&Contribution{}).Where("campaign = ?", campaign).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}
	return contributions, total, nil
}

func (c *ChainIndexer) getMilestoneReleases(campaign uint64) ([]MilestoneRelease, error) {
	var releases []MilestoneRelease
	err := c.db.Where("campaign = ?", campaign).Order("milestone asc").Find(&releases).Error
	if err != nil {
		return nil, err
	}
	return releases, nil
}

func (c *ChainIndexer) getRefundsByCampaign(campaign uint64, page int, pageSize int) ([]Refund, uint64, error) {
	var refunds []Refund
	err := c.db.Where("campaign = ?", campaign).Order("id desc").Offset(page * pageSize).Limit(pageSize).Find(&refunds).Error
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	err = c.db.Model(&Refund{}).Where("campaign = ?", campaign).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}
	return refunds, total, nil
}

func (c *ChainIndexer) getPools(page int, pageSize int) ([]Pool, uint64, error) {
	var pools []Pool
	err := c.db.Order("id desc").Offset(page * pageSize).Limit(pageSize).Find(&pools).Error
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	err = c.db.Model(&Pool{}).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}
	return pools, total, nil
}

func (c *ChainIndexer) getPoolById(id uint64) (Pool, error) {
	var pool Pool
	err := c.db.Where("id = ?", id).First(&pool).Error
	if err != nil {
		return Pool{}, err
	}
	return pool, nil
}

func (c *ChainIndexer) getPoolActivity(pool uint64, page int, pageSize int) ([]PoolActivity, uint64, error) {
	var activity []PoolActivity
	err := c.db.Where("pool = ?", pool).Order("id desc").Offset(page * pageSize).Limit(pageSize).Find(&activity).Error
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	err = c.db.Model(&PoolActivity{}).Where("pool = ?", pool).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}
	return activity, total, nil
}
