package indexer

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Service struct {
	engine     *gin.Engine
	indexer    *ChainIndexer
	listenAddr string
}

func NewService(listenAddr string, indexer *ChainIndexer) *Service {
	r := gin.Default()
	s := &Service{
		engine:     r,
		indexer:    indexer,
		listenAddr: listenAddr,
	}
	s.engine.POST("/getCampaigns", s.handleGetCampaigns)
	s.engine.POST("/getContributions", s.handleGetContributions)
	s.engine.POST("/getRefunds", s.handleGetRefunds)
	s.engine.POST("/getPools", s.handleGetPools)
	s.engine.POST("/getPoolActivity", s.handleGetPoolActivity)
	return s
}

func (s *Service) Start() {
	s.engine.Run(s.listenAddr)
}

type CampaignInfo struct {
	Campaign        Campaign           `json:"campaign"`
	ContributionCnt uint64             `json:"contributionCnt"`
	Releases        []MilestoneRelease `json:"releases"`
}

type GetCampaignsReq struct {
	CampaignId     uint64 `json:"campaignId"`
	CreatorAddress string `json:"creator"`
	Page           int    `json:"page"`
	PageSize       int    `json:"pageSize"`
}

type GetCampaignsResponse struct {
	Campaigns []CampaignInfo `json:"campaigns"`
	Total     uint64         `json:"total"`
}

func (s *Service) handleGetCampaigns(c *gin.Context) {
	var response GetCampaignsResponse
	response.Campaigns = make([]CampaignInfo, 0)
	var err error
	var requestData GetCampaignsReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if requestData.CampaignId != 0 {
		info, err := s.getCampaignInfoById(requestData.CampaignId)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		response.Campaigns = append(response.Campaigns, info)
		c.JSON(http.StatusOK, response)
		return
	}
	var campaigns []Campaign
	var total uint64
	if requestData.CreatorAddress != "" {
		campaigns, total, err = s.indexer.getCampaignsByCreator(requestData.CreatorAddress, requestData.Page, requestData.PageSize)
	} else {
		campaigns, total, err = s.indexer.getCampaigns(requestData.Page, requestData.PageSize)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	response.Total = total
	for _, campaign := range campaigns {
		info, err := s.getCampaignInfoById(campaign.Id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		response.Campaigns = append(response.Campaigns, info)
	}
	c.JSON(http.StatusOK, response)
}

func (s *Service) getCampaignInfoById(campaignId uint64) (CampaignInfo, error) {
	campaign, err := s.indexer.getCampaignById(campaignId)
	if err != nil {
		return CampaignInfo{}, err
	}
	_, total, err := s.indexer.getContributionsByCampaign(campaignId, 0, 1)
	if err != nil {
		return CampaignInfo{}, err
	}
	releases, err := s.indexer.getMilestoneReleases(campaignId)
	if err != nil {
		return CampaignInfo{}, err
	}
	return CampaignInfo{
		Campaign:        campaign,
		ContributionCnt: total,
		Releases:        releases,
	}, nil
}

type GetContributionsReq struct {
	CampaignId uint64 `json:"campaignId"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
}

type GetContributionsResponse struct {
	Contributions []Contribution `json:"contributions"`
	Total         uint64         `json:"total"`
}

func (s *Service) handleGetContributions(c *gin.Context) {
	var response GetContributionsResponse
	response.Contributions = make([]Contribution, 0)
	var requestData GetContributionsReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if requestData.CampaignId == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "campaignId is required"})
		return
	}
	contributions, total, err := s.indexer.getContributionsByCampaign(requestData.CampaignId, requestData.Page, requestData.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	response.Contributions = contributions
	response.Total = total
	c.JSON(http.StatusOK, response)
}

type GetRefundsReq struct {
	CampaignId uint64 `json:"campaignId"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
}

type GetRefundsResponse struct {
	Refunds []Refund `json:"refunds"`
	Total   uint64   `json:"total"`
}

func (s *Service) handleGetRefunds(c *gin.Context) {
	var response GetRefundsResponse
	response.Refunds = make([]Refund, 0)
	var requestData GetRefundsReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if requestData.CampaignId == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "campaignId is required"})
		return
	}
	refunds, total, err := s.indexer.getRefundsByCampaign(requestData.CampaignId, requestData.Page, requestData.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	response.Refunds = refunds
	response.Total = total
	c.JSON(http.StatusOK, response)
}

type GetPoolsReq struct {
	PoolId   uint64 `json:"poolId"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

type GetPoolsResponse struct {
	Pools []Pool `json:"pools"`
	Total uint64 `json:"total"`
}

func (s *Service) handleGetPools(c *gin.Context) {
	var response GetPoolsResponse
	response.Pools = make([]Pool, 0)
	var requestData GetPoolsReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if requestData.PoolId != 0 {
		pool, err := s.indexer.getPoolById(requestData.PoolId)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		response.Pools = append(response.Pools, pool)
		c.JSON(http.StatusOK, response)
		return
	}
	pools, total, err := s.indexer.getPools(requestData.Page, requestData.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	response.Pools = pools
	response.Total = total
	c.JSON(http.StatusOK, response)
}

type GetPoolActivityReq struct {
	PoolId   uint64 `json:"poolId"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

type GetPoolActivityResponse struct {
	Activity []PoolActivity `json:"activity"`
	Total    uint64         `json:"total"`
}

func (s *Service) handleGetPoolActivity(c *gin.Context) {
	var response GetPoolActivityResponse
	response.Activity = make([]PoolActivity, 0)
	var requestData GetPoolActivityReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if requestData.PoolId == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "poolId is required"})
		return
	}
	activity, total, err := s.indexer.getPoolActivity(requestData.PoolId, requestData.Page, requestData.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	response.Activity = activity
	response.Total = total
	c.JSON(http.StatusOK, response)
}
