package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fundvault/fundvault-app/tx"
	"github.com/fundvault/fundvault-app/types"
	"github.com/cometbft/cometbft/rpc/client/http"
	"github.com/spf13/cobra"
)

var campaignCmd = &cobra.Command{
	Use:   "campaign",
	Short: "Crowdfunding campaign operations",
	Long:  ``,
}

type createCampaignArguments struct {
	Url                   string
	Index                 uint64
	Nonce                 uint64
	Skey                  string
	Title                 string
	Description           string
	Goal                  uint64
	Duration              int64
	Min                   uint64
	Max                   uint64
	Assets                string
	MilestonePercentages  []uint
	MilestoneDescriptions []string
	MilestoneDurations    []int64
	Quorum                uint64
}

var createCampaignArgs createCampaignArguments

var createCampaignCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a milestone-gated campaign",
	Long:  ``,
	Run:   createCampaignRun,
}

type cancelCampaignArguments struct {
	Url      string
	Index    uint64
	Nonce    uint64
	Skey     string
	Campaign uint64
}

var cancelCampaignArgs cancelCampaignArguments

var cancelCampaignCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel an active campaign",
	Long:  ``,
	Run:   cancelCampaignRun,
}

type queryCampaignArguments struct {
	Url      string
	Campaign uint64
}

var queryCampaignArgs queryCampaignArguments

var queryCampaignCmd = &cobra.Command{
	Use:   "show",
	Short: "Query a campaign by index",
	Long:  ``,
	Run:   queryCampaignRun,
}

func init() {
	urlFlag(createCampaignCmd, &createCampaignArgs.Url)
	signerFlags(createCampaignCmd, &createCampaignArgs.Index, &createCampaignArgs.Nonce, &createCampaignArgs.Skey)
	createCampaignCmd.Flags().StringVarP(&createCampaignArgs.Title, "title", "t", "", "campaign title")
	createCampaignCmd.Flags().StringVarP(&createCampaignArgs.Description, "desc", "", "", "campaign description")
	createCampaignCmd.Flags().Uint64VarP(&createCampaignArgs.Goal, "goal", "g", 0, "goal amount")
	createCampaignCmd.Flags().Int64VarP(&createCampaignArgs.Duration, "duration", "", 0, "funding duration in seconds")
	createCampaignCmd.Flags().Uint64VarP(&createCampaignArgs.Min, "min", "", 0, "min contribution")
	createCampaignCmd.Flags().Uint64VarP(&createCampaignArgs.Max, "max", "", 0, "max cumulative contribution per account")
	createCampaignCmd.Flags().StringVarP(&createCampaignArgs.Assets, "assets", "", "", "comma separated accepted asset ids")
	createCampaignCmd.Flags().UintSliceVar(&createCampaignArgs.MilestonePercentages, "milestone-pcts", nil, "milestone percentages, must sum to 100")
	createCampaignCmd.Flags().StringSliceVar(&createCampaignArgs.MilestoneDescriptions, "milestone-descs", nil, "milestone descriptions")
	createCampaignCmd.Flags().Int64SliceVar(&createCampaignArgs.MilestoneDurations, "milestone-durations", nil, "milestone durations in seconds")
	createCampaignCmd.Flags().Uint64VarP(&createCampaignArgs.Quorum, "quorum", "q", 0, "votes required per milestone, 0 for default")
	campaignCmd.AddCommand(createCampaignCmd)

	urlFlag(cancelCampaignCmd, &cancelCampaignArgs.Url)
	signerFlags(cancelCampaignCmd, &cancelCampaignArgs.Index, &cancelCampaignArgs.Nonce, &cancelCampaignArgs.Skey)
	cancelCampaignCmd.Flags().Uint64VarP(&cancelCampaignArgs.Campaign, "campaign", "c", 0, "campaign index")
	campaignCmd.AddCommand(cancelCampaignCmd)

	urlFlag(queryCampaignCmd, &queryCampaignArgs.Url)
	queryCampaignCmd.Flags().Uint64VarP(&queryCampaignArgs.Campaign, "campaign", "c", 0, "campaign index")
	campaignCmd.AddCommand(queryCampaignCmd)
}

func createCampaignRun(cmd *cobra.Command, args []string) {
	var assets []string
	if createCampaignArgs.Assets != "" {
		assets = strings.Split(createCampaignArgs.Assets, ",")
	}
	milestonePcts := make([]uint64, len(createCampaignArgs.MilestonePercentages))
	for i, p := range createCampaignArgs.MilestonePercentages {
		milestonePcts[i] = uint64(p)
	}
	stx := &tx.CreateCampaignTx{
		Title:                 createCampaignArgs.Title,
		Description:           createCampaignArgs.Description,
		GoalAmount:            createCampaignArgs.Goal,
		Duration:              createCampaignArgs.Duration,
		MinContribution:       createCampaignArgs.Min,
		MaxContribution:       createCampaignArgs.Max,
		AcceptsAssets:         len(assets) > 0,
		AcceptedAssets:        assets,
		MilestonePercentages:  milestonePcts,
		MilestoneDescriptions: createCampaignArgs.MilestoneDescriptions,
		MilestoneDurations:    createCampaignArgs.MilestoneDurations,
		MilestoneQuorum:       createCampaignArgs.Quorum,
	}
	sendVaultTx(createCampaignArgs.Url, createCampaignArgs.Skey, createCampaignArgs.Index, createCampaignArgs.Nonce, tx.VaultTxTypeCreateCampaign, stx)
}

func cancelCampaignRun(cmd *cobra.Command, args []string) {
	stx := &tx.CancelCampaignTx{Campaign: cancelCampaignArgs.Campaign}
	sendVaultTx(cancelCampaignArgs.Url, cancelCampaignArgs.Skey, cancelCampaignArgs.Index, cancelCampaignArgs.Nonce, tx.VaultTxTypeCancelCampaign, stx)
}

func queryCampaignRun(cmd *cobra.Command, args []string) {
	c, err := queryCampaign(queryCampaignArgs.Url, queryCampaignArgs.Campaign)
	if err != nil {
		return
	}
	dat, _ := json.MarshalIndent(c, "", "  ")
	fmt.Println(string(dat))
}

func queryCampaign(url string, index uint64) (*types.Campaign, error) {
	res, err := abciQueryIndex(url, "/campaigns/", index)
	if err != nil {
		return nil, err
	}
	var c types.Campaign
	if err = json.Unmarshal(res, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func abciQueryIndex(url string, path string, index uint64) ([]byte, error) {
	cli, err := http.New(url, "/websocket")
	if err != nil {
		fmt.Printf("new client err:%v\n", err)
		return nil, err
	}
	s := fmt.Sprintf("0%x", index)
	if len(s)&1 == 1 {
		s = s[1:]
	}
	dat, _ := hex.DecodeString(s)
	res, err := cli.ABCIQuery(context.Background(), path, dat)
	if err != nil {
		fmt.Printf("request err:%v\n", err)
		return nil, err
	}
	if res.Response.Code != 0 {
		fmt.Printf("%#v\n", res)
		return nil, errors.New("record not found")
	}
	return res.Response.Value, nil
}
