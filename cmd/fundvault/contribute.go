package main

import (
	"github.com/fundvault/fundvault-app/tx"
	"github.com/spf13/cobra"
)

type contributeArguments struct {
	Url      string
	Index    uint64
	Nonce    uint64
	Skey     string
	Campaign uint64
	Amount   uint64
	Asset    string
}

var contributeArgs contributeArguments

var contributeCmd = &cobra.Command{
	Use:   "contribute",
	Short: "Contribute native funds or an accepted asset to a campaign",
	Long:  ``,
	Run:   contributeRun,
}

func init() {
	urlFlag(contributeCmd, &contributeArgs.Url)
	signerFlags(contributeCmd, &contributeArgs.Index, &contributeArgs.Nonce, &contributeArgs.Skey)
	contributeCmd.Flags().Uint64VarP(&contributeArgs.Campaign, "campaign", "c", 0, "campaign index")
	contributeCmd.Flags().Uint64VarP(&contributeArgs.Amount, "amount", "a", 0, "contribution amount")
	contributeCmd.Flags().StringVarP(&contributeArgs.Asset, "asset", "", "", "asset id, empty for native")
}

func contributeRun(cmd *cobra.Command, args []string) {
	if contributeArgs.Asset != "" {
		stx := &tx.ContributeAssetTx{
			Campaign: contributeArgs.Campaign,
			Asset:    contributeArgs.Asset,
			Amount:   contributeArgs.Amount,
		}
		sendVaultTx(contributeArgs.Url, contributeArgs.Skey, contributeArgs.Index, contributeArgs.Nonce, tx.VaultTxTypeContributeAsset, stx)
		return
	}
	stx := &tx.ContributeTx{
		Campaign: contributeArgs.Campaign,
		Amount:   contributeArgs.Amount,
	}
	sendVaultTx(contributeArgs.Url, contributeArgs.Skey, contributeArgs.Index, contributeArgs.Nonce, tx.VaultTxTypeContribute, stx)
}
