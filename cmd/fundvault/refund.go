package main

import (
	"github.com/fundvault/fundvault-app/tx"
	"github.com/spf13/cobra"
)

type refundArguments struct {
	Url      string
	Index    uint64
	Nonce    uint64
	Skey     string
	Campaign uint64
}

var refundArgs refundArguments

var refundCmd = &cobra.Command{
	Use:   "refund",
	Short: "Claim a refund from a failed or cancelled campaign",
	Long:  ``,
	Run:   refundRun,
}

func init() {
	urlFlag(refundCmd, &refundArgs.Url)
	signerFlags(refundCmd, &refundArgs.Index, &refundArgs.Nonce, &refundArgs.Skey)
	refundCmd.Flags().Uint64VarP(&refundArgs.Campaign, "campaign", "c", 0, "campaign index")
}

func refundRun(cmd *cobra.Command, args []string) {
	stx := &tx.ClaimRefundTx{Campaign: refundArgs.Campaign}
	sendVaultTx(refundArgs.Url, refundArgs.Skey, refundArgs.Index, refundArgs.Nonce, tx.VaultTxTypeClaimRefund, stx)
}
