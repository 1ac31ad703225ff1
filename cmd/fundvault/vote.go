package main

import (
	"github.com/fundvault/fundvault-app/tx"
	"github.com/spf13/cobra"
)

type voteArguments struct {
	Url      string
	Index    uint64
	Nonce    uint64
	Skey     string
	Campaign uint64
}

var voteArgs voteArguments

var voteCmd = &cobra.Command{
	Use:   "vote",
	Short: "Vote to release the current milestone of a campaign",
	Long:  ``,
	Run:   voteRun,
}

func init() {
	urlFlag(voteCmd, &voteArgs.Url)
	signerFlags(voteCmd, &voteArgs.Index, &voteArgs.Nonce, &voteArgs.Skey)
	voteCmd.Flags().Uint64VarP(&voteArgs.Campaign, "campaign", "c", 0, "campaign index")
}

func voteRun(cmd *cobra.Command, args []string) {
	stx := &tx.VoteMilestoneTx{Campaign: voteArgs.Campaign}
	sendVaultTx(voteArgs.Url, voteArgs.Skey, voteArgs.Index, voteArgs.Nonce, tx.VaultTxTypeVoteMilestone, stx)
}
