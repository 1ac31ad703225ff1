package main

import (
	"github.com/fundvault/fundvault-app/tx"
	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrator operations",
	Long:  ``,
}

type adminTxArguments struct {
	Url       string
	Index     uint64
	Nonce     uint64
	Skey      string
	FeeBps    uint64
	Collector uint64
	Paused    bool
}

var adminTxArgs adminTxArguments

func adminSubCmd(use string, short string, run func(cmd *cobra.Command, args []string)) *cobra.Command {
	c := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  ``,
		Run:   run,
	}
	urlFlag(c, &adminTxArgs.Url)
	signerFlags(c, &adminTxArgs.Index, &adminTxArgs.Nonce, &adminTxArgs.Skey)
	return c
}

func init() {
	updateFeeCmd := adminSubCmd("update-fee", "Update the platform fee", func(cmd *cobra.Command, args []string) {
		sendVaultTx(adminTxArgs.Url, adminTxArgs.Skey, adminTxArgs.Index, adminTxArgs.Nonce, tx.VaultTxTypeUpdateFee,
			&tx.UpdateFeeTx{FeeBps: adminTxArgs.FeeBps})
	})
	updateFeeCmd.Flags().Uint64VarP(&adminTxArgs.FeeBps, "fee-bps", "f", 0, "platform fee in basis points")
	adminCmd.AddCommand(updateFeeCmd)

	updateCollectorCmd := adminSubCmd("update-collector", "Update the fee collector account", func(cmd *cobra.Command, args []string) {
		sendVaultTx(adminTxArgs.Url, adminTxArgs.Skey, adminTxArgs.Index, adminTxArgs.Nonce, tx.VaultTxTypeUpdateCollector,
			&tx.UpdateCollectorTx{Collector: adminTxArgs.Collector})
	})
	updateCollectorCmd.Flags().Uint64VarP(&adminTxArgs.Collector, "collector", "c", 0, "collector account index")
	adminCmd.AddCommand(updateCollectorCmd)

	pauseLedgerCmd := adminSubCmd("pause", "Pause new contributions and pool deposits", func(cmd *cobra.Command, args []string) {
		sendVaultTx(adminTxArgs.Url, adminTxArgs.Skey, adminTxArgs.Index, adminTxArgs.Nonce, tx.VaultTxTypeSetPause,
			&tx.SetPauseTx{Paused: true})
	})
	adminCmd.AddCommand(pauseLedgerCmd)

	unpauseLedgerCmd := adminSubCmd("unpause", "Resume the ledger", func(cmd *cobra.Command, args []string) {
		sendVaultTx(adminTxArgs.Url, adminTxArgs.Skey, adminTxArgs.Index, adminTxArgs.Nonce, tx.VaultTxTypeSetPause,
			&tx.SetPauseTx{Paused: false})
	})
	adminCmd.AddCommand(unpauseLedgerCmd)
}
