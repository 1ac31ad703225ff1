package main

import (
	"encoding/json"
	"fmt"

	"github.com/fundvault/fundvault-app/tx"
	"github.com/fundvault/fundvault-app/types"
	"github.com/spf13/cobra"
)

var poolCmd = &cobra.Command{
	Use:   "pool",
	Short: "Pooled fund operations",
	Long:  ``,
}

type poolTxArguments struct {
	Url    string
	Index  uint64
	Nonce  uint64
	Skey   string
	Pool   uint64
	Amount uint64
	Asset  string
}

var poolTxArgs poolTxArguments

func poolSubCmd(use string, short string, run func(cmd *cobra.Command, args []string)) *cobra.Command {
	c := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  ``,
		Run:   run,
	}
	urlFlag(c, &poolTxArgs.Url)
	signerFlags(c, &poolTxArgs.Index, &poolTxArgs.Nonce, &poolTxArgs.Skey)
	return c
}

func init() {
	createPoolCmd := poolSubCmd("create", "Create a pooled fund", func(cmd *cobra.Command, args []string) {
		sendVaultTx(poolTxArgs.Url, poolTxArgs.Skey, poolTxArgs.Index, poolTxArgs.Nonce, tx.VaultTxTypeCreatePool,
			&tx.CreatePoolTx{Asset: poolTxArgs.Asset})
	})
	createPoolCmd.Flags().StringVarP(&poolTxArgs.Asset, "asset", "a", "", "pool asset id, empty for native")
	poolCmd.AddCommand(createPoolCmd)

	addFundsCmd := poolSubCmd("add", "Add funds to a pool", func(cmd *cobra.Command, args []string) {
		sendVaultTx(poolTxArgs.Url, poolTxArgs.Skey, poolTxArgs.Index, poolTxArgs.Nonce, tx.VaultTxTypeAddFunds,
			&tx.AddFundsTx{Pool: poolTxArgs.Pool, Amount: poolTxArgs.Amount})
	})
	addFundsCmd.Flags().Uint64VarP(&poolTxArgs.Pool, "pool", "p", 0, "pool index")
	addFundsCmd.Flags().Uint64VarP(&poolTxArgs.Amount, "amount", "a", 0, "amount")
	poolCmd.AddCommand(addFundsCmd)

	removeFundsCmd := poolSubCmd("remove", "Withdraw your full balance from a pool", func(cmd *cobra.Command, args []string) {
		sendVaultTx(poolTxArgs.Url, poolTxArgs.Skey, poolTxArgs.Index, poolTxArgs.Nonce, tx.VaultTxTypeRemoveFunds,
			&tx.RemoveFundsTx{Pool: poolTxArgs.Pool})
	})
	removeFundsCmd.Flags().Uint64VarP(&poolTxArgs.Pool, "pool", "p", 0, "pool index")
	poolCmd.AddCommand(removeFundsCmd)

	distributeCmd := poolSubCmd("distribute", "Distribute a paused pool to members by share", func(cmd *cobra.Command, args []string) {
		sendVaultTx(poolTxArgs.Url, poolTxArgs.Skey, poolTxArgs.Index, poolTxArgs.Nonce, tx.VaultTxTypeDistributeFunds,
			&tx.DistributeFundsTx{Pool: poolTxArgs.Pool})
	})
	distributeCmd.Flags().Uint64VarP(&poolTxArgs.Pool, "pool", "p", 0, "pool index")
	poolCmd.AddCommand(distributeCmd)

	emergencyCmd := poolSubCmd("emergency-withdraw", "Sweep the whole pool balance to the owner", func(cmd *cobra.Command, args []string) {
		sendVaultTx(poolTxArgs.Url, poolTxArgs.Skey, poolTxArgs.Index, poolTxArgs.Nonce, tx.VaultTxTypeEmergencyWithdraw,
			&tx.EmergencyWithdrawTx{Pool: poolTxArgs.Pool})
	})
	emergencyCmd.Flags().Uint64VarP(&poolTxArgs.Pool, "pool", "p", 0, "pool index")
	poolCmd.AddCommand(emergencyCmd)

	pauseCmd := poolSubCmd("pause", "Pause deposits and withdrawals on a pool", func(cmd *cobra.Command, args []string) {
		sendVaultTx(poolTxArgs.Url, poolTxArgs.Skey, poolTxArgs.Index, poolTxArgs.Nonce, tx.VaultTxTypePausePool,
			&tx.PausePoolTx{Pool: poolTxArgs.Pool})
	})
	pauseCmd.Flags().Uint64VarP(&poolTxArgs.Pool, "pool", "p", 0, "pool index")
	poolCmd.AddCommand(pauseCmd)

	unpauseCmd := poolSubCmd("unpause", "Resume a paused pool", func(cmd *cobra.Command, args []string) {
		sendVaultTx(poolTxArgs.Url, poolTxArgs.Skey, poolTxArgs.Index, poolTxArgs.Nonce, tx.VaultTxTypeUnpausePool,
			&tx.UnpausePoolTx{Pool: poolTxArgs.Pool})
	})
	unpauseCmd.Flags().Uint64VarP(&poolTxArgs.Pool, "pool", "p", 0, "pool index")
	poolCmd.AddCommand(unpauseCmd)

	showPoolCmd := &cobra.Command{
		Use:   "show",
		Short: "Query a pool by index",
		Long:  ``,
		Run:   showPoolRun,
	}
	urlFlag(showPoolCmd, &poolTxArgs.Url)
	showPoolCmd.Flags().Uint64VarP(&poolTxArgs.Pool, "pool", "p", 0, "pool index")
	poolCmd.AddCommand(showPoolCmd)
}

func showPoolRun(cmd *cobra.Command, args []string) {
	res, err := abciQueryIndex(poolTxArgs.Url, "/pools/", poolTxArgs.Pool)
	if err != nil {
		return
	}
	var p types.Pool
	if err = json.Unmarshal(res, &p); err != nil {
		fmt.Printf("decode pool err:%v\n", err)
		return
	}
	dat, _ := json.MarshalIndent(&p, "", "  ")
	fmt.Println(string(dat))
}
