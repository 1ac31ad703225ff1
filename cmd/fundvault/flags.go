package main

import "github.com/spf13/cobra"

func urlFlag(cmd *cobra.Command, url *string) {
	cmd.Flags().StringVarP(url, "url", "u", "http://127.0.0.1:26657", "fundvault node rpc url")
}

func signerFlags(cmd *cobra.Command, index *uint64, nonce *uint64, skey *string) {
	cmd.Flags().Uint64VarP(index, "index", "i", 0, "sender account index")
	cmd.Flags().Uint64VarP(nonce, "nonce", "n", 0, "sender account nonce, 0 queries the node")
	cmd.Flags().StringVarP(skey, "skeyPath", "s", "./config/priv_validator_key.json", "private key path")
}
