package main

import (
	"fmt"
	"os"
)

func main() {
	clCmd.AddCommand(initCmd)
	clCmd.AddCommand(versionCmd)
	clCmd.AddCommand(accountCmd)
	clCmd.AddCommand(pubkeyCmd)
	clCmd.AddCommand(campaignCmd)
	clCmd.AddCommand(contributeCmd)
	clCmd.AddCommand(voteCmd)
	clCmd.AddCommand(refundCmd)
	clCmd.AddCommand(poolCmd)
	clCmd.AddCommand(adminCmd)
	if err := clCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
