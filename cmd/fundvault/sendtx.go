package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/fundvault/fundvault-app/crypto"
	"github.com/fundvault/fundvault-app/tx"
	"github.com/cometbft/cometbft/rpc/client/http"
)

// sendVaultTx signs a transaction with the file priv validator key and
// broadcasts it. A zero nonce is resolved against the node first.
func sendVaultTx(url string, skey string, index uint64, nonce uint64, txType tx.VaultTxType, payload any) {
	cli, err := http.New(url, "/websocket")
	if err != nil {
		fmt.Printf("new client err:%v\n", err)
		return
	}
	ctx := context.Background()
	gres, err := cli.Genesis(ctx)
	if err != nil {
		fmt.Printf("get chain genesis err:%v\n", err)
		return
	}
	chainId := gres.Genesis.ChainID
	if nonce == 0 {
		act, err := queryAccount(url, index, "")
		if err != nil {
			return
		}
		nonce = act.Nonce
	}
	btx := tx.VaultTx{
		Version: tx.VaultTxVersion1,
		Type:    txType,
		Nonce:   nonce,
		Sender:  index,
		Tx:      payload,
	}
	pv := crypto.LoadFilePV(skey)
	if err = pv.SignVaultTx(&btx, chainId); err != nil {
		fmt.Printf("sign tx err:%v\n", err)
		return
	}
	println("pubkey:", hex.EncodeToString(pv.PublicKey()))
	println("address:", pv.Address())
	dat, err := tx.MarshalVaultTx(&btx)
	if err != nil {
		fmt.Printf("encode tx err:%v\n", err)
		return
	}
	res, err := cli.BroadcastTxSync(ctx, dat)
	if err != nil {
		fmt.Printf("broadcast tx err:%v\n", err)
		return
	}
	dat, _ = json.Marshal(res)
	fmt.Printf("%v\n", string(dat))
}
