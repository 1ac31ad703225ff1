package state

import (
	"github.com/cometbft/cometbft/crypto/ed25519"
)

type Account struct {
	Index  uint64         `json:"index"`
	PubKey ed25519.PubKey `json:"pubKey"`
	// Balance is the native asset balance in minor units.
	Balance uint64 `json:"balance"`
	// AssetBalances holds fungible alternate-asset balances by asset id.
	AssetBalances map[string]uint64 `json:"assetBalances,omitempty"`
	Nonce         uint64            `json:"nonce"`
}

func (a *Account) Clone() *Account {
	n := *a
	n.PubKey = append(ed25519.PubKey(nil), a.PubKey...)
	if a.AssetBalances != nil {
		n.AssetBalances = make(map[string]uint64, len(a.AssetBalances))
		for k, v := range a.AssetBalances {
			n.AssetBalances[k] = v
		}
	}
	return &n
}

func (a *Account) SetPubKey(pkey []byte) {
	if a.PubKey == nil {
		a.PubKey = make([]byte, len(pkey))
	}
	copy(a.PubKey, pkey)
}

func (a *Account) AssetBalance(asset string) uint64 {
	if a.AssetBalances == nil {
		return 0
	}
	return a.AssetBalances[asset]
}

func (a *Account) AddrBytes() []byte {
	pk := ed25519.PubKey(a.PubKey[:])
	return pk.Address()[:]
}

func (a *Account) Address() string {
	pk := ed25519.PubKey(a.PubKey[:])
	return pk.Address().String()
}

func (a *Account) Verify(msg []byte, sigs [][]byte) (succ bool) {
	if len(sigs) != 1 {
		return false
	}
	pk := ed25519.PubKey(a.PubKey[:])
	return pk.VerifySignature(msg, sigs[0])
}
