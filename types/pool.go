package types

const BpsDenominator = 10000

type UserInfo struct {
	Balance    uint64 `json:"balance"`
	Percentage uint64 `json:"percentage"`
	IsActive   bool   `json:"isActive"`
}

type Pool struct {
	Index        uint64 `json:"index"`
	Owner        uint64 `json:"owner"`
	OwnerAddress string `json:"ownerAddress"`
	// Asset is the id of the asset the pool custodies; empty means the
	// native asset.
	Asset        string               `json:"asset"`
	TotalBalance uint64               `json:"totalBalance"`
	Paused       bool                 `json:"paused"`
	Users        map[uint64]*UserInfo `json:"users"`
	// ActiveUsers is the dense index driving recomputation and
	// distribution. Removal is swap-with-last, order is not preserved.
	ActiveUsers []uint64 `json:"activeUsers"`
}

// Recompute rescans every active user and resets percentages to
// floor(balance*10000/total). With a zero total all percentages are zeroed.
func (p *Pool) Recompute() {
	if p.TotalBalance == 0 {
		for _, idx := range p.ActiveUsers {
			p.Users[idx].Percentage = 0
		}
		return
	}
	for _, idx := range p.ActiveUsers {
		u := p.Users[idx]
		u.Percentage = u.Balance * BpsDenominator / p.TotalBalance
	}
}

func (p *Pool) RemoveActive(account uint64) {
	for i, idx := range p.ActiveUsers {
		if idx == account {
			last := len(p.ActiveUsers) - 1
			p.ActiveUsers[i] = p.ActiveUsers[last]
			p.ActiveUsers = p.ActiveUsers[:last]
			return
		}
	}
}

func (p *Pool) Clone() *Pool {
	n := *p
	n.Users = make(map[uint64]*UserInfo, len(p.Users))
	for k, u := range p.Users {
		cu := *u
		n.Users[k] = &cu
	}
	n.ActiveUsers = append([]uint64(nil), p.ActiveUsers...)
	return &n
}
