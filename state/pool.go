package state

import (
	"github.com/fundvault/fundvault-app/tx"
	vault_types "github.com/fundvault/fundvault-app/types"
)

func (s *State) CreatePool(stx *tx.CreatePoolTx, sender uint64, checkOnly bool) (event *vault_types.EventPoolCreated, err error) {
	s.logger.Debug("apply create pool", "sender", sender, "asset", stx.Asset)
	a, err := s.GetAccount(sender)
	if err != nil {
		return nil, err
	}
	if a == nil {
		err = ErrTxSenderNoexists
		return
	}
	if !checkOnly {
		p := &vault_types.Pool{
			Index:        s.header.PoolIdx,
			Owner:        a.Index,
			OwnerAddress: a.Address(),
			Asset:        stx.Asset,
			Users:        make(map[uint64]*vault_types.UserInfo),
			ActiveUsers:  make([]uint64, 0),
		}
		s.header.PoolIdx += 1
		s.markPool(p)
		s.touchAccount(a)

		event = &vault_types.EventPoolCreated{
			Pool:         p.Index,
			Owner:        a.Index,
			OwnerAddress: a.Address(),
			Asset:        stx.Asset,
		}
	}
	return
}

func (s *State) AddFunds(stx *tx.AddFundsTx, sender uint64, checkOnly bool) (event *vault_types.EventPoolFunds, err error) {
	s.logger.Debug("apply add funds", "sender", sender, "pool", stx.Pool, "amount", stx.Amount)
	if s.header.Paused {
		err = ErrLedgerPaused
		return
	}
	a, err := s.GetAccount(sender)
	if err != nil {
		return nil, err
	}
	if a == nil {
		err = ErrTxSenderNoexists
		return
	}
	p, err := s.getPool(stx.Pool)
	if err != nil {
		return nil, err
	}
	if p.Paused {
		err = ErrPoolPaused
		return
	}
	if stx.Amount == 0 {
		err = ErrAmountZero
		return
	}
	if p.Asset == "" {
		if a.Balance < stx.Amount {
			err = ErrInsufficientBalance
			return
		}
	} else if a.AssetBalance(p.Asset) < stx.Amount {
		err = ErrInsufficientBalance
		return
	}
	if !checkOnly {
		if p.Asset == "" {
			err = s.debitNative(a, stx.Amount)
		} else {
			err = s.debitAsset(a, p.Asset, stx.Amount)
		}
		if err != nil {
			return nil, err
		}
		u := p.Users[sender]
		if u == nil {
			u = &vault_types.UserInfo{}
			p.Users[sender] = u
		}
		if !u.IsActive {
			u.IsActive = true
			p.ActiveUsers = append(p.ActiveUsers, sender)
		}
		u.Balance += stx.Amount
		p.TotalBalance += stx.Amount
		p.Recompute()
		s.markPool(p)
		s.touchAccount(a)

		event = &vault_types.EventPoolFunds{
			Pool:         p.Index,
			Account:      sender,
			Amount:       stx.Amount,
			TotalBalance: p.TotalBalance,
		}
	}
	return
}

// RemoveFunds pays out the caller's entire stake, deactivates them and
// rebalances the remaining members. The pool auto-pauses when drained.
func (s *State) RemoveFunds(stx *tx.RemoveFundsTx, sender uint64, checkOnly bool) (event *vault_types.EventPoolFunds, err error) {
	s.logger.Debug("apply remove funds", "sender", sender, "pool", stx.Pool)
	if s.header.Paused {
		err = ErrLedgerPaused
		return
	}
	a, err := s.GetAccount(sender)
	if err != nil {
		return nil, err
	}
	if a == nil {
		err = ErrTxSenderNoexists
		return
	}
	p, err := s.getPool(stx.Pool)
	if err != nil {
		return nil, err
	}
	if p.Paused {
		err = ErrPoolPaused
		return
	}
	u := p.Users[sender]
	if u == nil || !u.IsActive || u.Balance == 0 {
		err = ErrNotPoolMember
		return
	}
	if !checkOnly {
		amount := u.Balance
		u.Balance = 0
		u.Percentage = 0
		u.IsActive = false
		p.RemoveActive(sender)
		p.TotalBalance -= amount
		if p.TotalBalance == 0 {
			p.Paused = true
		}
		p.Recompute()
		s.markPool(p)
		s.touchAccount(a)
		if p.Asset == "" {
			err = s.creditNative(sender, amount)
		} else {
			err = s.creditAsset(sender, p.Asset, amount)
		}
		if err != nil {
			return nil, err
		}

		event = &vault_types.EventPoolFunds{
			Pool:         p.Index,
			Account:      sender,
			Amount:       amount,
			TotalBalance: p.TotalBalance,
		}
	}
	return
}

// DistributeFunds pays every active member floor(total*pct/10000) and
// resets the pool. Owner-only, and only while paused.
func (s *State) DistributeFunds(stx *tx.DistributeFundsTx, sender uint64, checkOnly bool) (event *vault_types.EventPoolFunds, err error) {
	s.logger.Debug("apply distribute funds", "sender", sender, "pool", stx.Pool)
	a, err := s.GetAccount(sender)
	if err != nil {
		return nil, err
	}
	if a == nil {
		err = ErrTxSenderNoexists
		return
	}
	p, err := s.getPool(stx.Pool)
	if err != nil {
		return nil, err
	}
	if sender != p.Owner {
		err = ErrNotOwner
		return
	}
	if !p.Paused {
		err = ErrPoolNotPaused
		return
	}
	if p.TotalBalance == 0 {
		err = ErrPoolEmpty
		return
	}
	if !checkOnly {
		total := p.TotalBalance
		var paid uint64
		for _, idx := range p.ActiveUsers {
			u := p.Users[idx]
			share := total * u.Percentage / vault_types.BpsDenominator
			// A zero share still clears the stake; the dust joins the
			// truncation remainder.
			u.Balance = 0
			u.Percentage = 0
			u.IsActive = false
			if share == 0 {
				continue
			}
			if p.Asset == "" {
				err = s.creditNative(idx, share)
			} else {
				err = s.creditAsset(idx, p.Asset, share)
			}
			if err != nil {
				return nil, err
			}
			paid += share
		}
		p.TotalBalance = 0
		p.ActiveUsers = p.ActiveUsers[:0]
		s.markPool(p)
		s.touchAccount(a)

		event = &vault_types.EventPoolFunds{
			Pool:    p.Index,
			Account: sender,
			Amount:  paid,
		}
	}
	return
}

// EmergencyWithdraw sweeps the whole pool balance to the owner and wipes
// every member record. Last-resort recovery path only.
func (s *State) EmergencyWithdraw(stx *tx.EmergencyWithdrawTx, sender uint64, checkOnly bool) (event *vault_types.EventPoolFunds, err error) {
	s.logger.Debug("apply emergency withdraw", "sender", sender, "pool", stx.Pool)
	a, err := s.GetAccount(sender)
	if err != nil {
		return nil, err
	}
	if a == nil {
		err = ErrTxSenderNoexists
		return
	}
	p, err := s.getPool(stx.Pool)
	if err != nil {
		return nil, err
	}
	if sender != p.Owner {
		err = ErrNotOwner
		return
	}
	if !checkOnly {
		amount := p.TotalBalance
		for _, idx := range p.ActiveUsers {
			u := p.Users[idx]
			u.Balance = 0
			u.Percentage = 0
			u.IsActive = false
		}
		p.TotalBalance = 0
		p.ActiveUsers = p.ActiveUsers[:0]
		s.markPool(p)
		s.touchAccount(a)
		if amount > 0 {
			if p.Asset == "" {
				err = s.creditNative(p.Owner, amount)
			} else {
				err = s.creditAsset(p.Owner, p.Asset, amount)
			}
			if err != nil {
				return nil, err
			}
		}

		event = &vault_types.EventPoolFunds{
			Pool:    p.Index,
			Account: sender,
			Amount:  amount,
		}
	}
	return
}

func (s *State) SetPoolPause(pool uint64, sender uint64, paused bool, checkOnly bool) (err error) {
	s.logger.Debug("apply set pool pause", "sender", sender, "pool", pool, "paused", paused)
	a, err := s.GetAccount(sender)
	if err != nil {
		return err
	}
	if a == nil {
		return ErrTxSenderNoexists
	}
	p, err := s.getPool(pool)
	if err != nil {
		return err
	}
	if sender != p.Owner {
		return ErrNotOwner
	}
	if paused && p.Paused {
		return ErrPoolPaused
	}
	if !paused && !p.Paused {
		return ErrPoolNotPaused
	}
	if !checkOnly {
		p.Paused = paused
		s.markPool(p)
		s.touchAccount(a)
	}
	return nil
}
