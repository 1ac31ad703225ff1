package state

import (
	"github.com/fundvault/fundvault-app/tx"
	vault_types "github.com/fundvault/fundvault-app/types"
)

func (s *State) requireAdmin(sender uint64) (*Account, error) {
	a, err := s.GetAccount(sender)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrTxSenderNoexists
	}
	if sender != s.header.Admin {
		return nil, ErrNotAdmin
	}
	return a, nil
}

func (s *State) UpdatePlatformFee(stx *tx.UpdateFeeTx, sender uint64, checkOnly bool) (err error) {
	s.logger.Debug("apply update platform fee", "sender", sender, "feeBps", stx.FeeBps)
	a, err := s.requireAdmin(sender)
	if err != nil {
		return err
	}
	if stx.FeeBps > vault_types.MaxPlatformFeeBps {
		return ErrFeeTooHigh
	}
	if !checkOnly {
		s.header.PlatformFeeBps = stx.FeeBps
		s.touchAccount(a)
	}
	return nil
}

func (s *State) UpdateFeeCollector(stx *tx.UpdateCollectorTx, sender uint64, checkOnly bool) (err error) {
	s.logger.Debug("apply update fee collector", "sender", sender, "collector", stx.Collector)
	a, err := s.requireAdmin(sender)
	if err != nil {
		return err
	}
	collector, err := s.GetAccount(stx.Collector)
	if err != nil {
		return err
	}
	if collector == nil {
		return ErrAccountNoexists
	}
	if !checkOnly {
		s.header.FeeCollector = stx.Collector
		s.touchAccount(a)
	}
	return nil
}

func (s *State) SetPause(stx *tx.SetPauseTx, sender uint64, checkOnly bool) (err error) {
	s.logger.Debug("apply set pause", "sender", sender, "paused", stx.Paused)
	a, err := s.requireAdmin(sender)
	if err != nil {
		return err
	}
	if !checkOnly {
		s.header.Paused = stx.Paused
		s.touchAccount(a)
	}
	return nil
}
