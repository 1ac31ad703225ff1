package tx

import (
	"errors"
)

type VaultTxType uint8

const (
	VaultTxTypeUnknown           VaultTxType = 0
	VaultTxTypeCreateCampaign    VaultTxType = 1
	VaultTxTypeContribute        VaultTxType = 2
	VaultTxTypeContributeAsset   VaultTxType = 3
	VaultTxTypeVoteMilestone     VaultTxType = 4
	VaultTxTypeCancelCampaign    VaultTxType = 5
	VaultTxTypeClaimRefund       VaultTxType = 6
	VaultTxTypeCreatePool        VaultTxType = 7
	VaultTxTypeAddFunds          VaultTxType = 8
	VaultTxTypeRemoveFunds       VaultTxType = 9
	VaultTxTypeDistributeFunds   VaultTxType = 10
	VaultTxTypeEmergencyWithdraw VaultTxType = 11
	VaultTxTypePausePool         VaultTxType = 12
	VaultTxTypeUnpausePool       VaultTxType = 13
	VaultTxTypeUpdateFee         VaultTxType = 14
	VaultTxTypeUpdateCollector   VaultTxType = 15
	VaultTxTypeSetPause          VaultTxType = 16
)

const (
	VaultTxVersion0 uint8 = 0
	VaultTxVersion1 uint8 = 1
)

var ErrUnsupportedTxType = errors.New("unsupported tx type")
