package tx

import (
	"encoding/json"
)

type VaultTx struct {
	Version uint8       `json:"version"`
	Type    VaultTxType `json:"type"`
	Nonce   uint64      `json:"nonce"`
	Sender  uint64      `json:"sender"`
	Tx      any         `json:"tx"`
	Sig     [][]byte    `json:"sig"`
}

type CreateCampaignTx struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	GoalAmount      uint64   `json:"goalAmount"`
	Duration        int64    `json:"duration"`
	MinContribution uint64   `json:"minContribution"`
	MaxContribution uint64   `json:"maxContribution"`
	AcceptsAssets   bool     `json:"acceptsAssets"`
	AcceptedAssets  []string `json:"acceptedAssets"`
	// Three parallel arrays, one entry per milestone. Percentages must
	// sum to 100.
	MilestonePercentages  []uint64 `json:"milestonePercentages"`
	MilestoneDescriptions []string `json:"milestoneDescriptions"`
	MilestoneDurations    []int64  `json:"milestoneDurations"`
	// MilestoneQuorum of 0 selects the default quorum.
	MilestoneQuorum uint64 `json:"milestoneQuorum"`
}

type ContributeTx struct {
	Campaign uint64 `json:"campaign"`
	Amount   uint64 `json:"amount"`
}

type ContributeAssetTx struct {
	Campaign uint64 `json:"campaign"`
	Asset    string `json:"asset"`
	Amount   uint64 `json:"amount"`
}

type VoteMilestoneTx struct {
	Campaign uint64 `json:"campaign"`
}

type CancelCampaignTx struct {
	Campaign uint64 `json:"campaign"`
}

type ClaimRefundTx struct {
	Campaign uint64 `json:"campaign"`
}

type CreatePoolTx struct {
	Asset string `json:"asset"`
}

type AddFundsTx struct {
	Pool   uint64 `json:"pool"`
	Amount uint64 `json:"amount"`
}

type RemoveFundsTx struct {
	Pool uint64 `json:"pool"`
}

type DistributeFundsTx struct {
	Pool uint64 `json:"pool"`
}

type EmergencyWithdrawTx struct {
	Pool uint64 `json:"pool"`
}

type PausePoolTx struct {
	Pool uint64 `json:"pool"`
}

type UnpausePoolTx struct {
	Pool uint64 `json:"pool"`
}

type UpdateFeeTx struct {
	FeeBps uint64 `json:"feeBps"`
}

type UpdateCollectorTx struct {
	Collector uint64 `json:"collector"`
}

type SetPauseTx struct {
	Paused bool `json:"paused"`
}

type vaultTxTmpl[Tx any] struct {
	Version uint8       `json:"version"`
	Type    VaultTxType `json:"type"`
	Nonce   uint64      `json:"nonce"`
	Sender  uint64      `json:"sender"`
	Tx      Tx          `json:"tx"`
	Sig     [][]byte    `json:"sig"`
}

// SigData returns the canonical bytes a sender signs: the envelope with the
// signature slots replaced by the chain id salt.
func (tx *VaultTx) SigData(ext []byte) (dat []byte, err error) {
	ntx := *tx
	ntx.Sig = [][]byte{ext}
	dat, err = json.Marshal(ntx)
	return
}

func parseVaultTxType(dat []byte) VaultTxType {
	var tx struct {
		Type VaultTxType `json:"type"`
	}
	err := json.Unmarshal(dat, &tx)
	if err != nil {
		return VaultTxTypeUnknown
	}
	return tx.Type
}

func unmarshalVaultTx[Tx any](dat []byte) (btx *VaultTx, err error) {
	var txt vaultTxTmpl[Tx]
	err = json.Unmarshal(dat, &txt)
	if err != nil {
		return
	}
	btx = new(VaultTx)
	btx.Version = txt.Version
	btx.Type = txt.Type
	btx.Nonce = txt.Nonce
	btx.Sender = txt.Sender
	btx.Tx = &txt.Tx
	btx.Sig = txt.Sig
	return
}

func UnmarshalVaultTx(dat []byte) (btx *VaultTx, err error) {
	tp := parseVaultTxType(dat)
	switch tp {
	case VaultTxTypeCreateCampaign:
		return unmarshalVaultTx[CreateCampaignTx](dat)
	case VaultTxTypeContribute:
		return unmarshalVaultTx[ContributeTx](dat)
	case VaultTxTypeContributeAsset:
		return unmarshalVaultTx[ContributeAssetTx](dat)
	case VaultTxTypeVoteMilestone:
		return unmarshalVaultTx[VoteMilestoneTx](dat)
	case VaultTxTypeCancelCampaign:
		return unmarshalVaultTx[CancelCampaignTx](dat)
	case VaultTxTypeClaimRefund:
		return unmarshalVaultTx[ClaimRefundTx](dat)
	case VaultTxTypeCreatePool:
		return unmarshalVaultTx[CreatePoolTx](dat)
	case VaultTxTypeAddFunds:
		return unmarshalVaultTx[AddFundsTx](dat)
	case VaultTxTypeRemoveFunds:
		return unmarshalVaultTx[RemoveFundsTx](dat)
	case VaultTxTypeDistributeFunds:
		return unmarshalVaultTx[DistributeFundsTx](dat)
	case VaultTxTypeEmergencyWithdraw:
		return unmarshalVaultTx[EmergencyWithdrawTx](dat)
	case VaultTxTypePausePool:
		return unmarshalVaultTx[PausePoolTx](dat)
	case VaultTxTypeUnpausePool:
		return unmarshalVaultTx[UnpausePoolTx](dat)
	case VaultTxTypeUpdateFee:
		return unmarshalVaultTx[UpdateFeeTx](dat)
	case VaultTxTypeUpdateCollector:
		return unmarshalVaultTx[UpdateCollectorTx](dat)
	case VaultTxTypeSetPause:
		return unmarshalVaultTx[SetPauseTx](dat)
	default:
		err = ErrUnsupportedTxType
	}
	return
}

func MarshalVaultTx(btx *VaultTx) (dat []byte, err error) {
	return json.Marshal(btx)
}
