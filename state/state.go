package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/fundvault/fundvault-app/tx"
	vault_types "github.com/fundvault/fundvault-app/types"
	cmtcrypto "github.com/cometbft/cometbft/crypto"
	"github.com/cometbft/cometbft/crypto/ed25519"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/cosmos/iavl"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/syndtr/goleveldb/leveldb"
)

const (
	StartAccountIdx = 65536

	ModifiedFlagNew = 1 << 0
	ModifiedFlagMod = 1 << 1
	ModifiedFlagPK  = 1 << 2
)

var (
	ErrNotFound = errors.New("not found")
)

var (
	KeyState        = "s"
	KeyAccountIndex = "i%s"
	KeyAccountBody  = "a%x"
	KeyCampaignBody = "c%v"
	KeyPoolBody     = "p%v"
)

// Validation errors: malformed or out-of-range input, rejected before any
// mutation.
var (
	ErrGoalZero             = errors.New("goal amount is zero")
	ErrDurationZero         = errors.New("duration is zero")
	ErrContributionBounds   = errors.New("min/max contribution bounds invalid")
	ErrMilestoneArrays      = errors.New("milestone arrays length mismatch")
	ErrMilestoneSplit       = errors.New("milestone percentages must sum to 100")
	ErrAmountZero           = errors.New("amount is zero")
	ErrAmountOutOfBounds    = errors.New("contribution outside min/max bounds")
	ErrCumulativeExceedsMax = errors.New("cumulative contribution exceeds max")
	ErrAssetNotAccepted     = errors.New("asset not accepted")
)

// State errors: the entity exists but is in the wrong status for the
// operation.
var (
	ErrCampaignNotActive   = errors.New("campaign not active")
	ErrCampaignNotSettable = errors.New("campaign not refundable")
	ErrCampaignNoexists    = errors.New("campaign noexists")
	ErrAllMilestonesDone   = errors.New("all milestones released")
	ErrAlreadyVoted        = errors.New("already voted on milestone")
	ErrNotContributor      = errors.New("no contribution found")
	ErrPoolNoexists        = errors.New("pool noexists")
	ErrPoolPaused          = errors.New("pool paused")
	ErrPoolNotPaused       = errors.New("pool not paused")
	ErrPoolEmpty           = errors.New("pool balance is zero")
	ErrNotPoolMember       = errors.New("not an active pool member")
)

// Authorization errors.
var (
	ErrNotAdmin          = errors.New("sender is not administrator")
	ErrNotOwner          = errors.New("sender is not owner")
	ErrNotCreatorOrAdmin = errors.New("sender is neither creator nor administrator")
	ErrLedgerPaused      = errors.New("ledger is paused")
	ErrFeeTooHigh        = errors.New("platform fee above cap")
)

// Transfer errors.
var (
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Tx-level errors.
var (
	ErrTxSenderNoexists     = errors.New("sender noexists")
	ErrTxNonceInvalid       = errors.New("nonce invalid")
	ErrTxSigInvalid         = errors.New("signature invalid")
	ErrAccountAlreadyExists = errors.New("account already exists")
	ErrAccountNoexists      = errors.New("account noexists")
	ErrOneActionInOneBlock  = errors.New("one action in one block")
)

// StateHeader is the root record of the ledger: chain metadata plus the
// global authorization and fee configuration.
type StateHeader struct {
	ChainId        string `json:"chainId"`
	Height         uint64 `json:"height"`
	Time           int64  `json:"time"`
	Hash           []byte `json:"hash"`
	RootHash       []byte `json:"rootHash"`
	AccountIdx     uint64 `json:"accountIdx"`
	CampaignIdx    uint64 `json:"campaignIdx"`
	PoolIdx        uint64 `json:"poolIdx"`
	Admin          uint64 `json:"admin"`
	FeeCollector   uint64 `json:"feeCollector"`
	PlatformFeeBps uint64 `json:"platformFeeBps"`
	Paused         bool   `json:"paused"`
}

func (h *StateHeader) Clone() *StateHeader {
	n := *h
	n.Hash = append([]byte(nil), h.Hash...)
	n.RootHash = append([]byte(nil), h.RootHash...)
	return &n
}

type State struct {
	logger cmtlog.Logger
	db     *iavl.MutableTree
	dbVer  int64

	header *StateHeader
	idxs   map[string]uint64
	acnts  map[uint64]*Account

	modifiedAcnts     map[uint64]uint32
	campaigns         map[uint64]*vault_types.Campaign
	modifiedCampaigns map[uint64]bool
	pools             map[uint64]*vault_types.Pool
	modifiedPools     map[uint64]bool
}

func newState(db *iavl.MutableTree, logger cmtlog.Logger) *State {
	s := &State{
		logger:            logger,
		db:                db,
		dbVer:             0,
		header:            new(StateHeader),
		idxs:              make(map[string]uint64),
		acnts:             make(map[uint64]*Account),
		modifiedAcnts:     make(map[uint64]uint32),
		campaigns:         make(map[uint64]*vault_types.Campaign),
		modifiedCampaigns: make(map[uint64]bool),
		pools:             make(map[uint64]*vault_types.Pool),
		modifiedPools:     make(map[uint64]bool),
	}
	s.header.AccountIdx = StartAccountIdx
	return s
}

func (s *State) nextState() *State {
	n := &State{
		logger:            s.logger,
		db:                s.db,
		dbVer:             s.dbVer,
		idxs:              make(map[string]uint64),
		acnts:             make(map[uint64]*Account),
		modifiedAcnts:     make(map[uint64]uint32),
		campaigns:         make(map[uint64]*vault_types.Campaign),
		modifiedCampaigns: make(map[uint64]bool),
		pools:             make(map[uint64]*vault_types.Pool),
		modifiedPools:     make(map[uint64]bool),
	}
	n.header = s.header.Clone()
	if s.header.Hash != nil {
		n.header.Height = s.header.Height + 1
	}
	return n
}

// Clone deep-copies the working state so a tx can be applied speculatively
// and discarded.
func (s *State) Clone() *State {
	n := &State{
		logger:            s.logger,
		db:                s.db,
		dbVer:             s.dbVer,
		header:            s.header.Clone(),
		idxs:              make(map[string]uint64, len(s.idxs)),
		acnts:             make(map[uint64]*Account, len(s.acnts)),
		modifiedAcnts:     make(map[uint64]uint32, len(s.modifiedAcnts)),
		campaigns:         make(map[uint64]*vault_types.Campaign, len(s.campaigns)),
		modifiedCampaigns: make(map[uint64]bool, len(s.modifiedCampaigns)),
		pools:             make(map[uint64]*vault_types.Pool, len(s.pools)),
		modifiedPools:     make(map[uint64]bool, len(s.modifiedPools)),
	}
	for k, v := range s.idxs {
		n.idxs[k] = v
	}
	for k, a := range s.acnts {
		n.acnts[k] = a.Clone()
	}
	for k, v := range s.modifiedAcnts {
		n.modifiedAcnts[k] = v
	}
	for k, c := range s.campaigns {
		n.campaigns[k] = c.Clone()
	}
	for k, v := range s.modifiedCampaigns {
		n.modifiedCampaigns[k] = v
	}
	for k, p := range s.pools {
		n.pools[k] = p.Clone()
	}
	for k, v := range s.modifiedPools {
		n.modifiedPools[k] = v
	}
	return n
}

func (s *State) load() (err error) {
	val, err := s.db.Get([]byte(KeyState))
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil
		}
		return err
	}
	if val != nil {
		err = json.Unmarshal(val, s.header)
		if err != nil {
			return
		}
		h := s.db.Hash()
		if h != nil {
			s.calcHash(h, true)
		}
	}
	return
}

func (s *State) calcHash(rootHash []byte, update bool) (h common.Hash) {
	h = crypto.Keccak256Hash(rootHash)
	if update {
		if s.header.RootHash == nil {
			s.header.RootHash = make([]byte, len(rootHash))
		}
		copy(s.header.RootHash, rootHash)
		if s.header.Hash == nil {
			s.header.Hash = make([]byte, len(h))
		}
		copy(s.header.Hash, h[:])
	}
	return
}

// Update flushes the working set into the tree and returns the would-be app
// hash. The tree version is not saved yet; see save.
func (s *State) Update() (h common.Hash, err error) {
	var hash []byte
	defer func() {
		if hash == nil {
			s.db.Rollback()
		}
	}()
	var val []byte
	val, err = json.Marshal(s.header)
	if err != nil {
		return
	}
	_, err = s.db.Set([]byte(KeyState), val)
	if err != nil {
		return
	}

	if err = s.flushCampaigns(); err != nil {
		return
	}
	if err = s.flushPools(); err != nil {
		return
	}

	n := len(s.modifiedAcnts)
	if n > 0 {
		idxs := make([]uint64, n)
		i := 0
		for idx := range s.modifiedAcnts {
			idxs[i] = idx
			i += 1
		}
		sort.Slice(idxs, func(i, j int) bool {
			return idxs[i] < idxs[j]
		})
		for _, idx := range idxs {
			flag := s.modifiedAcnts[idx]
			acnt := s.acnts[idx]
			key := fmt.Sprintf(KeyAccountBody, acnt.Index)
			val, err = json.Marshal(acnt)
			if err != nil {
				return
			}
			_, err = s.db.Set([]byte(key), val)
			if err != nil {
				return
			}
			if (flag&ModifiedFlagNew == ModifiedFlagNew) || (flag&ModifiedFlagPK == ModifiedFlagPK) {
				key = fmt.Sprintf(KeyAccountIndex, acnt.Address())
				val, err = rlp.EncodeToBytes(acnt.Index)
				if err != nil {
					return
				}
				_, err = s.db.Set([]byte(key), val)
				if err != nil {
					return
				}
			}
		}
	}
	hash = s.db.WorkingHash()
	h = s.calcHash(hash, false)
	s.modifiedAcnts = make(map[uint64]uint32)
	s.modifiedCampaigns = make(map[uint64]bool)
	s.modifiedPools = make(map[uint64]bool)
	return
}

func (s *State) flushCampaigns() (err error) {
	if len(s.modifiedCampaigns) == 0 {
		return
	}
	idxs := make([]uint64, 0, len(s.modifiedCampaigns))
	for idx := range s.modifiedCampaigns {
		idxs = append(idxs, idx)
	}
	sort.Slice(idxs, func(i, j int) bool { return idxs[i] < idxs[j] })
	for _, idx := range idxs {
		key := fmt.Sprintf(KeyCampaignBody, idx)
		val, err1 := json.Marshal(s.campaigns[idx])
		if err1 != nil {
			return err1
		}
		_, err = s.db.Set([]byte(key), val)
		if err != nil {
			return
		}
	}
	return
}

func (s *State) flushPools() (err error) {
	if len(s.modifiedPools) == 0 {
		return
	}
	idxs := make([]uint64, 0, len(s.modifiedPools))
	for idx := range s.modifiedPools {
		idxs = append(idxs, idx)
	}
	sort.Slice(idxs, func(i, j int) bool { return idxs[i] < idxs[j] })
	for _, idx := range idxs {
		key := fmt.Sprintf(KeyPoolBody, idx)
		val, err1 := json.Marshal(s.pools[idx])
		if err1 != nil {
			return err1
		}
		_, err = s.db.Set([]byte(key), val)
		if err != nil {
			return
		}
	}
	return
}

func (s *State) save() (h common.Hash, err error) {
	hash, ver, err := s.db.SaveVersion()
	if err != nil {
		return h, err
	}

	s.dbVer = ver
	h = s.calcHash(hash, true)

	return
}

func (s *State) Header() *StateHeader {
	return s.header
}

func (s *State) Hash() (h common.Hash) {
	if s.header.Hash != nil {
		copy(h[:], s.header.Hash)
	}
	return
}

func (s *State) SetChainId(chainId string) {
	s.header.ChainId = chainId
}

// SetBlockTime pins the ledger clock to the block timestamp so every
// deadline check inside the block is deterministic.
func (s *State) SetBlockTime(t int64) {
	s.header.Time = t
}

func (s *State) Now() int64 {
	return s.header.Time
}

func (s *State) GetAccount(idx uint64) (acnt *Account, err error) {
	if idx >= s.header.AccountIdx {
		err = ErrAccountNoexists
		return
	}
	acnt = s.acnts[idx]
	if acnt != nil {
		return
	}
	key := fmt.Sprintf(KeyAccountBody, idx)
	val, err := s.db.Get([]byte(key))
	if err != nil {
		return nil, err
	}
	if val == nil {
		err = ErrNotFound
		return
	}
	acnt = new(Account)
	err = json.Unmarshal(val, acnt)
	if err != nil {
		acnt = nil
		return
	}
	s.acnts[idx] = acnt
	return
}

func (s *State) FindAccount(addr []byte) (acnt *Account, err error) {
	saddr := cmtcrypto.Address(addr).String()
	idx, ok := s.idxs[saddr]
	if !ok {
		key := fmt.Sprintf(KeyAccountIndex, saddr)
		val, err := s.db.Get([]byte(key))
		if err != nil {
			if err == leveldb.ErrNotFound {
				return nil, nil
			}
			return nil, err
		}
		if val == nil {
			return nil, nil
		}
		err = rlp.DecodeBytes(val, &idx)
		if err != nil {
			return nil, err
		}
		s.idxs[saddr] = idx
	}
	acnt, err = s.GetAccount(idx)

	return
}

func (s *State) existPubkey(pubkey []byte) (bool, error) {
	addr := ed25519.PubKey(pubkey).Address()[:]
	saddr := cmtcrypto.Address(addr).String()
	if _, ok := s.idxs[saddr]; ok {
		return true, nil
	}
	key := fmt.Sprintf(KeyAccountIndex, saddr)
	val, err := s.db.Get([]byte(key))
	if err != nil {
		if err != leveldb.ErrNotFound {
			return false, err
		}
	}
	if val != nil {
		return true, nil
	}
	for _, acc := range s.acnts {
		if bytes.Equal(acc.AddrBytes(), addr) {
			return true, nil
		}
	}
	return false, nil
}

func (s *State) AddAccount(acnt *Account) (err error) {
	a, err := s.FindAccount(acnt.AddrBytes())
	if err != nil {
		return err
	}
	if a != nil {
		err = ErrAccountAlreadyExists
		return
	}
	acnt.Index = s.header.AccountIdx
	s.header.AccountIdx += 1
	s.acnts[acnt.Index] = acnt.Clone()
	s.modifiedAcnts[acnt.Index] = ModifiedFlagNew
	return
}

// touchAccount records a mutation: the nonce is bumped and the cached copy
// replaced, matching the write path in Update.
func (s *State) touchAccount(a *Account) {
	a.Nonce += 1
	s.markAccount(a)
}

// markAccount stores the account into the working set without a nonce bump,
// for accounts mutated as transfer recipients.
func (s *State) markAccount(a *Account) {
	v := s.modifiedAcnts[a.Index]
	v |= ModifiedFlagMod
	s.modifiedAcnts[a.Index] = v
	s.acnts[a.Index] = a.Clone()
}

// Verify checks the sender account, nonce and envelope signatures of a tx
// against this state.
func (s *State) Verify(btx *tx.VaultTx, allowNonceGap bool) (succ bool, err error) {
	a, err := s.GetAccount(btx.Sender)
	if err != nil {
		return succ, err
	}
	if a == nil {
		err = ErrTxSenderNoexists
		return
	}
	if !(a.Nonce == btx.Nonce || (allowNonceGap && a.Nonce < btx.Nonce)) {
		err = ErrTxNonceInvalid
		return
	}
	dat, err := btx.SigData([]byte(s.header.ChainId))
	if err != nil {
		return succ, err
	}
	succ = a.Verify(dat, btx.Sig)
	if !succ {
		err = ErrTxSigInvalid
	}
	return
}

func (s *State) getCampaign(idx uint64) (c *vault_types.Campaign, err error) {
	if idx >= s.header.CampaignIdx {
		err = ErrCampaignNoexists
		return
	}
	c = s.campaigns[idx]
	if c != nil {
		return
	}
	key := fmt.Sprintf(KeyCampaignBody, idx)
	val, err := s.db.Get([]byte(key))
	if err != nil {
		return nil, err
	}
	if val == nil {
		err = ErrCampaignNoexists
		return
	}
	c = new(vault_types.Campaign)
	err = json.Unmarshal(val, c)
	if err != nil {
		c = nil
		return
	}
	s.campaigns[idx] = c
	return
}

func (s *State) getPool(idx uint64) (p *vault_types.Pool, err error) {
	if idx >= s.header.PoolIdx {
		err = ErrPoolNoexists
		return
	}
	p = s.pools[idx]
	if p != nil {
		return
	}
	key := fmt.Sprintf(KeyPoolBody, idx)
	val, err := s.db.Get([]byte(key))
	if err != nil {
		return nil, err
	}
	if val == nil {
		err = ErrPoolNoexists
		return
	}
	p = new(vault_types.Pool)
	err = json.Unmarshal(val, p)
	if err != nil {
		p = nil
		return
	}
	s.pools[idx] = p
	return
}

func (s *State) markCampaign(c *vault_types.Campaign) {
	s.campaigns[c.Index] = c
	s.modifiedCampaigns[c.Index] = true
}

func (s *State) markPool(p *vault_types.Pool) {
	s.pools[p.Index] = p
	s.modifiedPools[p.Index] = true
}

// SetAdmin wires the authorization gate from genesis app state.
func (s *State) SetAdmin(admin uint64) {
	s.header.Admin = admin
}

func (s *State) SetFeeCollector(collector uint64) {
	s.header.FeeCollector = collector
}

func (s *State) SetPlatformFeeBps(bps uint64) error {
	if bps > vault_types.MaxPlatformFeeBps {
		return ErrFeeTooHigh
	}
	s.header.PlatformFeeBps = bps
	return nil
}

// The value-transfer rail. Native value is conserved between account
// balances and ledger custody; a debit failing leaves nothing mutated.

func (s *State) debitNative(a *Account, amount uint64) error {
	if a.Balance < amount {
		return ErrInsufficientBalance
	}
	a.Balance -= amount
	return nil
}

func (s *State) creditNative(idx uint64, amount uint64) error {
	a, err := s.GetAccount(idx)
	if err != nil {
		return err
	}
	if a == nil {
		return ErrAccountNoexists
	}
	a.Balance += amount
	s.markAccount(a)
	return nil
}

func (s *State) debitAsset(a *Account, asset string, amount uint64) error {
	if a.AssetBalance(asset) < amount {
		return ErrInsufficientBalance
	}
	a.AssetBalances[asset] -= amount
	return nil
}

func (s *State) creditAsset(idx uint64, asset string, amount uint64) error {
	a, err := s.GetAccount(idx)
	if err != nil {
		return err
	}
	if a == nil {
		return ErrAccountNoexists
	}
	if a.AssetBalances == nil {
		a.AssetBalances = make(map[string]uint64)
	}
	a.AssetBalances[asset] += amount
	s.markAccount(a)
	return nil
}
