package app

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/fundvault/fundvault-app/state"
	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
)

func (app *VaultApp) Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error) {
	path := req.Path
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	q, ok := app.queriers[path]
	if !ok {
		res = &abcitypes.ResponseQuery{}
		res.Code = 404
		return
	}
	res, err = q.Query(ctx, req)
	return
}

type Querier interface {
	Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error)
}

// decodeIndex reads a big-endian integer of up to 8 bytes.
func decodeIndex(dat []byte) (idx uint64) {
	for _, v := range dat {
		idx <<= 8
		idx |= uint64(v)
	}
	return
}

type AccountQuerier struct {
	db     *state.StateDB
	logger cmtlog.Logger
}

func NewAccountQuerier(db *state.StateDB, logger cmtlog.Logger) (q *AccountQuerier) {
	q = &AccountQuerier{
		db:     db,
		logger: logger,
	}
	return
}

func (q *AccountQuerier) Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error) {
	res = &abcitypes.ResponseQuery{}
	var a *state.Account
	var height uint64
	if len(req.Data) == 20 {
		a, height, _ = q.db.GetAccountByAddress(req.Data)
	} else if len(req.Data) <= 8 {
		a, height, _ = q.db.GetAccountByIndex(decodeIndex(req.Data))
	}
	if a != nil {
		res.Value, _ = json.Marshal(a)
		res.Height = int64(height)
	} else {
		res.Code = 1
	}
	return
}

type CampaignQuerier struct {
	db     *state.StateDB
	logger cmtlog.Logger
}

func NewCampaignQuerier(db *state.StateDB, logger cmtlog.Logger) (q *CampaignQuerier) {
	q = &CampaignQuerier{
		db:     db,
		logger: logger,
	}
	return
}

func (q *CampaignQuerier) Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error) {
	res = &abcitypes.ResponseQuery{}
	if len(req.Data) > 8 {
		res.Code = 1
		return
	}
	c, height, _ := q.db.GetCampaign(decodeIndex(req.Data))
	if c == nil {
		res.Code = 1
		return
	}
	res.Value, _ = json.Marshal(c)
	res.Height = int64(height)
	return
}

type PoolQuerier struct {
	db     *state.StateDB
	logger cmtlog.Logger
}

func NewPoolQuerier(db *state.StateDB, logger cmtlog.Logger) (q *PoolQuerier) {
	q = &PoolQuerier{
		db:     db,
		logger: logger,
	}
	return
}

func (q *PoolQuerier) Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error) {
	res = &abcitypes.ResponseQuery{}
	if len(req.Data) > 8 {
		res.Code = 1
		return
	}
	p, height, _ := q.db.GetPool(decodeIndex(req.Data))
	if p == nil {
		res.Code = 1
		return
	}
	res.Value, _ = json.Marshal(p)
	res.Height = int64(height)
	return
}
