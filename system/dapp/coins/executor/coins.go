// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package executor coins 是内置货币的执行器, 只提供转账
package executor

import (
	"github.com/33cn/guessnum/common/address"
	log "github.com/33cn/guessnum/common/log"
	drivers "github.com/33cn/guessnum/system/dapp"
	cty "github.com/33cn/guessnum/system/dapp/coins/types"
	"github.com/33cn/guessnum/types"
	"github.com/pkg/errors"
)

var clog = log.New("module", "execs.coins")

//Init 注册到宿主
func Init(reg *drivers.Registry) {
	reg.Register(cty.CoinsX, newCoins, 0)
}

//Coins 执行器
type Coins struct {
	drivers.DriverBase
}

func newCoins() drivers.Driver {
	c := &Coins{}
	c.SetChild(c)
	return c
}

//GetDriverName 名字
func (c *Coins) GetDriverName() string {
	return cty.CoinsX
}

func decodeTransfer(tx *types.Transaction) (*cty.AssetsTransfer, error) {
	var action cty.CoinsAction
	if err := types.Decode(tx.Payload, &action); err != nil {
		return nil, errors.Wrap(types.ErrDecode, err.Error())
	}
	if action.Ty != cty.CoinsActionTransfer || action.Transfer == nil {
		return nil, types.ErrActionNotSupport
	}
	return action.Transfer, nil
}

//CheckTx 检查转账参数
func (c *Coins) CheckTx(tx *types.Transaction, index int) error {
	transfer, err := decodeTransfer(tx)
	if err != nil {
		return err
	}
	if err := address.CheckAddress(transfer.To); err != nil {
		return errors.Wrapf(types.ErrInvalidAddress, "to %s", transfer.To)
	}
	if !types.CheckAmount(transfer.Amount) {
		return types.ErrAmount
	}
	return nil
}

//Exec 执行转账
func (c *Coins) Exec(tx *types.Transaction, index int) (*types.Receipt, error) {
	transfer, err := decodeTransfer(tx)
	if err != nil {
		return nil, err
	}
	from := tx.From()
	receipt, err := c.GetCoinsAccount().Transfer(from, transfer.To, transfer.Amount)
	if err != nil {
		clog.Error("Transfer", "from", from, "to", transfer.To, "amount", transfer.Amount, "err", err)
		return nil, err
	}
	return receipt, nil
}

//Query_GetBalance 查询余额
func (c *Coins) Query_GetBalance(in *cty.ReqBalance) (types.Message, error) {
	if len(in.Addrs) == 0 {
		return nil, types.ErrInvalidParam
	}
	return &cty.ReplyBalance{Accounts: c.GetCoinsAccount().LoadAccounts(in.Addrs)}, nil
}
