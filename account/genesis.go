// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package account

import (
	"math"

	"github.com/33cn/guessnum/types"
)

// GenesisInit 凭空给地址发放资产, 只在创世以及模拟时使用
func (acc *DB) GenesisInit(addr string, amount int64) (receipt *types.Receipt, err error) {
	if !types.CheckAmount(amount) {
		return nil, types.ErrAmount
	}
	accTo := acc.LoadAccount(addr)
	copyto := *accTo
	accTo.Balance, err = safeAdd(accTo.GetBalance(), amount)
	if err != nil {
		return nil, err
	}
	receiptBalanceTo := &types.ReceiptAccountTransfer{
		Prev:    &copyto,
		Current: accTo,
	}
	if err = acc.SaveAccount(accTo); err != nil {
		return nil, err
	}
	return acc.genesisReceipt(accTo, receiptBalanceTo), nil
}

func (acc *DB) genesisReceipt(accTo *types.Account, receiptTo *types.ReceiptAccountTransfer) *types.Receipt {
	log2 := &types.ReceiptLog{
		Ty:  types.TyLogGenesis,
		Log: types.Encode(receiptTo),
	}
	return &types.Receipt{
		Ty:   types.ExecOk,
		KV:   acc.GetKVSet(accTo),
		Logs: []*types.ReceiptLog{log2},
	}
}

func safeAdd(balance, amount int64) (int64, error) {
	if amount < 0 || balance > math.MaxInt64-amount {
		return balance, types.ErrAmount
	}
	return balance + amount, nil
}
