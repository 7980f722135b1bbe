// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package types coins 执行器的交易结构
package types

import (
	"github.com/33cn/guessnum/common/crypto"
	"github.com/33cn/guessnum/types"
)

// action type
const (
	CoinsActionTransfer = 1
)

// CoinsX 执行器名字
const CoinsX = types.CoinsX

//CoinsAction coins 交易的 payload
type CoinsAction struct {
	Ty       int32           `json:"ty"`
	Transfer *AssetsTransfer `json:"transfer,omitempty"`
}

//AssetsTransfer 转账
type AssetsTransfer struct {
	To     string `json:"to"`
	Amount int64  `json:"amount"`
	Note   string `json:"note,omitempty"`
}

//ReqBalance 查询余额
type ReqBalance struct {
	Addrs []string `json:"addrs"`
}

//ReplyBalance 余额
type ReplyBalance struct {
	Accounts []*types.Account `json:"accounts"`
}

//CreateTransferTx 构造签名的转账交易
func CreateTransferTx(priv crypto.PrivKey, to string, amount int64, nonce int64) *types.Transaction {
	action := &CoinsAction{
		Ty:       CoinsActionTransfer,
		Transfer: &AssetsTransfer{To: to, Amount: amount},
	}
	tx := &types.Transaction{Execer: []byte(CoinsX), Payload: types.Encode(action), Nonce: nonce}
	tx.Sign(types.SECP256K1, priv)
	return tx
}
