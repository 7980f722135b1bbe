// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import "github.com/33cn/guessnum/common/crypto/secp256k1"

// coin conversation
const (
	Coin      int64 = 1e8
	MaxCoin   int64 = 1e17
	MaxTxSize       = 100000 //100K
)

// 签名类型
const (
	SECP256K1 = secp256k1.ID
)

// 执行结果
const (
	ExecErr  = 0
	ExecPack = 1
	ExecOk   = 2
)

// 系统 log 类型, 各个 dapp 从 100 以后自己分配
const (
	TyLogErr      = 1
	TyLogFee      = 2
	TyLogTransfer = 3
	TyLogGenesis  = 4
	TyLogDeposit  = 5
)

// 系统执行器
const (
	CoinsX = "coins"
)

func init() {
	RegisterLogType(TyLogErr, "LogErr")
	RegisterLogType(TyLogFee, "LogFee")
	RegisterLogType(TyLogTransfer, "LogTransfer")
	RegisterLogType(TyLogGenesis, "LogGenesis")
	RegisterLogType(TyLogDeposit, "LogDeposit")
}
