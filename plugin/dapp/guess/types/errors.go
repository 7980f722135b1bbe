// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"errors"

	"github.com/33cn/guessnum/types"
)

var (
	// ErrGameExists 游戏只能初始化一次
	ErrGameExists = errors.New("ErrGameExists")
	// ErrGameNotFound 游戏还没有初始化
	ErrGameNotFound = errors.New("ErrGameNotFound")
	// ErrGameInactive 游戏已经结束
	ErrGameInactive = errors.New("ErrGameInactive")
	// ErrOutOfWindow 当前高度不在提交窗口内
	ErrOutOfWindow = errors.New("ErrOutOfWindow")
	// ErrWindowNotClosed 提交窗口还没有结束, 不能结算
	ErrWindowNotClosed = errors.New("ErrWindowNotClosed")
	// ErrNotOrigin 只有创建者可以结算
	ErrNotOrigin = errors.New("ErrNotOrigin")
	// ErrNoGuesses 至少要猜一个数
	ErrNoGuesses = errors.New("ErrNoGuesses")
	// ErrInvalidGuess 猜测的数不是合法的域元素
	ErrInvalidGuess = errors.New("ErrInvalidGuess")
	// ErrPlayerMismatch 提交中的玩家不是交易的签名者
	ErrPlayerMismatch = errors.New("ErrPlayerMismatch")

	// ErrStateMismatch 公开状态和执行器内部状态不一致
	ErrStateMismatch = errors.New("ErrStateMismatch")
	// ErrCommitmentMismatch 秘密数和公开的哈希不一致
	ErrCommitmentMismatch = errors.New("ErrCommitmentMismatch")

	// ErrBalanceNotClosed 结算后资金池余额不为零
	ErrBalanceNotClosed = errors.New("ErrBalanceNotClosed")
)

func init() {
	types.RegisterErrClass(types.ErrClassPrecondition, ErrGameExists, ErrGameNotFound, ErrGameInactive,
		ErrOutOfWindow, ErrWindowNotClosed, ErrNotOrigin, ErrNoGuesses, ErrInvalidGuess, ErrPlayerMismatch)
	types.RegisterErrClass(types.ErrClassConsistency, ErrStateMismatch, ErrCommitmentMismatch)
	types.RegisterErrClass(types.ErrClassBalanceInvariant, ErrBalanceNotClosed)
}
