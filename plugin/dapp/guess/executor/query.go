// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	gty "github.com/33cn/guessnum/plugin/dapp/guess/types"
	"github.com/33cn/guessnum/system/dapp"
	"github.com/33cn/guessnum/types"
)

// Query_GetGameInfo 公开状态
func (g *Guess) Query_GetGameInfo(in *gty.ReqNil) (types.Message, error) {
	return readGame(g.GetStateDB())
}

// Query_GetSubmissionCount 已接受的提交数
func (g *Guess) Query_GetSubmissionCount(in *gty.ReqNil) (types.Message, error) {
	game, err := readGame(g.GetStateDB())
	if err != nil {
		return nil, err
	}
	return &gty.ReplyCount{Count: game.Submissions}, nil
}

// Query_GetPool 资金池余额
func (g *Guess) Query_GetPool(in *gty.ReqNil) (types.Message, error) {
	addr := dapp.ExecAddress(gty.GuessX)
	return &gty.ReplyPool{Addr: addr, Balance: g.GetCoinsAccount().LoadAccount(addr).GetBalance()}, nil
}
