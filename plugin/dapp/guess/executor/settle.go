// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"github.com/33cn/guessnum/common/field"
	gty "github.com/33cn/guessnum/plugin/dapp/guess/types"
)

// selectWinner 距离秘密数最近的玩家
//
// 只有严格更小才会替换, 距离相同时先提交的玩家获胜.
// 没有提交时 ok 为 false
func selectWinner(secret field.Element, subs []*gty.Submission) (winner string, best field.Element, ok bool) {
	best = field.MaxElem()
	for _, s := range subs {
		local := field.MaxElem()
		for _, g := range s.Guesses {
			d := field.Dist(g, secret)
			if field.Less(d, local) {
				local = d
			}
		}
		// 第一个提交总是暂时的赢家, 即使距离恰好是 MaxElem
		if !ok || field.Less(local, best) {
			winner, best, ok = s.Player, local, true
		}
	}
	return winner, best, ok
}

// payout 资金池的分配, 手续费不超过资金池.
// 手续费大于资金池时全部作为手续费, 见 DESIGN.md 的 Open Question decisions.
func payout(pool, fee int64) (feePaid, rest int64) {
	if pool <= 0 {
		return 0, 0
	}
	feePaid = fee
	if feePaid > pool {
		feePaid = pool
	}
	return feePaid, pool - feePaid
}
